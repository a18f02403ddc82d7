package sync

import (
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/logging"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sections"
)

var log = logging.For("sync")

// ChunkParam configures one sync worker's per-chunk run of the
// three-stage pipeline, grounded on sync_param.hpp.
type ChunkParam struct {
	Mu, Beta            uint32
	DetectionThreshold  float32
	DetectionWindowPatterns int
	NTXRadio            uint32
}

// Chunk runs detection, coarse peak, and fine peak over one chunk of
// samples and returns every Report found, in ascending SyncTime64 order.
// Grounded on sync_chunk_t's per-chunk driver loop.
func Chunk(chunkStart64 int64, samples sample.Vector, p ChunkParam) []Report {
	lag := PatternLength(p.Beta)
	if lag <= 0 || len(samples) <= lag {
		return nil
	}

	det := NewDetectionMetric(lag, p.DetectionWindowPatterns)
	var reports []Report

	template := STFTemplate(p.Mu, p.Beta)
	candidates := sections.AdmissibleNEffTX(p.NTXRadio)

	i := 0
	for i < len(samples) {
		m := det.Push(samples[i])
		if m < p.DetectionThreshold {
			i++
			continue
		}

		searchStart := i - lag
		if searchStart < 0 {
			searchStart = 0
		}
		searchEnd := i + lag*int(sections.STFPatterns(p.Mu))
		if searchEnd > len(samples) {
			searchEnd = len(samples)
		}
		win := samples[searchStart:searchEnd]

		coarse := FindCoarsePeak(win, lag)
		if coarse.Index < 0 {
			i++
			continue
		}

		fineWinStart := searchStart + coarse.Index
		fineWinEnd := fineWinStart + len(template) + lag
		if fineWinEnd > len(samples) {
			fineWinEnd = len(samples)
		}
		if fineWinStart >= fineWinEnd {
			i++
			continue
		}
		fine := FindFinePeak(samples[fineWinStart:fineWinEnd], template, candidates)
		if fine.Index < 0 {
			i++
			continue
		}

		report := Report{
			SyncTime64:  chunkStart64 + int64(fineWinStart+fine.Index),
			CFOEstimate: coarse.CFOEstimate,
			SNRdB:       fine.SNRdB,
			NEffTX:      fine.NEffTX,
			Beta:        p.Beta,
			Mu:          p.Mu,
		}
		reports = append(reports, report)
		log.Debug("sync report", "sync_time", report.SyncTime64, "snr_db", report.SNRdB)

		i = fineWinStart + fine.Index + len(template)
	}

	return reports
}
