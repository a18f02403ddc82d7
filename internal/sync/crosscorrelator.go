package sync

import (
	"math"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
)

// FinePeak is the result of stage c (§4.4): the sample-accurate start of
// the STF, an SNR estimate from the ratio of the peak correlation
// magnitude to the mean magnitude over all offsets, and an N_eff_TX value.
// NEffTX is the first admissible candidate (or 1 when there is none); it
// is not measured, since one template serves every N_eff_TX.
// Grounded on crosscorrelator_t.
type FinePeak struct {
	Index  int
	SNRdB  float64
	NEffTX uint32
}

// FindFinePeak cross-correlates win once against the known STF waveform
// (the template does not vary by N_eff_TX in this repo's simplified
// model, see stf.go, so no per-N_eff_TX search is run) and returns the
// offset of the strongest match with an SNR estimate taken from it.
func FindFinePeak(win sample.Vector, template sample.Vector, nEffTXCandidates []uint32) FinePeak {
	best := FinePeak{Index: -1}
	if len(win) < len(template) || len(template) == 0 {
		return best
	}

	var peakCorr float64
	var sumCorr float64
	var count int

	for i := 0; i+len(template) <= len(win); i++ {
		var acc sample.Complex
		for k, t := range template {
			acc += conj(t) * win[i+k]
		}
		mag := math.Sqrt(float64(sample.Power(acc)))
		sumCorr += mag
		count++
		if mag > peakCorr {
			peakCorr = mag
			best.Index = i
		}
	}

	if count > 0 && peakCorr > 0 {
		avg := sumCorr / float64(count)
		if avg > 0 {
			best.SNRdB = 20 * math.Log10(peakCorr/avg)
		}
	}
	if len(nEffTXCandidates) > 0 {
		best.NEffTX = nEffTXCandidates[0]
	} else {
		best.NEffTX = 1
	}
	return best
}
