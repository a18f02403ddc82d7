package rxpipe

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/chestim"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/logging"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sections"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/txpipe"
)

var log = logging.For("rxpipe")

// Result carries the decoded PCC/PDC outcome for one synchronized
// packet, grounded on rx_synced_t's per-packet result record.
type Result struct {
	PCCBits []byte
	PDC     []byte
	CRCOK   bool
	SNRdB   float64
}

// Pipeline runs the full §4.5 receive chain for one psdef's samples,
// already STF-aligned (the caller strips the STF using sync.Report's
// SyncTime64 before calling Decode).
type Pipeline struct {
	Sizes       sections.DerivedPacketSizes
	DopplerNorm float64 // assumed channel Doppler, see internal/chestim
	DelaySpread float64
}

// Decode demodulates dataField (exactly Sizes.NSamplesDF samples, the
// data field with STF and GI already removed) into PCC and PDC results.
func (p Pipeline) Decode(dataField sample.Vector) (Result, error) {
	s := p.Sizes
	nbDFT := s.Numerology.NbDFT
	nbCP := s.Numerology.NbCP
	symbolLen := int(nbDFT + nbCP)

	if len(dataField) < symbolLen*int(s.NDFSymb) {
		return Result{}, fmt.Errorf("rxpipe: data field too short: have %d, need %d", len(dataField), symbolLen*int(s.NDFSymb))
	}

	grid := ofdmDemodulate(dataField, s.NDFSymb, nbDFT, nbCP, s.Numerology.NGuardsBottom)

	drs := sections.NewDRSPlacement(s.NDFSymb, s.TMMode.NEffTX, s.Numerology.NbOCC)
	channel, snrEstimate := estimateChannel(grid, drs, p.DopplerNorm, p.DelaySpread)

	equalized := equalize(grid, channel)

	pccCells := sections.PCCCellMap(drs)
	pdcCells := sections.PDCCellMap(drs)
	if pccCells == nil {
		return Result{}, fmt.Errorf("rxpipe: psdef does not admit a PCC placement")
	}

	pccSymbols := make(sample.Vector, len(pccCells))
	for i, c := range pccCells {
		pccSymbols[i] = equalized[c.SymbolIndex][c.SubcarrierOffset]
	}
	pdcSymbols := make(sample.Vector, len(pdcCells))
	for i, c := range pdcCells {
		pdcSymbols[i] = equalized[c.SymbolIndex][c.SubcarrierOffset]
	}

	pccBits := txpipe.Demodulate(pccSymbols, 2)
	pdcCoded := txpipe.Demodulate(pdcSymbols, s.MCS.NBps)

	tb, crcOK := txpipe.DecodeTransportBlock(pdcCoded, s.NTBBits)

	log.Debug("decoded packet", "crc_ok", crcOK, "snr_db", snrEstimate)
	return Result{PCCBits: pccBits, PDC: tb, CRCOK: crcOK, SNRdB: snrEstimate}, nil
}

func ofdmDemodulate(dataField sample.Vector, nDFSymb, nbDFT, nbCP, nGuardsBottom uint32) [][]sample.Complex {
	fft := fourier.NewCmplxFFT(int(nbDFT))
	grid := make([][]sample.Complex, nDFSymb)
	symbolLen := int(nbDFT + nbCP)

	for l := uint32(0); l < nDFSymb; l++ {
		start := int(l) * symbolLen
		symbol := dataField[start+int(nbCP) : start+symbolLen]

		td := make([]complex128, nbDFT)
		for i, v := range symbol {
			td[i] = complex128(v)
		}
		freq := fft.Coefficients(nil, td)

		row := make([]sample.Complex, nbDFT)
		for k, v := range freq {
			row[k] = sample.Complex(complex(real(v), imag(v)))
		}
		// rotate so subcarrier offset 0 aligns with nGuardsBottom, the
		// inverse of ofdmModulate's placement.
		aligned := make([]sample.Complex, nbDFT)
		for k := range aligned {
			aligned[k] = row[(int(nGuardsBottom)+k)%int(nbDFT)]
		}
		grid[l] = aligned
	}
	return grid
}

func estimateChannel(grid [][]sample.Complex, drs sections.DRSPlacement, dopplerNorm, delaySpread float64) ([][]sample.Complex, float64) {
	var pilotOffsets []chestim.Offset
	var pilotObs []complex64
	for l := uint32(0); l < drs.NDFSymb; l++ {
		for k := uint32(0); k < drs.NbOCC; k++ {
			if drs.IsDRSCell(l, k) {
				pilotOffsets = append(pilotOffsets, chestim.Offset{DF: float64(k), DT: float64(l)})
				est := grid[l][k] / txpipe.DRSPilotSymbol
				pilotObs = append(pilotObs, complex64(est))
			}
		}
	}

	channel := make([][]sample.Complex, drs.NDFSymb)
	for l := range channel {
		channel[l] = make([]sample.Complex, drs.NbOCC)
	}

	if len(pilotOffsets) == 0 {
		for l := range channel {
			for k := range channel[l] {
				channel[l][k] = 1
			}
		}
		return channel, 0
	}

	wf := chestim.NewWienerFilter(pilotOffsets, dopplerNorm, delaySpread)
	var errEnergy, sigEnergy float64
	for l := uint32(0); l < drs.NDFSymb; l++ {
		for k := uint32(0); k < drs.NbOCC; k++ {
			target := chestim.Offset{DF: float64(k), DT: float64(l)}
			channel[l][k] = sample.Complex(wf.Estimate(pilotObs, target))
		}
	}
	for i, p := range pilotOffsets {
		est := sample.Complex(wf.Estimate(pilotObs, p))
		diff := est - pilotObs[i]
		errEnergy += float64(sample.Power(diff))
		sigEnergy += float64(sample.Power(pilotObs[i]))
	}
	return channel, EstimateSNRFromResidual(sigEnergy, errEnergy)
}

func equalize(grid, channel [][]sample.Complex) [][]sample.Complex {
	out := make([][]sample.Complex, len(grid))
	for l := range grid {
		out[l] = make([]sample.Complex, len(grid[l]))
		for k := range grid[l] {
			h := channel[l][k]
			if sample.Power(h) < 1e-12 {
				out[l][k] = 0
				continue
			}
			out[l][k] = grid[l][k] / h
		}
	}
	return out
}
