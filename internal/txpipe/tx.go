package txpipe

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/logging"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sections"
	phsync "github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sync"
)

var log = logging.For("txpipe")

// DRSPilotSymbol is the fixed QPSK value written to every DRS cell, used
// as the known reference the RX channel estimator correlates against.
const DRSPilotSymbol = sample.Complex(complex(0.70710678, 0.70710678))

// Pipeline runs the full §4.2 transmit chain for one psdef, producing
// base-rate time-domain samples per transmit antenna, STF-prepended,
// ready to be fed to internal/resample.
type Pipeline struct {
	Sizes sections.DerivedPacketSizes
}

// Encode turns a transport block into per-antenna time-domain samples.
func (p Pipeline) Encode(tb []byte) ([]sample.Vector, error) {
	s := p.Sizes
	coded := EncodeTransportBlock(tb, s.NTBBits, s.G)
	pdcSymbols := Modulate(coded, s.MCS.NBps)

	// PLCF placeholder: this repo does not implement a full PLCF field
	// encoder (§4.12 blind type-1/2 decode is the RX-side counterpart
	// still pending); PCC carries a fixed all-zero PLCF payload so the
	// round trip this repo tests (TX->RX PDC recovery) is exercised
	// without depending on an unimplemented upper layer.
	plcfBits := make([]byte, sections.PCCBits)
	pccSymbols := Modulate(plcfBits, 2)

	drs := sections.NewDRSPlacement(s.NDFSymb, s.TMMode.NEffTX, s.Numerology.NbOCC)
	pccCells := sections.PCCCellMap(drs)
	pdcCells := sections.PDCCellMap(drs)
	if pccCells == nil {
		return nil, fmt.Errorf("txpipe: psdef does not admit a PCC placement")
	}

	grid := make([][]sample.Complex, s.NDFSymb)
	for l := range grid {
		grid[l] = make([]sample.Complex, s.Numerology.NbOCC)
	}
	for i, c := range pccCells {
		if i < len(pccSymbols) {
			grid[c.SymbolIndex][c.SubcarrierOffset] = pccSymbols[i]
		}
	}
	for i, c := range pdcCells {
		if i < len(pdcSymbols) {
			grid[c.SymbolIndex][c.SubcarrierOffset] = pdcSymbols[i]
		}
	}
	for l := uint32(0); l < s.NDFSymb; l++ {
		for k := uint32(0); k < s.Numerology.NbOCC; k++ {
			if drs.IsDRSCell(l, k) {
				grid[l][k] = DRSPilotSymbol
			}
		}
	}

	stream := ofdmModulate(grid, s.Numerology.NbDFT, s.Numerology.NbCP, s.Numerology.NGuardsBottom)

	streams := Precode([]sample.Vector{stream}, s.TMMode.NTS)

	stf := phsync.STFTemplate(s.Def.Mu, s.Def.Beta)
	out := make([]sample.Vector, len(streams))
	for i, st := range streams {
		full := make(sample.Vector, 0, len(stf)+len(st))
		full = append(full, stf...)
		full = append(full, st...)
		out[i] = full
	}

	log.Debug("encoded packet", "n_tb_bits", s.NTBBits, "n_df_symb", s.NDFSymb, "n_ts", s.TMMode.NTS)
	return out, nil
}

// ofdmModulate IFFTs each OFDM symbol's frequency-domain cells (placed
// starting at guard-band offset nGuardsBottom within an nbDFT-point
// block) and prepends a cyclic prefix of nbCP samples.
func ofdmModulate(grid [][]sample.Complex, nbDFT, nbCP, nGuardsBottom uint32) sample.Vector {
	fft := fourier.NewCmplxFFT(int(nbDFT))
	out := make(sample.Vector, 0, len(grid)*int(nbDFT+nbCP))

	for _, symbolCells := range grid {
		freq := make([]complex128, nbDFT)
		for k, v := range symbolCells {
			idx := (int(nGuardsBottom) + k) % int(nbDFT)
			freq[idx] = complex128(v)
		}
		td := fft.Sequence(nil, freq)

		symbol := make(sample.Vector, nbDFT)
		for i, v := range td {
			symbol[i] = sample.Complex(complex(real(v), imag(v)))
		}

		out = append(out, symbol[len(symbol)-int(nbCP):]...)
		out = append(out, symbol...)
	}
	return out
}
