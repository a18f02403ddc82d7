package sections

// DRSPlacement describes which cells of the data field carry the
// Dedicated Reference Signal (DRS, the pilot grid of §4.8) rather than
// PCC/PDC payload. Cells are addressed as (symbolIndex, subcarrierOffset)
// within the data field, where symbolIndex runs 0..N_DF_symb-1 (the STF
// is not part of this indexing) and subcarrierOffset runs 0..N_b_OCC-1.
//
// Grounded on original_source/lib/src/sections_part3/pdc.cpp's
// is_symbol_index/get_nof_OFDM_symbols_carrying_DRS_per_TS, and on the
// comb structure described by §4.8 ("every 4th subcarrier, offset by
// transmit stream"). pdc.cpp's exact repeating-window indexing
// (l_limit/l_repeat) and per-TS comb construction from drs.cpp were not
// both present in the filtered pack; the comb below is the simplest
// placement consistent with N_DRS_subc = N_eff_TX * N_b_OCC/4 * nof_DRS_symbols
// for N_eff_TX in {1,2,4} (the three MIMO modes §8 exercises). N_eff_TX=8
// is a documented simplification: see DESIGN.md's Open Question entry on
// spatial multiplexing N_SS>1 combining.
type DRSPlacement struct {
	Mu, NEffTX, NbOCC uint32
	NDFSymb           uint32
	NStep             uint32
	combModulus       uint32
}

// NewDRSPlacement builds the DRS placement for a data field of nDFSymb
// OFDM symbols, nEffTX effective transmit streams, and nbOCC occupied
// subcarriers per symbol.
func NewDRSPlacement(nDFSymb, nEffTX, nbOCC uint32) DRSPlacement {
	nStep := uint32(5)
	if nEffTX > 2 {
		nStep = 10
	}
	comb := nEffTX
	if comb > 4 {
		comb = 4
	}
	return DRSPlacement{NEffTX: nEffTX, NbOCC: nbOCC, NDFSymb: nDFSymb, NStep: nStep, combModulus: comb}
}

// IsDRSSymbol reports whether data-field symbol index l carries any DRS,
// mirroring pdc_t::is_symbol_index's repeating-window check: the first
// DRS symbol is at index NStep-1 (0-based) and then every NStep symbols
// thereafter, with a trailing DRS symbol forced at the last symbol of
// the data field when N_DF_symb is not a multiple of NStep.
func (d DRSPlacement) IsDRSSymbol(l uint32) bool {
	if d.NStep == 0 {
		return false
	}
	if (l+1)%d.NStep == 0 {
		return true
	}
	return l == d.NDFSymb-1 && d.NDFSymb%d.NStep != 0
}

// IsDRSCell reports whether the cell at (symbolIndex, subcarrierOffset)
// carries DRS for any transmit stream, i.e. whether PCC/PDC must treat it
// as reserved.
func (d DRSPlacement) IsDRSCell(symbolIndex, subcarrierOffset uint32) bool {
	if !d.IsDRSSymbol(symbolIndex) {
		return false
	}
	return subcarrierOffset%4 < d.combModulus
}

// NofDRSSymbols returns the count of data-field symbols carrying DRS,
// matching pdc_t::get_nof_OFDM_symbols_carrying_DRS_per_TS.
func (d DRSPlacement) NofDRSSymbols() uint32 {
	var n uint32
	for l := uint32(0); l < d.NDFSymb; l++ {
		if d.IsDRSSymbol(l) {
			n++
		}
	}
	return n
}
