package sections

// PDCCellMap returns the linear cell assignment for the PDC (physical
// data channel, §4.13/5.2.5): every available cell after PCCCells have
// been consumed by PCCCellMap, in the same symbol-then-frequency order
// (see pcc.go's availableCells doc comment for why sequential order is
// used in place of pdc.cpp's virtual-frame algorithm). For N_eff_TX in
// {1,2,4} the length of the returned slice equals the N_PDC_subc that
// GetPacketSizes computed for the same (nDFSymb, nEffTX, nbOCC) triple.
// For N_eff_TX=8 it does not: DRSPlacement reserves N_b_OCC cells per DRS
// symbol while GetPacketSizes counts 2*N_b_OCC, so the slice is longer.
func PDCCellMap(drs DRSPlacement) []Cell {
	all := availableCells(drs)
	if len(all) <= PCCCells {
		return nil
	}
	out := make([]Cell, len(all)-PCCCells)
	copy(out, all[PCCCells:])
	return out
}
