package rxpipe

// EstimateAoA is a stub: angle-of-arrival estimation requires a
// calibrated multi-antenna array geometry this repo's psdef/config
// surface does not model. Grounded on estimator_aoa_t being present in
// original_source purely as an optional post-processing hook; left
// unimplemented per the same class of documented simplification as
// N_SS>1 PDC combining (see DESIGN.md), returning ok=false rather than a
// fabricated angle.
func EstimateAoA(channelPerAntenna []complex64) (angleRad float64, ok bool) {
	if len(channelPerAntenna) < 2 {
		return 0, false
	}
	return 0, false
}
