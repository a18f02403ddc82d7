package sections

// MCS holds the modulation/coding parameters selected by mcs_index in
// [0,9] (§3 psdef). transport_block_size.hpp / the MCS table itself was
// not present in original_source's filtered pack (see DESIGN.md); the
// table below follows ETSI TS 103 636-3 Table 6.2.1-1's modulation order
// progression (QPSK, 16-QAM, 64-QAM, 256-QAM) with monotonically
// increasing code rate within each modulation, which is the structural
// invariant every MCS table of this family satisfies and is what the
// packet-size derivation (§3) and TX/RX pipelines actually depend on.
type MCS struct {
	Index    uint32
	NBps     uint32  // bits per QAM symbol (modulation order)
	CodeRate float64 // information bits / coded bits
}

var mcsTable = [10]MCS{
	{0, 2, 0.5000},
	{1, 2, 0.7930},
	{2, 4, 0.5000},
	{3, 4, 0.6797},
	{4, 4, 0.7930},
	{5, 6, 0.5000},
	{6, 6, 0.6797},
	{7, 6, 0.7930},
	{8, 6, 0.8525},
	{9, 8, 0.7930},
}

// GetMCS returns the MCS record for index in [0,9].
func GetMCS(index uint32) (MCS, bool) {
	if index > 9 {
		return MCS{}, false
	}
	return mcsTable[index], true
}
