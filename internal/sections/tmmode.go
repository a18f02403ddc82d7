package sections

// TMMode holds the transmission-mode parameters selected by tm_mode_index
// in [0,11] (§3 psdef): N_TX (physical antennas), N_TS (transmit
// streams), N_SS (spatial streams), N_eff_TX (effective TX count as seen
// at the receiver), and whether the mode is closed-loop (uses a
// beamforming codebook index from the TX descriptor).
//
// tmmode.hpp/.cpp were not present in original_source's filtered pack
// (see DESIGN.md); this table is reconstructed from the invariants
// spec.md states explicitly: N_eff_TX in {1,2,4,8}, N_eff_TX=4 requiring
// >=15 symbols, mu=8/N_eff_TX=8 requiring a 10-symbol-aligned packet, and
// N_eff_TX monotonically bounded by N_TX.
type TMMode struct {
	Index      uint32
	NTX        uint32
	NTS        uint32
	NSS        uint32
	NEffTX     uint32
	ClosedLoop bool
}

var tmModeTable = [12]TMMode{
	{0, 1, 1, 1, 1, false},
	{1, 2, 2, 1, 2, false}, // transmit diversity
	{2, 2, 2, 2, 2, false}, // open-loop spatial multiplexing
	{3, 2, 1, 1, 1, false}, // beamformed single stream
	{4, 2, 2, 2, 2, true},  // closed-loop spatial multiplexing
	{5, 4, 4, 1, 4, false},
	{6, 4, 4, 2, 4, false},
	{7, 4, 4, 4, 4, false},
	{8, 4, 4, 4, 4, true},
	{9, 8, 8, 1, 8, false},
	{10, 8, 8, 2, 8, false},
	{11, 8, 8, 8, 8, false},
}

// GetTMMode returns the TMMode record for index in [0,11].
func GetTMMode(index uint32) (TMMode, bool) {
	if index > 11 {
		return TMMode{}, false
	}
	return tmModeTable[index], true
}

// MaxTMModeIndexForNTX returns the largest tm_mode_index whose N_TX does
// not exceed nTX, mirroring
// original_source's tmmode::get_max_tm_mode_index_depending_on_N_TX used
// by packet_sizes.cpp to derive the maximum packet size per radio device
// class.
func MaxTMModeIndexForNTX(nTX uint32) uint32 {
	best := uint32(0)
	for _, m := range tmModeTable {
		if m.NTX <= nTX && m.Index > best {
			best = m.Index
		}
	}
	return best
}

// AdmissibleNEffTX lists the N_eff_TX values a receiver with nTXRadio
// transmit-capable antennas on the far end could plausibly see, used by
// the crosscorrelator's per-template search (§4.5): "one per admissible
// N_eff_TX in {1,2,4,8} up to N_TX of the radio device class".
func AdmissibleNEffTX(nTXRadio uint32) []uint32 {
	all := []uint32{1, 2, 4, 8}
	out := make([]uint32, 0, len(all))
	for _, v := range all {
		if v <= nTXRadio {
			out = append(out, v)
		}
	}
	return out
}

// RadioDeviceClass governs which psdef combinations are admissible for a
// given piece of hardware (§4.5's "radio device class"). Supplemented
// from original_source/lib/include/dectnrp/sections_part3/
// radio_device_class.hpp (referenced but not included in the filtered
// pack; reconstructed from its usage in packet_sizes.cpp's
// get_maximum_packet_sizes, which reads u_min/b_min/PacketLength_min/
// N_TX_min/mcs_index_min/Z_min fields).
type RadioDeviceClass struct {
	UMin            uint32
	BMin            uint32
	PacketLengthMin uint32
	NTXMin          uint32
	MCSIndexMin     uint32
	ZMin            uint32
}

// DefaultRadioDeviceClass is a representative class covering the full
// range exercised by this repo's tests: mu up to 8, beta up to 16, up to
// 8 TX antennas.
var DefaultRadioDeviceClass = RadioDeviceClass{
	UMin:            8,
	BMin:            16,
	PacketLengthMin: 16,
	NTXMin:          8,
	MCSIndexMin:     9,
	ZMin:            6144,
}
