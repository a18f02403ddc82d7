package sections

import "math/bits"

// Numerology holds the values derived purely from (mu, beta), grounded on
// original_source/lib/include/dectnrp/sections_part3/numerologies.hpp /
// numerologies.cpp.
type Numerology struct {
	Mu, Beta uint32

	DeltaUF     uint32  // subcarrier spacing in Hz
	TUSymb      float64 // OFDM symbol duration in seconds
	NSlotUSymb  uint32  // OFDM symbols per slot
	NSlotUSubslot uint32

	NbDFT uint32 // FFT size
	NbCP  uint32 // cyclic prefix length
	NbOCC uint32 // occupied subcarriers

	NGuardsTop    uint32
	NGuardsBottom uint32
}

// IsValidMu reports whether mu is one of {1,2,4,8}.
func IsValidMu(mu uint32) bool {
	return bits.OnesCount32(mu) == 1 && mu <= 8
}

// IsValidBeta reports whether beta is one of {1,2,4,8,12,16}.
func IsValidBeta(beta uint32) bool {
	return beta == 12 || (bits.OnesCount32(beta) == 1 && beta <= 16)
}

// GetNumerologies computes the Numerology record for (mu, beta).
func GetNumerologies(mu, beta uint32) Numerology {
	var n Numerology
	n.Mu = mu
	n.Beta = beta

	n.DeltaUF = mu * SubcarrierSpacingMinUB
	n.TUSymb = (64.0 + 8.0) / 64.0 / float64(n.DeltaUF)
	n.NSlotUSymb = mu * 10
	n.NSlotUSubslot = mu * 2

	n.NbDFT = beta * 64
	n.NbCP = beta * 8
	n.NbOCC = beta * 56

	n.NGuardsTop = (n.NbDFT-n.NbOCC)/2 - 1
	n.NGuardsBottom = n.NGuardsTop + 1

	return n
}

// STFPatterns returns the number of STF patterns (N_patterns of §4.3): 7
// for mu=1, 9 for mu>=2.
func STFPatterns(mu uint32) uint32 {
	if mu == 1 {
		return NStfPatternU1
	}
	return NStfPatternU248
}

// STFLength returns the STF length in base-rate samples, scaled by beta
// (glossary: "periodic preamble of 7 or 9 patterns of 16 base samples,
// scaled by beta").
func STFLength(mu, beta uint32) uint32 {
	return STFPatterns(mu) * NSamplesStfPattern * beta
}
