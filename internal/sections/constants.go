// Package sections implements the DECT NR+ physical-layer data model of
// §3: numerologies, MCS, transmission modes, and the packet-size
// derivation (psdef -> derived packet-sizes record), plus the STF/DRS/
// PCC/PDC subcarrier placement state machines of §4.13.
//
// Grounded on original_source/lib/include/dectnrp/constants.hpp and
// sections_part3/*.
package sections

// Constants mirrored from constants.hpp (ETSI TS 103 636-3).
const (
	NbDFTMin               = 64
	NbCPMin                = 8
	SubcarrierSpacingMinUB = 27000 // Hz, for u=1, b=1
	SampRateMinUB          = 1728000

	SlotsPerSec = 2400

	NStfPatternU1   = 7
	NStfPatternU248 = 9
	NSamplesStfPattern = 16
	NSamplesStfU1   = NStfPatternU1 * NSamplesStfPattern
	NSamplesStfU248 = NStfPatternU248 * NSamplesStfPattern

	NTSMax = 8

	PLCFType1Bits = 40
	PLCFType2Bits = 80
	PCCBits       = 196
	PCCCells      = 98

	RVMax = 3
)
