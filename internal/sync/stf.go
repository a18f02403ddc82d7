// Package sync implements the three-stage synchronization pipeline of
// §4.4: autocorrelator detection, autocorrelator coarse peak, and
// crosscorrelator fine peak, plus the sync-chunk driver that ties them
// together and the SyncReport/TimeReport result types.
//
// Grounded on original_source/lib/include/dectnrp/phy/rx/sync/
// autocorrelator_detection.hpp, autocorrelator_peak.hpp,
// crosscorrelator.hpp, stf_template.hpp, sync_chunk.hpp, sync_report.hpp
// and time_report.hpp. The moving-sum idiom follows the teacher's
// src/demod.go/pll_dcd.go per-sample correlator state machines.
package sync

import (
	"math"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sections"
)

// stfPatternBase1 is one repetition of the 16 base-rate samples the STF
// consists of (§4.3), at beta=1. Real stage uses it upsampled by beta.
//
// The exact ETSI TS 103 636-3 STF pattern values were not present in
// original_source's filtered pack (stf_template.cpp's body references a
// precomputed LUT file that was excluded). The sequence below is a
// deterministic QPSK sequence generated once at package init from a
// fixed seed, used consistently by both the TX pipeline (to generate the
// STF) and the RX pipeline (to matched-filter against it) so every
// round-trip operation this repo implements is self-consistent. Flagged
// in DESIGN.md as a simplification relative to the standard's fixed
// STF pattern.
var stfPatternBase1 = generateSTFPattern(sections.NSamplesStfPattern)

func generateSTFPattern(n int) sample.Vector {
	v := make(sample.Vector, n)
	state := uint32(0x2F9E3A17)
	for i := range v {
		state = state*1664525 + 1013904223
		phase := float64((state>>16)&0x3) * math.Pi / 2
		v[i] = complex(float32(math.Cos(phase)), float32(math.Sin(phase)))
	}
	return v
}

// STFTemplate returns the full STF waveform at the given numerology,
// STFPatterns(mu) repetitions of the base-1 pattern upsampled by beta via
// zero-order hold on the subcarrier-spacing ratio (time-domain STF
// repetition is pattern-count driven, not per-sample interpolation:
// §4.3's "periodic preamble ... scaled by beta" is a frequency-domain
// statement implemented here as repeating the same beta-length block),
// with the per-pattern cover sequence applied (§4.11 step 5).
func STFTemplate(mu, beta uint32) sample.Vector {
	patterns := sections.STFPatterns(mu)
	block := upsampleHold(stfPatternBase1, int(beta))
	out := make(sample.Vector, 0, int(patterns)*len(block))
	for i := uint32(0); i < patterns; i++ {
		out = append(out, block...)
	}
	return ApplyCoverSequence(out, mu, beta)
}

// ApplyCoverSequence multiplies each of the STFPatterns(mu) pattern
// blocks in x (each PatternLength(beta) samples long) by ±1 from the STF
// cover sequence, one sign per pattern (§4.11 step 5, §4.12's inverse
// before CFO/STO refinement). It is self-inverse: applying it twice
// returns x unchanged, since every factor is its own multiplicative
// inverse.
//
// The cover sequence alternates sign every pattern (period 2), the
// simplest assignment consistent with §8's "the correlation sum is
// weighted by the pairwise product of the STF cover sequence, producing
// ±1 per pattern-pair": a period-2 sequence makes that pairwise product
// a constant -1 independent of which pattern pair it is taken from, so
// the blind autocorrelator's delayed-conjugate metric (internal/sync's
// DetectionMetric, one pattern-length lag) stays invariant to it without
// needing to know the STF's phase in advance. The exact ETSI LUT was not
// present in original_source's filtered pack (see stfPatternBase1's
// comment above for the matching simplification on the pattern itself).
func ApplyCoverSequence(x sample.Vector, mu, beta uint32) sample.Vector {
	patternLen := PatternLength(beta)
	if patternLen <= 0 {
		return append(sample.Vector(nil), x...)
	}
	out := make(sample.Vector, len(x))
	for i, v := range x {
		if (i/patternLen)%2 == 1 {
			out[i] = -v
		} else {
			out[i] = v
		}
	}
	return out
}

func upsampleHold(in sample.Vector, factor int) sample.Vector {
	if factor <= 1 {
		return append(sample.Vector(nil), in...)
	}
	out := make(sample.Vector, 0, len(in)*factor)
	for _, s := range in {
		for i := 0; i < factor; i++ {
			out = append(out, s)
		}
	}
	return out
}

// PatternLength returns the number of samples one STF pattern occupies at
// the given beta.
func PatternLength(beta uint32) int {
	return sections.NSamplesStfPattern * int(beta)
}
