package sync

import (
	"math"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
)

// CoarsePeak is the result of stage b (§4.4): the sample index (relative
// to the search window's start) of the strongest autocorrelation peak,
// and the fractional CFO estimate derived from its phase. Grounded on
// autocorrelator_peak.hpp's "search a window around the detection for
// the true maximum, then read CFO off the correlation phase" approach.
type CoarsePeak struct {
	Index       int
	CFOEstimate float64 // radians per sample
	Metric      float32
}

// FindCoarsePeak scans win (already known to contain at least one STF
// pattern period worth of repeating structure) for the sample index that
// maximizes the single-lag autocorrelation, and reads the coarse CFO
// estimate off that peak's phase: the phase rotation between a sample
// and its lag-shifted twin accumulates at 2*pi*CFO*Ts per sample, so one
// lag's worth of accumulated phase divided by lag gives radians/sample.
func FindCoarsePeak(win sample.Vector, lag int) CoarsePeak {
	best := CoarsePeak{Index: -1}
	if len(win) <= lag {
		return best
	}
	for i := 0; i+lag < len(win); i++ {
		var corrSum sample.Complex
		var energy float32
		span := lag
		if i+span+lag > len(win) {
			span = len(win) - i - lag
		}
		for k := 0; k < span; k++ {
			corrSum += conj(win[i+k]) * win[i+k+lag]
			energy += sample.Power(win[i+k+lag])
		}
		if energy <= 0 {
			continue
		}
		m := sample.Power(corrSum) / (energy * energy)
		if m > best.Metric {
			best.Metric = m
			best.Index = i
			// Any two samples one lag (one STF pattern) apart always
			// straddle exactly one pattern boundary, so the cover
			// sequence's constant pattern-pair sign (stf.go's
			// ApplyCoverSequence) rotates corrSum's phase by a fixed pi
			// regardless of i; undo it before reading off the CFO.
			cfoCorr := -corrSum
			best.CFOEstimate = math.Atan2(float64(imag(cfoCorr)), float64(real(cfoCorr))) / float64(lag)
		}
	}
	return best
}
