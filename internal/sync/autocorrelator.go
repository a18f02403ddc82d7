package sync

import (
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
)

// DetectionMetric is one sample of the autocorrelator's delayed
// conjugate-product metric (§4.4 stage a): the normalized correlation
// between a window and the same window shifted by one STF pattern
// length, close to 1.0 while inside a repeating STF and near 0 on noise.
// Grounded on autocorrelator_detection_t's moving-sum accumulator
// (movsum.hpp/movsum_uw.hpp): a running sum updated one sample at a time
// rather than recomputed from scratch, so detection can run continuously
// over a streamed chunk.
type DetectionMetric struct {
	lag        int
	window     int
	corrSum    complex64
	energySum  float32
	buf        sample.Vector
	energyBuf  []float32
	pos        int
}

// NewDetectionMetric constructs a moving-sum detector for the given STF
// pattern length (lag, at the numerology's beta) and averaging window in
// patterns.
func NewDetectionMetric(patternLen, windowPatterns int) *DetectionMetric {
	window := patternLen * windowPatterns
	return &DetectionMetric{
		lag:       patternLen,
		window:    window,
		buf:       make(sample.Vector, 0, window+patternLen),
		energyBuf: make([]float32, 0, window),
	}
}

// Push feeds one new sample and returns the current normalized detection
// metric in [0,1].
func (d *DetectionMetric) Push(x sample.Complex) float32 {
	d.buf = append(d.buf, x)
	if len(d.buf) <= d.lag {
		return 0
	}
	delayed := d.buf[len(d.buf)-1-d.lag]
	prod := conj(delayed) * x
	energy := sample.Power(x)

	d.corrSum += prod
	d.energySum += energy
	d.energyBuf = append(d.energyBuf, energy)

	if len(d.energyBuf) > d.window {
		old := d.buf[len(d.buf)-d.window-d.lag-1]
		oldNext := d.buf[len(d.buf)-d.window-1]
		d.corrSum -= conj(old) * oldNext
		d.energySum -= d.energyBuf[0]
		d.energyBuf = d.energyBuf[1:]
	}

	if d.energySum <= 0 {
		return 0
	}
	num := sample.Power(d.corrSum)
	den := d.energySum * d.energySum
	m := num / den
	if m > 1 {
		m = 1
	}
	return m
}

func conj(c sample.Complex) sample.Complex {
	return complex(real(c), -imag(c))
}
