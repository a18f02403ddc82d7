package chestim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWienerFilterExactAtPilotLocation(t *testing.T) {
	pilots := []Offset{{DF: 0, DT: 0}, {DF: 4, DT: 0}, {DF: -4, DT: 0}, {DF: 0, DT: 10}}
	wf := NewWienerFilter(pilots, 0.01, 0.05)

	weights := wf.Weights(pilots[0])
	assert.InDelta(t, 1.0, weights[0], 0.05, "weight at the pilot's own location should dominate")
}

func TestWienerEstimateConstantChannelReturnsConstant(t *testing.T) {
	pilots := []Offset{{DF: 0, DT: 0}, {DF: 4, DT: 0}, {DF: 8, DT: 0}}
	wf := NewWienerFilter(pilots, 0.01, 0.05)

	ch := []complex64{2 + 1i, 2 + 1i, 2 + 1i}
	est := wf.Estimate(ch, Offset{DF: 2, DT: 0})
	assert.InDelta(t, 2, real(est), 0.5)
	assert.InDelta(t, 1, imag(est), 0.5)
}

func TestBesselJ0AtZero(t *testing.T) {
	assert.InDelta(t, 1.0, besselJ0(0), 1e-9)
}
