package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
)

func newTestParams() Params {
	return Params{L: 10, M: 9, FPassNorm: 0.48, FStopNorm: 0.499, StopbandAttenuationDB: 20}
}

func TestResampleUnityRatioPassesThroughApproximately(t *testing.T) {
	r := New(Params{L: 1, M: 1, FPassNorm: 0.48, FStopNorm: 0.499, StopbandAttenuationDB: 20})
	in := make(sample.Vector, 64)
	for i := range in {
		in[i] = 1
	}
	out := r.Resample(in)
	out = append(out, r.ResampleFinalSamples()...)
	assert.NotEmpty(t, out)
}

func TestResampleChunkingIndependence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(20, 200).Draw(t, "n")
		in := make(sample.Vector, n)
		for i := range in {
			in[i] = sample.Complex(complex(float32(i%7)-3, float32(i%5)-2))
		}

		r1 := New(newTestParams())
		whole := append(r1.Resample(in), r1.ResampleFinalSamples()...)

		r2 := New(newTestParams())
		split := n / 3
		var chunked sample.Vector
		chunked = append(chunked, r2.Resample(in[:split])...)
		chunked = append(chunked, r2.Resample(in[split:])...)
		chunked = append(chunked, r2.ResampleFinalSamples()...)

		assert.Equal(t, len(whole), len(chunked))
		for i := range whole {
			assert.InDelta(t, real(whole[i]), real(chunked[i]), 1e-4)
			assert.InDelta(t, imag(whole[i]), imag(chunked[i]), 1e-4)
		}
	})
}

func TestGetSampRateConvertedWithOverflow(t *testing.T) {
	got := GetSampRateConvertedWithOverflow(3_000_000_000, 10, 9)
	assert.Equal(t, uint32(uint64(3_000_000_000)*10/9), got)
}
