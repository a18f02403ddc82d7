package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sections"
)

func TestChunkFindsInjectedSTF(t *testing.T) {
	p := ChunkParam{
		Mu:                      1,
		Beta:                    1,
		DetectionThreshold:      0.7,
		DetectionWindowPatterns: 3,
		NTXRadio:                1,
	}

	template := STFTemplate(p.Mu, p.Beta)

	noise := make(sample.Vector, 200)
	packet := make(sample.Vector, len(noise)+len(template)+200)
	copy(packet, noise)
	copy(packet[200:], template)

	reports := Chunk(1000, packet, p)
	if assert.NotEmpty(t, reports) {
		got := reports[0].SyncTime64 - 1000
		assert.InDelta(t, 200, got, float64(PatternLength(p.Beta)))
	}
}

func TestFindCoarsePeakEmptyOnShortWindow(t *testing.T) {
	peak := FindCoarsePeak(make(sample.Vector, 2), 16)
	assert.Equal(t, -1, peak.Index)
}

func TestApplyCoverSequenceRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mu := rapid.SampledFrom([]uint32{1, 2, 4, 8}).Draw(t, "mu")
		beta := rapid.SampledFrom([]uint32{1, 2, 4, 8, 12, 16}).Draw(t, "beta")
		nPatterns := int(sections.STFPatterns(mu))
		nSamples := rapid.IntRange(1, 3).Draw(t, "n_stf_worth") * nPatterns * PatternLength(beta)

		x := make(sample.Vector, nSamples)
		for i := range x {
			re := rapid.Float32Range(-10, 10).Draw(t, "re")
			im := rapid.Float32Range(-10, 10).Draw(t, "im")
			x[i] = complex(re, im)
		}

		once := ApplyCoverSequence(x, mu, beta)
		twice := ApplyCoverSequence(once, mu, beta)

		for i := range x {
			if x[i] != twice[i] {
				t.Fatalf("cover sequence is not self-inverse at sample %d: %v != %v", i, x[i], twice[i])
			}
		}
	})
}

// TestApplyCoverSequenceConstantPatternPairSign confirms the property
// internal/sync/peak.go and autocorrelator.go rely on: any two samples
// exactly one pattern length apart always carry opposite sign, so a
// delayed-conjugate autocorrelation at that lag is affected only by a
// constant, not a phase-dependent, sign flip.
func TestApplyCoverSequenceConstantPatternPairSign(t *testing.T) {
	const mu, beta = 1, 1
	patternLen := PatternLength(beta)
	x := make(sample.Vector, patternLen*4)
	for i := range x {
		x[i] = complex(1, 0)
	}
	covered := ApplyCoverSequence(x, mu, beta)
	for i := 0; i+patternLen < len(covered); i++ {
		ratio := covered[i+patternLen] / covered[i]
		assert.InDelta(t, -1, real(ratio), 1e-6)
		assert.InDelta(t, 0, imag(ratio), 1e-6)
	}
}
