package txpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
)

func TestModulateDemodulateRoundTrip(t *testing.T) {
	for _, nBps := range []uint32{2, 4, 6, 8} {
		bits := make([]byte, 64)
		for i := range bits {
			bits[i] = byte(i % 2)
		}
		symbols := Modulate(bits, nBps)
		got := Demodulate(symbols, nBps)
		assert.Equal(t, bits[:len(got)], got, "nBps=%d", nBps)
	}
}

func TestModulateDemodulatePropertyRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nBps := rapid.SampledFrom([]uint32{2, 4, 6, 8}).Draw(t, "nBps")
		nSymbols := rapid.IntRange(1, 40).Draw(t, "nSymbols")
		bits := make([]byte, nSymbols*int(nBps))
		for i := range bits {
			bits[i] = byte(rapid.IntRange(0, 1).Draw(t, "bit"))
		}
		symbols := Modulate(bits, nBps)
		got := Demodulate(symbols, nBps)
		assert.Equal(t, bits, got)
	})
}

// TestAlamoutiDoublesTotalEnergy checks the unscaled mapping: each of the
// two transmit streams carries every input symbol once, so their summed
// energy is twice the input's.
func TestAlamoutiDoublesTotalEnergy(t *testing.T) {
	s := sample.Vector{1 + 1i, 2 - 1i, 0.5 + 0.5i, -1 + 2i}
	streams := alamouti(s)
	require.Len(t, streams, 2)
	var inEnergy, outEnergy float32
	for _, v := range s {
		inEnergy += sample.Power(v)
	}
	for _, st := range streams {
		for _, v := range st {
			outEnergy += sample.Power(v)
		}
	}
	assert.InDelta(t, inEnergy, outEnergy, 1e-3)
}

func TestEncodeTransportBlockRoundTrip(t *testing.T) {
	tb := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	nTBBits := uint32(len(tb) * 8)
	g := uint32(400)

	coded := EncodeTransportBlock(tb, nTBBits, g)
	require.Len(t, coded, int(g))

	got, ok := DecodeTransportBlock(coded, nTBBits)
	require.True(t, ok, "CRC must validate on a clean channel")
	assert.Equal(t, tb, got)
}
