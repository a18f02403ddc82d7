package pacer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/resample"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/ringbuffer"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
)

func testResampler() *resample.Resampler {
	return resample.New(resample.Params{
		L: 10, M: 9,
		FPassNorm: 0.4, FStopNorm: 0.45,
		StopbandAttenuationDB: 60,
	})
}

func TestFilterUntilAccumulatesAndBlocks(t *testing.T) {
	rx := ringbuffer.NewRX(1024)
	p := New(rx, testResampler(), 32)

	done := make(chan struct{})
	go func() {
		n, err := p.FilterUntil(context.Background(), 10)
		assert.NoError(t, err)
		assert.Equal(t, 10, n)
		close(done)
	}()

	time.Sleep(2 * time.Millisecond)
	samples := make(sample.Vector, 10)
	for i := range samples {
		samples[i] = sample.Complex(complex(float32(i), 0))
	}
	rx.Write(samples)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("FilterUntil did not unblock after samples were written")
	}

	buf, t0 := p.FilterBuffer()
	require.Len(t, buf, 10)
	assert.Equal(t, int64(0), t0)
}

func TestResampleUntilProducesOutput(t *testing.T) {
	rx := ringbuffer.NewRX(4096)
	p := New(rx, testResampler(), 64)
	p.ResetLocalBuffer(ModeResample, 0)

	go func() {
		samples := make(sample.Vector, 256)
		for i := range samples {
			samples[i] = sample.Complex(complex(1, 0))
		}
		rx.Write(samples)
	}()

	n, err := p.ResampleUntil(context.Background(), 20)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 20)
}

func TestWaitUntilRespectsContextCancellation(t *testing.T) {
	rx := ringbuffer.NewRX(64)
	p := New(rx, testResampler(), 8)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := p.WaitUntil(ctx, 1000)
	assert.Error(t, err)
}

func TestConvertLengthRoundTripsApproximately(t *testing.T) {
	rx := ringbuffer.NewRX(64)
	p := New(rx, testResampler(), 8)

	global := uint32(900)
	resampled := p.ConvertLengthGlobalToResampled(global)
	back := p.ConvertLengthResampledToGlobal(resampled)
	assert.InDelta(t, global, back, 2)
}

func TestConvertTimeRoundTripsApproximately(t *testing.T) {
	rx := ringbuffer.NewRX(64)
	p := New(rx, testResampler(), 8)

	const offset = int64(1000)
	globalTime := int64(1900)
	resampledTime := p.ConvertTimeGlobalToResampled(globalTime, offset)
	back := p.ConvertTimeResampledToGlobal(resampledTime, offset)
	assert.InDelta(t, globalTime, back, 2)
}
