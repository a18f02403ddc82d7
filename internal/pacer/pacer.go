// Package pacer implements C4: the bridge between the hardware-rate RX
// ring buffer and the DECT NR+ native sample rate the sync pipeline
// operates at, plus the blocking time/length conversions callers need to
// stay paced with the radio's real-time sample stream.
//
// Grounded on
// original_source/lib/include/dectnrp/phy/rx/rx_pacer.hpp and
// localbuffer.hpp. The original's rx_pacer_t also supports a
// LOCALBUFFER_FILTER mode (filtering at hardware rate, no resampling);
// this repo exposes both modes as Mode values but FilterUntil is a
// straight copy since the channel-selectivity filter itself
// (dsp_t::window-derived low-pass, not the Kaiser resampler prototype)
// was not separately present in the filtered pack beyond what
// internal/resample already covers.
package pacer

import (
	"context"
	"fmt"
	"time"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/resample"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/ringbuffer"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
)

// Mode selects which of the pacer's two local buffers a caller drains,
// mirroring rx_pacer_t::localbuffer_choice_t.
type Mode int

const (
	ModeFilter Mode = iota
	ModeResample
)

// pollInterval bounds how long WaitUntil/FilterUntil/ResampleUntil sleep
// between polls of the hardware-rate ring buffer's write cursor.
const pollInterval = 200 * time.Microsecond

// localBuffer accumulates samples at a fixed rate, tagged with the
// global time of its first sample, mirroring localbuffer_t.
type localBuffer struct {
	streamTime64 int64
	buf          sample.Vector
}

func (lb *localBuffer) reset(streamTime64 int64) {
	lb.streamTime64 = streamTime64
	lb.buf = lb.buf[:0]
}

func (lb *localBuffer) append(s sample.Vector) {
	lb.buf = append(lb.buf, s...)
}

// Pacer translates between a hardware-rate ringbuffer.RX and the
// resampled (DECT NR+ base-rate) domain the rest of the PHY operates in.
// Grounded on rx_pacer_t.
type Pacer struct {
	rx                *ringbuffer.RX
	resampler         *resample.Resampler
	unitLengthSamples int // ant_streams_unit_length_samples_

	lbFilter   localBuffer
	lbResample localBuffer

	readIdx64 int64 // next unconsumed hardware-rate sample index
}

// New builds a Pacer reading from rx at the hardware sample rate and
// resampling unitLengthSamples at a time.
func New(rx *ringbuffer.RX, resampler *resample.Resampler, unitLengthSamples int) *Pacer {
	return &Pacer{rx: rx, resampler: resampler, unitLengthSamples: unitLengthSamples}
}

// ResetLocalBuffer brings the chosen local buffer back to its default
// (empty) state, tagging it with the global time its next sample will
// represent.
func (p *Pacer) ResetLocalBuffer(mode Mode, antStreamsTime64 int64) {
	switch mode {
	case ModeFilter:
		p.lbFilter.reset(antStreamsTime64)
	case ModeResample:
		p.lbResample.reset(antStreamsTime64)
	}
}

// WaitUntil blocks, polling at pollInterval, until the ring buffer's
// write cursor has reached globalTime64 or ctx is cancelled.
func (p *Pacer) WaitUntil(ctx context.Context, globalTime64 int64) error {
	for p.rx.WriteIndex() < globalTime64 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return nil
}

// FilterUntil accumulates hardware-rate samples into the filter local
// buffer until it holds at least cntWMin samples, returning the actual
// count, or blocks (respecting ctx) until enough have arrived.
func (p *Pacer) FilterUntil(ctx context.Context, cntWMin int) (int, error) {
	for len(p.lbFilter.buf) < cntWMin {
		if err := p.WaitUntil(ctx, p.readIdx64+1); err != nil {
			return len(p.lbFilter.buf), err
		}
		s, err := p.rx.Read(p.readIdx64, 1)
		if err != nil {
			return len(p.lbFilter.buf), err
		}
		p.lbFilter.append(s)
		p.readIdx64++
	}
	return len(p.lbFilter.buf), nil
}

// ResampleUntil polls the RX ring buffer unitLengthSamples at a time,
// resamples each unit, and accumulates the result into the resample
// local buffer until it holds at least cntWMin samples. Returns the
// actual count, mirroring resample_until_nto.
func (p *Pacer) ResampleUntil(ctx context.Context, cntWMin int) (int, error) {
	for len(p.lbResample.buf) < cntWMin {
		if err := p.WaitUntil(ctx, p.readIdx64+int64(p.unitLengthSamples)); err != nil {
			return len(p.lbResample.buf), err
		}
		raw, err := p.rx.Read(p.readIdx64, p.unitLengthSamples)
		if err != nil {
			return len(p.lbResample.buf), err
		}
		out := p.resampler.Resample(raw)
		p.lbResample.append(out)
		p.readIdx64 += int64(p.unitLengthSamples)
	}
	return len(p.lbResample.buf), nil
}

// RewindResampleCount forces the next ResampleUntil call to overwrite the
// resample local buffer from its start rather than appending.
func (p *Pacer) RewindResampleCount() {
	p.lbResample.buf = p.lbResample.buf[:0]
}

// ConvertLengthGlobalToResampled converts a sample count at the hardware
// rate to the nearest equivalent count at the resampled rate.
func (p *Pacer) ConvertLengthGlobalToResampled(globalLength uint32) uint32 {
	return roundRatio(globalLength, p.resampler.L, p.resampler.M)
}

// ConvertLengthResampledToGlobal is the inverse of
// ConvertLengthGlobalToResampled.
func (p *Pacer) ConvertLengthResampledToGlobal(resampledLength uint32) uint32 {
	return roundRatio(resampledLength, p.resampler.M, p.resampler.L)
}

// ConvertTimeGlobalToResampled converts a global (hardware-rate) time
// value to the resampled-rate domain, relative to globalTimeOffset64.
func (p *Pacer) ConvertTimeGlobalToResampled(globalTime64, globalTimeOffset64 int64) uint32 {
	return roundRatio(uint32(globalTime64-globalTimeOffset64), p.resampler.L, p.resampler.M)
}

// ConvertTimeResampledToGlobal is the inverse of
// ConvertTimeGlobalToResampled.
func (p *Pacer) ConvertTimeResampledToGlobal(resampledTime uint32, globalTimeOffset64 int64) int64 {
	return globalTimeOffset64 + int64(roundRatio(resampledTime, p.resampler.M, p.resampler.L))
}

func roundRatio(n uint32, num, den int) uint32 {
	if den == 0 {
		return 0
	}
	return uint32((uint64(n)*uint64(num) + uint64(den)/2) / uint64(den))
}

// FilterBuffer returns the filter local buffer's current contents and
// the global time of its first sample.
func (p *Pacer) FilterBuffer() (sample.Vector, int64) {
	return p.lbFilter.buf, p.lbFilter.streamTime64
}

// ResampleBuffer returns the resample local buffer's current contents
// and the global time of its first sample.
func (p *Pacer) ResampleBuffer() (sample.Vector, int64) {
	return p.lbResample.buf, p.lbResample.streamTime64
}

// String reports the pacer's pacing state, useful for diagnostics.
func (p *Pacer) String() string {
	return fmt.Sprintf("pacer{readIdx64=%d, filterLen=%d, resampleLen=%d}",
		p.readIdx64, len(p.lbFilter.buf), len(p.lbResample.buf))
}
