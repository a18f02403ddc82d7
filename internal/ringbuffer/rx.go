package ringbuffer

import (
	"fmt"
	"sync"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
)

// RX is the circular sample buffer (C1) the radio front end writes into
// and the sync/RX pipelines read from by absolute sample index, so a
// sync worker that finds a packet starting at some sample index can hand
// that index to a TX/RX worker without either side needing to track a
// read cursor. Grounded on buffer_tx.hpp's fixed-capacity circular
// layout, generalized from TX-only to the RX direction this repo also
// needs.
type RX struct {
	mu       sync.RWMutex
	data     sample.Vector
	capacity int64
	writeIdx int64 // absolute index of the next sample to be written
}

// NewRX constructs an RX ring buffer with room for capacity samples.
func NewRX(capacity int) *RX {
	return &RX{
		data:     make(sample.Vector, capacity),
		capacity: int64(capacity),
	}
}

// Write appends samples at the current write position, advancing it.
func (r *RX) Write(samples sample.Vector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range samples {
		r.data[r.writeIdx%r.capacity] = s
		r.writeIdx++
	}
}

// WriteIndex returns the absolute index of the next sample to be written.
func (r *RX) WriteIndex() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writeIdx
}

// Read returns n samples starting at the absolute index start, or an
// error if any part of that range has already been overwritten or has
// not been written yet.
func (r *RX) Read(start int64, n int) (sample.Vector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	end := start + int64(n)
	if end > r.writeIdx {
		return nil, fmt.Errorf("ringbuffer: read [%d,%d) not yet written (write index %d)", start, end, r.writeIdx)
	}
	if r.writeIdx-end >= r.capacity || start < r.writeIdx-r.capacity {
		return nil, fmt.Errorf("ringbuffer: read [%d,%d) evicted (capacity %d, write index %d)", start, end, r.capacity, r.writeIdx)
	}

	out := make(sample.Vector, n)
	for i := int64(0); i < int64(n); i++ {
		out[i] = r.data[(start+i)%r.capacity]
	}
	return out, nil
}
