package ringbuffer

import (
	"fmt"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
)

// TXMeta carries the per-descriptor metadata the TX pipeline needs
// alongside the raw samples (§3's TX descriptor), grounded on
// buffer_tx_meta.hpp.
type TXMeta struct {
	TxTime64 int64
	NTX      uint32
	NTS      uint32
	AntIdx   uint32 // which of the NTS precoded streams this slot carries
}

// TXSlot is one outer/inner-lockable entry in the TX ring buffer: Reserve
// outer-locks a free slot, Fill writes Meta+Samples under the inner lock
// and keeps the outer lock, and Drain reads the slot once it is
// outer-locked and inner-unlocked and then releases the outer lock,
// freeing the slot for reuse.
type TXSlot struct {
	OuterInnerLock
	Meta    TXMeta
	Samples sample.Vector
}

// TX is the TX ring buffer (C2): a fixed pool of slots reused in FIFO
// order. Grounded on buffer_tx.hpp's fixed-capacity slot pool.
type TX struct {
	slots    []TXSlot
	nextFree int
	nextDrain int
}

// NewTX constructs a TX ring buffer with nofSlots reusable slots.
func NewTX(nofSlots int) *TX {
	return &TX{slots: make([]TXSlot, nofSlots)}
}

// Reserve outer-locks the next free slot in round-robin order for the
// caller to fill, returning its index. Returns an error if every slot is
// still outer-locked (the TX worker has not drained fast enough).
func (t *TX) Reserve() (int, error) {
	n := len(t.slots)
	for i := 0; i < n; i++ {
		idx := (t.nextFree + i) % n
		if t.slots[idx].TryLockOuter() {
			t.nextFree = (idx + 1) % n
			return idx, nil
		}
	}
	return -1, fmt.Errorf("ringbuffer: tx buffer full, all %d slots outer-locked", n)
}

// Fill writes meta+samples into a reserved slot under its inner lock. The
// slot stays outer-locked; Drain releases the outer lock.
func (t *TX) Fill(idx int, meta TXMeta, samples sample.Vector) {
	s := &t.slots[idx]
	s.LockInner()
	s.Meta = meta
	s.Samples = samples
	s.UnlockInner()
}

// Drain returns the next filled slot's contents in FIFO order, or false
// if the next slot in line is not yet filled (still outer-unlocked, i.e.
// free) or is mid-fill (outer-locked, inner-locked).
func (t *TX) Drain() (TXMeta, sample.Vector, bool) {
	n := len(t.slots)
	s := &t.slots[t.nextDrain%n]
	if !s.IsOuterLockedInnerUnlocked() {
		return TXMeta{}, nil, false
	}
	meta, samples := s.Meta, s.Samples
	s.UnlockOuter()
	t.nextDrain++
	return meta, samples, true
}
