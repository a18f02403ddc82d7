// Package pool implements the worker-pool concurrency core of §5: the
// baton (round-robin mutual exclusion across sync workers), the token
// (FIFO mutex serializing upper-MAC entry from TX/RX workers), the MPSC
// job queue, and the worker pool itself.
//
// Grounded on original_source/lib/include/dectnrp/phy/pool/baton.hpp and
// token.hpp; the queue-signalling idiom ("wake only if someone is
// waiting") follows the teacher's src/tq.go.
package pool

import (
	"context"
	"sync"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/logging"
)

var tokenLog = logging.For("pool.token")

// InvalidID is the sentinel used for an unheld token, mirroring
// token.hpp's out-of-range initial id_holder.
const InvalidID = ^uint32(0)

// Token is a FIFO mutex: callers acquire it in the order they call
// LockFIFO (identified by a monotonically increasing counter each caller
// passes in), serializing upper-MAC entry from however many TX/RX
// workers call into it concurrently. Grounded on token_t.
type Token struct {
	mu       sync.Mutex
	cond     *sync.Cond
	fifoNext int64
	holder   uint32
	heldByID bool
}

// NewToken constructs an unheld token.
func NewToken() *Token {
	t := &Token{holder: uint32(InvalidID)}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// LockFIFO blocks the caller until fifoCnt is the next ticket to be
// served, then acquires the lock on behalf of idCaller. Returns false if
// ctx is cancelled first, mirroring lock_fifo_to's timeout.
func (t *Token) LockFIFO(ctx context.Context, idCaller uint32, fifoCnt int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	done := make(chan struct{})
	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				t.mu.Lock()
				t.cond.Broadcast()
				t.mu.Unlock()
			case <-done:
			}
		}()
		defer close(done)
	}

	for t.fifoNext != fifoCnt || t.heldByID {
		if ctx != nil && ctx.Err() != nil {
			return false
		}
		t.cond.Wait()
	}
	t.holder = idCaller
	t.heldByID = true
	return true
}

// UnlockFIFO releases the token and advances the FIFO ticket counter so
// the next caller's LockFIFO call can proceed.
func (t *Token) UnlockFIFO() {
	t.mu.Lock()
	t.fifoNext++
	t.holder = uint32(InvalidID)
	t.heldByID = false
	t.cond.Broadcast()
	t.mu.Unlock()
}

// Lock acquires the token as soon as possible, ignoring FIFO ordering.
func (t *Token) Lock(idCaller uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.heldByID {
		t.cond.Wait()
	}
	t.holder = idCaller
	t.heldByID = true
}

// TryLock attempts to acquire the token without blocking.
func (t *Token) TryLock(idCaller uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.heldByID {
		return false
	}
	t.holder = idCaller
	t.heldByID = true
	return true
}

// Unlock releases the token acquired via Lock/TryLock.
func (t *Token) Unlock() {
	t.mu.Lock()
	t.heldByID = false
	t.holder = uint32(InvalidID)
	t.cond.Broadcast()
	t.mu.Unlock()
}

// GetIDHolder returns the id of the current holder. Call only while
// holding the token.
func (t *Token) GetIDHolder() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.holder
}
