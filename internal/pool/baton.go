package pool

import (
	"context"
	"sync"
	"time"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/assertx"
)

// BatonWaitTimeout mirrors BATON_WAIT_TIMEOUT_MS. WaitTo does not use it:
// it blocks until the baton is handed over or its context is cancelled.
const BatonWaitTimeout = 100 * time.Millisecond

// StartImminentNotifier is the subset of the upper-MAC termination point
// (§6) the baton calls into once all sync workers have registered a
// common chunk start time. Kept as an interface per §1's "consumed only
// through their interfaces".
type StartImminentNotifier interface {
	WorkStartImminent(syncTime64 int64)
}

// Baton is single-token round-robin mutual exclusion across the sync
// workers of a pool (§5.2): at startup every sync worker registers a
// candidate start time for the next chunk once and they agree on the
// maximum of them (register_and_wait_for_others), firing
// WorkStartImminent exactly once; after that a single token of execution
// is handed between worker ids in round-robin order (WaitTo/PassOn) once
// per chunk, so only one sync worker enqueues jobs into the job queue at
// a time while the others search their own chunk unblocked. Grounded on
// baton_t.
type Baton struct {
	nofWorkerSync         uint32
	syncTimeUniqueLimit64 int64
	jobRegularPeriod      uint32

	registerMu  sync.Mutex
	registerCV  *sync.Cond
	registerCnt uint32
	registerNow int64

	mu       sync.Mutex
	cond     *sync.Cond
	idHolder uint32

	notifier       StartImminentNotifier
	notifierToken  *Token

	// not thread-safe: written/read only while holding the baton
	syncTimeLast64    int64
	jobRegularCnt     uint32
}

// NewBaton constructs a baton for nofWorkerSync sync workers.
// syncTimeUniqueLimit64 and jobRegularPeriod are described in §5.2 and
// §4.9 respectively: the former rejects sync reports whose candidate
// time is not separated enough from the last accepted one, the latter
// paces how often a regular (non-sync-triggered) job is enqueued.
func NewBaton(nofWorkerSync uint32, syncTimeUniqueLimit64 int64, jobRegularPeriod uint32) *Baton {
	b := &Baton{
		nofWorkerSync:         nofWorkerSync,
		syncTimeUniqueLimit64: syncTimeUniqueLimit64,
		jobRegularPeriod:      jobRegularPeriod,
		idHolder:              0,
		syncTimeLast64:        -1,
	}
	b.registerCV = sync.NewCond(&b.registerMu)
	b.cond = sync.NewCond(&b.mu)
	return b
}

// SetTPointToNotify wires the termination point that WorkStartImminent is
// called on once all sync workers have agreed on a chunk start time.
func (b *Baton) SetTPointToNotify(notifier StartImminentNotifier, token *Token) {
	b.notifier = notifier
	b.notifierToken = token
}

// RegisterAndWaitForOthers is called by every sync worker, exactly once,
// before it enters its chunk-processing loop (§4.9 step 2), with its own
// suggested start time. It blocks until all nofWorkerSync workers have
// registered, then returns the maximum of the suggestions to every
// caller and fires WorkStartImminent exactly once. Returns ok=false if
// ctx is cancelled before that happens, so callers can unwind during
// shutdown instead of blocking forever.
func (b *Baton) RegisterAndWaitForOthers(ctx context.Context, now64 int64) (int64, bool) {
	b.registerMu.Lock()
	defer b.registerMu.Unlock()

	done := make(chan struct{})
	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				b.registerMu.Lock()
				b.registerCV.Broadcast()
				b.registerMu.Unlock()
			case <-done:
			}
		}()
		defer close(done)
	}

	generation := b.registerCnt / b.nofWorkerSync
	if b.registerCnt%b.nofWorkerSync == 0 {
		b.registerNow = now64
	} else if now64 > b.registerNow {
		b.registerNow = now64
	}
	b.registerCnt++

	target := (generation + 1) * b.nofWorkerSync
	isLast := b.registerCnt == target
	for b.registerCnt < target {
		if ctx != nil && ctx.Err() != nil {
			return 0, false
		}
		b.registerCV.Wait()
	}
	result := b.registerNow
	b.registerCV.Broadcast()

	if isLast && b.notifier != nil {
		if b.notifierToken != nil {
			b.notifierToken.Lock(0)
			defer b.notifierToken.Unlock()
		}
		b.notifier.WorkStartImminent(result)
	}

	return result, true
}

// IsIDHolderTheSame reports whether idCaller currently holds the baton.
func (b *Baton) IsIDHolderTheSame(idCaller uint32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.idHolder == idCaller
}

// WaitTo blocks idTarget until the baton is handed to it. Returns false
// if ctx is cancelled first, mirroring wait_to's "wake-up was merely for
// shutdown polling" contract so a sync worker can observe shutdown
// instead of blocking on the barrier forever.
func (b *Baton) WaitTo(ctx context.Context, idTarget uint32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	done := make(chan struct{})
	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				b.mu.Lock()
				b.cond.Broadcast()
				b.mu.Unlock()
			case <-done:
			}
		}()
		defer close(done)
	}

	for b.idHolder != idTarget {
		if ctx != nil && ctx.Err() != nil {
			return false
		}
		b.cond.Wait()
	}
	return true
}

// PassOn hands the baton from idCaller to the next worker in round-robin
// order.
func (b *Baton) PassOn(idCaller uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	assertx.Assert(b.idHolder == idCaller, "baton: PassOn by %d while holder is %d", idCaller, b.idHolder)
	b.idHolder = (b.idHolder + 1) % b.nofWorkerSync
	b.cond.Broadcast()
}

// IsSyncTimeUnique reports whether syncTimeCandidate64 is separated from
// the last accepted sync time by at least syncTimeUniqueLimit64, and
// records it as the new last time if so. Not thread-safe: call only
// while holding the baton.
func (b *Baton) IsSyncTimeUnique(syncTimeCandidate64 int64) bool {
	if b.syncTimeLast64 >= 0 && syncTimeCandidate64-b.syncTimeLast64 < b.syncTimeUniqueLimit64 {
		return false
	}
	b.syncTimeLast64 = syncTimeCandidate64
	return true
}

// IsJobRegularDue reports whether a regular job is due this round,
// advancing the internal period counter. Not thread-safe: call only
// while holding the baton.
func (b *Baton) IsJobRegularDue() bool {
	b.jobRegularCnt++
	if b.jobRegularCnt >= b.jobRegularPeriod {
		b.jobRegularCnt = 0
		return true
	}
	return false
}

// SyncTimeLast returns the last accepted sync time, or -1 if none yet.
func (b *Baton) SyncTimeLast() int64 {
	return b.syncTimeLast64
}
