package pool

import "sync"

// JobKind distinguishes the three job variants §5.3 describes.
type JobKind int

const (
	// JobRegular is a periodic, sync-independent job paced by the
	// baton's job_regular_period (§4.9 idle housekeeping).
	JobRegular JobKind = iota
	// JobPacket carries a freshly synchronized packet for the RX
	// pipeline to process.
	JobPacket
	// JobIrregular carries a one-off request, e.g. a TX descriptor
	// submitted by the upper MAC.
	JobIrregular
)

// Job is one unit of work enqueued by a sync worker and consumed by a
// TX/RX worker. Payload is kind-specific: a sync.Report for JobPacket, a
// sync.TimeReport for JobRegular, and caller-defined for JobIrregular.
// FIFOSeq is assigned by Queue.Push in submission order and is the
// ticket a TX/RX worker presents to Token.LockFIFO so upper-MAC entry is
// serialized in the same order jobs were enqueued, regardless of which
// TX/RX worker happens to dequeue them.
type Job struct {
	Kind       JobKind
	Payload    any
	EnqueuedAt int64
	FIFOSeq    int64
}

// Queue is the job queue of §5.3: any number of sync workers push, and
// any number of TX/RX workers pop in FIFO order. Grounded on the teacher's
// src/tq.go mutex+cond MPSC queue with "wake only if a waiter exists"
// signalling, generalized from a fixed AX.25 frame type to the three
// Job kinds above.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []Job
	waiters int
	closed  bool
	nextSeq int64
}

// NewQueue constructs an empty job queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends job to the queue, stamping it with the next FIFO ticket,
// and wakes a waiting consumer, if any.
func (q *Queue) Push(job Job) {
	q.mu.Lock()
	job.FIFOSeq = q.nextSeq
	q.nextSeq++
	q.items = append(q.items, job)
	hasWaiter := q.waiters > 0
	q.mu.Unlock()
	if hasWaiter {
		q.cond.Signal()
	}
}

// Pop blocks until a job is available or the queue is closed, returning
// (Job{}, false) in the latter case.
func (q *Queue) Pop() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.waiters++
		q.cond.Wait()
		q.waiters--
	}
	if len(q.items) == 0 {
		return Job{}, false
	}
	job := q.items[0]
	q.items = q.items[1:]
	return job, true
}

// TryPop returns immediately: (Job{}, false) if the queue is currently
// empty, otherwise the next job.
func (q *Queue) TryPop() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Job{}, false
	}
	job := q.items[0]
	q.items = q.items[1:]
	return job, true
}

// Len returns the current number of queued jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close wakes every blocked consumer permanently; subsequent Pop calls
// return false once drained.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
