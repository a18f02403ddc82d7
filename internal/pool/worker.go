package pool

import (
	"context"
	"runtime"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/logging"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/mac"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/ringbuffer"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
	phsync "github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sync"
)

var workerLog = logging.For("pool.worker")

// SyncWorker is C10: one goroutine reading successive chunks from an RX
// ring buffer, running the three-stage synchronization pipeline over
// each, and enqueueing packet jobs in baton-ordered turn. Grounded on
// worker_sync_t.
type SyncWorker struct {
	ID                 uint32
	RX                 *ringbuffer.RX
	Baton              *Baton
	Queue              *Queue
	ChunkLengthSamples int64
	ChunkParam         phsync.ChunkParam
	CPU                int
	RealtimePriority   int

	readIdx64 int64
}

// Run processes chunks until ctx is cancelled. Per §4.9 it registers
// with the other sync workers exactly once before entering the loop,
// then on every chunk only waits its turn on the already-passed baton
// instead of re-running the startup barrier.
func (w *SyncWorker) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := PinCurrentThread(w.CPU); err != nil {
		workerLog.Warn("cpu affinity failed", "worker", w.ID, "err", err)
	}
	if err := SetRealtimePriority(w.RealtimePriority); err != nil {
		workerLog.Warn("realtime priority failed", "worker", w.ID, "err", err)
	}

	if _, ok := w.Baton.RegisterAndWaitForOthers(ctx, w.readIdx64); !ok {
		return
	}
	stride := w.ChunkLengthSamples * int64(w.Baton.nofWorkerSync)
	w.readIdx64 += int64(w.ID) * w.ChunkLengthSamples

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		chunkStart := w.readIdx64
		samples, err := w.RX.Read(chunkStart, int(w.ChunkLengthSamples))
		if err != nil {
			continue
		}
		w.readIdx64 += stride
		chunkTimeEnd := chunkStart + w.ChunkLengthSamples

		reports := phsync.Chunk(chunkStart, samples, w.ChunkParam)

		if !w.Baton.WaitTo(ctx, w.ID) {
			return
		}

		sawPacket := false
		for _, r := range reports {
			if w.Baton.IsSyncTimeUnique(r.SyncTime64) {
				w.Queue.Push(Job{Kind: JobPacket, Payload: r, EnqueuedAt: chunkStart})
				sawPacket = true
			}
		}
		if !sawPacket && w.Baton.IsJobRegularDue() {
			tr := phsync.TimeReport{ChunkTimeEnd64: chunkTimeEnd, SyncTimeLast64: w.Baton.SyncTimeLast()}
			w.Queue.Push(Job{Kind: JobRegular, Payload: tr, EnqueuedAt: chunkStart})
		}

		w.Baton.PassOn(w.ID)
	}
}

// TxRxWorker is C11: one goroutine draining the job queue and the TX
// ring buffer, dispatching into the upper MAC's TPoint interface and the
// RX/TX pipelines. Grounded on worker_tx_rx_t.
type TxRxWorker struct {
	ID    uint32
	Queue *Queue
	Token *Token
	TX    *ringbuffer.TX
	TPoint mac.TPoint

	CPU              int
	RealtimePriority int

	// OnPacketJob processes a synchronized packet (running the RX
	// pipeline) and reports the outcome to TPoint, returning any TX
	// descriptors the MAC produced in response (e.g. an ACK). Supplied
	// by the caller so this package stays independent of
	// internal/rxpipe.
	OnPacketJob func(report phsync.Report) []mac.TXDescriptor

	// OnTXSlot transmits one drained TX slot. Supplied by the caller so
	// this package stays independent of internal/txpipe.
	OnTXSlot func(meta ringbuffer.TXMeta, samples sample.Vector)

	// EncodeTX turns one TX descriptor the MAC returned into per-antenna
	// ring-buffer metadata and samples, ready for TX.Reserve/Fill.
	// Supplied by the caller so this package stays independent of
	// internal/txpipe (§4.10's "act on the returned TX descriptors").
	EncodeTX func(desc mac.TXDescriptor) ([]ringbuffer.TXMeta, []sample.Vector, error)
}

// Run processes jobs and TX slots until ctx is cancelled.
func (w *TxRxWorker) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := PinCurrentThread(w.CPU); err != nil {
		workerLog.Warn("cpu affinity failed", "worker", w.ID, "err", err)
	}
	if err := SetRealtimePriority(w.RealtimePriority); err != nil {
		workerLog.Warn("realtime priority failed", "worker", w.ID, "err", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if job, ok := w.Queue.TryPop(); ok {
			w.dispatch(ctx, job)
		}

		if meta, samples, ok := w.TX.Drain(); ok && w.OnTXSlot != nil {
			w.OnTXSlot(meta, samples)
		}
	}
}

// dispatch acquires the token in FIFO order using the job's queue
// sequence number (§4.10), so upper-MAC entry is serialized in
// submission order regardless of which TX/RX worker dequeues a given
// job, then acts on any TX descriptors the MAC call returns.
func (w *TxRxWorker) dispatch(ctx context.Context, job Job) {
	if !w.Token.LockFIFO(ctx, w.ID, job.FIFOSeq) {
		return
	}
	defer w.Token.UnlockFIFO()

	switch job.Kind {
	case JobRegular:
		tr, _ := job.Payload.(phsync.TimeReport)
		w.transmit(w.TPoint.WorkRegular(tr))
	case JobPacket:
		report, ok := job.Payload.(phsync.Report)
		if !ok {
			workerLog.Error("packet job missing sync report payload")
			return
		}
		if w.OnPacketJob != nil {
			w.transmit(w.OnPacketJob(report))
		}
	case JobIrregular:
		w.transmit(w.TPoint.WorkIrregular(job.Payload))
	}
}

// transmit encodes and submits every descriptor the MAC returned from a
// dispatch call, one ring-buffer slot per antenna stream.
func (w *TxRxWorker) transmit(descs []mac.TXDescriptor) {
	if w.EncodeTX == nil {
		return
	}
	for _, d := range descs {
		metas, samples, err := w.EncodeTX(d)
		if err != nil {
			workerLog.Error("tx encode failed", "err", err)
			continue
		}
		for i := range metas {
			idx, err := w.TX.Reserve()
			if err != nil {
				workerLog.Warn("tx buffer full, dropping descriptor stream", "ant_idx", metas[i].AntIdx, "err", err)
				continue
			}
			w.TX.Fill(idx, metas[i], samples[i])
		}
	}
}
