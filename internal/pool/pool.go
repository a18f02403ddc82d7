package pool

import (
	"context"
	"fmt"
	"sync"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/config"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/mac"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/ringbuffer"
	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
	phsync "github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sync"
)

// Pool owns the sync workers, TX/RX workers, baton, token, and job queue
// for one logical PHY-radio pair (§5). Grounded on worker_pool_t /
// worker_pool_config_t.
type Pool struct {
	cfg   *config.WorkerPoolConfig
	RX    *ringbuffer.RX
	TX    *ringbuffer.TX
	Baton *Baton
	Token *Token
	Queue *Queue

	syncWorkers []*SyncWorker
	txrxWorkers []*TxRxWorker

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Deps supplies the callbacks and interfaces a Pool needs from the rest
// of the PHY (RX/TX pipelines, the upper MAC) without importing those
// packages directly, keeping internal/pool free of a dependency on
// internal/rxpipe and internal/txpipe.
type Deps struct {
	TPoint      mac.TPoint
	ChunkParam  phsync.ChunkParam
	OnPacketJob func(report phsync.Report) []mac.TXDescriptor
	OnTXSlot    func(meta ringbuffer.TXMeta, samples sample.Vector)
	EncodeTX    func(desc mac.TXDescriptor) ([]ringbuffer.TXMeta, []sample.Vector, error)
}

// New constructs a Pool from cfg. rxCapacity/txSlots size the ring
// buffers.
func New(cfg *config.WorkerPoolConfig, rxCapacity, txSlots int, deps Deps) (*Pool, error) {
	if deps.TPoint == nil {
		return nil, fmt.Errorf("pool: Deps.TPoint must not be nil")
	}

	p := &Pool{
		cfg:   cfg,
		RX:    ringbuffer.NewRX(rxCapacity),
		TX:    ringbuffer.NewTX(txSlots),
		Baton: NewBaton(uint32(cfg.NofSyncWorkers), cfg.SyncTimeUniqueLimitSamples, cfg.JobRegularPeriod),
		Token: NewToken(),
		Queue: NewQueue(),
	}
	p.Baton.SetTPointToNotify(startImminentAdapter{deps.TPoint}, p.Token)

	for i := 0; i < cfg.NofSyncWorkers; i++ {
		cpu := -1
		if len(cfg.CPUAffinity) > 0 {
			cpu = cfg.CPUAffinity[i%len(cfg.CPUAffinity)]
		}
		p.syncWorkers = append(p.syncWorkers, &SyncWorker{
			ID:                 uint32(i),
			RX:                 p.RX,
			Baton:              p.Baton,
			Queue:              p.Queue,
			ChunkLengthSamples: cfg.ChunkLengthSamples,
			ChunkParam:         deps.ChunkParam,
			CPU:                cpu,
			RealtimePriority:   cfg.RealtimePriority,
		})
	}

	for i := 0; i < cfg.NofTxRxWorkers; i++ {
		cpu := -1
		if len(cfg.CPUAffinity) > 0 {
			cpu = cfg.CPUAffinity[(cfg.NofSyncWorkers+i)%len(cfg.CPUAffinity)]
		}
		p.txrxWorkers = append(p.txrxWorkers, &TxRxWorker{
			ID:               uint32(i),
			Queue:            p.Queue,
			Token:            p.Token,
			TX:               p.TX,
			TPoint:           deps.TPoint,
			CPU:              cpu,
			RealtimePriority: cfg.RealtimePriority,
			OnPacketJob:      deps.OnPacketJob,
			OnTXSlot:         deps.OnTXSlot,
			EncodeTX:         deps.EncodeTX,
		})
	}

	return p, nil
}

type startImminentAdapter struct{ tp mac.TPoint }

func (a startImminentAdapter) WorkStartImminent(syncTime64 int64) {
	a.tp.WorkStartImminent(syncTime64)
}

// Start launches every sync and TX/RX worker goroutine.
func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for _, w := range p.syncWorkers {
		w := w
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.Run(ctx)
		}()
	}
	for _, w := range p.txrxWorkers {
		w := w
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.Run(ctx)
		}()
	}
}

// Stop cancels every worker and waits for them to exit.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.Queue.Close()
}

// SubmitTX reserves a TX slot and fills it, for the upper MAC to call
// when it has a descriptor ready to transmit.
func (p *Pool) SubmitTX(meta ringbuffer.TXMeta, samples sample.Vector) error {
	idx, err := p.TX.Reserve()
	if err != nil {
		return err
	}
	p.TX.Fill(idx, meta, samples)
	return nil
}
