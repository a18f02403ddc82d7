package pool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTokenFIFOOrdering(t *testing.T) {
	tok := NewToken()
	var mu sync.Mutex
	var order []uint32

	const n = 8
	var wg sync.WaitGroup
	for i := uint32(0); i < n; i++ {
		wg.Add(1)
		go func(i uint32) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if !tok.LockFIFO(ctx, i, int64(i)) {
				t.Errorf("worker %d timed out acquiring token", i)
				return
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			tok.UnlockFIFO()
		}(i)
	}
	wg.Wait()

	require.Len(t, order, n)
	for i, v := range order {
		assert.Equal(t, uint32(i), v, "token must serve tickets in FIFO order")
	}
}

func TestTokenMutualExclusion(t *testing.T) {
	tok := NewToken()
	var active, maxActive int32
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := uint32(0); i < 16; i++ {
		wg.Add(1)
		go func(i uint32) {
			defer wg.Done()
			tok.Lock(i)
			defer tok.Unlock()
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	assert.EqualValues(t, 1, maxActive, "token must enforce mutual exclusion")
}

func TestBatonRoundRobinPassOn(t *testing.T) {
	b := NewBaton(3, 100, 10)
	var mu sync.Mutex
	var order []uint32

	var wg sync.WaitGroup
	for i := uint32(0); i < 3; i++ {
		wg.Add(1)
		go func(i uint32) {
			defer wg.Done()
			b.WaitTo(context.Background(), i)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			b.PassOn(i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, []uint32{0, 1, 2}, order)
}

func TestBatonSyncTimeUniqueness(t *testing.T) {
	b := NewBaton(1, 1000, 10)
	assert.True(t, b.IsSyncTimeUnique(10_000))
	assert.False(t, b.IsSyncTimeUnique(10_500), "within limit must be rejected")
	assert.True(t, b.IsSyncTimeUnique(12_000))
}

func TestBatonJobRegularPeriod(t *testing.T) {
	b := NewBaton(1, 1000, 3)
	assert.False(t, b.IsJobRegularDue())
	assert.False(t, b.IsJobRegularDue())
	assert.True(t, b.IsJobRegularDue())
	assert.False(t, b.IsJobRegularDue())
}

func TestQueueFIFOOrder(t *testing.T) {
	q := NewQueue()
	q.Push(Job{Kind: JobRegular, EnqueuedAt: 1})
	q.Push(Job{Kind: JobPacket, EnqueuedAt: 2})

	j1, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, int64(1), j1.EnqueuedAt)
	assert.Equal(t, int64(0), j1.FIFOSeq, "queue must stamp tickets in push order")

	j2, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, int64(2), j2.EnqueuedAt)
	assert.Equal(t, int64(1), j2.FIFOSeq)
}

func TestBatonRegisterAndWaitForOthersCancel(t *testing.T) {
	b := NewBaton(2, 100, 10)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, ok := b.RegisterAndWaitForOthers(ctx, 0)
	assert.False(t, ok, "register must give up once ctx is cancelled instead of blocking forever")
}

func TestBatonWaitToCancel(t *testing.T) {
	b := NewBaton(1, 100, 10)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ok := b.WaitTo(ctx, 7)
	assert.False(t, ok, "wait_to must give up once ctx is cancelled instead of blocking forever")
}

func TestQueueClosedUnblocksWaiters(t *testing.T) {
	q := NewQueue()
	done := make(chan bool, 1)
	go func() {
		_, ok := q.Pop()
		done <- ok
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Pop did not unblock after Close")
	}
}

func TestBatonSyncTimeUniquenessProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.Int64Range(1, 10_000).Draw(t, "limit")
		b := NewBaton(1, limit, 10)
		last := int64(-1)
		for i := 0; i < 20; i++ {
			candidate := rapid.Int64Range(0, 100_000).Draw(t, "candidate")
			ok := b.IsSyncTimeUnique(candidate)
			if last < 0 {
				assert.True(t, ok)
			} else if candidate-last < limit {
				assert.False(t, ok)
			} else {
				assert.True(t, ok)
			}
			if ok {
				last = candidate
			}
		}
	})
}
