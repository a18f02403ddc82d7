package ringbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
)

func TestRXWriteRead(t *testing.T) {
	rb := NewRX(16)
	in := sample.Vector{1, 2, 3, 4}
	rb.Write(in)

	out, err := rb.Read(0, 4)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = rb.Read(0, 100)
	assert.Error(t, err)
}

func TestRXReadEvicted(t *testing.T) {
	rb := NewRX(4)
	rb.Write(make(sample.Vector, 10))
	_, err := rb.Read(0, 2)
	assert.Error(t, err, "overwritten range must error")
}

func TestTXReserveFillDrainRoundTrip(t *testing.T) {
	tx := NewTX(2)

	idx, err := tx.Reserve()
	require.NoError(t, err)
	tx.Fill(idx, TXMeta{TxTime64: 100}, sample.Vector{1, 2})

	meta, samples, ok := tx.Drain()
	require.True(t, ok)
	assert.Equal(t, int64(100), meta.TxTime64)
	assert.Equal(t, sample.Vector{1, 2}, samples)

	_, _, ok = tx.Drain()
	assert.False(t, ok, "nothing else queued")
}

func TestTXFullWhenAllSlotsReserved(t *testing.T) {
	tx := NewTX(1)
	_, err := tx.Reserve()
	require.NoError(t, err)
	_, err = tx.Reserve()
	assert.Error(t, err)
}
