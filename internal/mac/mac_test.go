package mac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHARQCombineAccumulatesLLR(t *testing.T) {
	h := NewHARQBuffer(1, 4)
	h.Combine([]float32{1, 1, 1, 1})
	h.Combine([]float32{1, 1, 1, 1})
	assert.Equal(t, []float32{2, 2, 2, 2}, h.LLR)
	assert.EqualValues(t, 2, h.RVCount)
}

func TestHARQResetClears(t *testing.T) {
	h := NewHARQBuffer(1, 2)
	h.Combine([]float32{5, 5})
	h.Reset()
	assert.Equal(t, []float32{0, 0}, h.LLR)
	assert.EqualValues(t, 0, h.RVCount)
}

func TestHARQGivesUpAfterRVMax(t *testing.T) {
	h := NewHARQBuffer(1, 1)
	var ok bool
	for i := 0; i < 10; i++ {
		ok = h.Combine([]float32{0})
		if !ok {
			break
		}
	}
	assert.False(t, ok, "must eventually give up after RVMax retransmissions")
}
