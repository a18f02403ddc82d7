package jsonexport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/sample"
)

func TestAppendFlushesAtJSONLength(t *testing.T) {
	dir := t.TempDir()
	e, err := New(dir, "sync_report", "report", 2)
	require.NoError(t, err)

	e.Append(Entry{"snr_db": 12.5})
	e.Append(Entry{"snr_db": 13.0})
	e.Close()

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	b, err := os.ReadFile(filepath.Join(dir, files[0].Name()))
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(b, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "report0000000000", entries[0]["_entry"])
	assert.Equal(t, "report0000000001", entries[1]["_entry"])
	assert.Equal(t, int64(0), e.DiskWriteFailures())
}

func TestCloseFlushesPartialBuffer(t *testing.T) {
	dir := t.TempDir()
	e, err := New(dir, "partial", "entry", 100)
	require.NoError(t, err)

	e.Append(Entry{"x": 1})
	e.Close()

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
}

func TestNumberWithLeadingZeros(t *testing.T) {
	assert.Equal(t, "0000000007", numberWithLeadingZeros(7, 10))
	assert.Equal(t, "1234567890", numberWithLeadingZeros(1234567890, 10))
}

func TestComplexToJSON(t *testing.T) {
	v := sample.Vector{1 + 2i, -3 + 4i}
	entry := ComplexToJSON(v)
	assert.Equal(t, []float32{1, -3}, entry["re"])
	assert.Equal(t, []float32{2, 4}, entry["im"])
}

func TestComplexToJSONScaled(t *testing.T) {
	v := sample.Vector{0.5 + 0.25i}
	entry := ComplexToJSONScaled(v, 1000)
	assert.Equal(t, []int32{500}, entry["re"])
	assert.Equal(t, []int32{250}, entry["im"])
}
