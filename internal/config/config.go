// Package config loads one worker_pool_config per logical PHY from YAML
// (§6: "Config surface ... JSON-parsed" in the original; this repo follows
// the teacher's gopkg.in/yaml.v3 dependency, already used for the
// teacher's deviceid.go symbol table, instead). Every numeric field is
// validated against the range documented in its comment, matching the
// teacher's config.go style of range-checking each parsed value before
// accepting it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WorkerPoolConfig is the config surface of §6, one instance per logical
// PHY-radio pair.
type WorkerPoolConfig struct {
	// NofSyncWorkers is the number of sync-worker threads (C10), one
	// chunk owner each. Range [1, 16].
	NofSyncWorkers int `yaml:"nof_sync_workers"`

	// NofTxRxWorkers is the number of TX/RX-worker threads (C11). Must
	// be >= 2 when JSONExportEnabled is true (§5). Range [1, 16].
	NofTxRxWorkers int `yaml:"nof_tx_rx_workers"`

	// ChunkLengthSamples is chunk_length in samples (§4.6). Must be a
	// positive multiple of the resampler's decimation factor M so that
	// resampled local-buffer indices land exactly on chunk boundaries.
	ChunkLengthSamples int64 `yaml:"chunk_length_samples"`

	// OverlapStfs is B expressed in STFs (§4.6, "overlap_stfs"). Range [1, 4].
	OverlapStfs int `yaml:"overlap_stfs"`

	// MaxSearchLengthStfs bounds the coarse-peak and cross-correlator
	// search window (§4.4/§4.6). Range [1, 8].
	MaxSearchLengthStfs int `yaml:"max_search_length_stfs"`

	// MaxBufferableSyncs bounds how many sync reports a sync worker may
	// buffer before it must block on the baton (§4.7). Range [1, 64].
	MaxBufferableSyncs int `yaml:"max_bufferable_syncs"`

	// JobRegularPeriod is the number of chunks between forced "regular"
	// jobs when no packet was seen (§4.7). Range [1, 1000].
	JobRegularPeriod uint32 `yaml:"job_regular_period"`

	// SyncTimeUniqueLimitSamples is the baton's
	// sync_time_unique_limit (§4.7), approximately one STF pattern.
	// Range [1, 1_000_000].
	SyncTimeUniqueLimitSamples int64 `yaml:"sync_time_unique_limit_samples"`

	// ResampleL/ResampleM is the rational resampling ratio (§4.1).
	// Both in range [1, 64]; must be coprime.
	ResampleL int `yaml:"resample_l"`
	ResampleM int `yaml:"resample_m"`

	// JSONExportEnabled turns on the §6 double-buffered JSON exporter.
	JSONExportEnabled bool `yaml:"json_export_enabled"`

	// JSONExportDir is the directory files are written to when
	// JSONExportEnabled is true.
	JSONExportDir string `yaml:"json_export_dir"`

	// JSONExportLength is json_length from §6: flush to disk once per
	// this many appended entries. Range [1, 1_000_000].
	JSONExportLength int `yaml:"json_export_length"`

	// IntegerCFOSearchEnabled is parsed and validated but read by no
	// component: internal/sync has no frequency-domain integer-CFO search,
	// so the integer CFO is always 0. See DESIGN.md's Open Question entry.
	IntegerCFOSearchEnabled bool `yaml:"integer_cfo_search_enabled"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// CPUAffinity lists the OS CPU indices sync/tx-rx workers are
	// pinned to, one entry per worker in round-robin. Empty disables
	// affinity pinning (§5: "configurable CPU affinity").
	CPUAffinity []int `yaml:"cpu_affinity"`

	// RealtimePriority is the SCHED_FIFO priority (1-99) applied to
	// every worker thread, or 0 to leave scheduling untouched.
	RealtimePriority int `yaml:"realtime_priority"`
}

// Load reads and validates a WorkerPoolConfig from a YAML file.
func Load(path string) (*WorkerPoolConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c WorkerPoolConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks every field's documented range. It never mutates c.
func (c *WorkerPoolConfig) Validate() error {
	type bound struct {
		name     string
		val      int64
		min, max int64
	}
	bounds := []bound{
		{"nof_sync_workers", int64(c.NofSyncWorkers), 1, 16},
		{"nof_tx_rx_workers", int64(c.NofTxRxWorkers), 1, 16},
		{"chunk_length_samples", c.ChunkLengthSamples, 1, 1 << 40},
		{"overlap_stfs", int64(c.OverlapStfs), 1, 4},
		{"max_search_length_stfs", int64(c.MaxSearchLengthStfs), 1, 8},
		{"max_bufferable_syncs", int64(c.MaxBufferableSyncs), 1, 64},
		{"job_regular_period", int64(c.JobRegularPeriod), 1, 1000},
		{"sync_time_unique_limit_samples", c.SyncTimeUniqueLimitSamples, 1, 1_000_000},
		{"resample_l", int64(c.ResampleL), 1, 64},
		{"resample_m", int64(c.ResampleM), 1, 64},
		{"realtime_priority", int64(c.RealtimePriority), 0, 99},
	}
	for _, b := range bounds {
		if b.val < b.min || b.val > b.max {
			return fmt.Errorf("config: %s=%d out of range [%d,%d]", b.name, b.val, b.min, b.max)
		}
	}

	if c.JSONExportEnabled {
		if c.NofTxRxWorkers < 2 {
			return fmt.Errorf("config: nof_tx_rx_workers must be >= 2 when json_export_enabled (so one thread can stall on disk)")
		}
		if c.JSONExportLength < 1 || c.JSONExportLength > 1_000_000 {
			return fmt.Errorf("config: json_export_length=%d out of range [1,1000000]", c.JSONExportLength)
		}
		if c.JSONExportDir == "" {
			return fmt.Errorf("config: json_export_dir must be set when json_export_enabled")
		}
	}

	if gcd(c.ResampleL, c.ResampleM) != 1 {
		return fmt.Errorf("config: resample_l=%d, resample_m=%d must be coprime", c.ResampleL, c.ResampleM)
	}
	if c.ChunkLengthSamples%int64(c.ResampleM) != 0 {
		return fmt.Errorf("config: chunk_length_samples=%d must be a multiple of resample_m=%d", c.ChunkLengthSamples, c.ResampleM)
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log_level=%q must be one of debug/info/warn/error", c.LogLevel)
	}

	return nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
