// Package options provides functional-option configuration for the
// key/value store: the data directory, segment rotation and compaction
// thresholds, the worker pool size, and which storage backend to use.
package options

import "strings"

// Options configures a store instance.
type Options struct {
	// DataDir is the base path where segment files (or the embedded
	// backend's database file) and the engine marker are stored.
	DataDir string `json:"dataDir"`

	// MaxSegmentBytes is the on-disk size threshold that triggers
	// rotation to a new active segment.
	MaxSegmentBytes int64 `json:"maxSegmentBytes"`

	// CompactionThresholdBytes is the number of obsolete bytes across
	// non-active segments that must be exceeded before compaction runs.
	CompactionThresholdBytes int64 `json:"compactionThresholdBytes"`

	// WorkerCount is the number of goroutines in the server's worker
	// pool that dispatch client requests into the engine.
	WorkerCount int `json:"workerCount"`

	// Backend selects which storage engine implementation backs the
	// store: "kvs" for the log-structured engine or "bolt" for the
	// bbolt-backed adapter.
	Backend string `json:"backend"`
}

// OptionFunc mutates an Options value. Applying zero OptionFuncs yields
// whatever the caller pre-populated; WithDefaultOptions seeds the baseline.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to the package defaults.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDataDir overrides the base data directory.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithMaxSegmentBytes overrides the segment rotation threshold.
func WithMaxSegmentBytes(size int64) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.MaxSegmentBytes = size
		}
	}
}

// WithCompactionThresholdBytes overrides the compaction trigger threshold.
func WithCompactionThresholdBytes(size int64) OptionFunc {
	return func(o *Options) {
		if size >= 0 {
			o.CompactionThresholdBytes = size
		}
	}
}

// WithWorkerCount overrides the server's worker pool size.
func WithWorkerCount(count int) OptionFunc {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithBackend overrides which storage backend implementation is used.
func WithBackend(backend string) OptionFunc {
	return func(o *Options) {
		backend = strings.TrimSpace(backend)
		if backend != "" {
			o.Backend = backend
		}
	}
}

// Apply runs every option against a fresh copy of the package defaults and
// returns the result.
func Apply(opts ...OptionFunc) Options {
	o := NewDefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
