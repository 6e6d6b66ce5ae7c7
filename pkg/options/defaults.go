package options

import "runtime"

const (
	// DefaultDataDir is the base directory used when none is supplied.
	DefaultDataDir = "/var/lib/kvsd"

	// DefaultMaxSegmentBytes is the size threshold that triggers rotation
	// to a fresh active segment. Deliberately small so rotation and
	// compaction exercise often in tests, not tuned for production scale.
	DefaultMaxSegmentBytes int64 = 20480

	// DefaultCompactionThresholdBytes is the number of wasted bytes
	// accumulated across non-active segments that must be exceeded
	// before compaction does any work.
	DefaultCompactionThresholdBytes int64 = 2048

	// DefaultBackend selects the log-structured engine over the
	// alternate embedded backend when none is specified.
	DefaultBackend = "kvs"
)

// DefaultWorkerCount returns the worker pool size used when none is
// configured: one goroutine per available processor.
func DefaultWorkerCount() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// defaultOptions holds the baseline configuration for a store instance.
var defaultOptions = Options{
	DataDir:                  DefaultDataDir,
	MaxSegmentBytes:          DefaultMaxSegmentBytes,
	CompactionThresholdBytes: DefaultCompactionThresholdBytes,
	WorkerCount:              DefaultWorkerCount(),
	Backend:                  DefaultBackend,
}

// NewDefaultOptions returns a copy of the baseline configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
