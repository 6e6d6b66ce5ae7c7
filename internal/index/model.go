package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Location pinpoints exactly where on disk a record lives: which segment,
// at what byte offset, and how many bytes the framed record occupies. It
// deliberately stores a segment ID rather than a file handle, so the index
// stays valid across segment rotation and across process restarts as long
// as the segment with that ID still exists.
type Location struct {
	SegmentID uint64
	Offset    int64
	Length    uint32
}

// Index is the in-memory hash table mapping every live key to the Location
// of its most recent Set record. This is the core Bitcask trade-off: every
// key lives in memory so lookups are O(1), while values stay on disk so the
// dataset can exceed available RAM.
type Index struct {
	log     *zap.SugaredLogger
	entries map[string]Location
	mu      sync.RWMutex
	closed  atomic.Bool
}

// Config supplies the dependencies an Index needs to operate.
type Config struct {
	Logger *zap.SugaredLogger
}
