// Package index provides the in-memory key-to-location table the engine
// consults before ever touching disk for a read, and updates on every
// write. It has no knowledge of record framing or segment files; it only
// tracks where the engine last saw each key.
package index

import (
	stdErrors "errors"

	"github.com/iamNilotpal/kvs/pkg/errors"
)

var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// New creates an empty Index ready for concurrent use.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:     config.Logger,
		entries: make(map[string]Location, 1024),
	}, nil
}

// Get returns the Location for key, if one exists.
func (idx *Index) Get(key string) (Location, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	loc, ok := idx.entries[key]
	return loc, ok
}

// Set records loc as the current Location for key and returns whatever
// Location it replaced, if any. The caller uses the replaced Location's
// Length to grow the engine's compaction-eligible byte count.
func (idx *Index) Set(key string, loc Location) (Location, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	old, existed := idx.entries[key]
	idx.entries[key] = loc
	return old, existed
}

// Delete removes key from the index and returns the Location it held, if
// any.
func (idx *Index) Delete(key string) (Location, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	old, existed := idx.entries[key]
	delete(idx.entries, key)
	return old, existed
}

// Len returns the number of live keys currently tracked.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases the index's memory. The engine already serializes all
// access through its own lock, so Close only needs to guard against being
// called twice.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.log.Infow("closing index", "entries", len(idx.entries))
	clear(idx.entries)
	idx.entries = nil
	return nil
}
