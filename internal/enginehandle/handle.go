// Package enginehandle defines the contract the TCP server programs
// against, rather than the concrete log-structured engine directly. This is
// what lets the server run unmodified against either the native
// log-structured engine or the alternate bbolt-backed adapter.
package enginehandle

// Engine is the storage contract every backend implements. A value
// satisfying Engine is expected to be safe for concurrent use by multiple
// goroutines without further synchronization by the caller.
type Engine interface {
	// Get returns the current value for key. The second return value is
	// false when the key has never been set or was most recently deleted.
	Get(key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error

	// Remove deletes key. It fails if key is not currently present.
	Remove(key string) error

	// Close releases any resources held by the backend. Operations on a
	// closed Engine are not supported.
	Close() error
}
