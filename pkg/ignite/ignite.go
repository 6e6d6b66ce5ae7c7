// Package ignite provides a high-performance key/value data store
// designed for fast read and write operations, inspired by Bitcask.
// It combines an in-memory hash table (KeyDir/Index) with an append-only log
// structure on disk to achieve high throughput. It is designed for applications
// requiring fast read and write operations, such as caching, session management,
// and real-time data processing, aiming to provide a simple, efficient, and
// reliable solution for persistent key/value storage in Go applications.
package ignite

import (
	"context"

	"github.com/iamNilotpal/kvs/internal/engine"
	"github.com/iamNilotpal/kvs/pkg/logger"
	"github.com/iamNilotpal/kvs/pkg/options"
)

// Represents an instance of the Ignite key/value data store.
// It encapsulates the core engine responsible for data handling and
// the configuration options for this specific database instance.
//
// Instance is the primary entry point for interacting with the Ignite store,
// providing methods for setting, getting, and deleting key-value pairs.
type Instance struct {
	engine *engine.Engine   // The underlying database engine handling read/write operations.
	opts   *options.Options // Configuration options applied to this DB instance.
}

// Creates and initializes a new Ignite DB instance.
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service, false)
	resolved := options.Apply(opts...)

	eng, err := engine.Open(&engine.Config{Logger: log, Options: &resolved})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, opts: &resolved}, nil
}

// Set stores a key-value pair in the database.
// If the key already exists, its value will be updated.
// The operation is durable and will be written to the append-only log.
func (i *Instance) Set(ctx context.Context, key string, value []byte) error {
	return i.engine.Set(key, string(value))
}

// Get retrieves the value associated with the given key. The second
// return value is false when the key has never been set or was most
// recently deleted.
func (i *Instance) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok, err := i.engine.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	return []byte(value), true, nil
}

// Delete removes a key-value pair from the database.
// The operation appends a tombstone record and will eventually be
// reclaimed during compaction.
func (i *Instance) Delete(ctx context.Context, key string) error {
	return i.engine.Remove(key)
}

// Close gracefully shuts down the Ignite DB instance, flushing any
// pending writes and closing open file handles in the engine.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
