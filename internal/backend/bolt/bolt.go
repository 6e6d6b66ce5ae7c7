// Package bolt adapts go.etcd.io/bbolt to the enginehandle.Engine contract,
// giving the store a pluggable alternate backend built on a mature embedded
// database instead of the native log-structured engine.
package bolt

import (
	"errors"

	"github.com/iamNilotpal/kvs/internal/enginehandle"
	kvserrors "github.com/iamNilotpal/kvs/pkg/errors"
	bbolt "go.etcd.io/bbolt"
)

var bucketName = []byte("kvs")

// Store wraps a bbolt database file behind the engine contract.
type Store struct {
	db *bbolt.DB
}

var _ enginehandle.Engine = (*Store)(nil)

// Open opens (creating if necessary) the bbolt database at path and
// ensures the single top-level bucket every key lives in exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0644, nil)
	if err != nil {
		return nil, kvserrors.NewBackendError(err, "bolt", "failed to open bbolt database").WithDetail("path", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, kvserrors.NewBackendError(err, "bolt", "failed to create bucket")
	}

	return &Store{db: db}, nil
}

// Get returns the value for key, or (\"\", false, nil) if absent.
func (s *Store) Get(key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, kvserrors.NewBackendError(err, "bolt", "get failed").WithDetail("key", key)
	}
	if value == nil {
		return "", false, nil
	}
	return string(value), true, nil
}

// Set stores value under key. bbolt's Update commits (and syncs) the
// transaction before returning, satisfying the same
// fsync-after-every-mutation durability contract the log-structured engine
// provides.
func (s *Store) Set(key, value string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return kvserrors.NewBackendError(err, "bolt", "set failed").WithDetail("key", key)
	}
	return nil
}

var errKeyNotFound = errors.New("key not present")

// Remove deletes key, failing if it is not present.
func (s *Store) Remove(key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(key)) == nil {
			return errKeyNotFound
		}
		return b.Delete([]byte(key))
	})
	if errors.Is(err, errKeyNotFound) {
		return kvserrors.NewKeyNotFoundError(key)
	}
	if err != nil {
		return kvserrors.NewBackendError(err, "bolt", "remove failed").WithDetail("key", key)
	}
	return nil
}

// Close closes the underlying bbolt database file.
func (s *Store) Close() error {
	return s.db.Close()
}
