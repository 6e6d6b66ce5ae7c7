// Package engine implements the log-structured key/value engine: an
// in-memory index backed by an append-only sequence of segment files, with
// online compaction reclaiming space left behind by overwritten and deleted
// keys.
//
// Engine is internally single-writer. Every operation, including Get, takes
// the same exclusive lock, because reading a record means seeking a shared
// segment file handle to an offset and reading from there — a second
// goroutine racing that seek would read the wrong bytes. A *Engine pointer
// is cheap to hand to many goroutines; all of them share the same lock and
// state through that pointer, so no separate cloning step is needed the way
// it would be in a language without shared-pointer semantics.
package engine

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/kvs/internal/index"
	"github.com/iamNilotpal/kvs/internal/record"
	"github.com/iamNilotpal/kvs/internal/segment"
	kvserrors "github.com/iamNilotpal/kvs/pkg/errors"
	"github.com/iamNilotpal/kvs/pkg/filesys"
	"github.com/iamNilotpal/kvs/pkg/options"
	"github.com/iamNilotpal/kvs/pkg/seginfo"
	"go.uber.org/zap"
)

// Engine is the log-structured key/value store. It satisfies
// enginehandle.Engine; assert.go checks this at compile time. This package
// imports enginehandle and never the reverse, so there is no import cycle.
type Engine struct {
	mu sync.RWMutex

	log     *zap.SugaredLogger
	dataDir string

	maxSegmentBytes          int64
	compactionThresholdBytes int64

	index    *index.Index
	segments map[uint64]*segment.Segment
	order    []uint64 // ascending segment ids; order[len(order)-1] is active.

	nextSegmentID      uint64
	bytesForCompaction int64

	closed atomic.Bool
}

// Config supplies the dependencies and tunables an Engine needs to start.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Open recovers an Engine from dataDir, rebuilding the index by scanning
// every existing segment in order, then rotating to or creating the active
// segment.
func Open(config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, fmt.Errorf("engine: configuration is required")
	}

	opts := config.Options
	if err := filesys.CreateDir(opts.DataDir, 0755, true); err != nil {
		return nil, kvserrors.ClassifyDirectoryCreationError(err, opts.DataDir)
	}

	idx, err := index.New(&index.Config{Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		log:                      config.Logger,
		dataDir:                  opts.DataDir,
		maxSegmentBytes:          opts.MaxSegmentBytes,
		compactionThresholdBytes: opts.CompactionThresholdBytes,
		index:                    idx,
		segments:                 make(map[uint64]*segment.Segment),
	}

	ids, err := seginfo.Discover(opts.DataDir)
	if err != nil {
		return nil, kvserrors.NewStorageError(err, kvserrors.ErrorCodeIO, "failed to discover segments").
			WithPath(opts.DataDir)
	}

	for _, id := range ids {
		path := filepath.Join(opts.DataDir, seginfo.GenerateName(id))
		seg, err := segment.Open(path, id)
		if err != nil {
			return nil, err
		}
		if err := e.recoverSegment(seg); err != nil {
			return nil, err
		}
		e.segments[id] = seg
		e.order = append(e.order, id)
		if id >= e.nextSegmentID {
			e.nextSegmentID = id + 1
		}
	}

	if len(e.order) == 0 {
		if err := e.rotate(); err != nil {
			return nil, err
		}
	}

	config.Logger.Infow(
		"engine opened",
		"dataDir", opts.DataDir,
		"segments", len(e.order),
		"keys", idx.Len(),
	)
	return e, nil
}

// recoverSegment scans seg from the beginning, replaying Set and Delete
// records into the index. A clean EOF ends the scan. A frame that fails to
// decode also ends it, with a warning logged, so a torn trailing frame is
// ignored and recovery stops at the last clean frame boundary.
func (e *Engine) recoverSegment(seg *segment.Segment) error {
	r, err := seg.Scanner()
	if err != nil {
		return kvserrors.NewStorageError(err, kvserrors.ErrorCodeRecoveryFailed, "failed to rescan segment during recovery").
			WithPath(seg.Path).WithSegmentID(int(seg.ID))
	}

	reader := record.NewReader(r)
	offset := int64(0)
	for {
		startOffset := offset
		rec, err := record.Decode(reader)
		if err != nil {
			if ce, ok := kvserrors.AsCodecError(err); ok {
				ce.WithOffset(startOffset)
				e.log.Warnw("stopping recovery at torn frame",
					"segment", seg.Path, "offset", ce.Offset(), "stage", ce.Stage())
				return nil
			}
			return nil // clean EOF
		}

		frameLen, err := frameSize(rec)
		if err != nil {
			return err
		}
		offset = startOffset + frameLen

		if rec.IsDelete() {
			e.index.Delete(rec.Key)
			continue
		}

		loc := Location{SegmentID: seg.ID, Offset: startOffset, Length: uint32(frameLen)}
		if old, existed := e.index.Set(rec.Key, loc); existed {
			e.bytesForCompaction += int64(old.Length)
		}
	}
}

// frameSize recomputes the exact on-disk size of rec by encoding it into a
// scratch buffer, so recovery and compaction can track offsets using the
// same codec the write path uses.
func frameSize(rec record.Record) (int64, error) {
	var buf bytes.Buffer
	n, err := record.Encode(&buf, rec)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Location re-exports index.Location so callers of this package never need
// to import internal/index directly.
type Location = index.Location

// Get returns the value stored for key, or (\"\", false, nil) if the key is
// absent.
func (e *Engine) Get(key string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.getLocked(key)
}

func (e *Engine) getLocked(key string) (string, bool, error) {
	loc, ok := e.index.Get(key)
	if !ok {
		return "", false, nil
	}

	seg, ok := e.segments[loc.SegmentID]
	if !ok {
		return "", false, kvserrors.NewSegmentIDError(uint16(loc.SegmentID), key)
	}

	frame, err := seg.ReadAt(loc.Offset, loc.Length)
	if err != nil {
		return "", false, err
	}

	rec, err := record.Decode(bytes.NewReader(frame))
	if err != nil {
		if ce, ok := kvserrors.AsCodecError(err); ok {
			ce.WithOffset(loc.Offset)
		}
		return "", false, kvserrors.NewStorageError(err, kvserrors.ErrorCodeSegmentCorrupted, "indexed record failed to decode").
			WithPath(seg.Path).WithSegmentID(int(seg.ID)).WithOffset(int(loc.Offset))
	}

	if rec.IsDelete() {
		// The index should never point at a tombstone; if it does, treat
		// the key as absent rather than surfacing an internal error.
		e.log.Warnw("index pointed at a delete record", "key", key, "segment", loc.SegmentID, "offset", loc.Offset)
		return "", false, nil
	}

	return rec.Value, true, nil
}

// Set writes a new value for key, rotating the active segment first if it
// has grown past the configured threshold, then runs compaction.
func (e *Engine) Set(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	loc, err := e.appendLocked(record.NewSet(key, value))
	if err != nil {
		return err
	}

	if old, existed := e.index.Set(key, loc); existed {
		e.bytesForCompaction += int64(old.Length)
	}

	e.compactLocked()
	return nil
}

// Remove deletes key, failing with a key-not-found error if it was already
// absent.
func (e *Engine) Remove(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	old, existed := e.index.Get(key)
	if !existed {
		return kvserrors.NewKeyNotFoundError(key)
	}

	if _, err := e.appendLocked(record.NewDelete(key)); err != nil {
		return err
	}

	e.index.Delete(key)
	e.bytesForCompaction += int64(old.Length)

	e.compactLocked()
	return nil
}

// appendLocked rotates the active segment if necessary, then appends rec,
// returning its new Location. Callers must already hold e.mu.
func (e *Engine) appendLocked(rec record.Record) (Location, error) {
	active, err := e.activeSegmentLocked()
	if err != nil {
		return Location{}, err
	}

	size, err := active.Size()
	if err != nil {
		return Location{}, err
	}
	if size > e.maxSegmentBytes {
		if err := e.rotate(); err != nil {
			return Location{}, err
		}
		active, err = e.activeSegmentLocked()
		if err != nil {
			return Location{}, err
		}
	}

	var buf bytes.Buffer
	if _, err := record.Encode(&buf, rec); err != nil {
		return Location{}, err
	}

	offset, err := active.Append(buf.Bytes())
	if err != nil {
		return Location{}, err
	}

	return Location{SegmentID: active.ID, Offset: offset, Length: uint32(buf.Len())}, nil
}

func (e *Engine) activeSegmentLocked() (*segment.Segment, error) {
	if len(e.order) == 0 {
		return nil, fmt.Errorf("engine: no active segment")
	}
	id := e.order[len(e.order)-1]
	seg, ok := e.segments[id]
	if !ok {
		return nil, fmt.Errorf("engine: active segment %d missing from segment table", id)
	}
	return seg, nil
}

// rotate creates a fresh segment and makes it active. Callers must already
// hold e.mu.
func (e *Engine) rotate() error {
	id := e.nextSegmentID
	e.nextSegmentID++

	path := filepath.Join(e.dataDir, seginfo.GenerateName(id))
	seg, err := segment.Create(path, id)
	if err != nil {
		return err
	}

	e.segments[id] = seg
	e.order = append(e.order, id)
	return nil
}

// compactLocked reclaims space from the oldest non-active segment once
// enough bytes have been wasted by overwrites and deletes. Callers must
// already hold e.mu.
func (e *Engine) compactLocked() {
	if e.bytesForCompaction <= e.compactionThresholdBytes {
		return
	}
	if len(e.order) < 2 {
		return
	}

	oldestID := e.order[0]
	oldest, ok := e.segments[oldestID]
	if !ok {
		return
	}

	r, err := oldest.Scanner()
	if err != nil {
		e.log.Errorw("compaction failed to open scanner", "segment", oldestID, "error", err)
		return
	}
	reader := record.NewReader(r)

	offset := int64(0)
	for {
		startOffset := offset
		rec, err := record.Decode(reader)
		if err != nil {
			break // clean EOF or torn tail; either way, stop scanning this segment.
		}

		frameLen, ferr := frameSize(rec)
		if ferr != nil {
			break
		}
		offset = startOffset + frameLen

		if rec.IsDelete() {
			e.subtractObsolete(uint32(frameLen))
			continue
		}

		current, ok := e.index.Get(rec.Key)
		isLive := ok && current.SegmentID == oldestID && current.Offset == startOffset
		if !isLive {
			e.subtractObsolete(uint32(frameLen))
			continue
		}

		newLoc, err := e.appendLocked(rec)
		if err != nil {
			e.log.Errorw("compaction failed to re-append live record", "key", rec.Key, "error", err)
			return
		}
		e.index.Set(rec.Key, newLoc)
	}

	delete(e.segments, oldestID)
	e.order = e.order[1:]
	if err := oldest.Remove(); err != nil {
		e.log.Errorw("compaction failed to remove obsolete segment", "segment", oldestID, "error", err)
	}
}

func (e *Engine) subtractObsolete(n uint32) {
	e.bytesForCompaction -= int64(n)
	if e.bytesForCompaction < 0 {
		e.bytesForCompaction = 0
	}
}

// Close shuts the engine down, closing every open segment and releasing the
// index. Segment files are left on disk.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("engine: already closed")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, seg := range e.segments {
		if err := seg.Close(); err != nil {
			e.log.Errorw("failed to close segment", "segment", seg.ID, "error", err)
		}
	}
	return e.index.Close()
}

