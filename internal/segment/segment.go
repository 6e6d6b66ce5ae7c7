// Package segment manages a single append-only log file: opening it for
// both append and random-access read, tracking its size, and removing it
// once compaction has copied its live content elsewhere.
package segment

import (
	"io"
	"os"

	kvserrors "github.com/iamNilotpal/kvs/pkg/errors"
)

// Segment wraps one open log file. Appends always go to the current
// end-of-file; reads seek to an explicit offset first, mirroring how the
// engine's shared lock already serializes every access to a segment, so no
// additional synchronization is needed here.
type Segment struct {
	ID   uint64
	Path string
	file *os.File
}

// Create opens path for a brand-new segment, creating it if necessary.
func Create(path string, id uint64) (*Segment, error) {
	return open(path, id)
}

// Open reopens an existing segment file for continued appends and reads,
// used during engine recovery.
func Open(path string, id uint64) (*Segment, error) {
	return open(path, id)
}

func open(path string, id uint64) (*Segment, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, kvserrors.ClassifyFileOpenError(err, path, path)
	}
	return &Segment{ID: id, Path: path, file: file}, nil
}

// Size returns the segment's current on-disk length.
func (s *Segment) Size() (int64, error) {
	info, err := s.file.Stat()
	if err != nil {
		return 0, kvserrors.NewStorageError(err, kvserrors.ErrorCodeIO, "failed to stat segment file").
			WithPath(s.Path).WithSegmentID(int(s.ID))
	}
	return info.Size(), nil
}

// Append writes frame to the end of the segment and returns the byte offset
// at which it was written.
func (s *Segment) Append(frame []byte) (int64, error) {
	offset, err := s.Size()
	if err != nil {
		return 0, err
	}

	if _, err := s.file.Write(frame); err != nil {
		return 0, kvserrors.NewStorageError(err, kvserrors.ErrorCodeIO, "failed to append frame to segment").
			WithPath(s.Path).WithSegmentID(int(s.ID)).WithOffset(int(offset))
	}

	if err := s.file.Sync(); err != nil {
		return 0, kvserrors.ClassifySyncError(err, s.Path, s.Path, int(offset))
	}

	return offset, nil
}

// ReadAt reads exactly length bytes starting at offset.
func (s *Segment) ReadAt(offset int64, length uint32) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := s.file.Seek(offset, io.SeekStart); err != nil {
		return nil, kvserrors.NewStorageError(err, kvserrors.ErrorCodeIO, "failed to seek in segment").
			WithPath(s.Path).WithSegmentID(int(s.ID)).WithOffset(int(offset))
	}
	if _, err := io.ReadFull(s.file, buf); err != nil {
		return nil, kvserrors.NewStorageError(err, kvserrors.ErrorCodePayloadReadFailure, "failed to read frame from segment").
			WithPath(s.Path).WithSegmentID(int(s.ID)).WithOffset(int(offset))
	}
	return buf, nil
}

// Scanner returns a fresh reader positioned at the start of the segment,
// for a full sequential scan during recovery or compaction.
func (s *Segment) Scanner() (io.Reader, error) {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, kvserrors.NewStorageError(err, kvserrors.ErrorCodeIO, "failed to rewind segment for scan").
			WithPath(s.Path).WithSegmentID(int(s.ID))
	}
	return s.file, nil
}

// Close closes the underlying file handle without removing it.
func (s *Segment) Close() error {
	return s.file.Close()
}

// Remove closes and deletes the segment file. Used by compaction once a
// segment's live records have all been copied forward.
func (s *Segment) Remove() error {
	if err := s.file.Close(); err != nil {
		return kvserrors.NewStorageError(err, kvserrors.ErrorCodeIO, "failed to close segment before removal").
			WithPath(s.Path).WithSegmentID(int(s.ID))
	}
	if err := os.Remove(s.Path); err != nil {
		return kvserrors.NewStorageError(err, kvserrors.ErrorCodeIO, "failed to remove segment file").
			WithPath(s.Path).WithSegmentID(int(s.ID))
	}
	return nil
}
