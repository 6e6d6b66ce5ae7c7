// Package seginfo provides naming, discovery, and ordering helpers for the
// engine's segment files.
//
// Filename format: <id>.log, where id is a non-negative integer assigned in
// strictly increasing order as segments are rotated. Unlike a timestamped
// naming scheme, plain numeric names keep the persistent layout exactly as
// small as the external interface requires: one file per segment, nothing
// else to parse out of the name.
package seginfo

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/iamNilotpal/kvs/pkg/filesys"
)

const extension = ".log"

// GenerateName returns the filename for segment id.
func GenerateName(id uint64) string {
	return fmt.Sprintf("%d%s", id, extension)
}

// ParseID extracts the numeric id from a segment file path. It works on
// either a bare filename or a full path.
func ParseID(path string) (uint64, error) {
	base := filepath.Base(path)
	trimmed := strings.TrimSuffix(base, extension)
	if trimmed == base {
		return 0, fmt.Errorf("segment file %s is missing the %s extension", base, extension)
	}

	id, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse segment id from %s: %w", base, err)
	}
	return id, nil
}

// Discover finds every segment file in dataDir and returns their ids sorted
// ascending. Sorting numerically (rather than lexicographically) matters
// here because segment ids are not zero-padded. Id order and on-disk
// modification-time order coincide, since ids are assigned in strictly
// increasing order as segments are created and a segment is never
// rewritten under a different id, so sorting by id is equivalent to
// sorting by modification time without a stat call per file.
func Discover(dataDir string) ([]uint64, error) {
	pattern := filepath.Join(dataDir, "*"+extension)
	matches, err := filesys.ReadDir(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to read segment directory with pattern %s: %w", pattern, err)
	}

	ids := make([]uint64, 0, len(matches))
	for _, m := range matches {
		id, err := ParseID(m)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	slices.Sort(ids)
	return ids, nil
}
