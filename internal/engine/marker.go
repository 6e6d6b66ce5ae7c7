package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iamNilotpal/kvs/pkg/filesys"
)

const markerFileName = "engine"

// WriteMarker records which backend owns dataDir, creating the marker file
// if it does not already exist. It never overwrites an existing marker;
// callers should check it first with CheckMarker.
func WriteMarker(dataDir, backend string) error {
	path := filepath.Join(dataDir, markerFileName)
	exists, err := filesys.Exists(path)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return filesys.WriteFile(path, 0644, []byte(backend))
}

// CheckMarker verifies dataDir's recorded backend matches want, failing
// fast if a previous run used a different one. A directory with no marker
// yet (first startup) always passes.
func CheckMarker(dataDir, want string) error {
	path := filepath.Join(dataDir, markerFileName)
	exists, err := filesys.Exists(path)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	contents, err := filesys.ReadFile(path)
	if err != nil {
		return err
	}

	got := strings.TrimSpace(string(contents))
	if got != want {
		return fmt.Errorf("data directory %s was initialized with backend %q, refusing to open it as %q", dataDir, got, want)
	}
	return nil
}
