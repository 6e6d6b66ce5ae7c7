// Package filesys wraps the handful of file system operations the store
// performs outside of segment I/O: preparing the data directory, globbing
// for segment files, and reading and writing the small marker files that
// record which backend owns a directory.
package filesys

import (
	"errors"
	"os"
	"path/filepath"
)

var ErrIsNotDir = errors.New("path isn't a directory")

// CreateDir creates dirPath with the given permissions, including any
// missing parents. With force set, an already existing directory is fine;
// without it, an existing path is an error. A path that exists but is not
// a directory always fails with ErrIsNotDir.
func CreateDir(dirPath string, permission os.FileMode, force bool) error {
	stat, err := os.Stat(dirPath)
	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}
	if !force && !os.IsNotExist(err) {
		if err == nil {
			return os.ErrExist
		}
		return err
	}

	if err := os.MkdirAll(dirPath, permission); err != nil {
		return err
	}
	return os.Chmod(dirPath, 0755)
}

// ReadDir returns the paths matching pattern, which may contain glob
// metacharacters (e.g. "data/*.log").
func ReadDir(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// ReadFile reads the entire content of the file at filePath.
func ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

// WriteFile writes contents to filePath with the given permission,
// creating the file if needed and truncating it otherwise.
func WriteFile(filePath string, permission os.FileMode, contents []byte) error {
	return os.WriteFile(filePath, contents, permission)
}

// Exists reports whether a file or directory exists at path. The error is
// non-nil only when the stat failed for a reason other than the path being
// absent.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
