package manyglibc

import (
	"os"
	"path/filepath"
)

// removeRecreateDir deletes a directory tree if present and recreates it
// empty.
func removeRecreateDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// createLogFile opens a log file for writing, creating parent directories
// on demand.
func createLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
