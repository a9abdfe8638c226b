package util

import (
	"fmt"
	"os"
)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ResetDir deletes path with all its contents and creates it again empty
func ResetDir(path string) error {
	if path == "" {
		return fmt.Errorf("directory path is required")
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to clear %s: %w", path, err)
	}
	return EnsureDir(path)
}
