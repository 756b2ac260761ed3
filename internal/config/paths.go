package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	envHome    = "GRUDGEBOOK_HOME" // overrides the data directory
	dirName    = ".grudgebook"     // default under $HOME
	dbFilename = "grudgebook.db"
)

// DataDir returns the directory holding local state (~/.grudgebook),
// creating it with 0700 permissions if needed.
func DataDir() (string, error) {
	if custom := os.Getenv(envHome); custom != "" {
		if err := os.MkdirAll(custom, 0o700); err != nil {
			return "", err
		}
		return custom, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user home: %w", err)
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// DefaultDBPath returns the SQLite file inside DataDir.
func DefaultDBPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFilename), nil
}
