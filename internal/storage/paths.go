// Package storage provides a persistent cache of perft results.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chesslib"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/chesslib/
// - Linux: ~/.local/share/chesslib/
// - Windows: %APPDATA%/chesslib/
func GetDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Check XDG_DATA_HOME first
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// GetCacheDir returns the directory holding the perft cache database. An
// empty override selects the default location under the data directory.
func GetCacheDir(override string) (string, error) {
	dir := override
	if dir == "" {
		dataDir, err := GetDataDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(dataDir, "perft")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
