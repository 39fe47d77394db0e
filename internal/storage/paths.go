// Package storage provides a persistent archive of game records and result statistics.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessrules"

// HomeEnv overrides the data directory when set.
const HomeEnv = "CHESSRULES_HOME"

// DataDir returns the application data directory, creating it if needed.
// $CHESSRULES_HOME wins; otherwise the platform convention applies:
//   - macOS: ~/Library/Application Support/chessrules
//   - Windows: %APPDATA%\chessrules
//   - others: $XDG_DATA_HOME/chessrules or ~/.local/share/chessrules
func DataDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return ensureDir(dir)
	}
	base, err := platformDataHome()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(base, appName))
}

// DatabaseDir returns the BadgerDB directory inside DataDir.
func DatabaseDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "db"))
}

func platformDataHome() (string, error) {
	var envDir string
	var fallback []string

	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		envDir = os.Getenv("APPDATA")
		fallback = []string{"AppData", "Roaming"}
	default:
		envDir = os.Getenv("XDG_DATA_HOME")
		fallback = []string{".local", "share"}
	}
	if envDir != "" {
		return envDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
