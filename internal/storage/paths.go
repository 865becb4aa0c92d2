// Package storage provides persistent storage for match results, game
// records, agent statistics and runner preferences.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "alphabeta-chess"

// EnvDataDir names the environment variable that overrides the data directory.
const EnvDataDir = "ALPHABETA_CHESS_HOME"

// GetDataDir returns the data directory, creating it if needed.
// $ALPHABETA_CHESS_HOME wins; otherwise:
// - macOS: ~/Library/Application Support/alphabeta-chess/
// - Windows: %APPDATA%/alphabeta-chess/
// - others: $XDG_DATA_HOME/alphabeta-chess/ or ~/.local/share/alphabeta-chess/
func GetDataDir() (string, error) {
	dir, err := resolveDataDir(runtime.GOOS, os.Getenv, os.UserHomeDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return dir, nil
}

// GetDatabaseDir returns the directory holding the badger database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", fmt.Errorf("create database dir: %w", err)
	}
	return dbDir, nil
}

// resolveDataDir computes the data directory for goos without touching the
// filesystem.
func resolveDataDir(goos string, getenv func(string) string, home func() (string, error)) (string, error) {
	if dir := getenv(EnvDataDir); dir != "" {
		return dir, nil
	}

	underHome := func(parts ...string) (string, error) {
		h, err := home()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		return filepath.Join(append([]string{h}, parts...)...), nil
	}

	var (
		base string
		err  error
	)
	switch goos {
	case "darwin":
		base, err = underHome("Library", "Application Support")
	case "windows":
		if base = getenv("APPDATA"); base == "" {
			base, err = underHome("AppData", "Roaming")
		}
	default:
		if base = getenv("XDG_DATA_HOME"); base == "" {
			base, err = underHome(".local", "share")
		}
	}
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}
