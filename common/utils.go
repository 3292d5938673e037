// Package common provides shared constants, types, and utilities
// used across the NordVPN tray application.
package common

import (
	"os"
	"path/filepath"
)

// GetConfigDir returns the path to the application configuration directory.
// Unlike GetLogDir it does not create anything.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", WrapError(err, "failed to get home directory")
	}
	return filepath.Join(homeDir, ".config", ConfigDirName), nil
}

// GetLogDir returns the log directory path, creating it if necessary.
func GetLogDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	logDir := filepath.Join(configDir, "logs")
	if isSymlink(logDir) {
		return "", WrapError(os.ErrPermission, "log directory is a symlink")
	}
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return "", WrapError(err, "failed to create log directory")
	}
	return logDir, nil
}

// isSymlink checks if a path is a symbolic link.
// Returns false if path doesn't exist (safe to create).
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}
