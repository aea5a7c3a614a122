package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultConfigDir is the default directory name for livedns configs
	DefaultConfigDir = ".livedns"
	// DefaultConfigName is the default config file name
	DefaultConfigName = "config.yaml"
)

// GetConfigDir returns the livedns configuration directory path
// Defaults to ~/.livedns/ unless overridden by environment
func GetConfigDir() (string, error) {
	if dir := os.Getenv("LIVEDNS_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, DefaultConfigDir), nil
}

// DefaultConfigPath returns the path of the default config file
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigName), nil
}
