package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override default paths.
const (
	EnvDBPath     = "KANATYPE_DB"
	EnvConfigPath = "KANATYPE_CONFIG"
)

// LoadEnv reads KEY=VALUE files into the process environment. Missing files
// are skipped and variables already set are kept.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to stat env file: %w", err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// DefaultEnvPaths lists the env files read at startup.
func DefaultEnvPaths() []string {
	return []string{".env", DefaultEnvPath()}
}

// DBPath returns the database path, honouring KANATYPE_DB.
func DBPath() string {
	if v := os.Getenv(EnvDBPath); v != "" {
		return v
	}
	return DefaultDBPath()
}

// ConfigPath returns the config path, honouring KANATYPE_CONFIG.
func ConfigPath() string {
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v
	}
	return DefaultConfigPath()
}
