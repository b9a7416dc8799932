package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables.
const (
	EnvHome      = "SMARTCARBON_HOME"
	EnvConfig    = "SMARTCARBON_CONFIG"
	EnvLogLevel  = "SMARTCARBON_LOG_LEVEL"
	EnvOutput    = "SMARTCARBON_OUTPUT"
	EnvStoreFile = "SMARTCARBON_STORE_FILE"
	EnvModelsDir = "SMARTCARBON_MODELS_DIR"
)

// LoadDotEnv reads dir/.env into the process environment. Variables already
// set win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}
	if v := os.Getenv(EnvStoreFile); v != "" {
		cfg.Store.File = v
	}
	if v := os.Getenv(EnvModelsDir); v != "" {
		cfg.Models.Dir = v
	}
}
