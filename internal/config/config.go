// Package config loads smartcarbon settings.
//
// Settings come from, in increasing precedence: built-in defaults, the
// global file (~/.smartcarbon/config.yaml), a project overlay
// (./.smartcarbon/config.yaml), and SMARTCARBON_* environment variables.
// A .env file in the working directory is read before the environment is
// consulted. Files are overlaid section by section; see ShallowMergeYAML.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/smartcarbon/internal/engine"
	"github.com/rshade/smartcarbon/internal/logging"
)

// DirName is the per-user and per-project settings directory name.
const DirName = ".smartcarbon"

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full settings tree.
type Config struct {
	Output     OutputConfig      `yaml:"output"`
	Logging    LoggingConfig     `yaml:"logging"`
	Thresholds engine.Thresholds `yaml:"thresholds"`
	Models     ModelsConfig      `yaml:"models"`
	Store      StoreConfig       `yaml:"store"`
	Server     ServerConfig      `yaml:"server"`

	configPath string
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// ModelsConfig locates the per-stage model files.
type ModelsConfig struct {
	Dir      string `yaml:"dir"`
	Fallback bool   `yaml:"fallback"`
}

// StoreConfig controls session persistence between CLI invocations.
type StoreConfig struct {
	File          string `yaml:"file"`
	MaxAgeSeconds int    `yaml:"max_age_seconds"`
	Persist       bool   `yaml:"persist"`
}

// MaxAge returns MaxAgeSeconds as a duration.
func (s StoreConfig) MaxAge() time.Duration {
	return time.Duration(s.MaxAgeSeconds) * time.Second
}

// ServerConfig controls `smartcarbon serve`.
type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	EnableMetrics bool   `yaml:"enable_metrics"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Dir returns the global settings directory. SMARTCARBON_HOME overrides
// ~/.smartcarbon.
func Dir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultPath returns the global config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// ProjectPath returns the project overlay path under dir.
func ProjectPath(dir string) string {
	return filepath.Join(dir, DirName, "config.yaml")
}

// Default returns the built-in settings.
func Default() *Config {
	dir := Dir()
	return &Config{
		Output: OutputConfig{DefaultFormat: FormatTable},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		Thresholds: engine.DefaultThresholds(),
		Models: ModelsConfig{
			Dir:      filepath.Join(dir, "models"),
			Fallback: true,
		},
		Store: StoreConfig{
			File:    filepath.Join(dir, "session.json"),
			Persist: true,
		},
		Server: ServerConfig{
			Host:          "127.0.0.1",
			Port:          8080,
			EnableMetrics: true,
		},
		configPath: DefaultPath(),
	}
}

// Load builds the effective configuration.
//
// path is the explicit --config value; when empty SMARTCARBON_CONFIG and then
// DefaultPath are used. An explicit file that does not exist is an error;
// a missing default file is not. workDir, when set, is searched for a
// project overlay.
func Load(ctx context.Context, path, workDir string) (*Config, error) {
	logger := logging.ComponentLogger(logging.FromContext(ctx), "config")

	if err := LoadDotEnv(workDir); err != nil {
		logger.Warn().Err(err).Msg("failed to load .env file")
	}

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	cfg.configPath = path

	if _, err := os.Stat(path); err == nil {
		if err = ShallowMergeYAML(cfg, path); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", path).Msg("config file loaded")
	} else if explicit || !os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if workDir != "" {
		overlay := ProjectPath(workDir)
		if _, err := os.Stat(overlay); err == nil {
			if err = ShallowMergeYAML(cfg, overlay); err != nil {
				return nil, err
			}
			logger.Debug().Str("path", overlay).Msg("project overlay applied")
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// ConfigPath returns the file this config was loaded from or saves to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the config as YAML to ConfigPath.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is empty")
	}
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(c.configPath), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// YAML renders the config.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate reports every invalid setting, joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON:
	default:
		add("output.default_format %q must be table or json", c.Output.DefaultFormat)
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		add("logging.level %q must be trace, debug, info, warn or error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case logging.FormatConsole, logging.FormatJSON, "text":
	default:
		add("logging.format %q must be console or json", c.Logging.Format)
	}

	if err := c.Thresholds.Validate(); err != nil {
		add("thresholds: %v", err)
	}

	if c.Models.Dir == "" && !c.Models.Fallback {
		add("models.dir is empty and models.fallback is off")
	}

	if c.Store.MaxAgeSeconds < 0 {
		add("store.max_age_seconds %d must not be negative", c.Store.MaxAgeSeconds)
	}
	if c.Store.Persist && c.Store.File == "" {
		add("store.file is required when store.persist is on")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		add("server.port %d out of range", c.Server.Port)
	}

	return errors.Join(errs...)
}

// ToLoggingConfig bridges the logging section to the logging package.
// A configured file switches output to that file.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}
