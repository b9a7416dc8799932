package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/smartcarbon/internal/config"
	"github.com/rshade/smartcarbon/internal/engine"
)

// newDefaultTarget returns a Config with known non-zero values so tests can
// verify absent overlay keys leave them intact.
func newDefaultTarget() *config.Config {
	return &config.Config{
		Output:     config.OutputConfig{DefaultFormat: "table"},
		Logging:    config.LoggingConfig{Level: "info", Format: "console"},
		Thresholds: engine.DefaultThresholds(),
		Models:     config.ModelsConfig{Dir: "/models", Fallback: true},
		Store:      config.StoreConfig{File: "/tmp/session.json", Persist: true, MaxAgeSeconds: 60},
		Server:     config.ServerConfig{Host: "127.0.0.1", Port: 8080, EnableMetrics: true},
	}
}

// writeOverlay writes content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
output:
  default_format: json
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "json", target.Output.DefaultFormat)
	assert.Equal(t, "info", target.Logging.Level)
	assert.Equal(t, 8080, target.Server.Port)
	assert.Equal(t, engine.DefaultThresholds(), target.Thresholds)
}

func TestShallowMergeYAML_SectionReplacedWhole(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
store:
  file: /data/s.json
thresholds:
  safe_max_tonnes: 100
  average_max_tonnes: 300
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "/data/s.json", target.Store.File)
	assert.False(t, target.Store.Persist, "omitted fields in a replaced section are zeroed")
	assert.Zero(t, target.Store.MaxAgeSeconds)
	assert.InDelta(t, 100.0, target.Thresholds.SafeMaxTonnes, 1e-12)
	assert.InDelta(t, 300.0, target.Thresholds.AverageMaxTonnes, 1e-12)
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
plugins:
  aws: {}
server:
  host: 0.0.0.0
  port: 9000
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "0.0.0.0:9000", target.Server.Addr())
}

func TestShallowMergeYAML_EmptyFile(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, "# nothing here\n")

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, newDefaultTarget(), target)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, "x"))

	err := config.ShallowMergeYAML(newDefaultTarget(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading overlay file")

	err = config.ShallowMergeYAML(newDefaultTarget(), writeOverlay(t, "output: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing overlay YAML")

	err = config.ShallowMergeYAML(newDefaultTarget(), writeOverlay(t, "server:\n  port: many\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `applying overlay section "server"`)
}
