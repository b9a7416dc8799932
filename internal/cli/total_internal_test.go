package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/smartcarbon/internal/config"
	"github.com/rshade/smartcarbon/internal/engine"
)

func TestCheckDangerExit(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		level   engine.Level
		wantErr bool
	}{
		{"disabled danger", false, engine.LevelDanger, false},
		{"enabled safe", true, engine.LevelSafe, false},
		{"enabled average", true, engine.LevelAverage, false},
		{"enabled danger", true, engine.LevelDanger, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkDangerExit(tt.enabled, engine.Summary{TotalKg: 1, TotalLevel: tt.level})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			exitErr, ok := err.(*ExitError)
			require.True(t, ok)
			assert.Equal(t, ExitCodeDanger, exitErr.ExitCode)
			assert.Equal(t, "total carbon emission 1.00 kgCO2e is Danger", exitErr.Error())
		})
	}
}

func TestResolveFormat(t *testing.T) {
	cfg := config.Default()

	got, err := resolveFormat(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, config.FormatTable, got)

	got, err = resolveFormat(cfg, "json")
	require.NoError(t, err)
	assert.Equal(t, config.FormatJSON, got)

	cfg.Output.DefaultFormat = config.FormatJSON
	got, err = resolveFormat(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, config.FormatJSON, got)

	_, err = resolveFormat(cfg, "yaml")
	require.Error(t, err)
}

func TestRootStateConfigDefaults(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())

	state := &rootState{}
	cfg := state.config()
	require.NotNil(t, cfg)
	assert.Equal(t, engine.DefaultThresholds(), cfg.Thresholds)
}
