package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, time.Duration(0), cfg.SimulatedLatency.Duration)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tripbook.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = "9000"
log_level = "debug"
simulated_latency = "250ms"
strict_ids = true
`), 0o600))

	cfg, err := LoadFrom(env(map[string]string{
		"CONFIG_FILE":     path,
		"PORT":            "9100",
		"METRICS_ENABLED": "false",
	}))
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.SimulatedLatency.Duration)
	assert.True(t, cfg.StrictIDs)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadFrom_WizardIdleTimeout(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(env(nil))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.WizardIdleTimeout.Duration)

	cfg, err = LoadFrom(env(map[string]string{"WIZARD_IDLE_TIMEOUT": "0s"}))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.WizardIdleTimeout.Duration)
}

func TestLoadFrom_RejectsBadValues(t *testing.T) {
	t.Parallel()

	_, err := LoadFrom(env(map[string]string{"STRICT_IDS": "sometimes"}))
	assert.Error(t, err)

	_, err = LoadFrom(env(map[string]string{"SIMULATED_LATENCY": "-1s"}))
	assert.Error(t, err)

	_, err = LoadFrom(env(map[string]string{"WIZARD_IDLE_TIMEOUT": "-5m"}))
	assert.Error(t, err)

	_, err = LoadFrom(env(map[string]string{"CONFIG_FILE": filepath.Join(t.TempDir(), "missing.toml")}))
	assert.Error(t, err)
}
