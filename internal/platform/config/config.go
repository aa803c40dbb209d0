package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that decodes from strings such as "300ms" in TOML files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config is the process configuration. Values come from defaults, then the optional
// TOML file named by CONFIG_FILE, then environment variables.
type Config struct {
	Port      string `toml:"port"`
	LogLevel  string `toml:"log_level"`
	LogPretty bool   `toml:"log_pretty"`

	// SimulatedLatency delays every store call; zero disables it.
	SimulatedLatency Duration `toml:"simulated_latency"`
	// StrictIDs rejects creates into an empty collection instead of starting at 1.
	StrictIDs bool `toml:"strict_ids"`

	MetricsEnabled       bool     `toml:"metrics_enabled"`
	IdempotencyRetention Duration `toml:"idempotency_retention"`
	ShutdownTimeout      Duration `toml:"shutdown_timeout"`
	// WizardIdleTimeout drops booking wizards left untouched this long. Zero keeps them until discarded.
	WizardIdleTimeout Duration `toml:"wizard_idle_timeout"`
}

func Default() Config {
	return Config{
		Port:                 "8080",
		LogLevel:             "info",
		MetricsEnabled:       true,
		IdempotencyRetention: Duration{24 * time.Hour},
		ShutdownTimeout:      Duration{10 * time.Second},
		WizardIdleTimeout:    Duration{2 * time.Hour},
	}
}

// Load builds the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom is Load with an injectable environment lookup.
func LoadFrom(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		cfg.Port = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"LOG_PRETTY", &cfg.LogPretty},
		{"STRICT_IDS", &cfg.StrictIDs},
		{"METRICS_ENABLED", &cfg.MetricsEnabled},
	}
	for _, b := range bools {
		v, ok := lookup(b.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a boolean: %w", b.key, err)
		}
		*b.dst = parsed
	}

	durations := []struct {
		key string
		dst *Duration
	}{
		{"SIMULATED_LATENCY", &cfg.SimulatedLatency},
		{"IDEMPOTENCY_RETENTION", &cfg.IdempotencyRetention},
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
		{"WIZARD_IDLE_TIMEOUT", &cfg.WizardIdleTimeout},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a duration (e.g. 300ms): %w", d.key, err)
		}
		d.dst.Duration = parsed
	}

	if cfg.SimulatedLatency.Duration < 0 {
		return Config{}, fmt.Errorf("SIMULATED_LATENCY must be >= 0")
	}
	if cfg.WizardIdleTimeout.Duration < 0 {
		return Config{}, fmt.Errorf("WIZARD_IDLE_TIMEOUT must be >= 0")
	}
	return cfg, nil
}
