// Package config provides configuration management for the fast-break tools.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Read the configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment overrides: FAST_BREAK_STORE_DIR, FAST_BREAK_APP_LOG_LEVEL, ...
	v.SetEnvPrefix("FAST_BREAK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fast-break")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("store.dir", "data/teams")
	v.SetDefault("fetcher.rate_limit", 0.2)
	v.SetDefault("fetcher.timeout_seconds", 30)
	v.SetDefault("fetcher.max_retries", 3)
	v.SetDefault("simulation.draws", 10000)
	v.SetDefault("lines.sport_key", "basketball_ncaab")
	v.SetDefault("sync.cron", "0 6 * * *")
	v.SetDefault("sync.metrics_address", ":9090")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 4)
	v.SetDefault("database.max_idle_connections", 2)
}
