// Package config provides configuration management for the fast-break tools.
package config

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Store      StoreConfig      `mapstructure:"store" validate:"required"`
	Fetcher    FetcherConfig    `mapstructure:"fetcher" validate:"required"`
	Lines      LinesConfig      `mapstructure:"lines"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Sync       SyncConfig       `mapstructure:"sync"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// StoreConfig locates the durable team store
type StoreConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// FetcherConfig configures the content fetcher
type FetcherConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"omitempty,url"`
	Season         int     `mapstructure:"season" validate:"required,gte=1950"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	UserAgent      string  `mapstructure:"user_agent"`
}

// LinesConfig configures the market line provider
type LinesConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BaseURL  string `mapstructure:"base_url" validate:"omitempty,url"`
	SportKey string `mapstructure:"sport_key"`
	APIKey   string `mapstructure:"api_key"`
}

// SimulationConfig configures Monte Carlo runs
type SimulationConfig struct {
	Draws int   `mapstructure:"draws" validate:"required,gt=0"`
	Seed  int64 `mapstructure:"seed"`
}

// DatabaseConfig represents the optional game log index connection
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// SyncConfig configures the scheduled update daemon
type SyncConfig struct {
	Teams          []string `mapstructure:"teams"`
	Cron           string   `mapstructure:"cron"`
	MetricsAddress string   `mapstructure:"metrics_address"`
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment reports whether the app runs in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
