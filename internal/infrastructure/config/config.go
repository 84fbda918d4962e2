// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. RECIPEBOOK_CATALOG_FILE
const EnvPrefix = "RECIPEBOOK"

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Server     ServerConfig     `mapstructure:"server"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Export     ExportConfig     `mapstructure:"export"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// CatalogConfig locates the backing file and tunes catalog behavior
type CatalogConfig struct {
	File string `mapstructure:"file"`
	// RandomSeed makes suggestions reproducible; 0 seeds from the runtime
	RandomSeed uint64 `mapstructure:"random_seed"`
	Watch      bool   `mapstructure:"watch"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// WriteRatePerMin limits POST requests; 0 disables the limit
	WriteRatePerMin int `mapstructure:"write_rate_per_min"`
	WriteBurst      int `mapstructure:"write_burst"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics bool   `mapstructure:"enable_metrics"`
	MetricsPath   string `mapstructure:"metrics_path"`
}

// ExportConfig configures the SQLite export
type ExportConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
}

// Load loads configuration from file and environment variables.
// The returned Viper instance lets callers bind command-line flags over the same keys.
func Load(configPath string) (*Config, *viper.Viper, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("recipebook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "recipebook"))
		}
	}

	// Enable environment variable override
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	config, err := Decode(v)
	if err != nil {
		return nil, nil, err
	}

	return config, v, nil
}

// Decode unmarshals and validates the current state of v
func Decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Recipebook")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")

	// Catalog defaults
	v.SetDefault("catalog.file", "recipes.txt")
	v.SetDefault("catalog.random_seed", 0)
	v.SetDefault("catalog.watch", false)

	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.write_rate_per_min", 120)
	v.SetDefault("server.write_burst", 10)

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")

	// Export defaults
	v.SetDefault("export.sqlite_path", "recipes.db")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.Catalog.File == "" {
		return fmt.Errorf("catalog.file is required")
	}

	switch c.App.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("app.log_format must be json or console, got %q", c.App.LogFormat)
	}

	// Validate port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Server.WriteRatePerMin < 0 || c.Server.WriteBurst < 0 {
		return fmt.Errorf("server.write_rate_per_min and server.write_burst must not be negative")
	}

	if c.Monitoring.EnableMetrics && !strings.HasPrefix(c.Monitoring.MetricsPath, "/") {
		return fmt.Errorf("monitoring.metrics_path must start with /")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Address returns the host:port the HTTP server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
