package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Network  NetworkConfig  `mapstructure:"network"`
	Export   ExportConfig   `mapstructure:"export"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds the sync endpoint configuration
type ServerConfig struct {
	URL string `mapstructure:"url"` // Remote collaborator endpoint
}

// DatabaseConfig holds local store configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"` // BoltDB file path
}

// SyncConfig holds sync engine pacing
type SyncConfig struct {
	Pause   time.Duration `mapstructure:"pause"`   // Fixed pause between attempts
	Timeout time.Duration `mapstructure:"timeout"` // Per-request timeout
}

// NetworkConfig holds connectivity monitor settings
type NetworkConfig struct {
	ProbeInterval time.Duration `mapstructure:"probe_interval"`
}

// ExportConfig holds CSV export settings
type ExportConfig struct {
	Dir string `mapstructure:"dir"` // Directory CSV exports are written to
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "",
		},
		Database: DatabaseConfig{
			Path: defaultDataPath("gsales.db"),
		},
		Sync: SyncConfig{
			Pause:   200 * time.Millisecond,
			Timeout: 30 * time.Second,
		},
		Network: NetworkConfig{
			ProbeInterval: 15 * time.Second,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Logging: LoggingConfig{
			File:  defaultDataPath("gsales.log"),
			Level: "INFO",
		},
	}
}

// MarkerPath returns the last-sync marker slot, kept beside the database but
// in its own file (advisory state, separate persistence domain).
func (c *Config) MarkerPath() string {
	return filepath.Join(filepath.Dir(c.Database.Path), "last_sync")
}

// IsConfigured returns true if a sync endpoint has been set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}

// Validate checks values a zero or negative setting would break
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Sync.Timeout <= 0 {
		return fmt.Errorf("sync.timeout must be positive")
	}
	if c.Sync.Pause < 0 {
		return fmt.Errorf("sync.pause must not be negative")
	}
	if c.Network.ProbeInterval <= 0 {
		return fmt.Errorf("network.probe_interval must be positive")
	}
	return nil
}

// defaultDataPath returns the default data file path for the current OS
func defaultDataPath(name string) string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "gsales", name)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "gsales", name)
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "gsales")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "gsales")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("GSALES")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("server.url", cfg.Server.URL)
	viper.Set("database.path", cfg.Database.Path)
	viper.Set("sync.pause", cfg.Sync.Pause.String())
	viper.Set("sync.timeout", cfg.Sync.Timeout.String())
	viper.Set("network.probe_interval", cfg.Network.ProbeInterval.String())
	viper.Set("export.dir", cfg.Export.Dir)
	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
