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
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds API access configuration
type TMDBConfig struct {
	BearerToken       string `mapstructure:"bearer_token"`       // v4 API read access token
	RequestsPerSecond int    `mapstructure:"requests_per_second"` // outbound ceiling, rolling 1s window
}

// CacheConfig holds cache location and tier lifetimes
type CacheConfig struct {
	Dir             string        `mapstructure:"dir"`
	WatchlistTTL    time.Duration `mapstructure:"watchlist_ttl"`
	AvailabilityTTL time.Duration `mapstructure:"availability_ttl"`
	GenreTTL        time.Duration `mapstructure:"genre_ttl"`
}

// SearchConfig holds pipeline tuning
type SearchConfig struct {
	BatchSize int `mapstructure:"batch_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			RequestsPerSecond: 40,
		},
		Cache: CacheConfig{
			Dir:             defaultCachePath(),
			WatchlistTTL:    time.Hour,
			AvailabilityTTL: 24 * time.Hour,
			GenreTTL:        7 * 24 * time.Hour,
		},
		Search: SearchConfig{
			BatchSize: 15,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "streamlist", "streamlist.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "streamlist", "streamlist.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "streamlist")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "streamlist")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "streamlist", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "streamlist", "cache")
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
	viper.SetEnvPrefix("STREAMLIST")
	viper.AutomaticEnv()
	viper.BindEnv("tmdb.bearer_token", "TMDB_BEARER_TOKEN")

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

// SaveToken persists the bearer token from the setup flow
func SaveToken(token string) error {
	viper.Set("tmdb.bearer_token", token)

	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the API token is set
func (c *Config) IsConfigured() bool {
	return c.TMDB.BearerToken != ""
}
