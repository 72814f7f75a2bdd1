// Package config loads mortyverse settings from a YAML file and
// MORTYVERSE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sternrassler/mortyverse/pkg/listing"
	"github.com/Sternrassler/mortyverse/pkg/rickmorty"
	"github.com/Sternrassler/mortyverse/pkg/tmdb"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (MORTYVERSE_TMDB_API_KEY).
const EnvPrefix = "MORTYVERSE"

// Config holds all application configuration.
type Config struct {
	TMDB      TMDBConfig      `mapstructure:"tmdb"`
	RickMorty RickMortyConfig `mapstructure:"rickmorty"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Redis     RedisConfig     `mapstructure:"redis"`
	List      ListConfig      `mapstructure:"list"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
}

// TMDBConfig holds the movie API settings.
type TMDBConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	ImageBaseURL string `mapstructure:"image_base_url"`
}

// RickMortyConfig holds the character API settings.
type RickMortyConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// HTTPConfig holds transport settings.
type HTTPConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// RedisConfig enables the detail cache and shared cooldowns when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ListConfig holds list controller settings.
type ListConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	File   string `mapstructure:"file"`
}

// ServerConfig holds the JSON API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// SetDefaults registers every key with its default so that environment
// overrides resolve during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("tmdb.base_url", tmdb.DefaultBaseURL)
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.image_base_url", tmdb.DefaultImageBaseURL)
	v.SetDefault("rickmorty.base_url", rickmorty.DefaultBaseURL)
	v.SetDefault("http.timeout", time.Duration(0))
	v.SetDefault("http.requests_per_second", 20.0)
	v.SetDefault("http.burst", 5)
	v.SetDefault("http.user_agent", "mortyverse/1.0")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("list.debounce", listing.DefaultDebounce)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
	v.SetDefault("logging.file", DefaultLogPath())
	v.SetDefault("server.addr", ":8080")
}

// Load reads the config file (explicit path, or config.yaml in the default
// directory or the working directory) and applies environment overrides.
// A missing default file is not an error; a missing explicit file is.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must be >= 0 (got %v)", c.HTTP.Timeout)
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("http.requests_per_second must be >= 0 (got %v)", c.HTTP.RequestsPerSecond)
	}
	if c.List.Debounce < 0 {
		return fmt.Errorf("list.debounce must be >= 0 (got %v)", c.List.Debounce)
	}
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent is required")
	}
	return nil
}

// RequireTMDB reports a missing API key for commands that talk to TMDB.
func (c *Config) RequireTMDB() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is not set (config file or %s_TMDB_API_KEY)", EnvPrefix)
	}
	return nil
}

// TMDBConfiguration converts to the gateway configuration.
func (c *Config) TMDBConfiguration() tmdb.Configuration {
	return tmdb.Configuration{
		BaseURL:      c.TMDB.BaseURL,
		APIKey:       c.TMDB.APIKey,
		ImageBaseURL: c.TMDB.ImageBaseURL,
	}
}

// RickMortyConfiguration converts to the gateway configuration.
func (c *Config) RickMortyConfiguration() rickmorty.Configuration {
	return rickmorty.Configuration{BaseURL: c.RickMorty.BaseURL}
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/mortyverse or ~/.config/mortyverse.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mortyverse")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mortyverse")
}

// DefaultLogPath returns the log file used by the terminal UI.
func DefaultLogPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mortyverse", "mortyverse.log")
}
