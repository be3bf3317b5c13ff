// Package config loads marquee's configuration from file, environment
// and defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Sources  SourcesConfig  `mapstructure:"sources"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	OMDB     OMDBConfig     `mapstructure:"omdb"`
	Output   OutputConfig   `mapstructure:"output"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// SourcesConfig selects which sources run and where their definitions live.
type SourcesConfig struct {
	Enabled []string `mapstructure:"enabled"`
	// Dir optionally points at a directory of YAML definitions that
	// override the embedded ones.
	Dir string `mapstructure:"dir"`
}

// ScraperConfig holds page-fetching settings shared by all sources.
type ScraperConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RequestDelayMS int    `mapstructure:"request_delay_ms"`
}

// OMDBConfig holds enrichment service settings.
type OMDBConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	LookupDelayMS  int    `mapstructure:"lookup_delay_ms"`
}

// OutputConfig holds feed file settings.
type OutputConfig struct {
	Dir          string `mapstructure:"dir"`
	CombinedFile string `mapstructure:"combined_file"`
	MetadataFile string `mapstructure:"metadata_file"`
}

// DatabaseConfig holds the run-history database path.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ScheduleConfig drives the periodic `marquee schedule` mode.
type ScheduleConfig struct {
	Cron       string `mapstructure:"cron"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// RequestDelay returns the inter-fetch politeness delay.
func (c *ScraperConfig) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

// Timeout returns the per-page fetch timeout.
func (c *ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LookupDelay returns the inter-lookup politeness delay.
func (c *OMDBConfig) LookupDelay() time.Duration {
	return time.Duration(c.LookupDelayMS) * time.Millisecond
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults. A .env file
// in the working directory is honored so OMDB_API_KEY can live outside
// the checked-in config.
func Load(configPath string) (*Config, error) {
	// Best-effort; a missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.marquee")
	}

	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The original deployment exported the key as plain OMDB_API_KEY.
	_ = v.BindEnv("omdb.api_key", "MARQUEE_OMDB_API_KEY", "OMDB_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sources.enabled", []string{"siff", "viff"})
	v.SetDefault("sources.dir", "")

	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("scraper.timeout_seconds", 30)
	v.SetDefault("scraper.request_delay_ms", 1000)

	v.SetDefault("omdb.enabled", true)
	v.SetDefault("omdb.api_key", "")
	v.SetDefault("omdb.base_url", "http://www.omdbapi.com/")
	v.SetDefault("omdb.timeout_seconds", 10)
	v.SetDefault("omdb.lookup_delay_ms", 300)

	v.SetDefault("output.dir", "./data")
	v.SetDefault("output.combined_file", "movies.json")
	v.SetDefault("output.metadata_file", "metadata.json")

	v.SetDefault("database.path", "./data/marquee.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("schedule.cron", "0 6 * * *")
	v.SetDefault("schedule.run_on_start", false)
}
