package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config represents the complete client configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Redis   RedisConfig   `toml:"redis"`
	Jobs    JobsConfig    `toml:"jobs"`
	Reports ReportsConfig `toml:"reports"`
}

// APIConfig contains remote store settings.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// RedisConfig contains session cache settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// JobsConfig contains background refresh settings.
type JobsConfig struct {
	StatsRefreshMinutes int `toml:"stats_refresh_minutes"`
}

// ReportsConfig contains report output settings.
type ReportsConfig struct {
	OutputDir string `toml:"output_dir"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		API:     APIConfig{BaseURL: "http://localhost:3000", TimeoutSeconds: 10},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Jobs:    JobsConfig{StatsRefreshMinutes: 5},
		Reports: ReportsConfig{OutputDir: "."},
	}
}

// Load reads configuration from a TOML file and applies environment
// overrides. A missing file is not an error; defaults are used.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			if _, err := toml.DecodeFile(filename, cfg); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 10
	}
	if cfg.Jobs.StatsRefreshMinutes <= 0 {
		cfg.Jobs.StatsRefreshMinutes = 5
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("API_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = n
		}
	}
	if v := os.Getenv("STATS_REFRESH_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Jobs.StatsRefreshMinutes = n
		}
	}
	if v := os.Getenv("REPORT_OUTPUT_DIR"); v != "" {
		c.Reports.OutputDir = v
	}
}
