package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "SKILLTRACKER_CONFIG"
	addrEnv           = "SKILLTRACKER_ADDR"
	logLevelEnv       = "SKILLTRACKER_LOG_LEVEL"
	requiredPointsEnv = "SKILLTRACKER_REQUIRED_POINTS"
	timezoneEnv       = "SKILLTRACKER_TIMEZONE"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Progress  ProgressConfig  `yaml:"progress"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	Mode            string        `yaml:"mode"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// FetcherConfig tunes the outbound profile page client.
type FetcherConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	RetryCount int           `yaml:"retryCount"`
	RetryWait  time.Duration `yaml:"retryWait"`
	UserAgent  string        `yaml:"userAgent"`
}

// ProgressConfig holds the scoring defaults and the calendar used for deadlines.
type ProgressConfig struct {
	RequiredPoints int            `yaml:"requiredPoints"`
	PointsPerDay   int            `yaml:"pointsPerDay"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the progress timezone string to a time.Location.
func (p ProgressConfig) Location() *time.Location {
	if p.location != nil {
		return p.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// RateLimitConfig caps requests per client IP.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// LoggingConfig selects slog level and output format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg, err := Parse(raw)
			if err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

// Parse decodes a YAML document without merging defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(addrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(requiredPointsEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Progress.RequiredPoints = n
		} else {
			log.Printf("config: ignoring %s=%q, expected a positive integer", requiredPointsEnv, v)
		}
	}

	if v := os.Getenv(timezoneEnv); v != "" {
		c.Progress.Timezone = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Progress.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Progress.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.Mode != "" {
		base.Server.Mode = override.Server.Mode
	}
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}

	if override.Fetcher.Timeout > 0 {
		base.Fetcher.Timeout = override.Fetcher.Timeout
	}
	if override.Fetcher.RetryCount > 0 {
		base.Fetcher.RetryCount = override.Fetcher.RetryCount
	}
	if override.Fetcher.RetryWait > 0 {
		base.Fetcher.RetryWait = override.Fetcher.RetryWait
	}
	if override.Fetcher.UserAgent != "" {
		base.Fetcher.UserAgent = override.Fetcher.UserAgent
	}

	if override.Progress.RequiredPoints > 0 {
		base.Progress.RequiredPoints = override.Progress.RequiredPoints
	}
	if override.Progress.PointsPerDay > 0 {
		base.Progress.PointsPerDay = override.Progress.PointsPerDay
	}
	if override.Progress.Timezone != "" {
		base.Progress.Timezone = override.Progress.Timezone
	}

	if override.RateLimit.Requests > 0 {
		base.RateLimit.Requests = override.RateLimit.Requests
	}
	if override.RateLimit.Window > 0 {
		base.RateLimit.Window = override.RateLimit.Window
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

// Default returns the built-in configuration.
func Default() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Server: ServerConfig{Addr: ":5000", Mode: "release", ShutdownTimeout: 5 * time.Second},
		Fetcher: FetcherConfig{
			Timeout:    20 * time.Second,
			RetryCount: 2,
			RetryWait:  500 * time.Millisecond,
			UserAgent:  "SkillTracker/1.0",
		},
		Progress: ProgressConfig{
			RequiredPoints: 5000,
			PointsPerDay:   4,
			Timezone:       defaultTimezone,
			location:       tz,
		},
		RateLimit: RateLimitConfig{Requests: 60, Window: time.Minute},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
	}
}
