// Package config loads runtime settings from an optional .env file, an
// optional YAML file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config holds runtime configuration for the marketplace server.
type Config struct {
	Port          string        `yaml:"port"`
	LogLevel      string        `yaml:"log_level"`
	StorageDriver string        `yaml:"storage_driver"`
	DataDir       string        `yaml:"data_dir"`
	RedisURL      string        `yaml:"redis_url"`
	RedisPrefix   string        `yaml:"redis_prefix"`
	DepositDelay  time.Duration `yaml:"deposit_delay"`
	SeedDemo      bool          `yaml:"seed_demo"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Port:          ":8080",
		LogLevel:      "info",
		StorageDriver: DriverFile,
		DataDir:       "./data",
		RedisPrefix:   "auction:",
		DepositDelay:  time.Second,
		SeedDemo:      true,
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// CONFIG_FILE variable is consulted, and a missing file is not an error
// unless it was named explicitly.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = GetString("CONFIG_FILE", "")
		explicit = path != ""
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	cfg.Port = GetString("PORT", cfg.Port)
	cfg.LogLevel = GetString("LOG_LEVEL", cfg.LogLevel)
	cfg.StorageDriver = GetString("STORAGE_DRIVER", cfg.StorageDriver)
	cfg.DataDir = GetString("DATA_DIR", cfg.DataDir)
	cfg.RedisURL = GetString("REDIS_URL", cfg.RedisURL)
	cfg.RedisPrefix = GetString("REDIS_PREFIX", cfg.RedisPrefix)
	cfg.DepositDelay = GetDuration("DEPOSIT_DELAY", cfg.DepositDelay)
	cfg.SeedDemo = GetBool("SEED_DEMO", cfg.SeedDemo)

	// a bare port number means all interfaces
	if cfg.Port != "" && !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Validate checks that the settings can be used to start the server
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory:
	case DriverFile:
		if c.DataDir == "" {
			return errors.New("config: DATA_DIR is required for the file driver")
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required for the redis driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.StorageDriver)
	}
	if c.Port == "" {
		return errors.New("config: PORT is required")
	}
	if c.DepositDelay < 0 {
		return errors.New("config: DEPOSIT_DELAY must not be negative")
	}
	return nil
}
