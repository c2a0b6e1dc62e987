package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/yair/eventify/pkg/filters"
)

// EnvPrefix is prepended to every environment override, e.g.
// EVENTIFY_SERVER_PORT or EVENTIFY_DATABASE_PATH. Leaf keys always carry
// the section prefix so bare variables such as PATH or PORT are never read.
const EnvPrefix = "eventify"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Seed     SeedConfig     `json:"seed" yaml:"seed"`
	Filters  FiltersConfig  `json:"filters" yaml:"filters"`
}

// ServerConfig for HTTP server settings
type ServerConfig struct {
	Port         string `json:"port" yaml:"port"`
	ReadTimeout  int    `json:"read_timeout_seconds" yaml:"read_timeout_seconds" split_words:"true"`
	WriteTimeout int    `json:"write_timeout_seconds" yaml:"write_timeout_seconds" split_words:"true"`
}

// DatabaseConfig selects the event store. Path is the SQLite file and is
// ignored by the memory driver.
type DatabaseConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	Path   string `json:"path" yaml:"path"`
}

type LoggingConfig struct {
	Environment string `json:"environment" yaml:"environment"`
}

// SeedConfig controls loading the fixture catalog at server start.
type SeedConfig struct {
	OnStart  bool  `json:"on_start" yaml:"on_start" split_words:"true"`
	RandSeed int64 `json:"rand_seed" yaml:"rand_seed" split_words:"true"`
}

type FiltersConfig struct {
	ApplyMinPrice bool   `json:"apply_min_price" yaml:"apply_min_price" split_words:"true"`
	FeatureMode   string `json:"feature_mode" yaml:"feature_mode" split_words:"true"`
}

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Load reads configuration from file and environment variables.
// A .yaml or .yml file is parsed as YAML, anything else as JSON. A missing
// file is not an error. Environment variables override file values.
func Load(configPath string) (*Config, error) {
	config := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := decode(configPath, data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyDefaults(config)

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

func decode(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	default:
		return json.Unmarshal(data, config)
	}
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30
	}
	if config.Database.Driver == "" {
		config.Database.Driver = DriverSQLite
	}
	if config.Database.Path == "" && config.Database.Driver == DriverSQLite {
		config.Database.Path = "eventify.db"
	}
	if config.Logging.Environment == "" {
		config.Logging.Environment = "development"
	}
	if config.Filters.FeatureMode == "" {
		config.Filters.FeatureMode = filters.FeatureCoupled.String()
	}
}

func applyEnvOverrides(config *Config) error {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("failed to process environment overrides: %w", err)
	}
	return nil
}

// FilterOptions converts the filters section into builder options.
func (c *Config) FilterOptions() (filters.Options, error) {
	mode, err := filters.ParseFeatureMode(c.Filters.FeatureMode)
	if err != nil {
		return filters.Options{}, err
	}
	return filters.Options{ApplyMinPrice: c.Filters.ApplyMinPrice, FeatureMode: mode}, nil
}

// Validate checks if required configurations are present
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port == "" {
		problems = append(problems, "server.port is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		problems = append(problems, "server timeouts must not be negative")
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			problems = append(problems, "database.path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q is not one of sqlite, memory", c.Database.Driver))
	}

	if _, err := filters.ParseFeatureMode(c.Filters.FeatureMode); err != nil {
		problems = append(problems, "filters.feature_mode: "+err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}

	return nil
}
