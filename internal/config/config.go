// Package config loads the application configuration from environment
// variables (prefix BURNREG) layered over an optional YAML file. The YAML
// file is also where the categorical expected-value sets live; a set that is
// absent disables the corresponding check rather than failing every value.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"burnreg/internal/dataprocessing"
	"burnreg/internal/errors"
)

// envPrefix is the prefix for all environment variable overrides.
const envPrefix = "BURNREG"

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Checks  ChecksConfig  `yaml:"checks" envconfig:"CHECKS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains the dataset file locations
type PathsConfig struct {
	SourceFile   string `yaml:"source_file" envconfig:"SOURCE_FILE"`
	CleanFile    string `yaml:"clean_file" envconfig:"CLEAN_FILE"`
	ReportFile   string `yaml:"report_file" envconfig:"REPORT_FILE"`
	DatabaseFile string `yaml:"database_file" envconfig:"DATABASE_FILE"`
}

// ChecksConfig carries the externally configurable validation settings: the
// categorical expected-value sets and the report's sample preview size.
type ChecksConfig struct {
	PreviewRows int      `yaml:"preview_rows" envconfig:"PREVIEW_ROWS"`
	Sexo        []string `yaml:"sexo" envconfig:"SEXO"`
	Destino     []string `yaml:"destino" envconfig:"DESTINO"`
	Origem      []string `yaml:"origem" envconfig:"ORIGEM"`
	Etiologia   []string `yaml:"etiologia" envconfig:"ETIOLOGIA"`
	EntVMI      []string `yaml:"ent_vmi" envconfig:"ENT_VMI"`
	LesaoInal   []string `yaml:"lesao_inal" envconfig:"LESAO_INAL"`
}

// Sets converts the configured lists into the rule engine's categorical sets.
func (c ChecksConfig) Sets() dataprocessing.CategoricalSets {
	return dataprocessing.CategoricalSets{
		Sexo:      c.Sexo,
		Destino:   c.Destino,
		Origem:    c.Origem,
		Etiologia: c.Etiologia,
		EntVMI:    c.EntVMI,
		LesaoInal: c.LesaoInal,
	}
}

// Default returns the built-in configuration values.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit:       RateLimitConfig{Enabled: true, RPS: 100, Burst: 50},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/burnreg.log",
		},
		Paths: PathsConfig{
			SourceFile:   "data/BD_doentes.csv",
			CleanFile:    "data/BD_doentes_clean.csv",
			ReportFile:   "data/BD_doentes_report.txt",
			DatabaseFile: "data/burnreg.db",
		},
		Checks: ChecksConfig{
			PreviewRows: 10,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file when it exists,
// then environment variables on top. An empty configFile skips the file layer.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, errors.NewConfigError("failed to read config file", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, errors.NewConfigError("failed to parse config file", err)
			}
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.NewConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// validate checks the values that would otherwise fail at an awkward moment.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}

	if c.Paths.SourceFile == "" {
		return fmt.Errorf("source file path must be set")
	}

	return nil
}
