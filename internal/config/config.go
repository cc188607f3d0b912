// Package config loads the transitionctl configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/comalice/transitionx/internal/logging"
)

// Scheme names accepted in Config.Scheme.
const (
	SchemeArcStandard = "arcstandard"
	SchemeTagger      = "tagger"
)

// Store drivers accepted in StoreConfig.Driver.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config is the CLI configuration.
type Config struct {
	Scheme      string      `yaml:"scheme"`
	BeamWidth   int         `yaml:"beam_width"`
	BeamDensity float64     `yaml:"beam_density"`
	MinFreq     int         `yaml:"min_freq"`
	Workers     int         `yaml:"workers"`
	Store       StoreConfig `yaml:"store"`
	Log         LogConfig   `yaml:"log"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Scheme:    SchemeArcStandard,
		BeamWidth: 8,
		Store:     StoreConfig{Driver: DriverSQLite, Path: "transitionx.db"},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges and names.
func (c *Config) Validate() error {
	switch c.Scheme {
	case SchemeArcStandard, SchemeTagger:
	case "":
		return errors.New("scheme is required")
	default:
		return fmt.Errorf("unknown scheme %q", c.Scheme)
	}
	if c.BeamWidth < 1 {
		return fmt.Errorf("beam_width must be at least 1, got %d", c.BeamWidth)
	}
	if c.BeamDensity < 0 {
		return fmt.Errorf("beam_density must not be negative, got %g", c.BeamDensity)
	}
	if c.MinFreq < 0 {
		return fmt.Errorf("min_freq must not be negative, got %d", c.MinFreq)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Store.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Path == "" {
		return errors.New("store path is required")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
