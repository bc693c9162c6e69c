// Package config loads the run configuration of the qsieve command from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mahdiidarabi/rsa-qsieve/internal/bench"
	"github.com/mahdiidarabi/rsa-qsieve/pkg/qsieve"
	"github.com/mahdiidarabi/rsa-qsieve/pkg/rsakey"
)

// SieveConfig mirrors qsieve.Config in YAML form.
type SieveConfig struct {
	InitialBound      int64   `yaml:"initial_bound"`
	IntervalWidth     int64   `yaml:"interval_width"`
	RelationMargin    int     `yaml:"relation_margin"`
	MaxRetries        int     `yaml:"max_retries"`
	BoundGrowthFactor float64 `yaml:"bound_growth_factor"`
	BoundScale        float64 `yaml:"bound_scale"`
}

// RunConfig is everything one invocation of the command needs.
type RunConfig struct {
	Keys        string      `yaml:"keys"`   // key file; empty uses the built-in sample keys
	Format      string      `yaml:"format"` // json or csv
	Workers     int         `yaml:"workers"`
	Message     int64       `yaml:"message"`
	Repetitions int         `yaml:"repetitions"`
	Sieve       SieveConfig `yaml:"sieve"`
	Report      string      `yaml:"report"` // Markdown output path, empty to skip
	Plots       string      `yaml:"plots"`  // HTML output path, empty to skip
}

// DefaultRunConfig returns the configuration used when no file is given.
func DefaultRunConfig() *RunConfig {
	d := qsieve.DefaultConfig()
	return &RunConfig{
		Format:      "json",
		Workers:     0,
		Message:     bench.DefaultMessage,
		Repetitions: bench.DefaultRepetitions,
		Sieve: SieveConfig{
			InitialBound:      d.InitialBound,
			IntervalWidth:     d.IntervalWidth,
			RelationMargin:    d.RelationMargin,
			MaxRetries:        d.MaxRetries,
			BoundGrowthFactor: d.BoundGrowthFactor,
			BoundScale:        d.BoundScale,
		},
	}
}

// LoadConfig reads a YAML file over DefaultRunConfig. Fields missing from
// the file keep their defaults.
func LoadConfig(path string) (*RunConfig, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(body)
}

// Parse decodes YAML over DefaultRunConfig and validates the result.
func Parse(body []byte) (*RunConfig, error) {
	cfg := DefaultRunConfig()
	if err := yaml.Unmarshal(body, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the run settings and the embedded sieve settings.
func (c *RunConfig) Validate() error {
	switch {
	case c.Format != "json" && c.Format != "csv":
		return fmt.Errorf("unknown key file format %q (want json or csv)", c.Format)
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	case c.Repetitions <= 0:
		return fmt.Errorf("repetitions must be positive, got %d", c.Repetitions)
	case c.Message < 0:
		return fmt.Errorf("message must not be negative, got %d", c.Message)
	}
	return c.QSieve(nil).Validate()
}

// QSieve converts the sieve section into a qsieve.Config.
func (c *RunConfig) QSieve(logger *slog.Logger) qsieve.Config {
	return qsieve.Config{
		InitialBound:      c.Sieve.InitialBound,
		IntervalWidth:     c.Sieve.IntervalWidth,
		RelationMargin:    c.Sieve.RelationMargin,
		MaxRetries:        c.Sieve.MaxRetries,
		BoundGrowthFactor: c.Sieve.BoundGrowthFactor,
		BoundScale:        c.Sieve.BoundScale,
		Logger:            logger,
	}
}

// Parser returns the key parser for the configured format.
func (c *RunConfig) Parser() rsakey.KeyParser {
	if c.Format == "csv" {
		return &rsakey.CSVParser{}
	}
	return &rsakey.JSONParser{}
}

// LoadKeys parses the configured key file, or returns the sample keys when
// none is set.
func (c *RunConfig) LoadKeys() ([]*rsakey.KeyPair, error) {
	if c.Keys == "" {
		return rsakey.SampleKeys(), nil
	}
	return c.Parser().ParseKeys(c.Keys)
}
