// Package config loads the YAML configuration of the labelplace tool and applies environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tdewolff/labelplace"
	"github.com/tdewolff/labelplace/internal/log"
)

// Environment variables that override the file.
const (
	EnvSeed      = "LABELPLACE_SEED"
	EnvLogLevel  = "LABELPLACE_LOG_LEVEL"
	EnvLogFormat = "LABELPLACE_LOG_FORMAT"
	EnvLogFile   = "LABELPLACE_LOG_FILE"
)

// Placement holds the annealer parameters, zero values take the engine defaults.
type Placement struct {
	Seed                    uint64  `yaml:"seed"`
	RepulsiveFactor         float64 `yaml:"repulsive_factor"`
	OverlapFactor           float64 `yaml:"overlap_factor"`
	ForceEps                float64 `yaml:"force_eps"`
	MinForce                float64 `yaml:"min_force"`
	CoolingStages           uint32  `yaml:"cooling_stages"`
	MovesPerStageMultiplier uint32  `yaml:"moves_per_stage_multiplier"`
	MaxIterations           int     `yaml:"max_iterations"`
	Check                   bool    `yaml:"check"`
}

// Preview holds the settings of the preview image and of text measurement.
type Preview struct {
	Width      float64 `yaml:"width"`      // in mm
	FontSize   float64 `yaml:"font_size"`  // in pt
	Padding    float64 `yaml:"padding"`    // around the text, in mm
	Margin     float64 `yaml:"margin"`     // in mm
	Resolution float64 `yaml:"resolution"` // dots per mm for raster output
	YDown      bool    `yaml:"y_down"`
	Unplaced   bool    `yaml:"unplaced"` // draw the anchors of unplaced labels
}

// Logging holds the logger settings.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Config is the complete configuration.
type Config struct {
	Placement Placement `yaml:"placement"`
	Preview   Preview   `yaml:"preview"`
	Logging   Logging   `yaml:"logging"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	def := labelplace.DefaultOptions
	return Config{
		Placement: Placement{
			Seed:                    def.Seed,
			RepulsiveFactor:         def.RepulsiveFactor,
			OverlapFactor:           def.OverlapFactor,
			ForceEps:                def.ForceEps,
			MinForce:                def.MinForce,
			CoolingStages:           def.CoolingStages,
			MovesPerStageMultiplier: def.MovesPerStageMultiplier,
		},
		Preview: Preview{
			Width:      200.0,
			FontSize:   8.0,
			Padding:    0.5,
			Margin:     5.0,
			Resolution: 8.0,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load returns the defaults merged with the YAML file at filename, if not empty, and with the environment overrides.
func Load(filename string) (Config, error) {
	cfg := Defaults()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return cfg, err
		}
		if err := Decode(&cfg, data); err != nil {
			return cfg, fmt.Errorf("%s: %w", filename, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode merges YAML data into cfg, keys that are absent keep their current value. Unknown keys are an error.
func Decode(cfg *Config, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Encode writes cfg as YAML.
func Encode(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// ApplyEnv applies the environment overrides using lookup, which is typically os.LookupEnv.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSeed); ok && strings.TrimSpace(v) != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 0, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Placement.Seed = seed
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		cfg.Logging.Format = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		cfg.Logging.File = v
	}
	return nil
}

// Validate checks the placement options and the preview dimensions.
func (cfg *Config) Validate() error {
	if err := cfg.Options().Validate(); err != nil {
		return err
	}
	if cfg.Preview.Width <= 0.0 || cfg.Preview.FontSize <= 0.0 || cfg.Preview.Resolution <= 0.0 {
		return fmt.Errorf("bad preview: width, font size and resolution must be positive")
	} else if cfg.Preview.Padding < 0.0 || cfg.Preview.Margin < 0.0 {
		return fmt.Errorf("bad preview: padding and margin must not be negative")
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("bad logging: unknown format %q", cfg.Logging.Format)
	}
	return nil
}

// Options returns the engine options for the placement section.
func (cfg *Config) Options() *labelplace.Options {
	p := cfg.Placement
	return &labelplace.Options{
		Seed:                    p.Seed,
		RepulsiveFactor:         p.RepulsiveFactor,
		OverlapFactor:           p.OverlapFactor,
		ForceEps:                p.ForceEps,
		MinForce:                p.MinForce,
		CoolingStages:           p.CoolingStages,
		MovesPerStageMultiplier: p.MovesPerStageMultiplier,
		MaxIterations:           p.MaxIterations,
		Check:                   p.Check,
	}
}

// LogOptions returns the logger options for the logging section.
func (cfg *Config) LogOptions() log.Options {
	return log.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}
}
