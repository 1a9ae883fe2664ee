package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the beamlab configuration file
// (~/.config/beamlab/config.yaml). Pointer fields distinguish "not set" from
// zero values.
type Config struct {
	Table string `yaml:"table"`

	BeamWidth       *int64   `yaml:"beam_width"`
	BranchingFactor *int64   `yaml:"branching_factor"`
	MaxSteps        *int64   `yaml:"max_steps"`
	MaxCompleted    *int64   `yaml:"max_completed"`
	MaxPerParent    *int64   `yaml:"max_per_parent"`
	Alpha           *float64 `yaml:"alpha"`
	Penalty         string   `yaml:"penalty"`
	EndToken        string   `yaml:"end_token"`
	AllowDuplicates *bool    `yaml:"allow_duplicates"`

	// Toy model
	Seed        *int64   `yaml:"seed"`
	Hidden      *int64   `yaml:"hidden"`
	Temperature *float64 `yaml:"temperature"`
	TopK        *int64   `yaml:"top_k"`

	// Play
	Interval *time.Duration `yaml:"interval"`

	// Output
	Format    string `yaml:"format"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

var fileConfig Config

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "beamlab", "config.yaml")
}

// loadConfig reads path, or the default location when path is empty. A
// missing default file yields a zero Config; a missing explicit file is an
// error.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
		if path == "" {
			return Config{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyGlobalConfig fills logging settings the user did not pass.
func applyGlobalConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyScorerConfig fills scorer options the user did not pass.
func applyScorerConfig(c *cli.Command, cfg Config, o *scorerOptions) {
	if cfg.Table != "" && !c.IsSet("table") {
		o.table = cfg.Table
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		o.toySeed = *cfg.Seed
	}
	if cfg.Hidden != nil && !c.IsSet("hidden") {
		o.toyHidden = *cfg.Hidden
	}
	if cfg.Temperature != nil && !c.IsSet("temperature") && !c.IsSet("temp") {
		o.temperature = *cfg.Temperature
	}
	if cfg.TopK != nil && !c.IsSet("top-k") {
		o.topK = *cfg.TopK
	}
}

// applySearchConfig fills search options the user did not pass.
func applySearchConfig(c *cli.Command, cfg Config, o *searchOptions) {
	applyScorerConfig(c, cfg, &o.scorerOptions)
	if cfg.BeamWidth != nil && !c.IsSet("beam") && !c.IsSet("k") {
		o.beamWidth = *cfg.BeamWidth
	}
	if cfg.BranchingFactor != nil && !c.IsSet("branch") && !c.IsSet("b") {
		o.branch = *cfg.BranchingFactor
	}
	if cfg.MaxSteps != nil && !c.IsSet("max-steps") && !c.IsSet("n") {
		o.maxSteps = *cfg.MaxSteps
	}
	if cfg.MaxCompleted != nil && !c.IsSet("max-completed") {
		o.maxCompleted = *cfg.MaxCompleted
	}
	if cfg.MaxPerParent != nil && !c.IsSet("max-per-parent") {
		o.maxPerParent = *cfg.MaxPerParent
	}
	if cfg.Alpha != nil && !c.IsSet("alpha") {
		o.alpha = *cfg.Alpha
	}
	if cfg.Penalty != "" && !c.IsSet("penalty") {
		o.penalty = cfg.Penalty
	}
	if cfg.EndToken != "" && !c.IsSet("end-token") {
		o.endToken = cfg.EndToken
	}
	if cfg.AllowDuplicates != nil && !c.IsSet("allow-duplicates") {
		o.allowDuplicates = *cfg.AllowDuplicates
	}
	if cfg.Format != "" && !c.IsSet("format") {
		o.format = cfg.Format
	}
}
