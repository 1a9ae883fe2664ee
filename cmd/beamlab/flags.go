package main

import (
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/beamlab/internal/beam"
	"github.com/samcharles93/beamlab/internal/present"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default $XDG_CONFIG_HOME/beamlab/config.yaml)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// scorerOptions selects where continuation scores come from.
type scorerOptions struct {
	table       string
	toy         bool
	toySeed     int64
	toyHidden   int64
	temperature float64
	topK        int64
}

func (o *scorerOptions) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "table",
			Usage:       "score table (.yaml, .yml or .json); the built-in demo table when empty",
			Sources:     cli.EnvVars("BEAMLAB_TABLE"),
			Destination: &o.table,
		},
		&cli.BoolFlag{
			Name:        "toy",
			Usage:       "score with the seeded toy bigram model instead of a table",
			Destination: &o.toy,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "toy model seed",
			Value:       1,
			Destination: &o.toySeed,
		},
		&cli.Int64Flag{
			Name:        "hidden",
			Usage:       "toy model hidden size",
			Value:       16,
			Destination: &o.toyHidden,
		},
		&cli.Float64Flag{
			Name:        "temperature",
			Aliases:     []string{"temp"},
			Usage:       "toy model softmax temperature",
			Value:       1.0,
			Destination: &o.temperature,
		},
		&cli.Int64Flag{
			Name:        "top-k",
			Usage:       "toy model continuations offered per step (0 = whole vocabulary)",
			Destination: &o.topK,
		},
	}
}

// searchOptions carries everything needed to build a beam.Search.
type searchOptions struct {
	scorerOptions

	start           string
	beamWidth       int64
	branch          int64
	maxSteps        int64
	maxCompleted    int64
	maxPerParent    int64
	alpha           float64
	penalty         string
	endToken        string
	allowDuplicates bool
	format          string
	metricsFile     string
}

func (o *searchOptions) flags() []cli.Flag {
	def := beam.DefaultConfig()
	flags := append(o.scorerOptions.flags(),
		&cli.StringFlag{
			Name:        "start",
			Usage:       "seed token placed before the first step",
			Destination: &o.start,
		},
		&cli.Int64Flag{
			Name:        "beam",
			Aliases:     []string{"k"},
			Usage:       "beam width",
			Value:       int64(def.BeamWidth),
			Destination: &o.beamWidth,
		},
		&cli.Int64Flag{
			Name:        "branch",
			Aliases:     []string{"b"},
			Usage:       "continuations expanded per hypothesis",
			Value:       int64(def.BranchingFactor),
			Destination: &o.branch,
		},
		&cli.Int64Flag{
			Name:        "max-steps",
			Aliases:     []string{"n"},
			Usage:       "step budget",
			Value:       int64(def.MaxSteps),
			Destination: &o.maxSteps,
		},
		&cli.Int64Flag{
			Name:        "max-completed",
			Usage:       "stop after this many completed hypotheses (0 = beam width)",
			Destination: &o.maxCompleted,
		},
		&cli.Int64Flag{
			Name:        "max-per-parent",
			Usage:       "keep at most this many children of one hypothesis while others compete (0 = no cap)",
			Destination: &o.maxPerParent,
		},
		&cli.Float64Flag{
			Name:        "alpha",
			Usage:       "length normalization exponent (0 = raw scores)",
			Value:       def.Alpha,
			Destination: &o.alpha,
		},
		&cli.StringFlag{
			Name:        "penalty",
			Usage:       "length penalty (power, gnmt)",
			Value:       string(def.Penalty),
			Destination: &o.penalty,
		},
		&cli.StringFlag{
			Name:        "end-token",
			Usage:       "termination marker (default: the table's, else </s>)",
			Destination: &o.endToken,
		},
		&cli.BoolFlag{
			Name:        "allow-duplicates",
			Usage:       "keep candidates that repeat an already kept sequence",
			Destination: &o.allowDuplicates,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "output format (cards, json)",
			Value:       string(present.FormatCards),
			Destination: &o.format,
		},
		&cli.StringFlag{
			Name:        "metrics-file",
			Usage:       "write Prometheus metrics to this file when the search ends",
			Destination: &o.metricsFile,
		},
	)
	return flags
}

func (o *searchOptions) config() beam.Config {
	return beam.Config{
		BeamWidth:       int(o.beamWidth),
		BranchingFactor: int(o.branch),
		MaxSteps:        int(o.maxSteps),
		MaxCompleted:    int(o.maxCompleted),
		MaxPerParent:    int(o.maxPerParent),
		EndToken:        o.endToken,
		Alpha:           o.alpha,
		Penalty:         beam.Penalty(o.penalty),
		AllowDuplicates: o.allowDuplicates,
	}
}
