package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/beamlab/internal/beam"
	"github.com/samcharles93/beamlab/internal/logger"
	"github.com/samcharles93/beamlab/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "beamlab:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "beamlab",
		Usage:     "Step through bounded-width beam search over toy scorers",
		Version:   version.String(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return ctx, err
			}
			fileConfig = cfg
			applyGlobalConfig(cmd, cfg)

			level := logger.ParseLevel(logLevel)
			if debug {
				level = logger.ParseLevel("debug")
			}
			log := logger.NewFromFormat(stderr, logFormat, level)
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			runCmd(),
			playCmd(),
			greedyCmd(),
			rankCmd(),
			versionCmd(),
		},
	}
}

// exitCode is 2 for configuration mistakes and 1 for everything else.
func exitCode(err error) int {
	if errors.Is(err, beam.ErrInvalidConfiguration) {
		return 2
	}
	return 1
}
