package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/beamlab/internal/beam"
	"github.com/samcharles93/beamlab/internal/logger"
	"github.com/samcharles93/beamlab/internal/metrics"
	"github.com/samcharles93/beamlab/internal/present"
)

func runCmd() *cli.Command {
	var opts searchOptions

	return &cli.Command{
		Name:  "run",
		Usage: "Run a beam search to completion, printing every step",
		Flags: opts.flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applySearchConfig(cmd, fileConfig, &opts)

			scorer, cfg, err := opts.prepare(log)
			if err != nil {
				return err
			}
			p, err := present.New(present.Format(opts.format), cmd.Root().Writer)
			if err != nil {
				return err
			}
			out := &present.Observer{P: p}
			collector := metrics.New()

			search, err := beam.NewSearch(opts.start, scorer, cfg,
				beam.WithLogger(log),
				beam.WithObserver(out),
				beam.WithObserver(collector),
			)
			if err != nil {
				return err
			}
			log.Debug("search started", "run_id", search.RunID(), "beam", cfg.BeamWidth, "branch", cfg.BranchingFactor)

			res, err := search.Run(ctx)
			if merr := writeMetrics(log, collector, opts.metricsFile); merr != nil && err == nil {
				err = merr
			}
			if err != nil {
				return err
			}
			if err := out.Err(); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			log.Info("search finished", "reason", string(res.Reason), "steps", res.Steps, "completed", len(res.Completed))
			return nil
		},
	}
}

func writeMetrics(log logger.Logger, c *metrics.Collector, path string) error {
	if path == "" {
		return nil
	}
	if err := c.WriteFile(path); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	log.Debug("metrics written", "path", path)
	return nil
}
