package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/beamlab/internal/beam"
	"github.com/samcharles93/beamlab/internal/logger"
	"github.com/samcharles93/beamlab/internal/metrics"
	"github.com/samcharles93/beamlab/internal/player"
	"github.com/samcharles93/beamlab/internal/present"
)

// openKeys is a small seam for tests.
var openKeys = player.StdinKeys

func playCmd() *cli.Command {
	var (
		opts     searchOptions
		interval time.Duration
	)

	return &cli.Command{
		Name:  "play",
		Usage: "Step through a beam search on key press (q quits) or on a timer",
		Flags: append(opts.flags(),
			&cli.DurationFlag{
				Name:        "interval",
				Usage:       "advance automatically at this pace instead of waiting for keys",
				Destination: &interval,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applySearchConfig(cmd, fileConfig, &opts)
			if fileConfig.Interval != nil && !cmd.IsSet("interval") {
				interval = *fileConfig.Interval
			}

			scorer, cfg, err := opts.prepare(log)
			if err != nil {
				return err
			}
			p, err := present.New(present.Format(opts.format), cmd.Root().Writer)
			if err != nil {
				return err
			}
			collector := metrics.New()
			search, err := beam.NewSearch(opts.start, scorer, cfg,
				beam.WithLogger(log),
				beam.WithObserver(collector),
			)
			if err != nil {
				return err
			}

			var trigger player.Trigger
			if interval > 0 {
				trigger = player.NewInterval(interval)
			} else {
				keys, restore, err := openKeys()
				if err != nil {
					return fmt.Errorf("open keyboard: %w", err)
				}
				defer restore()
				_, _ = fmt.Fprintln(cmd.Root().ErrWriter, "press any key to step, q to stop")
				trigger = keys
			}

			pl := &player.Player{Search: search, Presenter: p, Trigger: trigger, Log: log}
			res, err := pl.Play(ctx)
			if merr := writeMetrics(log, collector, opts.metricsFile); merr != nil && err == nil {
				err = merr
			}
			if err != nil {
				return err
			}
			log.Debug("play finished", "reason", string(res.Reason), "steps", res.Steps)
			return nil
		},
	}
}
