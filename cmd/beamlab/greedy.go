package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/beamlab/internal/beam"
	"github.com/samcharles93/beamlab/internal/logger"
	"github.com/samcharles93/beamlab/internal/present"
)

func greedyCmd() *cli.Command {
	var (
		scorerOpts scorerOptions
		start      string
		maxSteps   int64
		endToken   string
		format     string
	)

	return &cli.Command{
		Name:  "greedy",
		Usage: "Decode by always taking the best continuation, for comparison with beam search",
		Flags: append(scorerOpts.flags(),
			&cli.StringFlag{
				Name:        "start",
				Usage:       "seed token placed before the first step",
				Destination: &start,
			},
			&cli.Int64Flag{
				Name:        "max-steps",
				Aliases:     []string{"n"},
				Usage:       "step budget",
				Value:       int64(beam.DefaultConfig().MaxSteps),
				Destination: &maxSteps,
			},
			&cli.StringFlag{
				Name:        "end-token",
				Usage:       "termination marker (default: the table's, else </s>)",
				Destination: &endToken,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (cards, json)",
				Value:       string(present.FormatCards),
				Destination: &format,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyScorerConfig(cmd, fileConfig, &scorerOpts)
			if fileConfig.MaxSteps != nil && !cmd.IsSet("max-steps") && !cmd.IsSet("n") {
				maxSteps = *fileConfig.MaxSteps
			}
			if fileConfig.EndToken != "" && !cmd.IsSet("end-token") {
				endToken = fileConfig.EndToken
			}

			scorer, end, err := scorerOpts.build(log)
			if err != nil {
				return err
			}
			if endToken == "" {
				endToken = end
			}
			h, reason, err := beam.Greedy(ctx, start, scorer, int(maxSteps), endToken)
			if err != nil {
				return err
			}
			log.Debug("greedy finished", "reason", string(reason), "length", h.Len())

			w := cmd.Root().Writer
			if present.Format(format) == present.FormatJSON {
				return json.NewEncoder(w).Encode(struct {
					beam.Hypothesis
					Reason beam.Reason `json:"reason"`
				}{h, reason})
			}
			_, err = fmt.Fprintf(w, "%s\t%.4f\t%s\t%s\n", h.Text(), h.Score, h.Status, reason)
			return err
		},
	}
}
