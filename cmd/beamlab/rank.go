package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/beamlab/internal/beam"
	"github.com/samcharles93/beamlab/internal/present"
)

func rankCmd() *cli.Command {
	var (
		alpha   float64
		penalty string
		format  string
	)

	return &cli.Command{
		Name:      "rank",
		Usage:     "Rank finished hypotheses by normalized and by raw score",
		ArgsUsage: "FILE",
		Description: "FILE holds a JSON array of hypotheses ({\"tokens\": [...], \"score\": -1.2}) " +
			"or a result event written by `run --format json`.",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:        "alpha",
				Usage:       "length normalization exponent (0 = raw scores)",
				Value:       beam.DefaultConfig().Alpha,
				Destination: &alpha,
			},
			&cli.StringFlag{
				Name:        "penalty",
				Usage:       "length penalty (power, gnmt)",
				Value:       string(beam.PenaltyPower),
				Destination: &penalty,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (cards, json)",
				Value:       string(present.FormatCards),
				Destination: &format,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("rank: expected exactly one FILE argument")
			}
			if fileConfig.Alpha != nil && !cmd.IsSet("alpha") {
				alpha = *fileConfig.Alpha
			}
			if fileConfig.Penalty != "" && !cmd.IsSet("penalty") {
				penalty = fileConfig.Penalty
			}
			cfg := beam.DefaultConfig()
			cfg.Alpha, cfg.Penalty = alpha, beam.Penalty(penalty)
			if err := cfg.Validate(); err != nil {
				return err
			}

			hyps, err := readHypotheses(cmd.Args().First())
			if err != nil {
				return err
			}
			c := present.Compare(hyps, cfg.Alpha, cfg.Penalty)
			return present.WriteComparison(cmd.Root().Writer, c, present.Format(format))
		},
	}
}

// readHypotheses accepts a bare array of hypotheses, a single object with a
// "completed" array, or a whole `run --format json` trace, in which case the
// last result event wins.
func readHypotheses(path string) ([]beam.Hypothesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)

	var hyps []beam.Hypothesis
	if bytes.HasPrefix(raw, []byte("[")) {
		if err := json.Unmarshal(raw, &hyps); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else {
		if hyps, err = decodeResult(bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if len(hyps) == 0 {
		return nil, fmt.Errorf("%s: no hypotheses to rank", path)
	}
	return hyps, nil
}

// decodeResult walks a stream of JSON objects. A result event takes
// precedence; an untagged object is used only when no result event follows.
func decodeResult(r io.Reader) ([]beam.Hypothesis, error) {
	dec := json.NewDecoder(r)
	var (
		hyps      []beam.Hypothesis
		sawResult bool
	)
	for {
		var doc struct {
			Event     string            `json:"event"`
			Completed []beam.Hypothesis `json:"completed"`
		}
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return hyps, nil
			}
			return nil, err
		}
		switch {
		case doc.Event == "result":
			hyps, sawResult = doc.Completed, true
		case doc.Event == "" && !sawResult:
			hyps = doc.Completed
		}
	}
}
