package main

import (
	"fmt"

	"github.com/samcharles93/beamlab/internal/beam"
	"github.com/samcharles93/beamlab/internal/logger"
	"github.com/samcharles93/beamlab/internal/scoring"
)

// build returns the scorer and the end token it was written for. The end
// token is empty when the scorer does not prefer one.
func (o *scorerOptions) build(log logger.Logger) (beam.Scorer, string, error) {
	if o.toy {
		if o.toyHidden < 1 {
			return nil, "", fmt.Errorf("%w: --hidden must be >= 1, got %d", beam.ErrInvalidConfiguration, o.toyHidden)
		}
		if o.topK < 0 {
			return nil, "", fmt.Errorf("%w: --top-k must be >= 0, got %d", beam.ErrInvalidConfiguration, o.topK)
		}
		log.Debug("using toy model", "seed", o.toySeed, "hidden", o.toyHidden, "temperature", o.temperature)
		toy := scoring.NewToy(nil, int(o.toyHidden), o.toySeed, o.temperature)
		toy.TopK = int(o.topK)
		return toy, beam.DefaultEndToken, nil
	}

	table := scoring.DemoTable()
	if o.table != "" {
		var err error
		if table, err = scoring.LoadTable(o.table); err != nil {
			return nil, "", err
		}
	}
	log.Debug("using score table", "name", table.Name(), "contexts", table.Len())
	return table, table.EndToken(), nil
}

// prepare resolves the scorer and the effective search configuration.
func (o *searchOptions) prepare(log logger.Logger) (beam.Scorer, beam.Config, error) {
	scorer, end, err := o.build(log)
	if err != nil {
		return nil, beam.Config{}, err
	}
	cfg := o.config()
	if cfg.EndToken == "" {
		cfg.EndToken = end
	}
	return scorer, cfg, nil
}
