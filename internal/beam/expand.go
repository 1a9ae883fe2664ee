package beam

import (
	"fmt"
	"math"
	"slices"
)

// Scored is one ranked continuation returned by a Scorer.
type Scored struct {
	Token string  `json:"token" yaml:"token"`
	Score float64 `json:"score" yaml:"score"`
}

// Scorer proposes continuations for a hypothesis with their incremental
// log-probability-like scores. Implementations must be deterministic.
type Scorer interface {
	Next(h Hypothesis) ([]Scored, error)
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(h Hypothesis) ([]Scored, error)

func (f ScorerFunc) Next(h Hypothesis) ([]Scored, error) {
	return f(h)
}

// Expand asks the scorer for every active hypothesis in the frontier and
// returns its top b continuations as candidates, in frontier order and then
// by descending incremental score. Equal scores keep the scorer's order.
func Expand(frontier Frontier, scorer Scorer, b int) ([]Candidate, error) {
	if b < 1 {
		return nil, newConfigError("branching factor must be >= 1")
	}
	out := make([]Candidate, 0, len(frontier)*b)
	for _, h := range frontier {
		if h.Status != Active {
			continue
		}
		next, err := scoreHypothesis(scorer, h)
		if err != nil {
			return nil, err
		}
		for _, s := range topB(next, b) {
			out = append(out, Candidate{Parent: h, Token: s.Token, Incremental: s.Score})
		}
	}
	return out, nil
}

func scoreHypothesis(scorer Scorer, h Hypothesis) (next []Scored, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ScoringError{Hypothesis: h, Err: fmt.Errorf("panic in scorer: %v", r)}
		}
	}()
	next, err = scorer.Next(h)
	if err != nil {
		return nil, &ScoringError{Hypothesis: h, Err: err}
	}
	for _, s := range next {
		if math.IsNaN(s.Score) || math.IsInf(s.Score, 0) {
			return nil, &ScoringError{Hypothesis: h, Token: s.Token, Err: ErrInvalidScore}
		}
	}
	return next, nil
}

func topB(next []Scored, b int) []Scored {
	if len(next) <= 1 {
		return next
	}
	ranked := slices.Clone(next)
	slices.SortStableFunc(ranked, func(x, y Scored) int {
		return descending(x.Score, y.Score)
	})
	return ranked[:min(b, len(ranked))]
}

func descending(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
