package beam

import (
	"context"

	"github.com/samcharles93/beamlab/internal/logits"
)

// Greedy decodes by always taking the single best continuation. It stops
// at the end token (ReasonMaxCompleted), after maxSteps steps
// (ReasonMaxSteps), or when the scorer offers nothing (ReasonExhausted).
// Only the first case marks the hypothesis Completed; a dead end keeps it
// Active. Beam search with a width of one reduces to this.
func Greedy(ctx context.Context, seed string, scorer Scorer, maxSteps int, endToken string) (Hypothesis, Reason, error) {
	if maxSteps < 1 {
		return Hypothesis{}, ReasonRunning, newConfigError("max steps must be >= 1")
	}
	if endToken == "" {
		endToken = DefaultEndToken
	}
	h := Root(seed)[0]
	for range maxSteps {
		if err := ctx.Err(); err != nil {
			return h, ReasonRunning, err
		}
		next, err := scoreHypothesis(scorer, h)
		if err != nil {
			return h, ReasonRunning, err
		}
		if len(next) == 0 {
			return h, ReasonExhausted, nil
		}
		scores := make([]float64, len(next))
		for i, s := range next {
			scores[i] = s.Score
		}
		best := next[logits.Argmax(scores)]
		h = Candidate{Parent: h, Token: best.Token, Incremental: best.Score}.Extend()
		if best.Token == endToken {
			h.Status = Completed
			return h, ReasonMaxCompleted, nil
		}
	}
	return h, ReasonMaxSteps, nil
}
