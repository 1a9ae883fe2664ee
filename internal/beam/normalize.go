package beam

import (
	"math"
	"slices"
)

// Penalty selects the length normalization formula.
type Penalty string

const (
	// PenaltyPower divides the score by length^alpha.
	PenaltyPower Penalty = "power"
	// PenaltyGNMT divides the score by ((5+length)/6)^alpha.
	PenaltyGNMT Penalty = "gnmt"
)

// Normalize makes cumulative scores of different-length sequences
// comparable. A zero length or zero alpha returns the raw score.
func Normalize(score float64, length int, alpha float64, penalty Penalty) float64 {
	if length <= 0 || alpha == 0 {
		return score
	}
	var lp float64
	switch penalty {
	case PenaltyGNMT:
		lp = math.Pow((5+float64(length))/6, alpha)
	default:
		lp = math.Pow(float64(length), alpha)
	}
	return score / lp
}

// Ranked pairs a hypothesis with the score it was ranked by.
type Ranked struct {
	Hypothesis Hypothesis `json:"hypothesis"`
	Normalized float64    `json:"normalized"`
}

// Rank orders hypotheses best first by length-normalized score. Equal
// scores keep their input order.
func Rank(hyps []Hypothesis, alpha float64, penalty Penalty) []Ranked {
	out := make([]Ranked, len(hyps))
	for i, h := range hyps {
		out[i] = Ranked{Hypothesis: h.clone(), Normalized: Normalize(h.Score, h.Len(), alpha, penalty)}
	}
	slices.SortStableFunc(out, func(x, y Ranked) int {
		return descending(x.Normalized, y.Normalized)
	})
	return out
}

// RankRaw orders hypotheses by raw cumulative score, which favours short
// sequences. Normalized holds the raw score.
func RankRaw(hyps []Hypothesis) []Ranked {
	return Rank(hyps, 0, PenaltyPower)
}
