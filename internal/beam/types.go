// Package beam implements bounded-width sequence search: a frontier of at
// most k hypotheses is expanded through a pluggable scorer and pruned back to
// the k best by cumulative score until a step budget, a completed quota, or
// an empty frontier ends the search.
package beam

import (
	"fmt"
	"strings"
)

// DefaultEndToken is the termination marker used when none is configured.
const DefaultEndToken = "</s>"

// Status is the lifecycle state of a Hypothesis.
type Status uint8

const (
	Active Status = iota
	Pruned
	Completed
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Pruned:
		return "pruned"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// MarshalText lets Status appear by name in JSON and YAML output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "active", "":
		*s = Active
	case "pruned":
		*s = Pruned
	case "completed":
		*s = Completed
	default:
		return fmt.Errorf("unknown hypothesis status %q", b)
	}
	return nil
}

// Hypothesis is a partial or complete output sequence with its cumulative
// score. Score is conventionally a sum of log-probabilities and therefore
// non-positive.
type Hypothesis struct {
	Tokens []string `json:"tokens"`
	Score  float64  `json:"score"`
	Status Status   `json:"status"`

	// Seed counts leading tokens supplied by the caller rather than
	// generated. They take part in scoring context but not in length.
	Seed int `json:"seed,omitempty"`
}

// Len is the number of generated tokens, the end marker included.
func (h Hypothesis) Len() int {
	return len(h.Generated())
}

// Generated returns the tokens produced by the search. A Seed outside
// [0, len(Tokens)], as can arrive from decoded input, is clamped.
func (h Hypothesis) Generated() []string {
	return h.Tokens[min(max(h.Seed, 0), len(h.Tokens)):]
}

// Text joins the tokens with single spaces.
func (h Hypothesis) Text() string {
	return strings.Join(h.Tokens, " ")
}

// Key identifies a hypothesis by its token sequence.
func (h Hypothesis) Key() string {
	return strings.Join(h.Tokens, "\x1f")
}

// Last returns the final token, or "" for an empty hypothesis.
func (h Hypothesis) Last() string {
	if len(h.Tokens) == 0 {
		return ""
	}
	return h.Tokens[len(h.Tokens)-1]
}

func (h Hypothesis) clone() Hypothesis {
	h.Tokens = append([]string(nil), h.Tokens...)
	return h
}

// Frontier is the ordered set of active hypotheses, best first.
type Frontier []Hypothesis

// Root returns the initial frontier: a single hypothesis with score 0,
// holding seed when it is non-empty.
func Root(seed string) Frontier {
	h := Hypothesis{Status: Active}
	if seed != "" {
		h.Tokens = []string{seed}
		h.Seed = 1
	}
	return Frontier{h}
}

// Clone returns a deep copy so callers cannot alias the owner's state.
func (f Frontier) Clone() Frontier {
	if f == nil {
		return nil
	}
	out := make(Frontier, len(f))
	for i, h := range f {
		out[i] = h.clone()
	}
	return out
}

// Candidate is a proposed one-token extension of Parent, not yet
// committed to the frontier.
type Candidate struct {
	Parent      Hypothesis `json:"parent"`
	Token       string     `json:"token"`
	Incremental float64    `json:"incremental"`
}

// Cumulative is the parent's score plus the incremental score.
func (c Candidate) Cumulative() float64 {
	return c.Parent.Score + c.Incremental
}

// Key identifies the sequence the candidate would produce.
func (c Candidate) Key() string {
	if len(c.Parent.Tokens) == 0 {
		return c.Token
	}
	return c.Parent.Key() + "\x1f" + c.Token
}

// Extend materialises the candidate as a new hypothesis.
func (c Candidate) Extend() Hypothesis {
	tokens := make([]string, len(c.Parent.Tokens), len(c.Parent.Tokens)+1)
	copy(tokens, c.Parent.Tokens)
	return Hypothesis{
		Tokens: append(tokens, c.Token),
		Score:  c.Cumulative(),
		Status: Active,
		Seed:   c.Parent.Seed,
	}
}

// StepResult is the outcome of one expand and prune round.
type StepResult struct {
	// Frontier holds the surviving active hypotheses, best first.
	Frontier Frontier `json:"frontier"`
	// Completed holds hypotheses that emitted the end marker this step.
	Completed []Hypothesis `json:"completed,omitempty"`
	// Pruned holds the candidates that fell outside the top k.
	Pruned []Hypothesis `json:"pruned,omitempty"`
	// Expanded is the size of the candidate set before pruning.
	Expanded int `json:"expanded"`
}
