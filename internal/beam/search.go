package beam

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samcharles93/beamlab/internal/logger"
)

// ErrFinished is returned by Step once the search has terminated.
var ErrFinished = errors.New("search finished")

// Reason reports why a search stopped.
type Reason string

const (
	ReasonRunning      Reason = ""
	ReasonMaxSteps     Reason = "max_steps"
	ReasonMaxCompleted Reason = "max_completed"
	// ReasonExhausted means every hypothesis was pruned or produced no
	// continuation. It is a normal outcome, not an error.
	ReasonExhausted Reason = "exhausted"
)

// Observer is notified after every step and once when the search ends.
type Observer interface {
	ObserveStep(step int, res StepResult, elapsed time.Duration)
	ObserveResult(res Result)
}

// Result summarises a finished search.
type Result struct {
	RunID     string       `json:"run_id"`
	Reason    Reason       `json:"reason"`
	Steps     int          `json:"steps"`
	Completed []Hypothesis `json:"completed"`
	Frontier  Frontier     `json:"frontier"`
	// Ranking orders Completed by length-normalized score.
	Ranking []Ranked `json:"ranking"`
	// Best is the head of Ranking, or the frontier head when nothing
	// completed. Nil when both are empty.
	Best *Ranked `json:"best,omitempty"`
}

type Option func(*Search)

// WithLogger routes per-step debug logs to log.
func WithLogger(log logger.Logger) Option {
	return func(s *Search) {
		if log != nil {
			s.log = log
		}
	}
}

// WithObserver registers an observer; it may be given more than once.
func WithObserver(o Observer) Option {
	return func(s *Search) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(s *Search) {
		s.runID = id
	}
}

// Search owns a frontier and advances it one step at a time. It is not safe
// for concurrent use; the caller driving Step is the only writer.
type Search struct {
	cfg       Config
	scorer    Scorer
	log       logger.Logger
	observers []Observer
	runID     string

	frontier  Frontier
	completed []Hypothesis
	steps     int
	reason    Reason
	err       error
}

// NewSearch validates cfg and returns a search whose frontier holds the
// root hypothesis seeded with seed (which may be empty).
func NewSearch(seed string, scorer Scorer, cfg Config, opts ...Option) (*Search, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if scorer == nil {
		return nil, newConfigError("scorer is required")
	}
	s := &Search{
		cfg:      cfg.withDefaults(),
		scorer:   scorer,
		log:      logger.Discard(),
		frontier: Root(seed),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	s.log = s.log.With("run_id", s.runID)
	return s, nil
}

// Config returns the effective configuration.
func (s *Search) Config() Config { return s.cfg }

// RunID identifies this search in logs and traces.
func (s *Search) RunID() string { return s.runID }

// Steps is the number of completed steps.
func (s *Search) Steps() int { return s.steps }

// Frontier returns a copy of the current frontier.
func (s *Search) Frontier() Frontier { return s.frontier.Clone() }

// Completed returns a copy of the completed set in completion order.
func (s *Search) Completed() []Hypothesis { return Frontier(s.completed).Clone() }

// Done reports whether the search has terminated or failed.
func (s *Search) Done() bool { return s.reason != ReasonRunning || s.err != nil }

// Reason reports why the search stopped, or ReasonRunning.
func (s *Search) Reason() Reason { return s.reason }

// Err returns the error that aborted the search, if any.
func (s *Search) Err() error { return s.err }

// Step advances the search once. After termination it returns ErrFinished;
// after a scoring failure it keeps returning that failure.
func (s *Search) Step() (StepResult, error) {
	if s.err != nil {
		return StepResult{}, s.err
	}
	if s.reason != ReasonRunning {
		return StepResult{}, ErrFinished
	}

	start := time.Now()
	res, err := Step(s.frontier, s.scorer, s.cfg.BeamWidth, s.cfg.BranchingFactor, s.cfg.stepOptions())
	if err != nil {
		s.err = err
		s.log.Error("step failed", "step", s.steps+1, "error", err)
		return StepResult{}, err
	}
	elapsed := time.Since(start)

	s.steps++
	s.frontier = res.Frontier
	s.completed = append(s.completed, res.Completed...)

	switch {
	case len(s.completed) >= s.cfg.MaxCompleted:
		s.reason = ReasonMaxCompleted
	case len(s.frontier) == 0:
		s.reason = ReasonExhausted
	case s.steps >= s.cfg.MaxSteps:
		s.reason = ReasonMaxSteps
	}

	s.log.Debug("step",
		"step", s.steps,
		"expanded", res.Expanded,
		"frontier", len(res.Frontier),
		"completed", len(res.Completed),
		"pruned", len(res.Pruned),
	)
	for _, o := range s.observers {
		o.ObserveStep(s.steps, res, elapsed)
	}
	if s.reason != ReasonRunning {
		s.log.Debug("search finished", "reason", string(s.reason), "steps", s.steps)
		result := s.Result()
		for _, o := range s.observers {
			o.ObserveResult(result)
		}
	}
	return res, nil
}

// Run steps until the search terminates or ctx is cancelled.
func (s *Search) Run(ctx context.Context) (Result, error) {
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			return s.Result(), err
		}
		if _, err := s.Step(); err != nil {
			return s.Result(), err
		}
	}
	return s.Result(), nil
}

// Result snapshots the current state. It may be called before the search
// finished, in which case Reason is ReasonRunning.
func (s *Search) Result() Result {
	res := Result{
		RunID:     s.runID,
		Reason:    s.reason,
		Steps:     s.steps,
		Completed: s.Completed(),
		Frontier:  s.Frontier(),
		Ranking:   Rank(s.completed, s.cfg.Alpha, s.cfg.Penalty),
	}
	switch {
	case len(res.Ranking) > 0:
		best := res.Ranking[0]
		res.Best = &best
	case len(res.Frontier) > 0:
		h := res.Frontier[0]
		res.Best = &Ranked{Hypothesis: h, Normalized: Normalize(h.Score, h.Len(), s.cfg.Alpha, s.cfg.Penalty)}
	}
	return res
}

// Run searches from seed with scorer under cfg until termination.
func Run(ctx context.Context, seed string, scorer Scorer, cfg Config, opts ...Option) (Result, error) {
	s, err := NewSearch(seed, scorer, cfg, opts...)
	if err != nil {
		return Result{}, err
	}
	return s.Run(ctx)
}
