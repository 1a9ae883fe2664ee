package beam

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfiguration is matched by every configuration rejection.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidScore reports a NaN or infinite score from a scorer.
	ErrInvalidScore = errors.New("invalid score")
)

// ConfigError names the offending configuration fields.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

func newConfigError(problems ...string) error {
	return &ConfigError{Problems: problems}
}

// ScoringError wraps a scorer failure together with the hypothesis that was
// being expanded. The search aborts on the first one.
type ScoringError struct {
	Hypothesis Hypothesis
	Token      string
	Err        error
}

func (e *ScoringError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("scoring %q after %q: %v", e.Token, e.Hypothesis.Text(), e.Err)
	}
	return fmt.Sprintf("scoring %q: %v", e.Hypothesis.Text(), e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}
