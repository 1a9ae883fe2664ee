// Package present renders search progress for humans (Cards) and machines
// (Trace).
package present

import (
	"fmt"
	"io"
	"time"

	"github.com/samcharles93/beamlab/internal/beam"
)

// Presenter receives every step of a search and then its result.
type Presenter interface {
	Step(step int, res beam.StepResult) error
	Result(res beam.Result) error
}

// Format names a presenter.
type Format string

const (
	FormatCards Format = "cards"
	FormatJSON  Format = "json"
)

// New builds the presenter for format writing to w.
func New(format Format, w io.Writer) (Presenter, error) {
	switch format {
	case FormatCards, "":
		return NewCards(w), nil
	case FormatJSON:
		return NewTrace(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want cards or json)", format)
	}
}

// Observer adapts a Presenter to beam.Observer for searches driven by
// Search.Run. The first write error is kept and later events are dropped.
type Observer struct {
	P   Presenter
	err error
}

func (o *Observer) ObserveStep(step int, res beam.StepResult, _ time.Duration) {
	if o.err == nil {
		o.err = o.P.Step(step, res)
	}
}

func (o *Observer) ObserveResult(res beam.Result) {
	if o.err == nil {
		o.err = o.P.Result(res)
	}
}

// Err returns the first presenter failure.
func (o *Observer) Err() error { return o.err }
