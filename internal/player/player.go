// Package player drives a beam.Search one step at a time, pacing it with a
// Trigger and handing every step to a presenter.
package player

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/samcharles93/beamlab/internal/beam"
	"github.com/samcharles93/beamlab/internal/logger"
	"github.com/samcharles93/beamlab/internal/present"
)

// ErrStopped is returned by a Trigger when the user asked to stop.
var ErrStopped = errors.New("stopped")

// Trigger blocks until the next step should run.
type Trigger interface {
	Wait(ctx context.Context) error
}

// Immediate never waits.
type Immediate struct{}

func (Immediate) Wait(ctx context.Context) error { return ctx.Err() }

// Interval paces steps at most once per period. The first step is not
// delayed.
type Interval struct {
	lim *rate.Limiter
}

func NewInterval(every time.Duration) *Interval {
	return &Interval{lim: rate.NewLimiter(rate.Every(every), 1)}
}

func (i *Interval) Wait(ctx context.Context) error { return i.lim.Wait(ctx) }

// Player owns the loop around a search. Search, Presenter and Trigger are
// required; Log may be nil.
type Player struct {
	Search    *beam.Search
	Presenter present.Presenter
	Trigger   Trigger
	Log       logger.Logger
}

// Play steps until the search finishes, the trigger reports ErrStopped, or
// ctx is cancelled. The result is presented in the first two cases; a
// stopped search reports beam.ReasonRunning.
func (p *Player) Play(ctx context.Context) (beam.Result, error) {
	log := p.Log
	if log == nil {
		log = logger.Discard()
	}

	for !p.Search.Done() {
		if err := p.Trigger.Wait(ctx); err != nil {
			if errors.Is(err, ErrStopped) {
				log.Info("stopped before the search finished", "steps", p.Search.Steps())
				break
			}
			return p.Search.Result(), err
		}
		res, err := p.Search.Step()
		if err != nil {
			return p.Search.Result(), err
		}
		if err := p.Presenter.Step(p.Search.Steps(), res); err != nil {
			return p.Search.Result(), err
		}
	}

	result := p.Search.Result()
	if err := p.Presenter.Result(result); err != nil {
		return result, err
	}
	return result, nil
}
