package present

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/samcharles93/beamlab/internal/beam"
)

// Trace writes one JSON object per line: a "step" event per step and a
// closing "result" event.
type Trace struct {
	enc *json.Encoder
}

type stepEvent struct {
	Event string `json:"event"`
	Step  int    `json:"step"`
	beam.StepResult
}

type resultEvent struct {
	Event string `json:"event"`
	beam.Result
}

func NewTrace(w io.Writer) *Trace {
	return &Trace{enc: json.NewEncoder(w)}
}

func (t *Trace) Step(step int, res beam.StepResult) error {
	return t.enc.Encode(stepEvent{Event: "step", Step: step, StepResult: res})
}

func (t *Trace) Result(res beam.Result) error {
	return t.enc.Encode(resultEvent{Event: "result", Result: res})
}
