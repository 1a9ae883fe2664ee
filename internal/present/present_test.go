package present

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/beamlab/internal/beam"
	"github.com/samcharles93/beamlab/internal/scoring"
)

func runDemo(t *testing.T, p Presenter) beam.Result {
	t.Helper()
	obs := &Observer{P: p}
	res, err := beam.Run(context.Background(), "", scoring.DemoTable(), beam.DefaultConfig(),
		beam.WithObserver(obs), beam.WithRunID("run-1"))
	require.NoError(t, err)
	require.NoError(t, obs.Err())
	return res
}

func TestCardsRenderSteps(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	runDemo(t, NewCards(&buf))
	out := buf.String()

	assert.NotContains(t, out, "\x1b[", "no colour when writing to a buffer")
	for _, want := range []string{
		"step 1", "step 2", "step 4",
		"frontier", "pruned", "completed",
		"dog is", "-1.1000",
		"cat sleeps",
		"enough hypotheses completed after 4 steps",
		"best: dog is happy </s>",
		"run run-1",
	} {
		assert.Contains(t, out, want)
	}
}

func TestCardsShowRawPreferenceWhenItDiffers(t *testing.T) {
	t.Parallel()

	short := beam.Hypothesis{Tokens: []string{"a", "</s>"}, Score: -1.6, Status: beam.Completed}
	long := beam.Hypothesis{Tokens: []string{"a", "b", "c", "d", "</s>"}, Score: -2.0, Status: beam.Completed}
	completed := []beam.Hypothesis{short, long}
	ranking := beam.Rank(completed, 1, beam.PenaltyPower)

	var buf bytes.Buffer
	require.NoError(t, NewCards(&buf).Result(beam.Result{
		Reason:    beam.ReasonMaxCompleted,
		Steps:     5,
		Completed: completed,
		Ranking:   ranking,
		Best:      &ranking[0],
	}))
	out := buf.String()
	assert.Contains(t, out, "best: a b c d </s>")
	assert.Contains(t, out, "raw score would pick")
}

func TestCardsEmptyResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewCards(&buf)
	require.NoError(t, c.Step(1, beam.StepResult{}))
	require.NoError(t, c.Result(beam.Result{Reason: beam.ReasonExhausted, Steps: 1}))
	assert.Contains(t, buf.String(), "(no surviving hypotheses)")
	assert.Contains(t, buf.String(), "beam exhausted")
	assert.Contains(t, buf.String(), "best: none")
}

func TestTraceWritesJSONLines(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	res := runDemo(t, NewTrace(&buf))

	var events []map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var ev map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev), sc.Text())
		events = append(events, ev)
	}
	require.NoError(t, sc.Err())
	require.Len(t, events, res.Steps+1)

	first := events[0]
	assert.Equal(t, "step", first["event"])
	assert.EqualValues(t, 1, first["step"])
	frontier, ok := first["frontier"].([]any)
	require.True(t, ok)
	require.Len(t, frontier, 2)
	head := frontier[0].(map[string]any)
	assert.Equal(t, []any{"dog"}, head["tokens"])
	assert.Equal(t, "active", head["status"])

	last := events[len(events)-1]
	assert.Equal(t, "result", last["event"])
	assert.Equal(t, "run-1", last["run_id"])
	assert.Equal(t, string(beam.ReasonMaxCompleted), last["reason"])
}

type failingPresenter struct{ calls int }

func (f *failingPresenter) Step(int, beam.StepResult) error {
	f.calls++
	return errors.New("disk full")
}

func (f *failingPresenter) Result(beam.Result) error {
	f.calls++
	return nil
}

func TestObserverKeepsFirstError(t *testing.T) {
	t.Parallel()

	p := &failingPresenter{}
	obs := &Observer{P: p}
	obs.ObserveStep(1, beam.StepResult{}, 0)
	obs.ObserveStep(2, beam.StepResult{}, 0)
	obs.ObserveResult(beam.Result{})
	assert.EqualError(t, obs.Err(), "disk full")
	assert.Equal(t, 1, p.calls)
}

func TestNew(t *testing.T) {
	t.Parallel()

	p, err := New(FormatJSON, &strings.Builder{})
	require.NoError(t, err)
	assert.IsType(t, &Trace{}, p)

	p, err = New("", &strings.Builder{})
	require.NoError(t, err)
	assert.IsType(t, &Cards{}, p)

	_, err = New("xml", &strings.Builder{})
	assert.Error(t, err)
}

func TestWriteComparison(t *testing.T) {
	t.Parallel()

	hyps := []beam.Hypothesis{
		{Tokens: []string{"short", "</s>"}, Score: -1.6},
		{Tokens: []string{"a", "much", "longer", "one", "</s>"}, Score: -2.0},
	}
	c := Compare(hyps, 1, beam.PenaltyPower)
	require.Len(t, c.Normalized, 2)
	assert.Equal(t, "a much longer one </s>", c.Normalized[0].Hypothesis.Text())
	assert.Equal(t, "short </s>", c.Raw[0].Hypothesis.Text())

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, c, FormatCards))
	out := buf.String()
	assert.Contains(t, out, "alpha=1 penalty=power")
	assert.Contains(t, out, "-0.4000")
	assert.Contains(t, out, "raw order")

	buf.Reset()
	require.NoError(t, WriteComparison(&buf, c, FormatJSON))
	var back Comparison
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, beam.PenaltyPower, back.Penalty)
	require.Len(t, back.Raw, 2)
	assert.InDelta(t, -1.6, back.Raw[0].Normalized, 1e-9)
}
