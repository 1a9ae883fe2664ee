package metrics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/beamlab/internal/beam"
	"github.com/samcharles93/beamlab/internal/scoring"
)

func TestObserveStep(t *testing.T) {
	c := New()
	c.ObserveStep(1, beam.StepResult{
		Frontier:  beam.Frontier{{}, {}},
		Completed: []beam.Hypothesis{{}},
		Pruned:    []beam.Hypothesis{{}, {}, {}},
		Expanded:  6,
	}, 3*time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(c.steps), 0)
	assert.InDelta(t, 6, testutil.ToFloat64(c.expanded), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.hypotheses.WithLabelValues(outcomeKept)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.hypotheses.WithLabelValues(outcomeCompleted)), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(c.hypotheses.WithLabelValues(outcomePruned)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.frontier), 0)
}

func TestObserveResultSanitizesReason(t *testing.T) {
	c := New()
	c.ObserveResult(beam.Result{Reason: beam.ReasonExhausted})
	c.ObserveResult(beam.Result{Reason: beam.Reason("bogus"), Best: &beam.Ranked{Normalized: -0.25}})

	assert.InDelta(t, 1, testutil.ToFloat64(c.runs.WithLabelValues("exhausted")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.runs.WithLabelValues("unknown")), 0)
	assert.InDelta(t, -0.25, testutil.ToFloat64(c.bestScore), 1e-12)
}

func TestCollectorObservesSearch(t *testing.T) {
	c := New()
	res, err := beam.Run(context.Background(), "", scoring.DemoTable(), beam.DefaultConfig(), beam.WithObserver(c))
	require.NoError(t, err)

	assert.InDelta(t, float64(res.Steps), testutil.ToFloat64(c.steps), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.runs.WithLabelValues(string(res.Reason))), 0)
	assert.InDelta(t, res.Best.Normalized, testutil.ToFloat64(c.bestScore), 1e-12)

	n, err := testutil.GatherAndCount(c.Registry(), "beamlab_search_step_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWriteFile(t *testing.T) {
	c := New()
	c.ObserveStep(1, beam.StepResult{Expanded: 4}, time.Microsecond)

	path := filepath.Join(t.TempDir(), "beamlab.prom")
	require.NoError(t, c.WriteFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.True(t, strings.Contains(text, "beamlab_search_candidates_total 4"), text)
	assert.Contains(t, text, "# TYPE beamlab_search_step_duration_seconds histogram")
}
