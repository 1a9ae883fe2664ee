package scoring

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/beamlab/internal/beam"
)

const eps = 1e-9

func texts(hs []beam.Hypothesis) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Text()
	}
	return out
}

func TestDemoTableFullRun(t *testing.T) {
	t.Parallel()

	res, err := beam.Run(context.Background(), "", DemoTable(), beam.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, beam.ReasonMaxCompleted, res.Reason)
	assert.Equal(t, 4, res.Steps)
	assert.Equal(t, []string{"dog is happy </s>", "dog runs fast </s>"}, texts(res.Completed))
	require.NotNil(t, res.Best)
	assert.Equal(t, "dog is happy </s>", res.Best.Hypothesis.Text())
	assert.InDelta(t, -2.0, res.Best.Hypothesis.Score, eps)
	assert.InDelta(t, -0.5, res.Best.Normalized, eps)
}

func TestDemoTableOneChildPerParent(t *testing.T) {
	t.Parallel()

	cfg := beam.DefaultConfig()
	cfg.MaxPerParent = 1
	res, err := beam.Run(context.Background(), "", DemoTable(), cfg)
	require.NoError(t, err)
	assert.Equal(t, beam.ReasonMaxCompleted, res.Reason)
	assert.Equal(t, 4, res.Steps)
	assert.Equal(t, []string{"cat is sleeping </s>", "dog is happy </s>"}, texts(res.Completed))
	require.NotNil(t, res.Best)
	assert.InDelta(t, -1.85, res.Best.Hypothesis.Score, eps)
}

func TestTableUnknownContextHasNoContinuations(t *testing.T) {
	t.Parallel()

	next, err := DemoTable().Next(beam.Hypothesis{Tokens: []string{"car", "horn"}})
	require.NoError(t, err)
	assert.Empty(t, next)
}

func TestTableContextIncludesSeed(t *testing.T) {
	t.Parallel()

	s, err := beam.NewSearch("dog", DemoTable(), beam.DefaultConfig())
	require.NoError(t, err)
	res, err := s.Step()
	require.NoError(t, err)
	assert.Equal(t, []string{"dog is", "dog runs"}, texts(res.Frontier))
	for _, h := range res.Frontier {
		assert.Equal(t, 1, h.Len(), "the seed is context, not output")
		assert.Len(t, h.Generated(), 1)
	}

	next, err := DemoTable().Next(beam.Hypothesis{Tokens: []string{"is"}})
	require.NoError(t, err)
	assert.Empty(t, next, "generated tokens alone do not name the seeded context")
}

func TestTableNextReturnsCopy(t *testing.T) {
	t.Parallel()

	table := DemoTable()
	next, err := table.Next(beam.Hypothesis{})
	require.NoError(t, err)
	next[0].Token = "mutated"

	again, err := table.Next(beam.Hypothesis{})
	require.NoError(t, err)
	assert.Equal(t, "dog", again[0].Token)
}

func TestNewTableRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file TableFile
	}{
		{
			name: "duplicate context",
			file: TableFile{Contexts: []TableContext{{Context: "a  b"}, {Context: "a b"}}},
		},
		{
			name: "empty token",
			file: TableFile{Contexts: []TableContext{{Next: []beam.Scored{{Token: " ", Score: -1}}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTable(tt.file)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTable)
		})
	}
}

const yamlTable = `
name: tiny
end_token: "<eos>"
contexts:
  - context: ""
    next:
      - {token: hi, score: -0.1}
      - {token: yo, score: -0.4}
  - context: "  hi "
    next:
      - {token: "<eos>", score: -0.2}
`

func TestDecodeTableYAML(t *testing.T) {
	t.Parallel()

	table, err := DecodeTable(strings.NewReader(yamlTable), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "tiny", table.Name())
	assert.Equal(t, "<eos>", table.EndToken())
	assert.Equal(t, 2, table.Len())

	next, err := table.Next(beam.Hypothesis{Tokens: []string{"hi"}})
	require.NoError(t, err)
	assert.Equal(t, []beam.Scored{{Token: "<eos>", Score: -0.2}}, next)
}

func TestDecodeTableRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := DecodeTable(strings.NewReader("contexts: []\nbogus: 1\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrTable)

	_, err = DecodeTable(strings.NewReader(`{"contexts": [], "bogus": 1}`), FormatJSON)
	assert.ErrorIs(t, err, ErrTable)

	_, err = DecodeTable(strings.NewReader(`{}`), Format("toml"))
	assert.ErrorIs(t, err, ErrTable)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()
			var sb strings.Builder
			require.NoError(t, EncodeTable(&sb, DemoTable(), format))

			back, err := DecodeTable(strings.NewReader(sb.String()), format)
			require.NoError(t, err)
			assert.Equal(t, DemoTable().File(), back.File())
		})
	}
}

func TestLoadTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "greetings.yml")
	body := strings.Replace(yamlTable, "name: tiny\n", "", 1)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, "greetings", table.Name(), "name defaults to the file base")

	_, err = LoadTable(filepath.Join(dir, "table.txt"))
	assert.ErrorIs(t, err, ErrTable)

	_, err = LoadTable(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]Format{
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"b.json": FormatJSON,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestLogitsScorer(t *testing.T) {
	t.Parallel()

	l := &Logits{
		Vocab: []string{"a", "b", "c"},
		TopK:  2,
		Fn: func(beam.Hypothesis) ([]float32, error) {
			return []float32{1, 3, 2}, nil
		},
	}
	next, err := l.Next(beam.Hypothesis{})
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, "b", next[0].Token)
	assert.Equal(t, "c", next[1].Token)
	assert.Less(t, next[0].Score, 0.0)
	assert.Greater(t, next[0].Score, next[1].Score)
}

func TestLogitsScorerVocabMismatch(t *testing.T) {
	t.Parallel()

	l := &Logits{
		Vocab: []string{"a"},
		Fn: func(beam.Hypothesis) ([]float32, error) {
			return []float32{1, 2}, nil
		},
	}
	_, err := l.Next(beam.Hypothesis{})
	assert.ErrorIs(t, err, ErrVocabMismatch)

	boom := errors.New("boom")
	l.Fn = func(beam.Hypothesis) ([]float32, error) { return nil, boom }
	_, err = l.Next(beam.Hypothesis{})
	assert.ErrorIs(t, err, boom)
}

func TestToyScorerDeterministic(t *testing.T) {
	t.Parallel()

	cfg := beam.DefaultConfig()
	cfg.BeamWidth = 3
	cfg.BranchingFactor = 3
	cfg.MaxSteps = 5

	first, err := beam.Run(context.Background(), "the", NewToy(nil, 8, 42, 1), cfg, beam.WithRunID("a"))
	require.NoError(t, err)
	second, err := beam.Run(context.Background(), "the", NewToy(nil, 8, 42, 1), cfg, beam.WithRunID("a"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.LessOrEqual(t, first.Steps, 5)

	for _, h := range first.Frontier {
		assert.Equal(t, "the", h.Tokens[0])
		assert.Equal(t, 1, h.Seed)
		assert.LessOrEqual(t, h.Score, 0.0)
	}
}
