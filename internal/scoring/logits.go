package scoring

import (
	"errors"
	"fmt"

	"github.com/samcharles93/beamlab/internal/beam"
	"github.com/samcharles93/beamlab/internal/logits"
	"github.com/samcharles93/beamlab/internal/toy"
)

// ErrVocabMismatch is returned when a logit source disagrees with the
// vocabulary it was paired with.
var ErrVocabMismatch = errors.New("logits do not match vocabulary")

// LogitFunc produces raw next-token logits, one per vocabulary entry.
type LogitFunc func(h beam.Hypothesis) ([]float32, error)

// Logits turns a logit source into a Scorer by applying a temperature-scaled
// log-softmax. Only the TopK most likely tokens are proposed; zero proposes
// the whole vocabulary.
type Logits struct {
	Vocab       []string
	Fn          LogitFunc
	Temperature float64
	TopK        int
}

// Next implements beam.Scorer.
func (l *Logits) Next(h beam.Hypothesis) ([]beam.Scored, error) {
	raw, err := l.Fn(h)
	if err != nil {
		return nil, err
	}
	if len(raw) != len(l.Vocab) {
		return nil, fmt.Errorf("%w: got %d logits for %d tokens", ErrVocabMismatch, len(raw), len(l.Vocab))
	}
	if len(raw) == 0 {
		return nil, nil
	}
	lp := logits.LogSoftmax(raw, l.Temperature)
	k := l.TopK
	if k <= 0 {
		k = len(lp)
	}
	idx := logits.TopK(lp, k)
	out := make([]beam.Scored, len(idx))
	for i, j := range idx {
		out[i] = beam.Scored{Token: l.Vocab[j], Score: lp[j]}
	}
	return out, nil
}

// ToyVocab is the vocabulary used by NewToy when none is supplied.
var ToyVocab = []string{
	beam.DefaultEndToken,
	"the", "a", "dog", "cat", "bird",
	"is", "runs", "sleeps", "sings",
	"happy", "fast", "today", "soundly",
}

// NewToy scores with a seeded bigram model over vocab. The previous token is
// looked up in vocab; an empty hypothesis or an unknown token feeds -1,
// which the model wraps to its last row.
func NewToy(vocab []string, hidden int, seed int64, temperature float64) *Logits {
	if len(vocab) == 0 {
		vocab = ToyVocab
	}
	m := toy.New(len(vocab), hidden, seed)
	index := make(map[string]int, len(vocab))
	for i, tok := range vocab {
		if _, ok := index[tok]; !ok {
			index[tok] = i
		}
	}
	return &Logits{
		Vocab:       vocab,
		Temperature: temperature,
		Fn: func(h beam.Hypothesis) ([]float32, error) {
			prev, ok := index[h.Last()]
			if !ok || len(h.Tokens) == 0 {
				prev = -1
			}
			return m.Forward(prev), nil
		},
	}
}
