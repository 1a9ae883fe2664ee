package toy

import "math/rand"

// Model is a minimal bigram language model: an embedding matrix, a weight
// matrix projecting hidden activations back to vocab logits, and a bias
// vector. Each call to Forward operates on a single token, so the logits
// depend only on the previous token. Weights are derived from a seed, which
// makes every Model with the same shape and seed produce identical logits.
type Model struct {
	Vocab  int
	Hidden int

	Emb  []float32 // [Vocab x Hidden] row-major embedding matrix
	W    []float32 // [Hidden x Vocab] row-major projection weights
	Bias []float32 // [Vocab] bias added to logits
}

// New constructs a model with the given vocabulary and hidden size.
// Embeddings and weights are filled uniformly from [-1, 1).
func New(vocab, hidden int, seed int64) *Model {
	m := &Model{
		Vocab:  vocab,
		Hidden: hidden,
		Emb:    make([]float32, vocab*hidden),
		W:      make([]float32, hidden*vocab),
		Bias:   make([]float32, vocab),
	}
	fillRand(m.Emb, seed+11)
	fillRand(m.W, seed+23)
	return m
}

func fillRand(dst []float32, seed int64) {
	r := rand.New(rand.NewSource(seed))
	for i := range dst {
		dst[i] = r.Float32()*2 - 1
	}
}

// Row returns the embedding of token tok.
func (m *Model) Row(tok int) []float32 {
	return m.Emb[tok*m.Hidden : (tok+1)*m.Hidden]
}

// Forward computes the logits over the vocabulary for a single input token.
// A token outside [0, Vocab) is reduced modulo Vocab, so -1 can stand for
// "no previous token". A newly allocated slice is returned.
func (m *Model) Forward(tok int) []float32 {
	tok %= m.Vocab
	if tok < 0 {
		tok += m.Vocab
	}
	h := m.Row(tok)
	logits := make([]float32, m.Vocab)
	copy(logits, m.Bias)
	for i, hv := range h {
		row := m.W[i*m.Vocab : (i+1)*m.Vocab]
		for j, w := range row {
			logits[j] += hv * w
		}
	}
	return logits
}
