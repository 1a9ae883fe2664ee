package scoring

import "github.com/samcharles93/beamlab/internal/beam"

// DemoTable is the dog/cat example commonly used to introduce beam search,
// extended with end markers so that a full run completes.
func DemoTable() *Table {
	t, err := NewTable(TableFile{
		Name:     "demo",
		EndToken: beam.DefaultEndToken,
		Contexts: []TableContext{
			{Context: "", Next: []beam.Scored{{Token: "dog", Score: -0.5}, {Token: "cat", Score: -0.7}, {Token: "bird", Score: -1.2}, {Token: "car", Score: -1.5}}},
			{Context: "dog", Next: []beam.Scored{{Token: "is", Score: -0.6}, {Token: "runs", Score: -0.9}}},
			{Context: "cat", Next: []beam.Scored{{Token: "is", Score: -0.8}, {Token: "sleeps", Score: -1.1}}},
			{Context: "dog is", Next: []beam.Scored{{Token: "happy", Score: -0.7}, {Token: beam.DefaultEndToken, Score: -1.6}}},
			{Context: "cat is", Next: []beam.Scored{{Token: "sleeping", Score: -0.25}, {Token: "happy", Score: -0.9}}},
			{Context: "dog runs", Next: []beam.Scored{{Token: "fast", Score: -0.5}, {Token: beam.DefaultEndToken, Score: -1.0}}},
			{Context: "dog is happy", Next: []beam.Scored{{Token: beam.DefaultEndToken, Score: -0.2}, {Token: "today", Score: -1.4}}},
			{Context: "cat is sleeping", Next: []beam.Scored{{Token: beam.DefaultEndToken, Score: -0.1}, {Token: "soundly", Score: -1.2}}},
			{Context: "cat is happy", Next: []beam.Scored{{Token: beam.DefaultEndToken, Score: -0.3}}},
			{Context: "dog runs fast", Next: []beam.Scored{{Token: beam.DefaultEndToken, Score: -0.2}}},
			{Context: "dog is happy today", Next: []beam.Scored{{Token: beam.DefaultEndToken, Score: -0.1}}},
			{Context: "cat is sleeping soundly", Next: []beam.Scored{{Token: beam.DefaultEndToken, Score: -0.1}}},
		},
	})
	if err != nil {
		panic("scoring: demo table: " + err.Error())
	}
	return t
}
