package beam

// StepOptions tunes a single Step. The zero value uses DefaultEndToken,
// deduplicates equal sequences and places no per-parent cap.
type StepOptions struct {
	EndToken        string
	AllowDuplicates bool
	// MaxPerParent limits how many children of one hypothesis survive a
	// prune while other parents still have candidates. One keeps every
	// parent's best child alive.
	MaxPerParent int
}

func (o StepOptions) endToken() string {
	if o.EndToken == "" {
		return DefaultEndToken
	}
	return o.EndToken
}

// Step expands every active hypothesis in frontier by its top b
// continuations and prunes the candidate set back to k. Kept candidates that
// end with the end marker are returned as Completed; the remainder form the
// new frontier, which never exceeds k entries.
func Step(frontier Frontier, scorer Scorer, k, b int, opts StepOptions) (StepResult, error) {
	if k < 1 {
		return StepResult{}, newConfigError("beam width must be >= 1")
	}
	candidates, err := Expand(frontier, scorer, b)
	if err != nil {
		return StepResult{}, err
	}
	kept, dropped := Prune(candidates, k, opts)

	end := opts.endToken()
	res := StepResult{
		Frontier: make(Frontier, 0, len(kept)),
		Expanded: len(candidates),
	}
	for _, c := range kept {
		h := c.Extend()
		if c.Token == end {
			h.Status = Completed
			res.Completed = append(res.Completed, h)
			continue
		}
		res.Frontier = append(res.Frontier, h)
	}
	for _, c := range dropped {
		h := c.Extend()
		h.Status = Pruned
		res.Pruned = append(res.Pruned, h)
	}
	return res, nil
}
