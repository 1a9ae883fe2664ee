package beam

import "slices"

// Prune keeps the min(k, len(candidates)) candidates with the highest
// cumulative score and returns the rest as dropped, both best first. The
// ordering is stable, so the first-seen candidate wins a tie. Unless
// opts.AllowDuplicates is set, a candidate producing the same token sequence
// as an already kept one is dropped.
//
// opts.MaxPerParent, when positive, is a soft cap: children of a parent that
// already has MaxPerParent survivors are held back and only fill slots that
// would otherwise stay empty.
func Prune(candidates []Candidate, k int, opts StepOptions) (kept, dropped []Candidate) {
	if k < 1 {
		return nil, slices.Clone(candidates)
	}
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, byCumulative)

	var seen map[string]struct{}
	if !opts.AllowDuplicates {
		seen = make(map[string]struct{}, min(k, len(ranked)))
	}
	duplicate := func(c Candidate) bool {
		if seen == nil {
			return false
		}
		_, dup := seen[c.Key()]
		return dup
	}
	keep := func(c Candidate) {
		if seen != nil {
			seen[c.Key()] = struct{}{}
		}
		kept = append(kept, c)
	}

	var perParent map[string]int
	if opts.MaxPerParent > 0 {
		perParent = make(map[string]int, k)
	}

	kept = make([]Candidate, 0, min(k, len(ranked)))
	var held []Candidate
	for _, c := range ranked {
		switch {
		case len(kept) == k, duplicate(c):
			dropped = append(dropped, c)
		case perParent != nil && perParent[c.Parent.Key()] >= opts.MaxPerParent:
			held = append(held, c)
		default:
			if perParent != nil {
				perParent[c.Parent.Key()]++
			}
			keep(c)
		}
	}
	if len(held) == 0 {
		return kept, dropped
	}
	for _, c := range held {
		if len(kept) == k || duplicate(c) {
			dropped = append(dropped, c)
			continue
		}
		keep(c)
	}
	slices.SortStableFunc(kept, byCumulative)
	slices.SortStableFunc(dropped, byCumulative)
	return kept, dropped
}

func byCumulative(x, y Candidate) int {
	return descending(x.Cumulative(), y.Cumulative())
}

// PruneFrontier applies the same top-k selection, with deduplication, to
// hypotheses directly. An already pruned, best-first frontier of at most k
// entries comes back unchanged.
func PruneFrontier(f Frontier, k int) Frontier {
	ranked := f.Clone()
	slices.SortStableFunc(ranked, func(x, y Hypothesis) int {
		return descending(x.Score, y.Score)
	})
	out := make(Frontier, 0, min(max(k, 0), len(ranked)))
	seen := make(map[string]struct{}, len(ranked))
	for _, h := range ranked {
		if len(out) >= k {
			break
		}
		key := h.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}
	return out
}
