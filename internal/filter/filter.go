package filter

import "sort"

// Match is one visible candidate.
type Match struct {
	Index     int
	Score     int
	Positions []int
}

// Filter ranks candidates against a query. It is safe to call on every
// keystroke; the only state it keeps is the ranker's scratch space.
type Filter struct {
	ranker Ranker
}

// New returns a Filter using r, or a FuzzyRanker when r is nil.
func New(r Ranker) *Filter {
	if r == nil {
		r = NewFuzzyRanker()
	}
	return &Filter{ranker: r}
}

// Rank returns the matching candidates best first. An empty query returns
// every candidate in its original order without consulting the ranker.
// Equal scores keep candidate order.
func (f *Filter) Rank(candidates []string, query string) []Match {
	out := make([]Match, 0, len(candidates))
	if query == "" {
		for i := range candidates {
			out = append(out, Match{Index: i})
		}
		return out
	}
	for i, c := range candidates {
		res, ok := f.ranker.Score(query, c)
		if !ok {
			continue
		}
		out = append(out, Match{Index: i, Score: res.Score, Positions: res.Positions})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Apply returns only the indices from Rank.
func (f *Filter) Apply(candidates []string, query string) []int {
	ms := f.Rank(candidates, query)
	idx := make([]int, len(ms))
	for i, m := range ms {
		idx[i] = m.Index
	}
	return idx
}
