package filter

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Result is a successful match.
type Result struct {
	Score int
	// Positions are byte offsets of matched characters in the candidate.
	// Empty when the candidate was rewritten before matching.
	Positions []int
}

// Ranker scores candidate against query. ok is false when there is no match.
// Higher scores are better. Implementations must be deterministic.
type Ranker interface {
	Score(query, candidate string) (res Result, ok bool)
}

// FuzzyRanker matches case-insensitively and ignores diacritics in the
// candidate unless the query carries some itself.
type FuzzyRanker struct {
	scratch []string
}

func NewFuzzyRanker() *FuzzyRanker {
	return &FuzzyRanker{scratch: make([]string, 1)}
}

// Score splits query on whitespace; every term must match and the result
// sums the term scores. A query of only whitespace matches with score 0.
func (r *FuzzyRanker) Score(query, candidate string) (Result, bool) {
	if r.scratch == nil {
		r.scratch = make([]string, 1)
	}
	q := strings.ToLower(query)
	c := strings.ToLower(candidate)
	if !hasMarks(q) {
		c = stripMarks(c)
	}
	keepPositions := c == candidate || isASCII(candidate)

	var res Result
	r.scratch[0] = c
	for _, term := range strings.Fields(q) {
		matches := fuzzy.Find(term, r.scratch)
		if len(matches) == 0 {
			return Result{}, false
		}
		res.Score += matches[0].Score
		if keepPositions {
			res.Positions = append(res.Positions, matches[0].MatchedIndexes...)
		}
	}
	slices.Sort(res.Positions)
	res.Positions = slices.Compact(res.Positions)
	return res, true
}

func stripMarks(s string) string {
	if isASCII(s) {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func hasMarks(s string) bool {
	if isASCII(s) {
		return false
	}
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
