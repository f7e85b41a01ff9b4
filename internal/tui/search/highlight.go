package search

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Highlighter styles the characters a fuzzy match landed on.
type Highlighter struct {
	Match lipgloss.Style
}

// NewHighlighter creates a new highlighter drawing matches in match.
func NewHighlighter(match lipgloss.Style) *Highlighter {
	return &Highlighter{Match: match}
}

// Highlight renders s in base, with the characters at byte offsets pos drawn
// in the match style layered over base.
func (h *Highlighter) Highlight(s string, pos []int, base lipgloss.Style) string {
	idx := runeIndices(s, pos)
	if len(idx) == 0 {
		return base.Render(s)
	}
	return lipgloss.StyleRunes(s, idx, h.Match.Inherit(base), base)
}

// runeIndices converts byte offsets into rune indices, dropping offsets that
// do not start a rune.
func runeIndices(s string, pos []int) []int {
	if len(pos) == 0 {
		return nil
	}
	sorted := append([]int(nil), pos...)
	sort.Ints(sorted)

	out := make([]int, 0, len(sorted))
	ri, p := 0, 0
	for bi := range s {
		for p < len(sorted) && sorted[p] < bi {
			p++
		}
		if p < len(sorted) && sorted[p] == bi {
			out = append(out, ri)
			p++
		}
		ri++
	}
	return out
}
