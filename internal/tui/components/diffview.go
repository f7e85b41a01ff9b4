package components

import (
	"github.com/interpretive-systems/difftui/internal/diffview"
	tuiansi "github.com/interpretive-systems/difftui/internal/tui/ansi"
)

// PageSize is the number of lines page-up and page-down move.
const PageSize = 20

// DiffView is the scrollable buffer of one decoded diff.
// Invariant: 0 <= scroll <= max(0, len(lines)-1).
type DiffView struct {
	path   string
	lines  []diffview.Line
	scroll int
}

// NewDiffView creates an empty diff buffer.
func NewDiffView() *DiffView {
	return &DiffView{}
}

// Open replaces the buffer wholesale and scrolls to the top.
func (d *DiffView) Open(path string, lines []diffview.Line) {
	d.path = path
	d.lines = lines
	d.scroll = 0
}

// Path returns the file the buffer was opened for.
func (d *DiffView) Path() string {
	return d.path
}

// Lines returns the decoded lines.
func (d *DiffView) Lines() []diffview.Line {
	return d.lines
}

// Len returns the number of lines.
func (d *DiffView) Len() int {
	return len(d.lines)
}

// Scroll returns the index of the first visible line.
func (d *DiffView) Scroll() int {
	return d.scroll
}

func (d *DiffView) maxScroll() int {
	if len(d.lines) == 0 {
		return 0
	}
	return len(d.lines) - 1
}

// ScrollBy moves the view by delta lines, clamped to the buffer.
func (d *DiffView) ScrollBy(delta int) {
	d.scroll += delta
	if d.scroll > d.maxScroll() {
		d.scroll = d.maxScroll()
	}
	if d.scroll < 0 {
		d.scroll = 0
	}
}

// PageDown scrolls down by PageSize.
func (d *DiffView) PageDown() { d.ScrollBy(PageSize) }

// PageUp scrolls up by PageSize.
func (d *DiffView) PageUp() { d.ScrollBy(-PageSize) }

// GoToTop scrolls to the first line.
func (d *DiffView) GoToTop() { d.scroll = 0 }

// GoToBottom scrolls so the last line is first.
func (d *DiffView) GoToBottom() { d.scroll = d.maxScroll() }

// Reset scrolls back to the top without dropping the buffer.
func (d *DiffView) Reset() { d.scroll = 0 }

// Position returns the 1-based current line and the line count for the footer.
func (d *DiffView) Position() (int, int) {
	total := len(d.lines)
	cur := d.scroll + 1
	if cur > total {
		cur = total
	}
	return cur, total
}

// Render returns up to height lines starting at the scroll offset, each
// clipped to width columns.
func (d *DiffView) Render(width, height int) []string {
	if height <= 0 || len(d.lines) == 0 {
		return nil
	}
	end := d.scroll + height
	if end > len(d.lines) {
		end = len(d.lines)
	}
	out := make([]string, 0, end-d.scroll)
	for _, l := range d.lines[d.scroll:end] {
		out = append(out, tuiansi.ClipToWidth(l.Render(), width))
	}
	return out
}
