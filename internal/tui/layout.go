package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
)

const (
	// borderMargin is the columns taken by the left and right border.
	borderMargin  = 2
	fallbackWidth = 80
	searchBoxRows = 3
	footerRows    = 1
)

// Layout manages screen layout calculations.
type Layout struct {
	width  int
	height int
}

// NewLayout creates a new layout manager.
func NewLayout() *Layout {
	return &Layout{}
}

// SetSize updates the layout dimensions.
func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// ListHeight returns the rows available for file entries.
func (l *Layout) ListHeight(searching bool) int {
	h := l.height - footerRows - 2
	if searching {
		h -= searchBoxRows
	}
	if h < 1 {
		h = 1
	}
	return h
}

// DiffHeight returns the rows available for diff lines.
func (l *Layout) DiffHeight() int {
	h := l.height - footerRows - 2
	if h < 1 {
		h = 1
	}
	return h
}

// DiffWidth is the width handed to diff renderers: the terminal width minus
// the border. Before the first resize event the terminal is queried directly.
func (l *Layout) DiffWidth() int {
	w := l.width
	if w <= 0 {
		if tw, _, err := term.GetSize(os.Stdout.Fd()); err == nil {
			w = tw
		}
	}
	if w <= 0 {
		return fallbackWidth
	}
	w -= borderMargin
	if w < 1 {
		w = 1
	}
	return w
}

// RenderBox draws lines inside a single-line border with title embedded in
// the top edge. The result is exactly width columns by height rows.
func (l *Layout) RenderBox(title string, lines []string, width, height int, theme Theme) []string {
	if width < 2 || height < 2 {
		return nil
	}
	inner := width - borderMargin
	b := lipgloss.NormalBorder()

	out := make([]string, 0, height)

	title = ansi.Truncate(title, inner, "…")
	top := b.TopLeft + title + strings.Repeat(b.Top, inner-lipgloss.Width(title)) + b.TopRight
	out = append(out, theme.DividerText(top))

	left := theme.DividerText(b.Left)
	right := theme.DividerText(b.Right)
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		out = append(out, left+padToWidth(line, inner)+right)
	}

	bottom := b.BottomLeft + strings.Repeat(b.Bottom, inner) + b.BottomRight
	out = append(out, theme.DividerText(bottom))
	return out
}

func padToWidth(s string, w int) string {
	width := lipgloss.Width(s)
	if width == w {
		return s
	}
	if width < w {
		return s + strings.Repeat(" ", w-width)
	}
	return ansi.Truncate(s, w, "…")
}
