package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// StatusBar is the one-line footer: key help on the left, info on the right.
type StatusBar struct {
	help  help.Model
	style lipgloss.Style
}

// NewStatusBar creates a status bar drawn with st.
func NewStatusBar(st lipgloss.Style) *StatusBar {
	h := help.New()
	h.ShortSeparator = " | "
	h.Styles.ShortKey = st
	h.Styles.ShortDesc = st
	h.Styles.ShortSeparator = st
	h.Styles.Ellipsis = st
	return &StatusBar{help: h, style: st}
}

// Render renders the status bar.
func (s *StatusBar) Render(width int, keys help.KeyMap, info string) string {
	if width <= 0 {
		return ""
	}
	right := ""
	if info != "" {
		right = s.style.Render(info + " ")
	}

	// Ensure right part is always visible
	rightW := lipgloss.Width(right)
	if rightW >= width {
		return ansi.Truncate(right, width, "…")
	}

	avail := width - rightW
	s.help.Width = avail - 1
	left := " " + s.help.View(keys)
	if lipgloss.Width(left) > avail {
		left = ansi.Truncate(left, avail, "…")
	} else if lipgloss.Width(left) < avail {
		left = left + strings.Repeat(" ", avail-lipgloss.Width(left))
	}

	return left + right
}
