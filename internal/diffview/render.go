package diffview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Lipgloss converts s to a lipgloss style.
func (s Style) Lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Fg != "" {
		st = st.Foreground(lipgloss.Color(s.Fg))
	}
	if s.Bg != "" {
		st = st.Background(lipgloss.Color(s.Bg))
	}
	return st.
		Bold(s.Bold).
		Faint(s.Faint).
		Italic(s.Italic).
		Underline(s.Underline).
		Reverse(s.Reverse).
		Strikethrough(s.Strikethrough)
}

// Render returns the line with its styles re-encoded for the terminal.
func (l Line) Render() string {
	var b strings.Builder
	for _, sp := range l {
		if sp.Style.IsZero() {
			b.WriteString(sp.Text)
			continue
		}
		b.WriteString(sp.Style.Lipgloss().Render(sp.Text))
	}
	return b.String()
}
