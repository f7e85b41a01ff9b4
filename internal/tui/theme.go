package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/interpretive-systems/difftui/internal/config"
	"github.com/interpretive-systems/difftui/internal/gitx"
	"github.com/interpretive-systems/difftui/internal/tui/components"
)

// Theme defines customizable colors for rendering.
type Theme struct {
	Modified     string
	Added        string
	Deleted      string
	Renamed      string
	Untracked    string
	MatchColor   string
	DividerColor string
	HelpColor    string
}

func defaultTheme() Theme {
	return themeFromConfig(config.Default().Theme)
}

// themeFromConfig fills the chrome colors the config file does not expose.
func themeFromConfig(c config.ThemeConfig) Theme {
	return Theme{
		Modified:     c.Modified,
		Added:        c.Added,
		Deleted:      c.Deleted,
		Renamed:      c.Renamed,
		Untracked:    c.Untracked,
		MatchColor:   c.Match,
		DividerColor: "240",
		HelpColor:    "8",
	}
}

func (t Theme) StatusStyle(s gitx.FileStatus) lipgloss.Style {
	var c string
	switch s {
	case gitx.StatusAdded:
		c = t.Added
	case gitx.StatusDeleted:
		c = t.Deleted
	case gitx.StatusRenamed:
		c = t.Renamed
	case gitx.StatusUntracked:
		c = t.Untracked
	default:
		c = t.Modified
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

func (t Theme) FileListStyles() components.FileListStyles {
	status := make(map[gitx.FileStatus]lipgloss.Style, 5)
	for _, s := range []gitx.FileStatus{
		gitx.StatusModified, gitx.StatusAdded, gitx.StatusDeleted,
		gitx.StatusRenamed, gitx.StatusUntracked,
	} {
		status[s] = t.StatusStyle(s)
	}
	return components.FileListStyles{
		Status:   status,
		Selected: lipgloss.NewStyle().Reverse(true).Bold(true),
		Match:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.MatchColor)).Underline(true),
		Empty:    lipgloss.NewStyle().Faint(true),
	}
}

func (t Theme) DividerText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.DividerColor)).Render(s)
}

// HelpStyle colors the footer.
func (t Theme) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.HelpColor))
}
