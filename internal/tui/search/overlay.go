package search

import (
	"github.com/interpretive-systems/difftui/internal/tui/ansi"
)

// RenderOverlay returns the body of the search box: the input line padded to width.
func (e *Engine) RenderOverlay(width int) []string {
	if !e.active || width <= 0 {
		return nil
	}
	return []string{ansi.PadExact(e.InputView(), width)}
}
