package search

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Engine holds the search-mode flag and the query buffer. Only appends and
// backspace reach the input, so the cursor always sits at the end.
type Engine struct {
	input  textinput.Model
	active bool
}

// New creates a new search engine.
func New() *Engine {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "type to filter files"
	ti.CharLimit = 0
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &Engine{input: ti}
}

// Activate enters search mode with an empty buffer.
func (e *Engine) Activate() {
	e.active = true
	e.input.SetValue("")
	e.input.Focus()
}

// Deactivate leaves search mode, keeping the buffer.
func (e *Engine) Deactivate() {
	e.active = false
	e.input.Blur()
}

// Clear empties the buffer.
func (e *Engine) Clear() {
	e.input.SetValue("")
}

// IsActive returns whether search mode is on.
func (e *Engine) IsActive() bool {
	return e.active
}

// Query returns the current buffer.
func (e *Engine) Query() string {
	return e.input.Value()
}

// IsEdit reports whether msg edits the buffer.
func IsEdit(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace:
		return true
	}
	return false
}

// HandleKey applies an edit key to the buffer and reports whether it was one.
func (e *Engine) HandleKey(msg tea.KeyMsg) bool {
	if !e.active || !IsEdit(msg) {
		return false
	}
	if msg.Type == tea.KeyRunes && msg.Alt {
		msg.Alt = false
	}
	e.input.CursorEnd()
	e.input, _ = e.input.Update(msg)
	return true
}

// InputView returns the text input view.
func (e *Engine) InputView() string {
	return e.input.View()
}
