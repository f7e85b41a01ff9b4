package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/difftui/internal/tui/search"
)

// KeyAction represents an action triggered by a key press.
type KeyAction int

const (
	ActionNone KeyAction = iota
	ActionQuit
	ActionMoveUp
	ActionMoveDown
	ActionEnterSearch
	ActionOpen
	ActionSearchEdit
	ActionSearchConfirm
	ActionSearchCancel
	ActionBack
	ActionScrollUp
	ActionScrollDown
	ActionPageUp
	ActionPageDown
	ActionGoToTop
	ActionGoToBottom
)

// KeyMap holds the bindings for every screen.
type KeyMap struct {
	ForceQuit key.Binding

	// File list
	Up     key.Binding
	Down   key.Binding
	Search key.Binding
	Open   key.Binding
	Quit   key.Binding

	// Search mode; j and k are text here.
	SearchUp   key.Binding
	SearchDown key.Binding
	Confirm    key.Binding
	Cancel     key.Binding

	// Diff view
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Back       key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view diff")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),

		SearchUp:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		SearchDown: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		ScrollUp:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		ScrollDown: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		PageUp:     key.NewBinding(key.WithKeys("u", "pgup"), key.WithHelp("u/pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("d", "pgdown"), key.WithHelp("d/pgdn", "page down")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Back:       key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "back")),
	}
}

type shortHelp []key.Binding

func (h shortHelp) ShortHelp() []key.Binding  { return h }
func (h shortHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

// Help returns the footer bindings for a screen.
func (k KeyMap) Help(screen Screen, searching bool) help.KeyMap {
	move := key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "move"))
	switch {
	case screen == ScreenDiffView:
		scroll := key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "scroll"))
		page := key.NewBinding(key.WithKeys("d", "u"), key.WithHelp("d/u", "page"))
		return shortHelp{scroll, page, k.Top, k.Bottom, k.Back}
	case searching:
		// Display only; help skips bindings without keys.
		typing := key.NewBinding(key.WithKeys("type"), key.WithHelp("type", "to search"))
		return shortHelp{typing, k.Confirm, k.Cancel}
	default:
		return shortHelp{move, k.Open, k.Search, k.Quit}
	}
}

// KeyHandler maps key presses to actions for the current screen.
type KeyHandler struct {
	keys KeyMap
}

// NewKeyHandler creates a new key handler.
func NewKeyHandler() *KeyHandler {
	return &KeyHandler{keys: DefaultKeyMap()}
}

// Keys returns the bindings in use.
func (k *KeyHandler) Keys() KeyMap {
	return k.keys
}

// Handle processes a key message and returns the action.
func (k *KeyHandler) Handle(screen Screen, searching bool, msg tea.KeyMsg) KeyAction {
	km := k.keys
	if key.Matches(msg, km.ForceQuit) {
		return ActionQuit
	}

	switch screen {
	case ScreenDiffView:
		switch {
		case key.Matches(msg, km.Back):
			return ActionBack
		case key.Matches(msg, km.ScrollDown):
			return ActionScrollDown
		case key.Matches(msg, km.ScrollUp):
			return ActionScrollUp
		case key.Matches(msg, km.PageDown):
			return ActionPageDown
		case key.Matches(msg, km.PageUp):
			return ActionPageUp
		case key.Matches(msg, km.Top):
			return ActionGoToTop
		case key.Matches(msg, km.Bottom):
			return ActionGoToBottom
		}
		return ActionNone
	}

	if searching {
		switch {
		case key.Matches(msg, km.Cancel):
			return ActionSearchCancel
		case key.Matches(msg, km.Confirm):
			return ActionSearchConfirm
		case key.Matches(msg, km.SearchDown):
			return ActionMoveDown
		case key.Matches(msg, km.SearchUp):
			return ActionMoveUp
		case search.IsEdit(msg):
			return ActionSearchEdit
		}
		return ActionNone
	}

	switch {
	case key.Matches(msg, km.Quit):
		return ActionQuit
	case key.Matches(msg, km.Down):
		return ActionMoveDown
	case key.Matches(msg, km.Up):
		return ActionMoveUp
	case key.Matches(msg, km.Search):
		return ActionEnterSearch
	case key.Matches(msg, km.Open):
		return ActionOpen
	}
	return ActionNone
}
