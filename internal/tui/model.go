package tui

import (
	"github.com/interpretive-systems/difftui/internal/gitx"
	"github.com/interpretive-systems/difftui/internal/tui/components"
	"github.com/interpretive-systems/difftui/internal/tui/search"
)

// Screen is the active view. It alone decides input routing and rendering.
type Screen int

const (
	ScreenFileList Screen = iota
	ScreenDiffView
)

func (s Screen) String() string {
	if s == ScreenDiffView {
		return "diff"
	}
	return "files"
}

// State holds all application state.
type State struct {
	// Files is the session's fixed set of changes, sorted by path.
	Files []gitx.ChangedFile
	Paths []string

	Screen Screen
	// Query is the query the visible list was last filtered with.
	Query string

	// UI State
	Width  int
	Height int

	// Components
	FileList     *components.FileList
	DiffView     *components.DiffView
	StatusBar    *components.StatusBar
	SearchEngine *search.Engine

	// Theme
	Theme Theme
}

// NewState creates initial application state showing every file.
func NewState(files []gitx.ChangedFile, theme Theme) *State {
	fl := components.NewFileList()
	fl.SetFiles(files)

	return &State{
		Files:        files,
		Paths:        fl.Paths(),
		Screen:       ScreenFileList,
		Theme:        theme,
		FileList:     fl,
		DiffView:     components.NewDiffView(),
		StatusBar:    components.NewStatusBar(theme.HelpStyle()),
		SearchEngine: search.New(),
	}
}
