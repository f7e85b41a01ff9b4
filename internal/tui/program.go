package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/interpretive-systems/difftui/internal/config"
	"github.com/interpretive-systems/difftui/internal/diffview"
	"github.com/interpretive-systems/difftui/internal/filter"
	"github.com/interpretive-systems/difftui/internal/gitx"
)

// Differ produces displayable diff bytes for a path. It must not fail;
// difftool.Resolver is the production implementation.
type Differ interface {
	Diff(path string, width int) []byte
}

// Options configures a Program.
type Options struct {
	Files  []gitx.ChangedFile
	Differ Differ
	Theme  config.ThemeConfig
	Ranker filter.Ranker
	Logger *log.Logger
}

// Program is the bubbletea model driving the viewer. All transitions happen
// synchronously inside Update, including diff acquisition.
type Program struct {
	state      *State
	layout     *Layout
	keyHandler *KeyHandler
	filter     *filter.Filter
	differ     Differ
	logger     *log.Logger
}

// New builds the model without starting a terminal program.
func New(opts Options) Program {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	theme := defaultTheme()
	if opts.Theme != (config.ThemeConfig{}) {
		theme = themeFromConfig(opts.Theme)
	}
	return Program{
		state:      NewState(opts.Files, theme),
		layout:     NewLayout(),
		keyHandler: NewKeyHandler(),
		filter:     filter.New(opts.Ranker),
		differ:     opts.Differ,
		logger:     logger,
	}
}

// Run instantiates and runs the Bubble Tea program. The terminal is restored
// before any panic that escapes the program propagates.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	defer func() {
		if r := recover(); r != nil {
			_ = p.RestoreTerminal()
			panic(r)
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

func (m Program) Init() tea.Cmd {
	return nil
}

func (m Program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.layout.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Program) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.state
	searching := s.Screen == ScreenFileList && s.SearchEngine.IsActive()
	action := m.keyHandler.Handle(s.Screen, searching, msg)

	switch action {
	case ActionQuit:
		return m, tea.Quit

	// File list
	case ActionMoveDown:
		s.FileList.MoveSelection(1)
	case ActionMoveUp:
		s.FileList.MoveSelection(-1)
	case ActionEnterSearch:
		s.SearchEngine.Activate()
	case ActionOpen:
		m.open()

	// Search mode
	case ActionSearchEdit:
		s.SearchEngine.HandleKey(msg)
		m.applyFilter()
	case ActionSearchConfirm:
		s.SearchEngine.Deactivate()
		if s.FileList.Len() > 0 {
			m.open()
		}
	case ActionSearchCancel:
		s.SearchEngine.Deactivate()
		s.SearchEngine.Clear()
		m.applyFilter()

	// Diff view
	case ActionBack:
		s.Screen = ScreenFileList
		s.DiffView.Reset()
	case ActionScrollDown:
		s.DiffView.ScrollBy(1)
	case ActionScrollUp:
		s.DiffView.ScrollBy(-1)
	case ActionPageDown:
		s.DiffView.PageDown()
	case ActionPageUp:
		s.DiffView.PageUp()
	case ActionGoToTop:
		s.DiffView.GoToTop()
	case ActionGoToBottom:
		s.DiffView.GoToBottom()
	}
	return m, nil
}

// applyFilter recomputes the visible files from the search buffer.
func (m Program) applyFilter() {
	s := m.state
	s.Query = s.SearchEngine.Query()
	s.FileList.SetMatches(m.filter.Rank(s.Paths, s.Query))
}

// open acquires and decodes the diff for the selection, then switches to
// the diff view. It blocks until the external tools finish.
func (m Program) open() {
	s := m.state
	f := s.FileList.SelectedFile()
	if f == nil {
		return
	}
	width := m.layout.DiffWidth()
	var out []byte
	if m.differ != nil {
		out = m.differ.Diff(f.Path, width)
	}
	lines := diffview.Decode(out)
	m.logger.Debug("opened diff", "path", f.Path, "width", width, "bytes", len(out), "lines", len(lines))

	s.DiffView.Open(f.Path, lines)
	s.Screen = ScreenDiffView
}

func (m Program) View() string {
	s := m.state
	if s.Width == 0 || s.Height == 0 {
		return "Loading..."
	}
	var rows []string
	if s.Screen == ScreenDiffView {
		rows = m.diffViewLines()
	} else {
		rows = m.fileListLines()
	}
	return strings.Join(rows, "\n")
}

func (m Program) fileListLines() []string {
	s := m.state
	searching := s.SearchEngine.IsActive()
	rows := make([]string, 0, s.Height)

	if searching {
		rows = append(rows, m.layout.RenderBox(" Search ", s.SearchEngine.RenderOverlay(s.Width-borderMargin), s.Width, searchBoxRows, s.Theme)...)
	}

	listH := m.layout.ListHeight(searching)
	title := fmt.Sprintf(" Changed Files (%d/%d) ", s.FileList.Len(), len(s.Files))
	if s.Query != "" && !searching {
		title += fmt.Sprintf("[%s] ", s.Query)
	}
	body := s.FileList.Render(s.Width-borderMargin, listH, s.Theme.FileListStyles())
	rows = append(rows, m.layout.RenderBox(title, body, s.Width, listH+2, s.Theme)...)

	keys := m.keyHandler.Keys().Help(ScreenFileList, searching)
	rows = append(rows, s.StatusBar.Render(s.Width, keys, ""))
	return rows
}

func (m Program) diffViewLines() []string {
	s := m.state
	h := m.layout.DiffHeight()
	title := " " + s.DiffView.Path() + " "
	body := s.DiffView.Render(s.Width-borderMargin, h)

	rows := m.layout.RenderBox(title, body, s.Width, h+2, s.Theme)
	cur, total := s.DiffView.Position()
	keys := m.keyHandler.Keys().Help(ScreenDiffView, false)
	return append(rows, s.StatusBar.Render(s.Width, keys, fmt.Sprintf("Line %d/%d", cur, total)))
}
