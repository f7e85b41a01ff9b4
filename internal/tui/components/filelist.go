package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/interpretive-systems/difftui/internal/filter"
	"github.com/interpretive-systems/difftui/internal/gitx"
	tuiansi "github.com/interpretive-systems/difftui/internal/tui/ansi"
	"github.com/interpretive-systems/difftui/internal/tui/search"
)

// FileListStyles are the styles the file list draws with.
type FileListStyles struct {
	Status   map[gitx.FileStatus]lipgloss.Style
	Selected lipgloss.Style
	Match    lipgloss.Style
	Empty    lipgloss.Style
}

// FileList is the filtered, selectable list of changed files. The selection
// indexes into the visible matches, not into the file slice.
type FileList struct {
	files    []gitx.ChangedFile
	matches  []filter.Match
	selected int // -1 when nothing is visible
	offset   int
}

// NewFileList creates a new file list.
func NewFileList() *FileList {
	return &FileList{selected: -1}
}

// SetFiles replaces the files and shows all of them.
func (f *FileList) SetFiles(files []gitx.ChangedFile) {
	f.files = files
	all := make([]filter.Match, len(files))
	for i := range files {
		all[i] = filter.Match{Index: i}
	}
	f.SetMatches(all)
}

// Files returns every file, visible or not.
func (f *FileList) Files() []gitx.ChangedFile {
	return f.files
}

// Paths returns the path of every file in order.
func (f *FileList) Paths() []string {
	paths := make([]string, len(f.files))
	for i, file := range f.files {
		paths[i] = file.Path
	}
	return paths
}

// SetMatches replaces the visible set and resets the selection to the first
// entry, or to none when the set is empty.
func (f *FileList) SetMatches(ms []filter.Match) {
	f.matches = ms
	f.offset = 0
	if len(ms) == 0 {
		f.selected = -1
		return
	}
	f.selected = 0
}

// Matches returns the visible entries, best first.
func (f *FileList) Matches() []filter.Match {
	return f.matches
}

// Len returns the number of visible entries.
func (f *FileList) Len() int {
	return len(f.matches)
}

// Selected returns the selection, ok is false when nothing is selected.
func (f *FileList) Selected() (int, bool) {
	if f.selected < 0 || f.selected >= len(f.matches) {
		return 0, false
	}
	return f.selected, true
}

// SelectedFile returns the currently selected file.
func (f *FileList) SelectedFile() *gitx.ChangedFile {
	i, ok := f.Selected()
	if !ok {
		return nil
	}
	idx := f.matches[i].Index
	if idx < 0 || idx >= len(f.files) {
		return nil
	}
	return &f.files[idx]
}

// MoveSelection moves the selection by delta, clamped to the visible entries.
func (f *FileList) MoveSelection(delta int) bool {
	if len(f.matches) == 0 {
		return false
	}
	if f.selected < 0 {
		f.selected = 0
		return true
	}

	newSel := f.selected + delta
	if newSel < 0 {
		newSel = 0
	}
	if newSel >= len(f.matches) {
		newSel = len(f.matches) - 1
	}

	changed := newSel != f.selected
	f.selected = newSel
	return changed
}

// EnsureVisible ensures the selected item is visible.
func (f *FileList) EnsureVisible(visibleCount int) {
	if len(f.matches) == 0 || visibleCount <= 0 {
		f.offset = 0
		return
	}

	maxStart := len(f.matches) - visibleCount
	if maxStart < 0 {
		maxStart = 0
	}
	if f.offset > maxStart {
		f.offset = maxStart
	}
	if f.offset < 0 {
		f.offset = 0
	}
	if f.selected < 0 {
		return
	}

	if f.selected < f.offset {
		f.offset = f.selected
	} else if f.selected >= f.offset+visibleCount {
		f.offset = f.selected - visibleCount + 1
	}
}

// Render renders the visible window of the list, each line at most width columns.
func (f *FileList) Render(width, height int, st FileListStyles) []string {
	lines := make([]string, 0, height)
	if height <= 0 {
		return lines
	}

	if len(f.files) == 0 {
		return append(lines, st.Empty.Render("No changes detected"))
	}
	if len(f.matches) == 0 {
		return append(lines, st.Empty.Render("No matching files"))
	}

	f.EnsureVisible(height)

	start := f.offset
	end := start + height
	if end > len(f.matches) {
		end = len(f.matches)
	}

	hl := search.NewHighlighter(st.Match)
	for i := start; i < end; i++ {
		m := f.matches[i]
		file := f.files[m.Index]

		row := lipgloss.NewStyle()
		marker := "  "
		if i == f.selected {
			row = st.Selected
			marker = "> "
		}
		status := st.Status[file.Status].Inherit(row).Render(file.Status.Label() + " ")
		path := hl.Highlight(file.Path, m.Positions, row)
		line := row.Render(marker) + status + path
		lines = append(lines, tuiansi.TruncateToWidth(line, width))
	}

	return lines
}
