// Package mediabin lists the scanned media folder and hands the selected
// entry to the caller for appending.
package mediabin

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/clipline/internal/catalog"
	"github.com/llehouerou/clipline/internal/media"
	"github.com/llehouerou/clipline/internal/ui"
	"github.com/llehouerou/clipline/internal/ui/cursor"
	"github.com/llehouerou/clipline/internal/ui/render"
	"github.com/llehouerou/clipline/internal/ui/styles"
)

const (
	durationWidth = 7
	sizeWidth     = 8
)

// Action is what Update asks the parent to do.
type Action int

const (
	ActionNone   Action = iota
	ActionAppend        // append Result.Entry to the timeline
)

// Result is returned from Update.
type Result struct {
	Action  Action
	Entry   catalog.Entry
	Handled bool // the message was consumed by the bin
}

// Model is the media bin panel.
type Model struct {
	ui.Base
	root      string
	entries   []catalog.Entry
	cursor    cursor.Cursor
	appendKey key.Binding
}

// New creates an empty bin. Pressing a key matching appendKey appends the
// selected entry.
func New(appendKey key.Binding) Model {
	return Model{
		cursor:    cursor.New(1),
		appendKey: appendKey,
	}
}

// SetEntries replaces the listing, keeping the selection on the same path
// when it survives the refresh.
func (m *Model) SetEntries(root string, entries []catalog.Entry) {
	selected, hadSelection := m.Selected()
	m.root = root
	m.entries = entries

	if hadSelection {
		for i, e := range entries {
			if e.Path == selected.Path {
				m.cursor.Jump(i, len(entries), m.listHeight())
				return
			}
		}
	}
	m.cursor.ClampToBounds(len(entries))
	m.cursor.EnsureVisible(len(entries), m.listHeight())
}

// Root returns the listed folder.
func (m Model) Root() string {
	return m.root
}

// Entries returns the listed entries.
func (m Model) Entries() []catalog.Entry {
	return m.entries
}

// Len returns the number of entries.
func (m Model) Len() int {
	return len(m.entries)
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (catalog.Entry, bool) {
	if m.cursor.Pos() >= len(m.entries) {
		return catalog.Entry{}, false
	}
	return m.entries[m.cursor.Pos()], true
}

// SelectedIndex returns the cursor row.
func (m Model) SelectedIndex() int {
	return m.cursor.Pos()
}

func (m Model) listHeight() int {
	return m.InnerHeight(ui.PanelOverhead)
}

// Update handles navigation keys when focused and mouse events whose
// coordinates are relative to the panel's top-left corner.
//
// A left click selects a row; clicking the selected row again appends it.
func (m *Model) Update(msg tea.Msg) Result {
	height := m.listHeight()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.IsFocused() {
			return Result{}
		}
		if m.cursor.HandleKey(msg.String(), len(m.entries), height) {
			return Result{Handled: true}
		}
		if key.Matches(msg, m.appendKey) {
			return m.appendSelected()
		}

	case tea.MouseMsg:
		switch msg.Button { //nolint:exhaustive // other buttons are ignored
		case tea.MouseButtonWheelUp:
			m.cursor.Move(-1, len(m.entries), height)
			return Result{Handled: true}
		case tea.MouseButtonWheelDown:
			m.cursor.Move(1, len(m.entries), height)
			return Result{Handled: true}
		case tea.MouseButtonLeft:
			if msg.Action != tea.MouseActionPress {
				return Result{}
			}
			// border row and title row sit above the list
			idx := m.cursor.RowAt(msg.Y-(ui.PanelOverhead-1), len(m.entries), height)
			if idx < 0 {
				return Result{}
			}
			if idx == m.cursor.Pos() {
				return m.appendSelected()
			}
			m.cursor.Jump(idx, len(m.entries), height)
			return Result{Handled: true}
		}
	}
	return Result{}
}

func (m Model) appendSelected() Result {
	e, ok := m.Selected()
	if !ok || !e.OK() {
		return Result{Handled: true}
	}
	return Result{Action: ActionAppend, Entry: e, Handled: true}
}

// View renders the bin inside a panel border.
func (m Model) View() string {
	w := m.Width() - 2
	height := m.listHeight()
	if w <= 0 || m.Height() < ui.PanelOverhead {
		return ""
	}
	s := styles.T().S()

	lines := make([]string, 0, height+1)
	title := s.Title.Render("Media")
	count := s.Muted.Render(fmt.Sprintf("%d files", len(m.entries)))
	lines = append(lines, render.Row(title, count, w))

	if len(m.entries) == 0 {
		lines = append(lines, s.Muted.Render(render.TruncateAndPad("No media in "+m.root, w)))
	}

	start, end := m.cursor.VisibleRange(len(m.entries), height)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(m.entries[i], i == m.cursor.Pos(), w))
	}
	for len(lines) < height+1 {
		lines = append(lines, strings.Repeat(" ", w))
	}

	return styles.PanelStyle(m.IsFocused()).
		Width(w).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(e catalog.Entry, selected bool, width int) string {
	s := styles.T().S()

	nameWidth := max(width-2-durationWidth-sizeWidth-2, 1)
	dur := render.Seconds(e.Duration)
	if !e.OK() {
		dur = "error"
	}
	row := icon(e.Type) + " " +
		render.TruncateAndPad(e.Name(), nameWidth) + " " +
		fmt.Sprintf("%*s", durationWidth, dur) + " " +
		fmt.Sprintf("%*s", sizeWidth, formatSize(e.Size))
	row = render.Fit(row, width)

	switch {
	case selected:
		return s.Cursor.Render(row)
	case !e.OK():
		return s.Error.Render(row)
	default:
		return s.Base.Render(row)
	}
}

func icon(t media.Type) string {
	switch t {
	case media.Video:
		return "▶"
	case media.Image:
		return "▣"
	default:
		return "?"
	}
}

// formatSize uses binary units with SI suffixes.
func formatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	s := humanize.IBytes(uint64(bytes)) //nolint:gosec // non-negative above
	return strings.ReplaceAll(s, "iB", "B")
}
