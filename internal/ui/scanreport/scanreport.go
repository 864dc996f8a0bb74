// Package scanreport provides a popup component for displaying media
// folder rescan results.
package scanreport

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/clipline/internal/catalog"
	"github.com/llehouerou/clipline/internal/ui"
	"github.com/llehouerou/clipline/internal/ui/popup"
	"github.com/llehouerou/clipline/internal/ui/render"
	"github.com/llehouerou/clipline/internal/ui/styles"
)

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

// DefaultMaxExamples is the number of example paths to show per category.
const DefaultMaxExamples = 3

// fixedLines counts title, root, total and footer lines with their spacing.
const fixedLines = 8

// Model holds the state for the scan report popup.
type Model struct {
	ui.Base
	Stats       *catalog.ScanStats
	MaxExamples int
}

// New creates a new scan report model.
func New(stats *catalog.ScanStats) *Model {
	return &Model{
		Stats:       stats,
		MaxExamples: DefaultMaxExamples,
	}
}

// Update implements popup.Popup.
func (m *Model) Update(_ tea.Msg) (popup.Popup, tea.Cmd) {
	// Closed by the app on enter or escape
	return m, nil
}

type category struct {
	label string
	paths []string
	color lipgloss.Color
}

func (m *Model) categories() []category {
	t := styles.T()
	all := []category{
		{"Added", m.Stats.Added, t.Success},
		{"Updated", m.Stats.Updated, t.Warning},
		{"Removed", m.Stats.Removed, t.FgMuted},
		{"Unreadable", m.Stats.Failed, t.Error},
	}
	cats := all[:0]
	for _, c := range all {
		if len(c.paths) > 0 {
			cats = append(cats, c)
		}
	}
	return cats
}

// examples returns how many paths fit per category.
func (m *Model) examples(cats int) int {
	n := m.MaxExamples
	if m.Height() <= 0 || cats == 0 {
		return n
	}
	// each category takes its header line plus a possible "more" line
	perCategory := (m.Height()-fixedLines)/cats - 2
	return min(max(perCategory, 0), n)
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Stats == nil {
		return ""
	}
	s := styles.T().S()

	var sb strings.Builder
	sb.WriteString(s.Title.Render("Rescan Complete"))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(m.fit(render.Sanitize(m.Stats.Root), 0)))
	sb.WriteString("\n")

	cats := m.categories()
	if len(cats) == 0 {
		sb.WriteString("  ")
		sb.WriteString(s.Subtle.Render("No changes"))
		sb.WriteString("\n")
	}
	limit := m.examples(len(cats))
	for _, c := range cats {
		m.renderCategory(&sb, c, limit)
	}

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", 40))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf(
		"Total: %d added, %d updated, %d removed, %d unreadable",
		len(m.Stats.Added), len(m.Stats.Updated), len(m.Stats.Removed), len(m.Stats.Failed))))
	sb.WriteString("\n\n")
	sb.WriteString(s.Subtle.Render("Press Enter or Escape to close"))

	return sb.String()
}

func (m *Model) renderCategory(sb *strings.Builder, c category, limit int) {
	sb.WriteString("  ")
	sb.WriteString(lipgloss.NewStyle().Foreground(c.color).Render(fmt.Sprintf("%s: %d", c.label, len(c.paths))))
	sb.WriteString("\n")

	dim := styles.T().S().Subtle
	for i, path := range c.paths {
		if i >= limit {
			sb.WriteString("    ")
			sb.WriteString(dim.Render(fmt.Sprintf("... and %d more", len(c.paths)-limit)))
			sb.WriteString("\n")
			break
		}
		sb.WriteString("    • ")
		sb.WriteString(dim.Render(m.fit(render.Sanitize(m.relative(path)), 6)))
		sb.WriteString("\n")
	}
}

// relative shows paths below the scanned folder without its prefix.
func (m *Model) relative(path string) string {
	if m.Stats.Root == "" {
		return path
	}
	if rel, err := filepath.Rel(m.Stats.Root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// fit truncates a line indented by indent cells to the content width when
// one is set.
func (m *Model) fit(s string, indent int) string {
	if m.Width() <= 0 {
		return s
	}
	return render.Truncate(s, max(m.Width()-indent, 1))
}
