// Package previewpane renders the player surface: the image area where
// stills are placed, and two lines naming the source and showing the
// position within the active clip.
package previewpane

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/clipline/internal/playback"
	"github.com/llehouerou/clipline/internal/preview"
	"github.com/llehouerou/clipline/internal/ui"
	"github.com/llehouerou/clipline/internal/ui/layout"
	"github.com/llehouerou/clipline/internal/ui/render"
	"github.com/llehouerou/clipline/internal/ui/styles"
)

// InfoRows is the number of text lines under the image area.
const InfoRows = 2

// Frame is everything the pane draws.
type Frame struct {
	Status       preview.Status
	ClipDuration float64 // duration of the active clip, zero when none
	HasImage     bool    // a terminal image is placed over the image area
}

// Model is the preview pane.
type Model struct {
	ui.Base
}

// New creates a preview pane.
func New() Model {
	return Model{}
}

// ImageArea returns the image area in cells for a pane of the given size.
func ImageArea(width, height int) (cols, rows int) {
	return max(width-layout.BorderHeight, 0), max(height-layout.BorderHeight-InfoRows, 0)
}

// ImageArea returns this pane's image area in cells.
func (m Model) ImageArea() (cols, rows int) {
	return ImageArea(m.Width(), m.Height())
}

// View renders the pane inside a panel border.
func (m Model) View(f Frame) string {
	cols, rows := m.ImageArea()
	if cols <= 0 || m.Height() < layout.BorderHeight+InfoRows {
		return ""
	}
	s := styles.T().S()

	var area string
	switch {
	case rows == 0:
	case f.Status.Output == playback.OutputStill && f.HasImage:
		area = preview.BlankPlaceholder(cols, rows)
	case f.Status.Output == playback.OutputStill:
		area = s.Success.Render(boxOrBlank(cols, rows, "▣"))
	case f.Status.Output == playback.OutputVideo:
		area = s.Muted.Render(boxOrBlank(cols, rows, "▶"))
	default:
		area = centered("No clip under the playhead", cols, rows)
	}

	lines := make([]string, 0, rows+InfoRows)
	if area != "" {
		lines = append(lines, area)
	}
	lines = append(lines, m.infoLine(f, cols), m.progressLine(f, cols))

	return styles.PanelStyle(m.IsFocused()).
		Width(cols).
		Render(strings.Join(lines, "\n"))
}

func (m Model) infoLine(f Frame, width int) string {
	s := styles.T().S()
	st := f.Status

	switch st.Output {
	case playback.OutputStill:
		name := s.Title.Render(filepath.Base(st.Still))
		dims := ""
		if st.StillSize.X > 0 {
			dims = s.Muted.Render(fmt.Sprintf("%dx%d", st.StillSize.X, st.StillSize.Y))
		}
		return render.Row(name, dims, width)
	case playback.OutputVideo:
		name := s.Title.Render(filepath.Base(st.Source))
		return render.Row(name, s.Muted.Render(st.State.String()), width)
	default:
		return render.Fit(s.Subtle.Render("Stopped"), width)
	}
}

func (m Model) progressLine(f Frame, width int) string {
	st := f.Status
	if st.Output != playback.OutputVideo {
		return strings.Repeat(" ", width)
	}
	bar := RenderProgressBar(st.Offset, f.ClipDuration, width, st.State == playback.StatePlaying)
	return render.Fit(styles.T().S().Playhead.Render(bar), width)
}

func boxOrBlank(cols, rows int, glyph string) string {
	if box := preview.Box(cols, rows, glyph); box != "" {
		return box
	}
	return preview.BlankPlaceholder(cols, rows)
}

func centered(text string, cols, rows int) string {
	text = render.Truncate(text, cols)
	lines := make([]string, rows)
	for i := range lines {
		if i == rows/2 {
			pad := (cols - lipgloss.Width(text)) / 2
			lines[i] = render.Pad(strings.Repeat(" ", pad)+text, cols)
			continue
		}
		lines[i] = strings.Repeat(" ", cols)
	}
	return styles.T().S().Subtle.Render(strings.Join(lines, "\n"))
}
