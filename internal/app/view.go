// internal/app/view.go
package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/clipline/internal/ui/headerbar"
	"github.com/llehouerou/clipline/internal/ui/jobbar"
	"github.com/llehouerou/clipline/internal/ui/layout"
	"github.com/llehouerou/clipline/internal/ui/popup"
	"github.com/llehouerou/clipline/internal/ui/previewpane"
	"github.com/llehouerou/clipline/internal/ui/render"
	"github.com/llehouerou/clipline/internal/ui/styles"
	"github.com/llehouerou/clipline/internal/ui/timelineview"
)

// View renders the application UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	model := m.editor.Model()
	playhead := m.editor.Playhead().Position()
	drag := m.editor.Drag()

	header := headerbar.Render(headerbar.State{
		Playhead:        playhead,
		Extent:          model.Extent(),
		PixelsPerSecond: m.editor.Mapper().PixelsPerSecond(),
		Clips:           model.Len(),
		Mode:            drag.Mode(),
	}, m.width)

	content := lipgloss.JoinHorizontal(lipgloss.Top, m.bin.View(), m.pane.View(m.previewFrame()))

	dragged, _ := drag.Target()
	lane := m.lane.View(timelineview.Frame{
		Clips:    model.Clips(),
		Playhead: playhead,
		Mapper:   m.editor.Mapper(),
		Dragged:  dragged,
	})

	sections := []string{header, content, lane}
	if m.jobs.HasActiveJobs() {
		sections = append(sections, jobbar.Render(m.jobs, m.width))
	}
	sections = append(sections, m.help.View(m.helpKeys), m.renderStatus())

	view := enforceHeight(strings.Join(sections, "\n"), m.height)
	if m.modal != nil {
		box := popup.RenderBordered(m.modal.View(), m.width, m.height)
		view = popup.Compose(view, box, m.width)
	}

	// Terminal image commands bracket the frame so lipgloss never measures them
	if m.kittyPending != "" {
		view = m.kittyPending + view
	}
	if m.modal == nil {
		row, col := layout.PreviewImageOrigin(m.width)
		view += m.preview.PlacementCmd(row, col)
	}

	return view
}

func (m Model) previewFrame() previewpane.Frame {
	f := previewpane.Frame{
		Status:   m.preview.Status(),
		HasImage: m.preview.HasImage(),
	}
	if clip, ok := m.editor.ActiveClip(); ok {
		f.ClipDuration = clip.Duration
	}
	return f
}

func (m Model) renderStatus() string {
	s := styles.T().S()
	if m.status == "" {
		return render.Fit(s.Subtle.Render(render.Sanitize(m.root)), m.width)
	}
	style := s.Success
	if m.statusErr {
		style = s.Error
	}
	return render.Fit(style.Render(render.Sanitize(m.status)), m.width)
}

// enforceHeight ensures the view has exactly the specified number of lines.
func enforceHeight(view string, targetHeight int) string {
	lines := strings.Split(view, "\n")
	switch {
	case len(lines) < targetHeight:
		for len(lines) < targetHeight {
			lines = append(lines, "")
		}
	case len(lines) > targetHeight:
		lines = lines[:targetHeight]
	}
	return strings.Join(lines, "\n")
}
