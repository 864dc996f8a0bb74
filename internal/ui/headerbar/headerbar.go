// internal/ui/headerbar/headerbar.go
package headerbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/clipline/internal/interaction"
	"github.com/llehouerou/clipline/internal/ui/render"
	"github.com/llehouerou/clipline/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

const title = "clipline"

// State holds everything the header shows.
type State struct {
	Playhead        float64
	Extent          float64
	PixelsPerSecond float64
	Clips           int
	Mode            interaction.Mode
}

var separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// Render returns the header bar string for the given width.
func Render(s State, width int) string {
	if width < 20 {
		return ""
	}
	st := styles.T().S()
	sep := separatorStyle.Render(" │ ")

	left := styles.Gradient(title, styles.T().Primary, styles.T().Secondary)
	if label := modeLabel(s.Mode); label != "" {
		left += sep + st.Warning.Render(label)
	}

	parts := []string{
		st.Playhead.Render(render.Timecode(s.Playhead)) + st.Muted.Render(" / "+render.Timecode(s.Extent)),
		st.Muted.Render(fmt.Sprintf("%g cells/s", s.PixelsPerSecond)),
		st.Muted.Render(clipCount(s.Clips)),
	}
	right := strings.Join(parts, sep)

	return render.Row(left, right, width)
}

func modeLabel(m interaction.Mode) string {
	switch m {
	case interaction.DraggingPlayhead:
		return "scrubbing"
	case interaction.DraggingClip:
		return "moving clip"
	default:
		return ""
	}
}

func clipCount(n int) string {
	if n == 1 {
		return "1 clip"
	}
	return fmt.Sprintf("%d clips", n)
}
