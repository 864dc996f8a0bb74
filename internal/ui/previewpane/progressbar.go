package previewpane

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/clipline/internal/ui/render"
)

var (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// RenderProgressBar renders a block-style progress bar through a clip.
// Format: ▶  0:01.5  ▓▓▓▓▓░░░░░  0:05.0
func RenderProgressBar(offset, duration float64, width int, playing bool) string {
	status := "▶"
	if !playing {
		status = "⏸"
	}

	posStr := render.Timecode(offset)
	durStr := render.Timecode(duration)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth

	if barWidth < 3 {
		return status + "  " + posStr + " / " + durStr
	}

	var ratio float64
	if duration > 0 {
		ratio = min(max(offset/duration, 0), 1)
	}
	filled := int(float64(barWidth) * ratio)

	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, barWidth-filled)

	return status + "  " + posStr + "  " + bar + "  " + durStr
}
