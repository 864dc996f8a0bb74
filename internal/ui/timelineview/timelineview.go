// Package timelineview draws the timeline lane in the terminal and maps
// mouse cells back to timeline pixels.
//
// One terminal column is one timeline pixel, so the time axis scale is
// cells per second. The lane is a ruler row above BandRows of clip band.
package timelineview

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/clipline/internal/media"
	"github.com/llehouerou/clipline/internal/timeline"
	"github.com/llehouerou/clipline/internal/ui"
	"github.com/llehouerou/clipline/internal/ui/layout"
	"github.com/llehouerou/clipline/internal/ui/render"
	"github.com/llehouerou/clipline/internal/ui/styles"
)

// rulerSteps are the candidate tick intervals in seconds.
var rulerSteps = []float64{0.5, 1, 2, 5, 10, 15, 30, 60, 120, 300, 600}

// minTickSpacing is the minimum number of cells between ruler labels.
const minTickSpacing = 8

// Model holds the lane's viewport.
type Model struct {
	ui.Base
	scroll int // first visible pixel
}

// New creates a lane view.
func New() Model {
	return Model{}
}

// Scroll returns the first visible pixel.
func (m Model) Scroll() int {
	return m.scroll
}

// InnerWidth returns the number of lane cells inside the border.
func (m Model) InnerWidth() int {
	return max(m.Width()-layout.BorderHeight, 0)
}

// ScrollBy shifts the viewport by delta cells, never before pixel 0.
func (m *Model) ScrollBy(delta int) {
	m.scroll = max(m.scroll+delta, 0)
}

// EnsureVisible scrolls so pixel px is inside the viewport with a margin.
func (m *Model) EnsureVisible(px float64) {
	w := m.InnerWidth()
	if w <= 0 {
		return
	}
	margin := min(ui.ScrollMargin, w/4)
	col := int(math.Floor(px))
	switch {
	case col < m.scroll+margin:
		m.scroll = max(col-margin, 0)
	case col >= m.scroll+w-margin:
		m.scroll = col - w + margin + 1
	}
}

// ToTimeline maps a lane cell (0-based, relative to the first ruler cell)
// to timeline pixel coordinates. The ruler row maps above the clip band so
// a press there never grabs a clip; band rows map to the middle of their
// share of the band.
func (m Model) ToTimeline(col, row int, band timeline.Band) (x, y float64) {
	x = float64(col + m.scroll)
	if row < layout.RulerRows {
		return x, band.Top - 1
	}
	r := min(row-layout.RulerRows, layout.BandRows-1)
	y = band.Top + (float64(r)+0.5)*band.Height/layout.BandRows
	return x, y
}

// Frame is everything the lane draws.
type Frame struct {
	Clips    []timeline.Clip
	Playhead float64
	Mapper   timeline.Mapper
	Dragged  string // ID of the clip being dragged, if any
}

// View renders the lane inside a panel border.
func (m Model) View(f Frame) string {
	w := m.InnerWidth()
	if w <= 0 {
		return ""
	}

	lines := make([]string, 0, layout.RulerRows+layout.BandRows)
	lines = append(lines, m.renderRuler(f, w))
	lines = append(lines, m.renderBand(f, w)...)

	return styles.PanelStyle(m.IsFocused()).
		Width(w).
		Render(strings.Join(lines, "\n"))
}

// cell is one rendered column of a lane row.
type cell struct {
	r     rune
	style int
}

const (
	styleNone = iota
	styleSubtle
	styleVideo
	styleImage
	styleDragged
	stylePlayhead
)

func styleFor(kind int) (lipgloss.Style, bool) {
	s := styles.T().S()
	switch kind {
	case styleSubtle:
		return s.Subtle, true
	case styleVideo:
		return s.Video, true
	case styleImage:
		return s.Image, true
	case styleDragged:
		return s.Dragged, true
	case stylePlayhead:
		return s.Playhead, true
	default:
		return lipgloss.Style{}, false
	}
}

// renderRow joins cells, styling runs of equal style together.
func renderRow(cells []cell) string {
	var b, run strings.Builder
	current := styleNone
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if st, ok := styleFor(current); ok {
			b.WriteString(st.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}
	for _, c := range cells {
		if c.style != current {
			flush()
			current = c.style
		}
		run.WriteRune(c.r)
	}
	flush()
	return b.String()
}

func blankRow(w int) []cell {
	row := make([]cell, w)
	for i := range row {
		row[i] = cell{r: ' '}
	}
	return row
}

// RulerStep returns the tick interval in seconds for a scale.
func RulerStep(pixelsPerSecond float64) float64 {
	for _, s := range rulerSteps {
		if s*pixelsPerSecond >= minTickSpacing {
			return s
		}
	}
	return rulerSteps[len(rulerSteps)-1]
}

func (m Model) renderRuler(f Frame, w int) string {
	row := blankRow(w)
	for i := range row {
		row[i] = cell{r: '·', style: styleSubtle}
	}

	if f.Mapper.PixelsPerSecond() <= 0 {
		return renderRow(row)
	}
	step := RulerStep(f.Mapper.PixelsPerSecond())
	first := math.Floor(f.Mapper.ToTime(float64(m.scroll)) / step)
	for k := first; ; k++ {
		t := k * step
		col := int(math.Round(f.Mapper.ToPixels(t))) - m.scroll
		if col >= w {
			break
		}
		if col < 0 {
			continue
		}
		label := "|" + tickLabel(t)
		for i, r := range label {
			if col+i < w {
				row[col+i] = cell{r: r, style: styleSubtle}
			}
		}
	}

	if col, ok := m.playheadColumn(f, w); ok {
		row[col] = cell{r: '▼', style: stylePlayhead}
	}
	return renderRow(row)
}

func tickLabel(t float64) string {
	whole := int(t)
	if t != float64(whole) {
		return fmt.Sprintf("%.1fs", t)
	}
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}

func (m Model) renderBand(f Frame, w int) []string {
	rows := make([][]cell, layout.BandRows)
	for i := range rows {
		rows[i] = blankRow(w)
	}

	// Later clips are drawn over earlier ones.
	for _, c := range f.Clips {
		x0 := int(math.Round(f.Mapper.ToPixels(c.Start))) - m.scroll
		x1 := int(math.Round(f.Mapper.ToPixels(c.End()))) - m.scroll
		x1 = max(x1, x0+1)
		if x1 <= 0 || x0 >= w {
			continue
		}

		kind := styleVideo
		if c.Type == media.Image {
			kind = styleImage
		}
		if c.ID == f.Dragged {
			kind = styleDragged
		}

		lo, hi := max(x0, 0), min(x1, w)
		for _, row := range rows {
			for x := lo; x < hi; x++ {
				row[x] = cell{r: ' ', style: kind}
			}
		}

		// Label on the middle row, with a boundary mark at the clip start
		label := []rune(render.Truncate(" "+filepath.Base(c.Path), x1-x0-1))
		mid := rows[layout.BandRows/2]
		if x0 >= 0 {
			for _, row := range rows {
				row[x0] = cell{r: '▏', style: kind}
			}
		}
		for i, r := range label {
			x := x0 + 1 + i
			if x >= lo && x < hi {
				mid[x] = cell{r: r, style: kind}
			}
		}
	}

	if col, ok := m.playheadColumn(f, w); ok {
		for _, row := range rows {
			row[col] = cell{r: '│', style: stylePlayhead}
		}
	}

	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = renderRow(row)
	}
	return out
}

func (m Model) playheadColumn(f Frame, w int) (int, bool) {
	col := int(math.Round(f.Mapper.ToPixels(f.Playhead))) - m.scroll
	return col, col >= 0 && col < w
}
