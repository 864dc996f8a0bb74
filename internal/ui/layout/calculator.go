// Package layout provides pure functions for UI dimension calculations.
//
// The screen is stacked top to bottom:
//
//	header      1 line
//	bin|preview content, fills the remaining height
//	timeline    bordered panel: ruler + clip band
//	job bar     only while a scan runs
//	status      1 line
package layout

// Fixed heights.
const (
	HeaderHeight = 1
	StatusHeight = 1
	BorderHeight = 2

	// RulerRows is the number of ruler lines above the clip band.
	RulerRows = 1
	// BandRows is the number of lines the clip band occupies.
	BandRows = 3
	// TimelineHeight is the full timeline panel height including borders.
	TimelineHeight = BorderHeight + RulerRows + BandRows

	// MinContentHeight keeps the bin and preview usable on small terminals.
	MinContentHeight = 4
	// MinBinWidth is the narrowest media bin.
	MinBinWidth = 24
)

// ContentOpts contains the parameters needed to calculate content height.
type ContentOpts struct {
	JobBarHeight int // 0 if no scan is running
	HelpHeight   int // 0 if help is hidden
}

// ContentHeight returns the height of the bin/preview row.
func ContentHeight(windowHeight int, opts ContentOpts) int {
	height := windowHeight
	height -= HeaderHeight
	height -= TimelineHeight
	height -= opts.JobBarHeight
	height -= opts.HelpHeight
	height -= StatusHeight
	return max(height, MinContentHeight)
}

// BinWidth returns the media bin width: a third of the window, but never
// narrower than MinBinWidth or wider than the window.
func BinWidth(windowWidth int) int {
	return min(max(windowWidth/3, MinBinWidth), windowWidth)
}

// PreviewWidth returns the width left for the preview pane.
func PreviewWidth(windowWidth int) int {
	return max(windowWidth-BinWidth(windowWidth), 0)
}

// TimelineTop returns the 0-based screen row of the timeline panel's top
// border.
func TimelineTop(contentHeight int) int {
	return HeaderHeight + contentHeight
}

// TimelineInnerWidth returns the number of cells available to the lane.
func TimelineInnerWidth(windowWidth int) int {
	return max(windowWidth-BorderHeight, 0)
}

// LaneOrigin returns the 0-based screen cell of the first ruler cell inside
// the timeline panel.
func LaneOrigin(contentHeight int) (x, y int) {
	return 1, TimelineTop(contentHeight) + 1
}

// PreviewImageOrigin returns the 1-based terminal row and column of the
// preview pane's inner area, as used for Kitty image placement.
func PreviewImageOrigin(windowWidth int) (row, col int) {
	// header + top border, then 1-based
	row = HeaderHeight + 1 + 1
	// bin + left border, then 1-based
	col = BinWidth(windowWidth) + 1 + 1
	return row, col
}
