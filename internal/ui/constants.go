// Package ui provides shared UI constants and utilities.
package ui

// Layout constants for consistent sizing across UI components.
const (
	// ScrollMargin is the number of rows or cells kept visible around the
	// cursor or playhead when scrolling.
	ScrollMargin = 5

	// PanelOverhead is the vertical space taken by a panel border plus its
	// title line.
	PanelOverhead = 3

	// MinProgressBarWidth is the minimum width for a usable progress bar.
	MinProgressBarWidth = 5
)
