// Package app contains the root bubbletea model for the editor TUI.
package app

import (
	"github.com/llehouerou/clipline/internal/catalog"
)

// ScanProgressMsg wraps catalog scan progress updates.
type ScanProgressMsg catalog.ScanProgress

// ScanCompleteMsg is sent when the catalog scan finishes.
type ScanCompleteMsg struct {
	Stats *catalog.ScanStats
	Err   error
}

// EntriesLoadedMsg carries the cached catalog listing for the media folder.
type EntriesLoadedMsg struct {
	Root    string
	Entries []catalog.Entry
	Err     error
}

// requestScanMsg asks Update to start a scan. Init cannot mutate the model,
// so the first scan is started through it.
type requestScanMsg struct{}

// clearStatusMsg clears the status line if nothing newer replaced it.
type clearStatusMsg struct {
	seq int
}

// kittySentMsg drops terminal image commands that have been rendered.
type kittySentMsg struct {
	seq int
}
