// internal/app/commands.go
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/clipline/internal/catalog"
)

const (
	statusTimeout = 5 * time.Second

	// kittyFlushDelay is how long queued image commands stay in the frame.
	// The renderer flushes at most every 1/60s, so this outlives at least
	// one flush.
	kittyFlushDelay = 100 * time.Millisecond
)

type scanResult struct {
	stats *catalog.ScanStats
	err   error
}

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// waitForScan relays the next progress message, or the scan result once
// progress is closed.
func waitForScan(progress <-chan catalog.ScanProgress, done <-chan scanResult) tea.Cmd {
	return waitForChannel(progress, func(p catalog.ScanProgress, ok bool) tea.Msg {
		if !ok {
			r := <-done
			return ScanCompleteMsg{Stats: r.stats, Err: r.err}
		}
		return ScanProgressMsg(p)
	})
}

// loadEntriesCmd reads the cached listing for root.
func loadEntriesCmd(c Catalog, root string) tea.Cmd {
	return func() tea.Msg {
		entries, err := c.Entries(context.Background(), root)
		return EntriesLoadedMsg{Root: root, Entries: entries, Err: err}
	}
}

func requestScanCmd() tea.Msg {
	return requestScanMsg{}
}

func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func kittySentCmd(seq int) tea.Cmd {
	return tea.Tick(kittyFlushDelay, func(time.Time) tea.Msg {
		return kittySentMsg{seq: seq}
	})
}
