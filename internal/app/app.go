// internal/app/app.go
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/clipline/internal/catalog"
	"github.com/llehouerou/clipline/internal/editor"
	"github.com/llehouerou/clipline/internal/keymap"
	"github.com/llehouerou/clipline/internal/logging"
	"github.com/llehouerou/clipline/internal/preview"
	"github.com/llehouerou/clipline/internal/ui/jobbar"
	"github.com/llehouerou/clipline/internal/ui/mediabin"
	"github.com/llehouerou/clipline/internal/ui/popup"
	"github.com/llehouerou/clipline/internal/ui/previewpane"
	"github.com/llehouerou/clipline/internal/ui/timelineview"
)

// FocusTarget is the panel receiving keys.
type FocusTarget int

const (
	FocusBin FocusTarget = iota
	FocusTimeline
)

// Catalog is the part of the media catalog the TUI uses.
type Catalog interface {
	Scan(ctx context.Context, root string, progress chan<- catalog.ScanProgress) (*catalog.ScanStats, error)
	Entries(ctx context.Context, root string) ([]catalog.Entry, error)
}

// Deps are the collaborators the TUI drives.
type Deps struct {
	Editor  *editor.Editor
	Preview *preview.Preview
	Catalog Catalog
	Root    string // media folder
	Logger  *slog.Logger
}

// Model is the root application model.
type Model struct {
	editor  *editor.Editor
	preview *preview.Preview
	catalog Catalog
	root    string
	logger  *slog.Logger

	bin      mediabin.Model
	pane     previewpane.Model
	lane     timelineview.Model
	help     help.Model
	helpKeys keymap.Help
	resolver *keymap.Resolver
	focus    FocusTarget
	modal    popup.Popup // nil when no popup is open

	jobs       jobbar.State
	scanCh     <-chan catalog.ScanProgress
	scanDone   <-chan scanResult
	cancelScan context.CancelFunc
	reportScan bool // show the scan report when the running scan ends

	status    string
	statusErr bool
	statusSeq int

	kittyPending string
	kittySeq     int

	width, height int
}

// New creates the application model.
func New(d Deps) (Model, error) {
	if d.Editor == nil || d.Preview == nil || d.Catalog == nil {
		return Model{}, errors.New("app: editor, preview and catalog are required")
	}
	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	m := Model{
		editor:   d.Editor,
		preview:  d.Preview,
		catalog:  d.Catalog,
		root:     d.Root,
		logger:   logging.WithComponent(logger, "app"),
		bin:      mediabin.New(keymap.Key(keymap.ActionAppend)),
		pane:     previewpane.New(),
		lane:     timelineview.New(),
		help:     help.New(),
		helpKeys: keymap.DefaultHelp(),
		resolver: keymap.NewResolver(keymap.Bindings),
		focus:    FocusBin,
	}
	m.applyFocus()
	return m, nil
}

// Init implements tea.Model. It lists the cached catalog right away and
// then starts a rescan.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadEntriesCmd(m.catalog, m.root), requestScanCmd)
}

// Focus returns the focused panel.
func (m Model) Focus() FocusTarget {
	return m.focus
}

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// PopupOpen reports whether a modal popup is shown.
func (m Model) PopupOpen() bool {
	return m.modal != nil
}

// Scanning reports whether a catalog scan is running.
func (m Model) Scanning() bool {
	return m.scanCh != nil
}

func (m *Model) applyFocus() {
	m.bin.SetFocused(m.focus == FocusBin)
	m.lane.SetFocused(m.focus == FocusTimeline)
}

// startScan launches a catalog scan unless one is running.
func (m *Model) startScan() tea.Cmd {
	if m.scanCh != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	progress := make(chan catalog.ScanProgress)
	done := make(chan scanResult, 1)

	c, root := m.catalog, m.root
	go func() {
		stats, err := c.Scan(ctx, root, progress)
		done <- scanResult{stats: stats, err: err}
	}()

	m.scanCh = progress
	m.scanDone = done
	m.cancelScan = cancel
	m.logger.Debug("scan started", "root", logging.SanitizePath(m.root))
	return waitForScan(progress, done)
}

func (m *Model) openPopup(p popup.Popup) {
	m.modal = p
	m.sizePopup()
}

func (m *Model) sizePopup() {
	if m.modal == nil {
		return
	}
	m.modal.SetSize(max(m.width-4-popup.FrameWidth, 0), max(m.height-4, 0))
}

// stopScan cancels a running scan.
func (m *Model) stopScan() {
	if m.cancelScan != nil {
		m.cancelScan()
		m.cancelScan = nil
	}
}

// setStatus shows text on the status line until it times out.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	m.statusSeq++
	return clearStatusCmd(m.statusSeq)
}
