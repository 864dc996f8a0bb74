// internal/app/update.go
package app

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/clipline/internal/app/handler"
	"github.com/llehouerou/clipline/internal/catalog"
	"github.com/llehouerou/clipline/internal/errmsg"
	"github.com/llehouerou/clipline/internal/interaction"
	"github.com/llehouerou/clipline/internal/keymap"
	"github.com/llehouerou/clipline/internal/ui/jobbar"
	"github.com/llehouerou/clipline/internal/ui/layout"
	"github.com/llehouerou/clipline/internal/ui/mediabin"
	"github.com/llehouerou/clipline/internal/ui/render"
	"github.com/llehouerou/clipline/internal/ui/scanreport"
)

const (
	nudgeShort = 1.0 // seconds
	nudgeLong  = 5.0

	minZoom    = 0.25 // cells per second
	maxZoom    = 400.0
	wheelCells = 4
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case tea.KeyMsg:
		var quit bool
		quit, cmd = m.handleKey(msg)
		if quit {
			return m, cmd
		}

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case requestScanMsg:
		cmd = m.startScan()

	case ScanProgressMsg:
		cmd = m.handleScanProgress(catalog.ScanProgress(msg))

	case ScanCompleteMsg:
		cmd = m.handleScanComplete(msg)

	case EntriesLoadedMsg:
		if msg.Err != nil {
			cmd = m.setStatus(errmsg.FormatWith(errmsg.OpMediaLoad, msg.Root, msg.Err), true)
			break
		}
		m.bin.SetEntries(msg.Root, msg.Entries)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status, m.statusErr = "", false
		}

	case kittySentMsg:
		if msg.seq == m.kittySeq {
			m.kittyPending = ""
		}
	}

	return m, tea.Batch(cmd, m.afterUpdate())
}

// afterUpdate collects what the editor and preview produced while handling
// a message: a playback error for the status line and terminal image
// commands for the next frame.
func (m *Model) afterUpdate() tea.Cmd {
	var cmds []tea.Cmd
	if err := m.editor.TakeError(); err != nil {
		cmds = append(cmds, m.setStatus(errmsg.Format(errmsg.OpPreviewLoad, err), true))
	}
	if s := m.preview.TakeCommands(); s != "" {
		m.kittyPending += s
		m.kittySeq++
		cmds = append(cmds, kittySentCmd(m.kittySeq))
	}
	return tea.Batch(cmds...)
}

// resize lays out every panel for the current window and job/help state.
func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.help.Width = m.width
	contentHeight := m.contentHeight()

	m.bin.SetSize(layout.BinWidth(m.width), contentHeight)
	m.pane.SetSize(layout.PreviewWidth(m.width), contentHeight)
	m.lane.SetSize(m.width, layout.TimelineHeight)
	m.sizePopup()

	cols, rows := m.pane.ImageArea()
	m.preview.SetSize(cols, rows)
	m.syncViewWidth()
}

func (m Model) contentHeight() int {
	return layout.ContentHeight(m.height, layout.ContentOpts{
		JobBarHeight: jobbar.Height(m.jobs.ActiveCount()),
		HelpHeight:   lipgloss.Height(m.help.View(m.helpKeys)),
	})
}

// syncViewWidth bounds playhead drags to the right edge of the lane.
func (m *Model) syncViewWidth() {
	m.editor.SetViewWidth(float64(m.lane.Scroll() + m.lane.InnerWidth()))
}

// followPlayhead scrolls the lane so the playhead stays on screen.
func (m *Model) followPlayhead() {
	m.lane.EnsureVisible(m.editor.Mapper().ToPixels(m.editor.Playhead().Position()))
	m.syncViewWidth()
}

func (m *Model) handleKey(msg tea.KeyMsg) (quit bool, cmd tea.Cmd) {
	if m.modal != nil {
		return m.handlePopupKey(msg)
	}

	contexts := []string{keymap.ContextTimeline, keymap.ContextGlobal}
	if m.focus == FocusBin {
		contexts = []string{keymap.ContextBin, keymap.ContextGlobal}
		if res := m.bin.Update(msg); res.Handled {
			return false, m.handleBinResult(res)
		}
	}

	action := m.resolver.Resolve(msg.String(), contexts...)
	if action == keymap.ActionQuit {
		return true, m.quit()
	}
	_, cmd = handler.Chain(action,
		m.handleGlobalAction,
		m.handlePlayheadAction,
		m.handleViewAction,
	)
	return false, cmd
}

func (m *Model) quit() tea.Cmd {
	m.stopScan()
	m.editor.Drag().Cancel()
	return tea.Quit
}

// handlePopupKey gives an open popup every key. Enter and escape close it;
// quit keys still quit.
func (m *Model) handlePopupKey(msg tea.KeyMsg) (quit bool, cmd tea.Cmd) {
	switch m.resolver.Resolve(msg.String(), keymap.ContextGlobal) { //nolint:exhaustive // popups only react to these
	case keymap.ActionQuit:
		return true, m.quit()
	case keymap.ActionCancelDrag:
		m.modal = nil
		return false, nil
	}
	if msg.Type == tea.KeyEnter {
		m.modal = nil
		return false, nil
	}
	m.modal, cmd = m.modal.Update(msg)
	return false, cmd
}

func (m *Model) handleGlobalAction(a keymap.Action) handler.Result {
	switch a { //nolint:exhaustive // other actions belong to other handlers
	case keymap.ActionSwitchFocus:
		if m.focus == FocusBin {
			m.focus = FocusTimeline
		} else {
			m.focus = FocusBin
		}
		m.applyFocus()
		return handler.HandledNoCmd
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return handler.HandledNoCmd
	case keymap.ActionRescan:
		if m.scanCh != nil {
			return handler.HandledNoCmd
		}
		m.reportScan = true
		return handler.Handled(m.startScan())
	case keymap.ActionCancelDrag:
		m.editor.Drag().Cancel()
		return handler.HandledNoCmd
	}
	return handler.NotHandled
}

func (m *Model) handlePlayheadAction(a keymap.Action) handler.Result {
	switch a { //nolint:exhaustive // other actions belong to other handlers
	case keymap.ActionNudgeBack:
		m.editor.Nudge(-nudgeShort)
	case keymap.ActionNudgeForward:
		m.editor.Nudge(nudgeShort)
	case keymap.ActionNudgeBackLong:
		m.editor.Nudge(-nudgeLong)
	case keymap.ActionNudgeForwardLong:
		m.editor.Nudge(nudgeLong)
	case keymap.ActionSeekStart:
		m.editor.Seek(0)
	case keymap.ActionSeekEnd:
		m.editor.SeekEnd()
	default:
		return handler.NotHandled
	}
	m.followPlayhead()
	return handler.HandledNoCmd
}

func (m *Model) handleViewAction(a keymap.Action) handler.Result {
	switch a { //nolint:exhaustive // other actions belong to other handlers
	case keymap.ActionZoomIn:
		return handler.Handled(m.zoom(2))
	case keymap.ActionZoomOut:
		return handler.Handled(m.zoom(0.5))
	case keymap.ActionScrollLeft:
		m.lane.ScrollBy(-max(m.lane.InnerWidth()/2, 1))
		m.syncViewWidth()
		return handler.HandledNoCmd
	case keymap.ActionScrollRight:
		m.lane.ScrollBy(max(m.lane.InnerWidth()/2, 1))
		m.syncViewWidth()
		return handler.HandledNoCmd
	}
	return handler.NotHandled
}

// zoom scales the time axis by factor, keeping the playhead on screen.
func (m *Model) zoom(factor float64) tea.Cmd {
	pps := m.editor.Mapper().PixelsPerSecond() * factor
	pps = min(max(pps, minZoom), maxZoom)
	if err := m.editor.SetZoom(pps); err != nil {
		return m.setStatus(errmsg.Format(errmsg.OpZoom, err), true)
	}
	m.followPlayhead()
	return nil
}

func (m *Model) handleBinResult(res mediabin.Result) tea.Cmd {
	if res.Action != mediabin.ActionAppend {
		return nil
	}
	e := res.Entry
	clip, err := m.editor.AppendInfo(e.Info())
	if err != nil {
		return m.setStatus(errmsg.FormatWith(errmsg.OpClipAppend, e.Name(), err), true)
	}
	m.followPlayhead()
	return m.setStatus(fmt.Sprintf("Appended %s at %s", filepath.Base(clip.Path), render.Timecode(clip.Start)), false)
}

// handleMouse routes a pointer event. A drag in progress keeps receiving
// motion and release wherever the pointer is; otherwise the event goes to
// the panel under it.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.modal != nil {
		return nil
	}
	if m.editor.Drag().Mode() != interaction.Idle {
		switch msg.Action {
		case tea.MouseActionMotion:
			x, y := m.laneCoords(msg)
			m.editor.Move(x, y)
		case tea.MouseActionRelease:
			m.editor.Release(toButton(msg.Button))
		case tea.MouseActionPress:
		}
		return nil
	}

	contentHeight := m.contentHeight()
	switch {
	case m.inLane(msg, contentHeight):
		return m.handleLaneMouse(msg)
	case msg.Y >= layout.HeaderHeight && msg.Y < layout.HeaderHeight+contentHeight &&
		msg.X < layout.BinWidth(m.width):
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.focus = FocusBin
			m.applyFocus()
		}
		local := msg
		local.Y -= layout.HeaderHeight
		return m.handleBinResult(m.bin.Update(local))
	}
	return nil
}

func (m *Model) handleLaneMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button { //nolint:exhaustive // other buttons are ignored
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
		m.lane.ScrollBy(-wheelCells)
		m.syncViewWidth()
		return nil
	case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
		m.lane.ScrollBy(wheelCells)
		m.syncViewWidth()
		return nil
	}
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	m.focus = FocusTimeline
	m.applyFocus()
	x, y := m.laneCoords(msg)
	m.editor.Press(x, y, toButton(msg.Button))
	return nil
}

// inLane reports whether msg is over the ruler or clip band.
func (m Model) inLane(msg tea.MouseMsg, contentHeight int) bool {
	originX, originY := layout.LaneOrigin(contentHeight)
	return msg.X >= originX && msg.X < originX+m.lane.InnerWidth() &&
		msg.Y >= originY && msg.Y < originY+layout.RulerRows+layout.BandRows
}

// laneCoords maps a screen cell to timeline pixels.
func (m Model) laneCoords(msg tea.MouseMsg) (x, y float64) {
	originX, originY := layout.LaneOrigin(m.contentHeight())
	return m.lane.ToTimeline(msg.X-originX, msg.Y-originY, m.editor.Model().Band())
}

func toButton(b tea.MouseButton) interaction.Button {
	switch b { //nolint:exhaustive // wheel and extra buttons have no drag meaning
	case tea.MouseButtonLeft:
		return interaction.ButtonPrimary
	case tea.MouseButtonMiddle:
		return interaction.ButtonMiddle
	case tea.MouseButtonRight:
		return interaction.ButtonSecondary
	default:
		return interaction.ButtonNone
	}
}

func (m *Model) handleScanProgress(p catalog.ScanProgress) tea.Cmd {
	before := m.jobs.ActiveCount()
	m.jobs.Set(jobbar.FromScan(m.root, p))
	if m.jobs.ActiveCount() != before {
		m.resize()
	}
	return waitForScan(m.scanCh, m.scanDone)
}

func (m *Model) handleScanComplete(msg ScanCompleteMsg) tea.Cmd {
	m.jobs.Set(jobbar.FromScan(m.root, catalog.ScanProgress{Phase: catalog.PhaseDone}))
	m.scanCh, m.scanDone = nil, nil
	report := m.reportScan
	m.reportScan = false
	m.stopScan()
	m.resize()

	if msg.Err != nil {
		m.logger.Warn("scan failed", "root", m.root, "error", msg.Err)
		return m.setStatus(errmsg.FormatWith(errmsg.OpMediaScan, m.root, msg.Err), true)
	}

	s := msg.Stats
	m.logger.Info("scan complete", "root", m.root,
		"added", len(s.Added), "updated", len(s.Updated), "removed", len(s.Removed), "failed", len(s.Failed))
	text := fmt.Sprintf("Scan complete: %d added, %d updated, %d removed", len(s.Added), len(s.Updated), len(s.Removed))
	if len(s.Failed) > 0 {
		text += fmt.Sprintf(", %d unreadable", len(s.Failed))
	}
	if report {
		m.openPopup(scanreport.New(s))
	}
	return tea.Batch(loadEntriesCmd(m.catalog, m.root), m.setStatus(text, false))
}
