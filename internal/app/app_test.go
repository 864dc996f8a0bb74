package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/clipline/internal/catalog"
	"github.com/llehouerou/clipline/internal/editor"
	"github.com/llehouerou/clipline/internal/interaction"
	"github.com/llehouerou/clipline/internal/media"
	"github.com/llehouerou/clipline/internal/playback"
	"github.com/llehouerou/clipline/internal/preview"
)

const (
	testWidth  = 120
	testHeight = 40

	// With a one-line help bar the content row is 40-1-6-1-1 = 31 lines,
	// so the ruler sits on row 33 and the clip band on rows 34-36.
	rulerRow = 33
	bandRow  = 35
)

type fakeCatalog struct {
	entries []catalog.Entry
	stats   *catalog.ScanStats
	scanErr error
}

func (c *fakeCatalog) Scan(ctx context.Context, root string, progress chan<- catalog.ScanProgress) (*catalog.ScanStats, error) {
	defer close(progress)
	select {
	case progress <- catalog.ScanProgress{Phase: catalog.PhaseProbing, Current: 1, Total: 2, CurrentFile: "y.mp4"}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return c.stats, c.scanErr
}

func (c *fakeCatalog) Entries(context.Context, string) ([]catalog.Entry, error) {
	return c.entries, nil
}

type fixture struct {
	root    string
	editor  *editor.Editor
	preview *preview.Preview
	catalog *fakeCatalog
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := range 4 {
		for y := range 4 {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newFixture(t *testing.T, previewOpts ...preview.Option) *fixture {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x.jpg"), []byte("not a jpeg"))
	writeFile(t, filepath.Join(root, "y.mp4"), []byte("not an mp4"))

	p := preview.New(append([]preview.Option{preview.WithKitty(false)}, previewOpts...)...)
	t.Cleanup(func() { p.Close() })
	e, err := editor.New(p, editor.Options{PixelsPerSecond: 4})
	require.NoError(t, err)
	t.Cleanup(e.Close)

	return &fixture{
		root:    root,
		editor:  e,
		preview: p,
		catalog: &fakeCatalog{
			entries: []catalog.Entry{
				{Path: filepath.Join(root, "x.jpg"), Root: root, Type: media.Image, Duration: 5, Size: 10},
				{Path: filepath.Join(root, "y.mp4"), Root: root, Type: media.Video, Duration: 10, Size: 10},
			},
			stats: &catalog.ScanStats{Root: root, Added: []string{"x.jpg"}},
		},
	}
}

func (f *fixture) newModel(t *testing.T) Model {
	t.Helper()
	m, err := New(Deps{Editor: f.editor, Preview: f.preview, Catalog: f.catalog, Root: f.root})
	require.NoError(t, err)
	m = update(m, tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	return update(m, EntriesLoadedMsg{Root: f.root, Entries: f.catalog.entries})
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(x, y int, action tea.MouseAction) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: action}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonNone, Action: tea.MouseActionMotion}
}

// laneX returns the screen column of timeline pixel px while the lane is
// not scrolled.
func laneX(px int) int {
	return 1 + px
}

// appendBoth appends x.jpg then y.mp4 from the bin.
func appendBoth(m Model) Model {
	m = update(m, keyMsg("enter"))
	m = update(m, keyMsg("down"))
	return update(m, keyMsg("enter"))
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestEntriesLoaded_PopulatesBin(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t)

	assert.Equal(t, 2, m.bin.Len())
	assert.Equal(t, FocusBin, m.Focus())
}

func TestEntriesLoaded_ErrorGoesToStatus(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t)

	m = update(m, EntriesLoadedMsg{Root: f.root, Err: errors.New("disk gone")})

	text, isErr := m.Status()
	assert.True(t, isErr)
	assert.Contains(t, text, "disk gone")
	assert.Equal(t, 2, m.bin.Len(), "previous listing kept")
}

func TestAppend_FromBin(t *testing.T) {
	f := newFixture(t)
	m := appendBoth(f.newModel(t))

	clips := f.editor.Model().Clips()
	require.Len(t, clips, 2)
	assert.Equal(t, "x.jpg", filepath.Base(clips[0].Path))
	assert.InDelta(t, 0.0, clips[0].Start, 1e-9)
	assert.InDelta(t, 5.0, clips[0].Duration, 1e-9)
	assert.Equal(t, "y.mp4", filepath.Base(clips[1].Path))
	assert.InDelta(t, 5.0, clips[1].Start, 1e-9)

	assert.InDelta(t, 15.0, f.editor.Model().Extent(), 1e-9)
	assert.InDelta(t, 15.0, f.editor.Playhead().Position(), 1e-9)

	text, isErr := m.Status()
	assert.False(t, isErr)
	assert.Equal(t, "Appended y.mp4 at 0:05.0", text)
}

func TestAppend_UnreadableEntryIgnored(t *testing.T) {
	f := newFixture(t)
	f.catalog.entries = append(f.catalog.entries, catalog.Entry{
		Path: filepath.Join(f.root, "z.mov"), Root: f.root, Type: media.Video, ProbeErr: "moov atom not found",
	})
	m := f.newModel(t)

	m = update(m, keyMsg("end"))
	m = update(m, keyMsg("enter"))

	assert.Zero(t, f.editor.Model().Len())
	text, _ := m.Status()
	assert.Empty(t, text)
}

func TestMouse_ClickBinSelectsThenAppends(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t)

	// header, panel border and title come before the first entry
	secondRow := 1 + 2 + 1
	m = update(m, mouse(5, secondRow, tea.MouseActionPress))
	assert.Equal(t, 1, m.bin.SelectedIndex())
	assert.Zero(t, f.editor.Model().Len())

	m = update(m, mouse(5, secondRow, tea.MouseActionPress))
	require.Equal(t, 1, f.editor.Model().Len())
	assert.Equal(t, "y.mp4", filepath.Base(f.editor.Model().Clips()[0].Path))
	assert.Equal(t, FocusBin, m.Focus())
}

func TestMouse_DragPlayhead(t *testing.T) {
	f := newFixture(t)
	m := appendBoth(f.newModel(t))

	// playhead at 15s is pixel 60
	m = update(m, mouse(laneX(60), bandRow, tea.MouseActionPress))
	assert.Equal(t, interaction.DraggingPlayhead, f.editor.Drag().Mode())
	assert.Equal(t, FocusTimeline, m.Focus())

	m = update(m, motion(laneX(28), bandRow))
	assert.InDelta(t, 7.0, f.editor.Playhead().Position(), 1e-9)

	st := f.preview.Status()
	assert.Equal(t, filepath.Join(f.root, "y.mp4"), st.Source)
	assert.InDelta(t, 2.0, st.Offset, 1e-9)
	assert.Equal(t, playback.StatePlaying, st.State)

	m = update(m, mouse(laneX(28), bandRow, tea.MouseActionRelease))
	assert.Equal(t, interaction.Idle, f.editor.Drag().Mode())
	assert.Contains(t, m.View(), "y.mp4")
}

func TestMouse_DragContinuesOutsideLane(t *testing.T) {
	f := newFixture(t)
	m := appendBoth(f.newModel(t))

	m = update(m, mouse(laneX(60), rulerRow, tea.MouseActionPress))
	require.Equal(t, interaction.DraggingPlayhead, f.editor.Drag().Mode())

	// pointer wanders up into the preview pane
	m = update(m, motion(laneX(40), 10))
	assert.InDelta(t, 10.0, f.editor.Playhead().Position(), 1e-9)

	update(m, mouse(laneX(40), 10, tea.MouseActionRelease))
	assert.Equal(t, interaction.Idle, f.editor.Drag().Mode())
}

func TestMouse_DragClip(t *testing.T) {
	f := newFixture(t)
	m := appendBoth(f.newModel(t))
	clip := f.editor.Model().Clips()[1]

	// y.mp4 spans pixels 20-60; grab it 20px in
	m = update(m, mouse(laneX(40), bandRow, tea.MouseActionPress))
	require.Equal(t, interaction.DraggingClip, f.editor.Drag().Mode())

	m = update(m, motion(laneX(80), bandRow))
	moved, ok := f.editor.Model().Clip(clip.ID)
	require.True(t, ok)
	assert.InDelta(t, 15.0, moved.Start, 1e-9)
	assert.InDelta(t, 25.0, f.editor.Model().Extent(), 1e-9)

	// the clip now sits under the playhead at 15s
	assert.Equal(t, filepath.Join(f.root, "y.mp4"), f.preview.Status().Source)

	update(m, mouse(laneX(80), bandRow, tea.MouseActionRelease))
	assert.Equal(t, interaction.Idle, f.editor.Drag().Mode())
}

func TestMouse_PressEmptyLaneMovesPlayhead(t *testing.T) {
	f := newFixture(t)
	m := appendBoth(f.newModel(t))

	update(m, mouse(laneX(100), bandRow, tea.MouseActionPress))

	assert.InDelta(t, 25.0, f.editor.Playhead().Position(), 1e-9)
	assert.Equal(t, interaction.Idle, f.editor.Drag().Mode())
}

func TestKeys_EscCancelsDrag(t *testing.T) {
	f := newFixture(t)
	m := appendBoth(f.newModel(t))

	m = update(m, mouse(laneX(60), bandRow, tea.MouseActionPress))
	require.Equal(t, interaction.DraggingPlayhead, f.editor.Drag().Mode())

	update(m, keyMsg("esc"))
	assert.Equal(t, interaction.Idle, f.editor.Drag().Mode())
}

func TestKeys_SwitchFocus(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t)

	m = update(m, keyMsg("tab"))
	assert.Equal(t, FocusTimeline, m.Focus())
	m = update(m, keyMsg("tab"))
	assert.Equal(t, FocusBin, m.Focus())
}

func TestKeys_Nudge(t *testing.T) {
	f := newFixture(t)
	m := appendBoth(f.newModel(t))

	m = update(m, keyMsg("left"))
	assert.InDelta(t, 14.0, f.editor.Playhead().Position(), 1e-9)

	update(m, tea.KeyMsg{Type: tea.KeyShiftLeft})
	assert.InDelta(t, 9.0, f.editor.Playhead().Position(), 1e-9)
}

func TestKeys_HomeDependsOnFocus(t *testing.T) {
	f := newFixture(t)
	m := appendBoth(f.newModel(t))

	// in the bin, home moves the cursor
	m = update(m, keyMsg("home"))
	assert.Equal(t, 0, m.bin.SelectedIndex())
	assert.InDelta(t, 15.0, f.editor.Playhead().Position(), 1e-9)

	m = update(m, keyMsg("tab"))
	update(m, keyMsg("home"))
	assert.Zero(t, f.editor.Playhead().Position())
}

func TestKeys_Zoom(t *testing.T) {
	f := newFixture(t)
	m := appendBoth(f.newModel(t))

	m = update(m, keyMsg("+"))
	assert.InDelta(t, 8.0, f.editor.Mapper().PixelsPerSecond(), 1e-9)
	// playhead at pixel 120 is past the 118-cell lane
	assert.Positive(t, m.lane.Scroll())

	m = update(m, keyMsg("-"))
	m = update(m, keyMsg("-"))
	assert.InDelta(t, 2.0, f.editor.Mapper().PixelsPerSecond(), 1e-9)

	for range 20 {
		m = update(m, keyMsg("-"))
	}
	assert.InDelta(t, minZoom, f.editor.Mapper().PixelsPerSecond(), 1e-9)
}

func TestStillDecodeError_ReportedOnStatus(t *testing.T) {
	f := newFixture(t)
	m := appendBoth(f.newModel(t))

	m = update(m, keyMsg("tab"))
	m = update(m, keyMsg("home"))

	text, isErr := m.Status()
	assert.True(t, isErr)
	assert.Contains(t, text, "preview")
}

func TestScan_ProgressAndComplete(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t)

	cmd := m.startScan()
	require.NotNil(t, cmd)
	assert.True(t, m.Scanning())
	assert.Nil(t, m.startScan(), "second scan refused while one runs")

	msg := cmd()
	require.IsType(t, ScanProgressMsg{}, msg)
	m = update(m, msg)
	assert.True(t, m.jobs.HasActiveJobs())
	assert.Contains(t, m.View(), "Probing")
	assert.Equal(t, testHeight, lipgloss.Height(m.View()))

	done := waitForScan(m.scanCh, m.scanDone)()
	require.IsType(t, ScanCompleteMsg{}, done)
	m = update(m, done)

	assert.False(t, m.Scanning())
	assert.False(t, m.jobs.HasActiveJobs())
	text, isErr := m.Status()
	assert.False(t, isErr)
	assert.Equal(t, "Scan complete: 1 added, 0 updated, 0 removed", text)
}

func TestScan_Failure(t *testing.T) {
	f := newFixture(t)
	f.catalog.stats = nil
	f.catalog.scanErr = errors.New("permission denied")
	m := f.newModel(t)

	cmd := m.startScan()
	m = update(m, cmd())
	m = update(m, waitForScan(m.scanCh, m.scanDone)())

	text, isErr := m.Status()
	assert.True(t, isErr)
	assert.Contains(t, text, "permission denied")
	assert.False(t, m.Scanning())
}

func TestStatus_ClearedOnlyByLatestTimer(t *testing.T) {
	f := newFixture(t)
	m := appendBoth(f.newModel(t))
	require.NotEmpty(t, m.status)

	m = update(m, clearStatusMsg{seq: m.statusSeq - 1})
	assert.NotEmpty(t, m.status)

	m = update(m, clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, m.status)
}

func TestView_FillsWindow(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t)

	view := m.View()
	assert.Equal(t, testHeight, lipgloss.Height(view))
	assert.Contains(t, view, "clipline")
	assert.Contains(t, view, "x.jpg")
	assert.Contains(t, view, "No clip under the playhead")

	m = appendBoth(m)
	view = m.View()
	assert.Equal(t, testHeight, lipgloss.Height(view))
	assert.Contains(t, view, "0:15.0")
}

func TestView_EmptyBeforeResize(t *testing.T) {
	f := newFixture(t)
	m, err := New(Deps{Editor: f.editor, Preview: f.preview, Catalog: f.catalog, Root: f.root})
	require.NoError(t, err)
	assert.Empty(t, m.View())
}

func TestView_KittyCommandsBracketFrame(t *testing.T) {
	f := newFixture(t, preview.WithKitty(true))
	still := filepath.Join(f.root, "still.png")
	writePNG(t, still)
	f.catalog.entries = []catalog.Entry{
		{Path: still, Root: f.root, Type: media.Image, Duration: 5, Size: 100},
	}
	m := f.newModel(t)

	m = update(m, keyMsg("enter"))
	m = update(m, keyMsg("tab"))
	m = update(m, keyMsg("home"))

	require.NotEmpty(t, m.kittyPending)
	view := m.View()
	assert.True(t, strings.HasPrefix(view, "\x1b_G"), "transmit precedes the frame")
	assert.Contains(t, view, "a=p", "placement follows the frame")

	m = update(m, kittySentMsg{seq: m.kittySeq})
	assert.Empty(t, m.kittyPending)
	assert.False(t, strings.HasPrefix(m.View(), "\x1b_G"))
}

func TestKeys_Quit(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t)
	m.startScan()

	next, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, next.(Model).cancelScan)
}

func TestRescan_ShowsReportUntilClosed(t *testing.T) {
	f := newFixture(t)
	f.catalog.stats.Failed = []string{filepath.Join(f.root, "broken.mov")}
	m := f.newModel(t)

	m = update(m, keyMsg("r"))
	require.True(t, m.Scanning())
	m = update(m, waitForScan(m.scanCh, m.scanDone)())
	m = update(m, waitForScan(m.scanCh, m.scanDone)())

	require.True(t, m.PopupOpen())
	view := m.View()
	assert.Contains(t, view, "Rescan Complete")
	assert.Contains(t, view, "broken.mov")
	assert.Equal(t, testHeight, lipgloss.Height(view))

	// keys and clicks do not reach the panels underneath
	m = update(m, keyMsg("down"))
	assert.Equal(t, 0, m.bin.SelectedIndex())
	m = update(m, mouse(laneX(10), bandRow, tea.MouseActionPress))
	assert.Zero(t, f.editor.Playhead().Position())

	m = update(m, keyMsg("esc"))
	assert.False(t, m.PopupOpen())
}

func TestStartupScan_NoReport(t *testing.T) {
	f := newFixture(t)
	m := f.newModel(t)

	m = update(m, requestScanMsg{})
	m = update(m, waitForScan(m.scanCh, m.scanDone)())
	m = update(m, waitForScan(m.scanCh, m.scanDone)())

	assert.False(t, m.Scanning())
	assert.False(t, m.PopupOpen())
}
