package editor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/clipline/internal/interaction"
	"github.com/llehouerou/clipline/internal/media"
	"github.com/llehouerou/clipline/internal/playback"
	"github.com/llehouerou/clipline/internal/timeline"
)

func newEditor(t *testing.T, opts Options) (*Editor, *playback.Mock) {
	t.Helper()
	p := playback.NewMock()
	e, err := New(p, opts)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, p
}

func TestNew_Defaults(t *testing.T) {
	e, _ := newEditor(t, Options{})

	assert.InDelta(t, DefaultPixelsPerSecond, e.Mapper().PixelsPerSecond(), 1e-9)
	assert.InDelta(t, interaction.DefaultTolerance, e.Drag().Tolerance(), 1e-9)
	assert.InDelta(t, media.DefaultImageDuration, e.ImageDuration(), 1e-9)
	assert.Equal(t, timeline.DefaultBand, e.Model().Band())
	assert.Zero(t, e.Playhead().Position())
}

func TestNew_InvalidScale(t *testing.T) {
	for _, pps := range []float64{-1, math.Inf(1), math.NaN()} {
		_, err := New(playback.NewMock(), Options{PixelsPerSecond: pps})
		assert.ErrorIs(t, err, timeline.ErrInvalidScale, "pps=%v", pps)
	}
}

func TestAppendMedia_Scenario(t *testing.T) {
	e, _ := newEditor(t, Options{})

	x, err := e.AppendMedia("x.jpg", 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, x.Start, 1e-9)
	assert.InDelta(t, 5.0, x.Duration, 1e-9)
	assert.Equal(t, media.Image, x.Type)
	assert.InDelta(t, 5.0, e.Playhead().Position(), 1e-9)

	y, err := e.AppendMedia("y.mp4", 10)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, y.Start, 1e-9)
	assert.InDelta(t, 10.0, y.Duration, 1e-9)
	assert.Equal(t, media.Video, y.Type)

	assert.InDelta(t, 15.0, e.Model().Extent(), 1e-9)
	assert.InDelta(t, 15.0, e.Playhead().Position(), 1e-9)
}

func TestAppendMedia_ImageIgnoresDurationHint(t *testing.T) {
	e, _ := newEditor(t, Options{ImageDuration: 2})

	c, err := e.AppendMedia("still.PNG", 30)

	require.NoError(t, err)
	assert.InDelta(t, 2.0, c.Duration, 1e-9)
}

func TestAppendMedia_AtMovedPlayhead(t *testing.T) {
	e, _ := newEditor(t, Options{})
	_, err := e.AppendMedia("a.mp4", 10)
	require.NoError(t, err)

	e.Seek(3)
	c, err := e.AppendMedia("b.mov", 4)

	require.NoError(t, err)
	assert.InDelta(t, 3.0, c.Start, 1e-9)
	assert.InDelta(t, 7.0, e.Playhead().Position(), 1e-9, "playhead moves to the end of the new clip")
	assert.InDelta(t, 10.0, e.Model().Extent(), 1e-9)
}

func TestAppendMedia_Rejections(t *testing.T) {
	e, _ := newEditor(t, Options{})

	_, err := e.AppendMedia("song.mp3", 3)
	require.ErrorIs(t, err, media.ErrUnsupportedMedia)

	_, err = e.AppendMedia("a.mp4", 0)
	require.ErrorIs(t, err, timeline.ErrInvalidDuration)

	_, err = e.AppendMedia("a.mp4", -2)
	require.ErrorIs(t, err, timeline.ErrInvalidDuration)

	assert.Zero(t, e.Model().Len())
	assert.Zero(t, e.Playhead().Position())
}

func TestAppendInfo(t *testing.T) {
	e, _ := newEditor(t, Options{})

	c, err := e.AppendInfo(media.Info{Path: "/m/clip.mkv", Type: media.Video, Duration: 6.5})

	require.NoError(t, err)
	assert.Equal(t, "/m/clip.mkv", c.Path)
	assert.InDelta(t, 6.5, c.Duration, 1e-9)
}

// scenario builds [a.mp4 0..5 video, b.png 5..8 image] at 100 px/s with the
// playhead untouched at 0.
func scenario(t *testing.T) (*Editor, *playback.Mock) {
	t.Helper()
	e, p := newEditor(t, Options{})
	_, err := e.Model().Append("a.mp4", media.Video, 0, 5)
	require.NoError(t, err)
	_, err = e.Model().Append("b.png", media.Image, 5, 3)
	require.NoError(t, err)
	require.Empty(t, p.Calls())
	return e, p
}

func calls(p *playback.Mock) []string {
	var out []string
	for _, c := range p.Calls() {
		out = append(out, c.String())
	}
	return out
}

func TestSync_FollowsPlayhead(t *testing.T) {
	e, p := scenario(t)

	e.Seek(2)
	assert.Equal(t, []string{"load(a.mp4)", "seek(2)", "play"}, calls(p))

	p.ResetCalls()
	e.Seek(6)
	assert.Equal(t, []string{"stop", "still(b.png)"}, calls(p))

	p.ResetCalls()
	e.Seek(9)
	assert.Equal(t, []string{"stop", "hide"}, calls(p))
	assert.NoError(t, e.TakeError())
}

func TestDrag_PlayheadScrub(t *testing.T) {
	e, p := scenario(t)

	// Playhead at 0 px; press within tolerance.
	e.Press(3, 30, interaction.ButtonPrimary)
	assert.Equal(t, interaction.DraggingPlayhead, e.Drag().Mode())
	assert.InDelta(t, 0.03, e.Playhead().Position(), 1e-9)

	e.Move(250, 30)
	assert.InDelta(t, 2.5, e.Playhead().Position(), 1e-9)
	e.Release(interaction.ButtonPrimary)
	assert.Equal(t, interaction.Idle, e.Drag().Mode())

	assert.Len(t, p.CallsOf("load"), 1)
	clip, ok := e.ActiveClip()
	require.True(t, ok)
	assert.Equal(t, "a.mp4", clip.Path)
}

func TestDrag_ClipMoveResyncs(t *testing.T) {
	e, p := scenario(t)
	e.Seek(6) // over b.png
	p.ResetCalls()

	// Grab b.png (500..800 px) at 700, away from the playhead at 600, and
	// drop it 400 px later.
	e.Press(700, 30, interaction.ButtonPrimary)
	require.Equal(t, interaction.DraggingClip, e.Drag().Mode())
	e.Move(1100, 30)
	e.Release(interaction.ButtonPrimary)

	clips := e.Model().Clips()
	assert.InDelta(t, 9.0, clips[1].Start, 1e-9)
	assert.InDelta(t, 6.0, e.Playhead().Position(), 1e-9, "clip drag leaves the playhead alone")

	// The playhead is now past a.mp4 and before b.png.
	assert.Equal(t, []string{"stop", "hide"}, calls(p))
	_, ok := e.ActiveClip()
	assert.False(t, ok)
}

func TestTakeError_ReportsLoadFailure(t *testing.T) {
	e, p := scenario(t)
	p.SetLoadError("a.mp4", errors.New("missing"))

	e.Seek(1)

	err := e.TakeError()
	var loadErr *playback.AssetLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "a.mp4", loadErr.Path)
	assert.NoError(t, e.TakeError(), "error is cleared once taken")
	assert.Equal(t, 2, e.Model().Len())
}

func TestNudgeAndSeekEnd(t *testing.T) {
	e, _ := scenario(t)

	e.Nudge(1.5)
	assert.InDelta(t, 1.5, e.Playhead().Position(), 1e-9)
	e.Nudge(-10)
	assert.Zero(t, e.Playhead().Position())

	e.SeekEnd()
	assert.InDelta(t, 8.0, e.Playhead().Position(), 1e-9)
}

func TestSetZoom(t *testing.T) {
	e, _ := scenario(t)

	require.NoError(t, e.SetZoom(50))
	assert.InDelta(t, 50.0, e.Mapper().PixelsPerSecond(), 1e-9)

	// b.png now spans 250..400 px.
	e.Press(300, 30, interaction.ButtonPrimary)
	target, ok := e.Drag().Target()
	require.True(t, ok)
	clip, _ := e.Model().Clip(target)
	assert.Equal(t, "b.png", clip.Path)

	assert.ErrorIs(t, e.SetZoom(0), timeline.ErrInvalidScale)
	assert.InDelta(t, 50.0, e.Mapper().PixelsPerSecond(), 1e-9)
}

func TestSetViewWidth_ClampsScrub(t *testing.T) {
	e, _ := scenario(t)
	e.SetViewWidth(400)

	e.Press(0, 30, interaction.ButtonPrimary)
	e.Move(900, 30)

	assert.InDelta(t, 4.0, e.Playhead().Position(), 1e-9)
}

func TestClose_Detaches(t *testing.T) {
	e, p := scenario(t)
	e.Close()

	e.Seek(2)

	assert.Empty(t, p.Calls())
}
