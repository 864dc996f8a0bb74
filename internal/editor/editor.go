// Package editor wires the timeline core together: it owns the time axis,
// clip model, playhead, drag state machine and playback synchronizer, and
// performs the caller duties around them. It classifies files before
// append, picks clip durations and moves the playhead after each append.
package editor

import (
	"fmt"
	"log/slog"

	"github.com/llehouerou/clipline/internal/interaction"
	"github.com/llehouerou/clipline/internal/logging"
	"github.com/llehouerou/clipline/internal/media"
	"github.com/llehouerou/clipline/internal/playback"
	"github.com/llehouerou/clipline/internal/timeline"
)

// Options configures an Editor. Zero values select the defaults.
type Options struct {
	PixelsPerSecond float64 // default 100
	Tolerance       float64 // playhead grab distance in pixels, default 5
	ImageDuration   float64 // seconds, default media.DefaultImageDuration
	Band            timeline.Band
	ViewWidth       float64 // pixels, 0 means unbounded
	Logger          *slog.Logger
}

// DefaultPixelsPerSecond is the time axis scale when none is configured.
const DefaultPixelsPerSecond = 100.0

// Editor is the application controller for one timeline.
type Editor struct {
	model    *timeline.Model
	playhead *timeline.Playhead
	drag     *interaction.Drag
	sync     *playback.Synchronizer
	player   playback.Player
	logger   *slog.Logger

	imageDuration float64
	lastErr       error
	unsubscribe   []func()
}

// New builds an editor driving player. It fails with
// timeline.ErrInvalidScale when PixelsPerSecond is negative or not finite.
func New(player playback.Player, opts Options) (*Editor, error) {
	pps := opts.PixelsPerSecond
	if pps == 0 {
		pps = DefaultPixelsPerSecond
	}
	mapper, err := timeline.NewMapper(pps)
	if err != nil {
		return nil, err
	}

	band := opts.Band
	if band.Height <= 0 {
		band = timeline.DefaultBand
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	imageDuration := opts.ImageDuration
	if imageDuration <= 0 {
		imageDuration = media.DefaultImageDuration
	}

	e := &Editor{
		model:         timeline.NewModel(band),
		playhead:      timeline.NewPlayhead(),
		player:        player,
		logger:        logger,
		imageDuration: imageDuration,
	}

	dragOpts := []interaction.Option{interaction.WithViewWidth(opts.ViewWidth)}
	if opts.Tolerance > 0 {
		dragOpts = append(dragOpts, interaction.WithTolerance(opts.Tolerance))
	}
	e.drag = interaction.New(e.model, e.playhead, mapper, dragOpts...)

	e.sync = playback.NewSynchronizer(e.model, player,
		playback.WithLogger(logging.WithComponent(logger, "sync")),
		playback.WithErrorHandler(e.reportError),
	)
	e.unsubscribe = append(e.unsubscribe,
		e.sync.Attach(e.playhead),
		e.model.Subscribe(e.onModelChange),
	)
	return e, nil
}

// Close detaches the editor from its notifications.
func (e *Editor) Close() {
	for _, fn := range e.unsubscribe {
		fn()
	}
	e.unsubscribe = nil
}

func (e *Editor) Model() *timeline.Model               { return e.model }
func (e *Editor) Playhead() *timeline.Playhead         { return e.playhead }
func (e *Editor) Drag() *interaction.Drag              { return e.drag }
func (e *Editor) Mapper() timeline.Mapper              { return e.drag.Mapper() }
func (e *Editor) Synchronizer() *playback.Synchronizer { return e.sync }
func (e *Editor) Player() playback.Player              { return e.player }

// ImageDuration returns the duration given to stills.
func (e *Editor) ImageDuration() float64 {
	return e.imageDuration
}

// AppendMedia appends path at the playhead and moves the playhead to the end
// of the new clip. Images ignore duration and use the configured still
// duration. Unsupported files are rejected with media.ErrUnsupportedMedia.
func (e *Editor) AppendMedia(path string, duration float64) (timeline.Clip, error) {
	typ, err := media.Classify(path)
	if err != nil {
		return timeline.Clip{}, err
	}
	if typ == media.Image {
		duration = e.imageDuration
	}

	clip, err := e.model.Append(path, typ, e.playhead.Position(), duration)
	if err != nil {
		return timeline.Clip{}, fmt.Errorf("append %s: %w", path, err)
	}
	e.logger.Debug("clip appended",
		"id", clip.ID, "path", path, "start", clip.Start, "duration", clip.Duration)

	e.playhead.SetPosition(clip.End())
	return clip, nil
}

// AppendInfo appends a probed file.
func (e *Editor) AppendInfo(info media.Info) (timeline.Clip, error) {
	return e.AppendMedia(info.Path, info.Duration)
}

// Press forwards a pointer press in timeline pixels.
func (e *Editor) Press(x, y float64, b interaction.Button) {
	e.drag.Press(x, y, b)
}

// Move forwards pointer motion in timeline pixels.
func (e *Editor) Move(x, y float64) {
	e.drag.Move(x, y)
}

// Release forwards a pointer release.
func (e *Editor) Release(b interaction.Button) {
	e.drag.Release(b)
}

// Seek moves the playhead to t seconds.
func (e *Editor) Seek(t float64) {
	e.playhead.SetPosition(t)
}

// Nudge moves the playhead by delta seconds.
func (e *Editor) Nudge(delta float64) {
	e.playhead.SetPosition(e.playhead.Position() + delta)
}

// SeekEnd moves the playhead to the end of the last clip.
func (e *Editor) SeekEnd() {
	e.playhead.SetPosition(e.model.Extent())
}

// SetZoom replaces the time axis scale. Clip times are unchanged.
func (e *Editor) SetZoom(pixelsPerSecond float64) error {
	m, err := timeline.NewMapper(pixelsPerSecond)
	if err != nil {
		return err
	}
	e.drag.SetMapper(m)
	return nil
}

// SetViewWidth sets the visible timeline width in pixels.
func (e *Editor) SetViewWidth(px float64) {
	e.drag.SetViewWidth(px)
}

// ActiveClip returns the clip under the playhead.
func (e *Editor) ActiveClip() (timeline.Clip, bool) {
	return e.model.ActiveAt(e.playhead.Position())
}

// Resync pushes the current playhead time to the player again.
func (e *Editor) Resync() error {
	return e.sync.Sync(e.playhead.Position())
}

// TakeError returns and clears the last playback error raised by a
// playhead move.
func (e *Editor) TakeError() error {
	err := e.lastErr
	e.lastErr = nil
	return err
}

func (e *Editor) reportError(err error) {
	e.logger.Warn("playback sync failed", "error", err)
	e.lastErr = err
}

// onModelChange resyncs when a clip moves under a stationary playhead.
func (e *Editor) onModelChange(c timeline.ModelChange) {
	if c.Kind != timeline.ClipRelocated {
		return
	}
	if err := e.Resync(); err != nil {
		e.reportError(err)
	}
}
