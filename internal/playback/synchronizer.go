// internal/playback/synchronizer.go
package playback

import (
	"io"
	"log/slog"

	"github.com/llehouerou/clipline/internal/media"
	"github.com/llehouerou/clipline/internal/timeline"
)

// Synchronizer keeps a Player in step with the playhead. For each playhead
// time it resolves the active clip and issues load/seek/play, still or stop
// intents.
type Synchronizer struct {
	model   *timeline.Model
	player  Player
	logger  *slog.Logger
	onError func(error)

	last    Sync
	hasLast bool
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithErrorHandler sets the function receiving errors from attached
// playhead notifications, which have no caller to return them to.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Synchronizer) {
		s.onError = fn
	}
}

// NewSynchronizer creates a synchronizer reading clips from model.
func NewSynchronizer(model *timeline.Model, player Player, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		model:  model,
		player: player,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach subscribes the synchronizer to playhead moves. The returned
// function detaches it.
func (s *Synchronizer) Attach(p *timeline.Playhead) func() {
	return p.Subscribe(func(c timeline.PositionChange) {
		if err := s.Sync(c.Position); err != nil && s.onError != nil {
			s.onError(err)
		}
	})
}

// Last returns the outcome of the most recent Sync call.
func (s *Synchronizer) Last() (Sync, bool) {
	return s.last, s.hasLast
}

// Sync brings the player in line with timeline time t.
//
// With no active clip the player is stopped and hidden. A video clip is
// loaded only when it differs from the player's current source, then
// seeked to the clip-local offset and played. An image clip stops video
// playback and is shown as a still.
//
// A load failure is returned as *AssetLoadError with playback stopped and
// output hidden; it is not retried.
func (s *Synchronizer) Sync(t float64) error {
	result := Sync{Time: t}
	s.last, s.hasLast = result, true

	clip, ok := s.model.ActiveAt(t)
	if !ok {
		s.player.Stop()
		s.player.Hide()
		return nil
	}

	result.ClipID = clip.ID
	result.Path = clip.Path
	result.Offset = t - clip.Start

	switch clip.Type { //nolint:exhaustive // the model only holds video and image clips
	case media.Image:
		s.player.Stop()
		if err := s.player.ShowStill(clip.Path); err != nil {
			s.logger.Warn("still failed", "path", clip.Path, "error", err)
			s.last = result
			return &AssetLoadError{Operation: "still", Path: clip.Path, Err: err}
		}
		result.Output = OutputStill

	case media.Video:
		if s.player.Source() != clip.Path {
			s.logger.Debug("loading source", "path", clip.Path)
			if err := s.player.Load(clip.Path); err != nil {
				s.player.Stop()
				s.player.Hide()
				s.logger.Warn("load failed", "path", clip.Path, "error", err)
				s.last = result
				return &AssetLoadError{Operation: "load", Path: clip.Path, Err: err}
			}
			result.Loaded = true
		}
		s.player.Seek(result.Offset)
		s.player.Play()
		result.Output = OutputVideo
	}

	s.last = result
	return nil
}
