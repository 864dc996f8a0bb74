// Package playback drives a preview player from the timeline playhead.
package playback

// Player is the playback collaborator the synchronizer issues intents to.
// Commands are fire-and-forget; decoding and threading are the player's
// concern.
type Player interface {
	// Load makes path the current video source.
	Load(path string) error
	// Seek moves to offset seconds within the current source.
	Seek(offset float64)
	Play()
	Stop()
	// ShowStill displays an image instead of video.
	ShowStill(path string) error
	// Hide clears the preview surface.
	Hide()
	// Source returns the currently loaded video source, or "".
	Source() string
}
