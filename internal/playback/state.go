// internal/playback/state.go
package playback

// State is the transport state of a Player.
type State int

const (
	StateStopped State = iota
	StatePlaying
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}

// Output is what a Player's preview surface currently shows.
type Output int

const (
	OutputHidden Output = iota
	OutputVideo
	OutputStill
)

// String returns the output name.
func (o Output) String() string {
	switch o {
	case OutputHidden:
		return "Hidden"
	case OutputVideo:
		return "Video"
	case OutputStill:
		return "Still"
	default:
		return "Unknown"
	}
}

// IsVisible returns true if something is on screen.
func (o Output) IsVisible() bool {
	return o == OutputVideo || o == OutputStill
}
