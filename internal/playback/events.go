package playback

import "fmt"

// AssetLoadError is returned when the player cannot load or decode a
// clip's source. Timeline state is left untouched and playback stays stopped.
type AssetLoadError struct {
	Operation string // "load" or "still"
	Path      string
	Err       error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// Sync describes what a synchronization pass decided.
type Sync struct {
	Time   float64 // global timeline time
	ClipID string  // empty when no clip is active
	Path   string
	Offset float64 // clip-local time
	Output Output
	Loaded bool // true if the source had to be (re)loaded
}
