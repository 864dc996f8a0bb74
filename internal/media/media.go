// Package media classifies media files and probes their durations.
package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedMedia is returned for files whose extension is not on the
// image or video allow-list.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// Type is the kind of asset a clip refers to.
type Type int

const (
	Unknown Type = iota
	Video
	Image
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case Video:
		return "video"
	case Image:
		return "image"
	case Unknown:
		return "unknown"
	default:
		return "unknown"
	}
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
}

// Classify returns the media type of path based on its extension.
func Classify(path string) (Type, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExtensions[ext]:
		return Image, nil
	case videoExtensions[ext]:
		return Video, nil
	default:
		return Unknown, fmt.Errorf("%w: %q", ErrUnsupportedMedia, filepath.Base(path))
	}
}

// IsSupported reports whether path has an image or video extension.
func IsSupported(path string) bool {
	t, err := Classify(path)
	return err == nil && t != Unknown
}
