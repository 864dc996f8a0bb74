// Package timeline holds the clip model, the playhead and the time axis
// shared by every other part of the editor.
package timeline

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidScale is returned when a Mapper is built with a non-positive scale.
var ErrInvalidScale = errors.New("invalid time axis scale")

// Mapper converts between pixel offsets and timeline seconds.
//
// It is the only place the pixels-per-second scalar is applied; hit-testing,
// drag handling and the views all go through it.
type Mapper struct {
	pixelsPerSecond float64
}

// NewMapper returns a Mapper for the given zoom factor.
func NewMapper(pixelsPerSecond float64) (Mapper, error) {
	if !(pixelsPerSecond > 0) || math.IsInf(pixelsPerSecond, 0) {
		return Mapper{}, fmt.Errorf("%w: pixels per second must be positive, got %v",
			ErrInvalidScale, pixelsPerSecond)
	}
	return Mapper{pixelsPerSecond: pixelsPerSecond}, nil
}

// PixelsPerSecond returns the zoom factor.
func (m Mapper) PixelsPerSecond() float64 {
	return m.pixelsPerSecond
}

// ToPixels converts a time offset in seconds to a pixel offset.
func (m Mapper) ToPixels(seconds float64) float64 {
	return seconds * m.pixelsPerSecond
}

// ToTime converts a pixel offset to a time offset in seconds.
func (m Mapper) ToTime(pixels float64) float64 {
	return pixels / m.pixelsPerSecond
}
