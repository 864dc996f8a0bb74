package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/llehouerou/clipline/internal/media"
)

var (
	// ErrInvalidDuration is returned when a clip is given a non-positive duration.
	ErrInvalidDuration = errors.New("invalid clip duration")
	// ErrClipNotFound is returned when a clip ID is not part of the model.
	ErrClipNotFound = errors.New("clip not found")
)

// Clip is a media asset placed on the timeline.
type Clip struct {
	ID       string
	Path     string
	Type     media.Type
	Start    float64 // seconds from the timeline origin, >= 0
	Duration float64 // seconds, > 0
}

// End returns the time at which the clip stops.
func (c Clip) End() float64 {
	return c.Start + c.Duration
}

// Contains reports whether t falls in [Start, End).
func (c Clip) Contains(t float64) bool {
	return c.Start <= t && t < c.End()
}

// Band is the vertical extent, in pixels, of the row clips are drawn in.
type Band struct {
	Top    float64
	Height float64
}

// DefaultBand matches a 60px clip row drawn 10px below the top edge.
var DefaultBand = Band{Top: 10, Height: 60}

// Rect is an axis-aligned rectangle in pixel space.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside the rectangle. The left and
// top edges are inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// ChangeKind identifies what happened to the model.
type ChangeKind int

const (
	ClipAppended ChangeKind = iota
	ClipRelocated
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ClipAppended:
		return "Appended"
	case ClipRelocated:
		return "Relocated"
	default:
		return "Unknown"
	}
}

// ModelChange is emitted whenever a clip is added or moved.
type ModelChange struct {
	Kind ChangeKind
	Clip Clip
}

// Model owns the clips placed on the timeline.
//
// Clips keep their insertion order, which is not a time order. When clips
// overlap, the most recently placed one wins both for ActiveAt and ClipAt,
// matching the order clips are drawn in.
type Model struct {
	clips   []Clip
	band    Band
	changed listeners[ModelChange]
}

// NewModel creates an empty timeline with the given clip row geometry.
func NewModel(band Band) *Model {
	return &Model{band: band}
}

// Band returns the clip row geometry.
func (m *Model) Band() Band {
	return m.band
}

// Append places a new clip starting at start (the caller's playhead time).
// The playhead itself is not moved. Only video and image clips are accepted.
func (m *Model) Append(path string, typ media.Type, start, duration float64) (Clip, error) {
	if typ != media.Video && typ != media.Image {
		return Clip{}, fmt.Errorf("%w: %s", media.ErrUnsupportedMedia, path)
	}
	if !(duration > 0) || math.IsInf(duration, 0) {
		return Clip{}, fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}
	c := Clip{
		ID:       uuid.NewString(),
		Path:     path,
		Type:     typ,
		Start:    clampTime(start),
		Duration: duration,
	}
	m.clips = append(m.clips, c)
	m.changed.emit(ModelChange{Kind: ClipAppended, Clip: c})
	return c, nil
}

// Relocate moves a clip so it starts at newStart, clamped to zero.
// Overlaps with other clips are allowed.
func (m *Model) Relocate(id string, newStart float64) error {
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrClipNotFound, id)
	}
	m.clips[i].Start = clampTime(newStart)
	m.changed.emit(ModelChange{Kind: ClipRelocated, Clip: m.clips[i]})
	return nil
}

// Clip returns the clip with the given ID.
func (m *Model) Clip(id string) (Clip, bool) {
	i := m.indexOf(id)
	if i < 0 {
		return Clip{}, false
	}
	return m.clips[i], true
}

// Clips returns a copy of the clips in insertion order.
func (m *Model) Clips() []Clip {
	out := make([]Clip, len(m.clips))
	copy(out, m.clips)
	return out
}

// Len returns the number of clips.
func (m *Model) Len() int {
	return len(m.clips)
}

// Extent returns the end time of the last-ending clip, or 0 when empty.
func (m *Model) Extent() float64 {
	var end float64
	for _, c := range m.clips {
		end = max(end, c.End())
	}
	return end
}

// ActiveAt returns the clip whose [Start, End) interval contains t.
func (m *Model) ActiveAt(t float64) (Clip, bool) {
	for i := len(m.clips) - 1; i >= 0; i-- {
		if m.clips[i].Contains(t) {
			return m.clips[i], true
		}
	}
	return Clip{}, false
}

// Rect returns the rectangle a clip occupies in pixel space.
func (m *Model) Rect(mapper Mapper, c Clip) Rect {
	return Rect{
		X: mapper.ToPixels(c.Start),
		Y: m.band.Top,
		W: mapper.ToPixels(c.Duration),
		H: m.band.Height,
	}
}

// ClipAt returns the clip drawn under pixel (x, y).
func (m *Model) ClipAt(mapper Mapper, x, y float64) (Clip, bool) {
	for i := len(m.clips) - 1; i >= 0; i-- {
		if m.Rect(mapper, m.clips[i]).Contains(x, y) {
			return m.clips[i], true
		}
	}
	return Clip{}, false
}

// Subscribe registers fn for model changes. The returned function removes it.
func (m *Model) Subscribe(fn func(ModelChange)) func() {
	return m.changed.add(fn)
}

func (m *Model) indexOf(id string) int {
	for i := range m.clips {
		if m.clips[i].ID == id {
			return i
		}
	}
	return -1
}

// clampTime maps negative and NaN times to zero.
func clampTime(t float64) float64 {
	if !(t > 0) {
		return 0
	}
	return t
}
