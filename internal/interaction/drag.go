// Package interaction turns raw pointer input into playhead and clip moves.
package interaction

import (
	"github.com/llehouerou/clipline/internal/timeline"
)

// DefaultTolerance is how close, in pixels, a press must land to the
// playhead to grab it.
const DefaultTolerance = 5.0

// Drag interprets press/move/release sequences over a timeline.
type Drag struct {
	model    *timeline.Model
	playhead *timeline.Playhead
	mapper   timeline.Mapper

	tolerance float64
	viewWidth float64 // 0 means unbounded

	mode          Mode
	target        string
	pointerOffset float64
}

// Option configures a Drag.
type Option func(*Drag)

// WithTolerance sets the playhead hit tolerance in pixels.
func WithTolerance(px float64) Option {
	return func(d *Drag) {
		if px >= 0 {
			d.tolerance = px
		}
	}
}

// WithViewWidth sets the width the playhead is clamped to while dragged.
func WithViewWidth(px float64) Option {
	return func(d *Drag) {
		d.SetViewWidth(px)
	}
}

// New creates an idle drag machine operating on model and playhead.
func New(model *timeline.Model, playhead *timeline.Playhead, mapper timeline.Mapper, opts ...Option) *Drag {
	d := &Drag{
		model:     model,
		playhead:  playhead,
		mapper:    mapper,
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Mode returns the current session state.
func (d *Drag) Mode() Mode {
	return d.mode
}

// Target returns the ID of the clip being dragged.
func (d *Drag) Target() (string, bool) {
	if d.mode != DraggingClip {
		return "", false
	}
	return d.target, true
}

// PointerOffset returns the distance between the pointer and the grabbed
// clip's left edge, in pixels.
func (d *Drag) PointerOffset() float64 {
	return d.pointerOffset
}

// Mapper returns the time axis used for pointer conversion.
func (d *Drag) Mapper() timeline.Mapper {
	return d.mapper
}

// SetMapper replaces the time axis, e.g. after a zoom change.
func (d *Drag) SetMapper(m timeline.Mapper) {
	d.mapper = m
}

// Tolerance returns the playhead hit tolerance in pixels.
func (d *Drag) Tolerance() float64 {
	return d.tolerance
}

// SetViewWidth sets the upper bound for playhead drags. Zero or negative
// disables the bound.
func (d *Drag) SetViewWidth(px float64) {
	d.viewWidth = max(px, 0)
}

// ViewWidth returns the upper bound for playhead drags.
func (d *Drag) ViewWidth() float64 {
	return d.viewWidth
}

// Press handles a pointer press at (x, y).
//
// Near the playhead it starts a playhead drag and snaps the playhead under
// the pointer. On a clip it starts a clip drag. On empty space it moves the
// playhead and stays idle. The playhead wins over a clip under the same pixel.
func (d *Drag) Press(x, y float64, b Button) {
	if b != ButtonPrimary {
		return
	}
	d.reset()

	playheadX := d.mapper.ToPixels(d.playhead.Position())
	if abs(x-playheadX) <= d.tolerance {
		d.mode = DraggingPlayhead
		d.playhead.SetPosition(d.mapper.ToTime(x))
		return
	}

	if c, ok := d.model.ClipAt(d.mapper, x, y); ok {
		d.mode = DraggingClip
		d.target = c.ID
		d.pointerOffset = x - d.mapper.ToPixels(c.Start)
		return
	}

	d.playhead.SetPosition(d.mapper.ToTime(x))
}

// Move handles pointer motion. It has no effect while idle.
func (d *Drag) Move(x, _ float64) {
	switch d.mode {
	case DraggingPlayhead:
		x = max(x, 0)
		if d.viewWidth > 0 {
			x = min(x, d.viewWidth)
		}
		d.playhead.SetPosition(d.mapper.ToTime(x))
	case DraggingClip:
		newStart := max(d.mapper.ToTime(x-d.pointerOffset), 0)
		if err := d.model.Relocate(d.target, newStart); err != nil {
			d.reset()
		}
	case Idle:
	}
}

// Release ends the current session.
func (d *Drag) Release(b Button) {
	if b != ButtonPrimary && b != ButtonNone {
		return
	}
	d.reset()
}

// Cancel drops the current session without touching the model.
func (d *Drag) Cancel() {
	d.reset()
}

func (d *Drag) reset() {
	d.mode = Idle
	d.target = ""
	d.pointerOffset = 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
