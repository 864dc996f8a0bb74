package timeline

// PositionChange is emitted on every playhead write.
type PositionChange struct {
	Position float64
}

// Playhead is the current time cursor.
//
// Every SetPosition call notifies subscribers, even when the clamped value
// is unchanged, so the playback side re-evaluates on each write.
type Playhead struct {
	position float64
	moved    listeners[PositionChange]
}

// NewPlayhead creates a playhead at time zero.
func NewPlayhead() *Playhead {
	return &Playhead{}
}

// Position returns the playhead time in seconds.
func (p *Playhead) Position() float64 {
	return p.position
}

// SetPosition moves the playhead to t, clamped to zero, and notifies
// subscribers synchronously. There is no upper bound: the playhead may sit
// past the last clip.
func (p *Playhead) SetPosition(t float64) {
	p.position = clampTime(t)
	p.moved.emit(PositionChange{Position: p.position})
}

// Subscribe registers fn for position changes. The returned function removes it.
func (p *Playhead) Subscribe(fn func(PositionChange)) func() {
	return p.moved.add(fn)
}
