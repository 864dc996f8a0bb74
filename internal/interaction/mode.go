package interaction

// Mode is the state of a drag session.
//
//	            press near playhead
//	┌──────┐ ─────────────────────────▶ ┌──────────────────┐
//	│      │                            │ DraggingPlayhead │
//	│      │ ◀───────────────────────── └──────────────────┘
//	│ Idle │          release
//	│      │ ─────────────────────────▶ ┌──────────────────┐
//	│      │     press on a clip        │   DraggingClip   │
//	└──────┘ ◀───────────────────────── └──────────────────┘
//	   │ ▲            release
//	   └─┘ press on empty space (moves the playhead, stays Idle)
//
// There are no nested states; a press received mid-session starts over.
type Mode int

const (
	Idle Mode = iota
	DraggingPlayhead
	DraggingClip
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Idle:
		return "Idle"
	case DraggingPlayhead:
		return "DraggingPlayhead"
	case DraggingClip:
		return "DraggingClip"
	default:
		return "Unknown"
	}
}

// Button identifies a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)
