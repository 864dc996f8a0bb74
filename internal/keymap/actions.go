// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit        Action = "quit"
	ActionSwitchFocus Action = "switch_focus"
	ActionHelp        Action = "help"
	ActionRescan      Action = "rescan"

	// Media bin actions
	ActionAppend Action = "append"

	// Timeline actions
	ActionNudgeBack        Action = "nudge_back"
	ActionNudgeForward     Action = "nudge_forward"
	ActionNudgeBackLong    Action = "nudge_back_long"
	ActionNudgeForwardLong Action = "nudge_forward_long"
	ActionSeekStart        Action = "seek_start"
	ActionSeekEnd          Action = "seek_end"
	ActionZoomIn           Action = "zoom_in"
	ActionZoomOut          Action = "zoom_out"
	ActionScrollLeft       Action = "scroll_left"
	ActionScrollRight      Action = "scroll_right"
	ActionCancelDrag       Action = "cancel_drag"
)
