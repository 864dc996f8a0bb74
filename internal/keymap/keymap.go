package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Binding contexts.
const (
	ContextGlobal   = "global"
	ContextBin      = "bin"
	ContextTimeline = "timeline"
)

// Binding maps keys to an action within a context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string
}

// Bindings contains every key binding.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", ContextGlobal},
	{ActionSwitchFocus, []string{"tab"}, "Switch focus", ContextGlobal},
	{ActionHelp, []string{"?"}, "Toggle help", ContextGlobal},
	{ActionRescan, []string{"r"}, "Rescan media folder", ContextGlobal},
	{ActionNudgeBack, []string{"left"}, "Playhead -1s", ContextGlobal},
	{ActionNudgeForward, []string{"right"}, "Playhead +1s", ContextGlobal},
	{ActionNudgeBackLong, []string{"shift+left"}, "Playhead -5s", ContextGlobal},
	{ActionNudgeForwardLong, []string{"shift+right"}, "Playhead +5s", ContextGlobal},
	{ActionZoomIn, []string{"+", "="}, "Zoom in", ContextGlobal},
	{ActionZoomOut, []string{"-"}, "Zoom out", ContextGlobal},
	{ActionScrollLeft, []string{"["}, "Scroll timeline left", ContextGlobal},
	{ActionScrollRight, []string{"]"}, "Scroll timeline right", ContextGlobal},
	{ActionCancelDrag, []string{"esc"}, "Cancel drag", ContextGlobal},

	// Media bin
	{ActionAppend, []string{"enter"}, "Append at playhead", ContextBin},

	// Timeline
	{ActionSeekStart, []string{"home", "g"}, "Playhead to start", ContextTimeline},
	{ActionSeekEnd, []string{"end", "G"}, "Playhead to end", ContextTimeline},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, b := range Bindings {
		if b.Context == context {
			result = append(result, b)
		}
	}
	return result
}

// Key returns the bubbles binding for action, merging its keys across
// contexts.
func Key(action Action) key.Binding {
	var keys []string
	var desc string
	for _, b := range Bindings {
		if b.Action == action {
			keys = append(keys, b.Keys...)
			if desc == "" {
				desc = b.Description
			}
		}
	}
	keys = dedupe(keys)
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

// Help lists bindings for bubbles/help.
type Help struct {
	short []Action
	full  [][]Action
}

// DefaultHelp returns the short and full help layout.
func DefaultHelp() Help {
	return Help{
		short: []Action{ActionAppend, ActionNudgeForward, ActionZoomIn, ActionSwitchFocus, ActionHelp, ActionQuit},
		full: [][]Action{
			{ActionAppend, ActionRescan, ActionSwitchFocus},
			{ActionNudgeBack, ActionNudgeForward, ActionNudgeBackLong, ActionNudgeForwardLong, ActionSeekStart, ActionSeekEnd},
			{ActionZoomIn, ActionZoomOut, ActionScrollLeft, ActionScrollRight, ActionCancelDrag},
			{ActionHelp, ActionQuit},
		},
	}
}

// ShortHelp implements help.KeyMap.
func (h Help) ShortHelp() []key.Binding {
	return bindingsFor(h.short)
}

// FullHelp implements help.KeyMap.
func (h Help) FullHelp() [][]key.Binding {
	out := make([][]key.Binding, len(h.full))
	for i, col := range h.full {
		out[i] = bindingsFor(col)
	}
	return out
}

func bindingsFor(actions []Action) []key.Binding {
	out := make([]key.Binding, len(actions))
	for i, a := range actions {
		out[i] = Key(a)
	}
	return out
}
