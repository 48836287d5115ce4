// Package keymap defines the key bindings and resolves keys to actions.
package keymap

// Action is a user-triggerable action.
type Action string

const (
	ActionQuit   Action = "quit"
	ActionReload Action = "reload"
	ActionHelp   Action = "help"

	// Playback
	ActionPlayPause    Action = "play_pause"
	ActionNext         Action = "next"
	ActionPrevious     Action = "previous"
	ActionSeekForward  Action = "seek_forward"
	ActionSeekBackward Action = "seek_backward"
	ActionSeekPercent  Action = "seek_percent" // digit keys, 0 to 90 %
	ActionStop         Action = "stop"

	// Track list
	ActionPlaySelected Action = "play_selected"
	ActionToggleDetail Action = "toggle_detail"
	ActionMoveUp       Action = "move_up"
	ActionMoveDown     Action = "move_down"
	ActionTop          Action = "top"
	ActionBottom       Action = "bottom"
	ActionPageUp       Action = "page_up"
	ActionPageDown     Action = "page_down"
)
