package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Binding binds keys to an action.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "list"
}

// digitKeys seek to 0%, 10%, ... 90%.
var digitKeys = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// All contains every binding, in help order.
var All = []Binding{
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionReload, []string{"r"}, "Reload library", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionNext, []string{"n"}, "Next track", "playback"},
	{ActionPrevious, []string{"p"}, "Previous track", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek forward", "playback"},
	{ActionSeekBackward, []string{"left", "h"}, "Seek backward", "playback"},
	{ActionSeekPercent, digitKeys, "Seek to 0-90%", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},

	{ActionPlaySelected, []string{"enter"}, "Play selected track", "list"},
	{ActionToggleDetail, []string{"tab"}, "Track details", "list"},
	{ActionMoveUp, []string{"k", "up"}, "Move up", "list"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "list"},
	{ActionTop, []string{"g", "home"}, "First track", "list"},
	{ActionBottom, []string{"G", "end"}, "Last track", "list"},
	{ActionPageUp, []string{"pgup", "ctrl+u"}, "Page up", "list"},
	{ActionPageDown, []string{"pgdown", "ctrl+d"}, "Page down", "list"},
}

// ByContext returns the bindings of one context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, b := range All {
		if b.Context == context {
			result = append(result, b)
		}
	}
	return result
}

// Help adapts the bindings to the bubbles help component.
type Help struct {
	short []key.Binding
	full  [][]key.Binding
}

// NewHelp builds help from bindings, one column per context.
func NewHelp(bindings []Binding) Help {
	var (
		h       Help
		columns = map[string]int{}
	)
	for _, b := range bindings {
		kb := key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(displayKeys(b.Keys), b.Description))
		col, ok := columns[b.Context]
		if !ok {
			col = len(h.full)
			columns[b.Context] = col
			h.full = append(h.full, nil)
		}
		h.full[col] = append(h.full[col], kb)
		if b.Context == "playback" || b.Action == ActionQuit || b.Action == ActionHelp {
			h.short = append(h.short, kb)
		}
	}
	return h
}

func (h Help) ShortHelp() []key.Binding  { return h.short }
func (h Help) FullHelp() [][]key.Binding { return h.full }

// displayKeys renders keys for help text.
func displayKeys(keys []string) string {
	if len(keys) == len(digitKeys) && keys[0] == "0" {
		return "0-9"
	}
	shown := make([]string, 0, len(keys))
	for _, k := range keys {
		switch k {
		case " ":
			k = "space"
		case "right":
			k = "→"
		case "left":
			k = "←"
		case "up":
			k = "↑"
		case "down":
			k = "↓"
		}
		shown = append(shown, k)
	}
	return strings.Join(shown, "/")
}
