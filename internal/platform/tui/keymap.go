package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-adventure/internal/core"
)

// holdTicks is how long a movement key counts as held after its last press.
// Terminals report key repeats but never releases, and the first repeat
// arrives after a delay of a few hundred milliseconds.
const holdTicks = 30

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case "w", "up":
		return core.ActionUp, false
	case "s", "down":
		return core.ActionDown, false
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case "o", " ":
		return core.ActionAttack, false
	case "r":
		return core.ActionRespawn, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	}

	return core.ActionNone, false
}

// HeldInput turns key presses into per-tick input frames. Movement keys
// stay held for holdTicks ticks after each press; every other action lasts
// exactly one tick.
type HeldInput struct {
	held    map[core.Action]int
	pending core.InputFrame
}

// NewHeldInput creates an empty input tracker.
func NewHeldInput() *HeldInput {
	return &HeldInput{
		held:    make(map[core.Action]int),
		pending: core.NewInputFrame(),
	}
}

// Press records a key press.
func (h *HeldInput) Press(a core.Action) {
	switch a {
	case core.ActionNone:
		return
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		// Pressing a direction releases its opposite.
		delete(h.held, opposite(a))
		h.held[a] = holdTicks
	default:
		h.pending.Set(a)
	}
}

// Frame returns the input for the next tick and ages held keys.
func (h *HeldInput) Frame() core.InputFrame {
	frame := h.pending.Clone()
	for a, ticks := range h.held {
		frame.Set(a)
		if ticks <= 1 {
			delete(h.held, a)
		} else {
			h.held[a] = ticks - 1
		}
	}
	h.pending.Clear()
	return frame
}

// Release drops every held key and pending action.
func (h *HeldInput) Release() {
	clear(h.held)
	h.pending.Clear()
}

func opposite(a core.Action) core.Action {
	switch a {
	case core.ActionUp:
		return core.ActionDown
	case core.ActionDown:
		return core.ActionUp
	case core.ActionLeft:
		return core.ActionRight
	case core.ActionRight:
		return core.ActionLeft
	default:
		return core.ActionNone
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
