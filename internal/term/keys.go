package term

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
)

// holdWindow is how long a key counts as held after its last press or
// auto-repeat. Terminals never report key releases.
const holdWindow = 150 * time.Millisecond

var allActions = []game.Action{game.Forward, game.Reverse, game.StrafeLeft, game.StrafeRight, game.Fire, game.Special}

// command is a key that acts on the frontend instead of the ship
type command int

const (
	cmdNone command = iota
	cmdQuit
	cmdReset
)

// keyAction maps a key to a ship action
func keyAction(k tcell.Key, r rune) (game.Action, bool) {
	switch k {
	case tcell.KeyUp:
		return game.Forward, true
	case tcell.KeyDown:
		return game.Reverse, true
	case tcell.KeyLeft:
		return game.StrafeLeft, true
	case tcell.KeyRight:
		return game.StrafeRight, true
	case tcell.KeyRune:
	default:
		return 0, false
	}
	switch r {
	case 'w', 'W':
		return game.Forward, true
	case 's', 'S':
		return game.Reverse, true
	case 'a', 'A':
		return game.StrafeLeft, true
	case 'd', 'D':
		return game.StrafeRight, true
	case ' ', 'f', 'F':
		return game.Fire, true
	case 'e', 'E', 'b', 'B':
		return game.Special, true
	}
	return 0, false
}

func keyCommand(k tcell.Key, r rune) command {
	switch {
	case k == tcell.KeyEscape || k == tcell.KeyCtrlC:
		return cmdQuit
	case k == tcell.KeyRune && (r == 'q' || r == 'Q'):
		return cmdQuit
	case k == tcell.KeyRune && (r == 'r' || r == 'R'):
		return cmdReset
	}
	return cmdNone
}

// holds emulates held keys from press timestamps
type holds struct {
	window time.Duration
	last   map[game.Action]time.Time
}

func newHolds(window time.Duration) *holds {
	return &holds{window: window, last: make(map[game.Action]time.Time)}
}

func (h *holds) press(a game.Action, now time.Time) {
	h.last[a] = now
}

func (h *holds) held(a game.Action, now time.Time) bool {
	at, ok := h.last[a]
	return ok && now.Sub(at) < h.window
}

// apply writes the held set into in. extra is OR-ed in for sources that do
// report releases, like mouse buttons.
func (h *holds) apply(in *game.InputState, now time.Time, extra map[game.Action]bool) {
	for _, a := range allActions {
		in.Set(a, h.held(a, now) || extra[a])
	}
}

func (h *holds) clear() {
	clear(h.last)
}
