package game

import "github.com/Fresh4774/aquin-offline-arcade/internal/geom"

// Action is a logical input the simulation polls.
type Action int

const (
	Forward Action = iota
	Reverse
	StrafeLeft
	StrafeRight
	Fire
	Special
	numActions
)

var actionNames = [numActions]string{"forward", "reverse", "left", "right", "fire", "special"}

func (a Action) String() string {
	if a < 0 || a >= numActions {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction maps a wire name back to an Action.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return 0, false
}

// Input is the polled input device. Pointer is in screen space.
type Input interface {
	Down(a Action) bool
	Pointer() geom.Vec
}

// InputState is a plain Input a frontend writes into between ticks.
// It is not safe for concurrent use; callers serialise access with the tick.
type InputState struct {
	down    [numActions]bool
	pointer geom.Vec
}

func (s *InputState) Down(a Action) bool {
	if a < 0 || a >= numActions {
		return false
	}
	return s.down[a]
}

func (s *InputState) Pointer() geom.Vec { return s.pointer }

// Set marks an action held or released.
func (s *InputState) Set(a Action, down bool) {
	if a < 0 || a >= numActions {
		return
	}
	s.down[a] = down
}

func (s *InputState) SetPointer(p geom.Vec) { s.pointer = p }

// Clear releases every action. The pointer is kept.
func (s *InputState) Clear() {
	s.down = [numActions]bool{}
}

// Bits packs the held actions, one bit per Action.
func (s *InputState) Bits() uint8 {
	var b uint8
	for i, d := range s.down {
		if d {
			b |= 1 << uint(i)
		}
	}
	return b
}

// SetBits is the inverse of Bits.
func (s *InputState) SetBits(b uint8) {
	for i := range s.down {
		s.down[i] = b&(1<<uint(i)) != 0
	}
}
