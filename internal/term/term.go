// Package term plays the game in a terminal. Terminal cells are coarse, so
// the playfield is drawn at a fixed number of world units per cell.
package term

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
)

const frameEvery = time.Second / 60

// Options sets the world units covered by one terminal cell.
type Options struct {
	CellW float64
	CellH float64
}

// DefaultOptions suits a typical 2:1 terminal font.
func DefaultOptions() Options {
	return Options{CellW: 12, CellH: 24}
}

// Term drives a World from a tcell screen
type Term struct {
	screen tcell.Screen
	world  *game.World
	input  *game.InputState
	grid   grid
	holds  *holds
	mouse  map[game.Action]bool
	start  time.Time
}

// OpenScreen initialises the terminal with mouse motion reporting
func OpenScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	return screen, nil
}

// New binds a screen to a World. in must be the Input the World polls.
func New(screen tcell.Screen, world *game.World, in *game.InputState, opts Options) *Term {
	if opts.CellW <= 0 || opts.CellH <= 0 {
		opts = DefaultOptions()
	}
	t := &Term{
		screen: screen,
		world:  world,
		input:  in,
		grid:   grid{cellW: opts.CellW, cellH: opts.CellH},
		holds:  newHolds(holdWindow),
		mouse:  make(map[game.Action]bool),
	}
	t.resize()
	return t
}

// Run plays until the user quits
func (t *Term) Run() error {
	ticker := time.NewTicker(frameEvery)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	t.start = time.Now()
	for {
		select {
		case ev := <-events:
			if !t.handle(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			t.step(now)
			t.draw()
		}
	}
}

// Close restores the terminal
func (t *Term) Close() {
	t.screen.Fini()
}

func (t *Term) resize() {
	cols, rows := t.screen.Size()
	t.world.SetViewport(t.grid.viewport(cols, rows))
}

// handle applies one terminal event. It returns false on quit.
func (t *Term) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch keyCommand(ev.Key(), ev.Rune()) {
		case cmdQuit:
			return false
		case cmdReset:
			t.holds.clear()
			t.world.RequestReset()
			return true
		}
		if a, ok := keyAction(ev.Key(), ev.Rune()); ok {
			t.holds.press(a, now)
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.input.SetPointer(t.grid.point(x, y))
		t.mouse[game.Fire] = ev.Buttons()&tcell.Button1 != 0
		t.mouse[game.Special] = ev.Buttons()&tcell.Button2 != 0
	case *tcell.EventResize:
		t.screen.Sync()
		t.resize()
	}
	return true
}

func (t *Term) step(now time.Time) {
	t.holds.apply(t.input, now, t.mouse)
	t.world.Frame(float64(now.Sub(t.start).Microseconds()) / 1000)
}

func (t *Term) draw() {
	t.screen.Clear()
	render(t.screen, t.grid, t.world.Snapshot())
	t.screen.Show()
}
