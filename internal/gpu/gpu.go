// Package gpu plays the game in a desktop window.
package gpu

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
)

var keyBindings = map[game.Action][]ebiten.Key{
	game.Forward:     {ebiten.KeyW, ebiten.KeyUp},
	game.Reverse:     {ebiten.KeyS, ebiten.KeyDown},
	game.StrafeLeft:  {ebiten.KeyA, ebiten.KeyLeft},
	game.StrafeRight: {ebiten.KeyD, ebiten.KeyRight},
	game.Special:     {ebiten.KeySpace},
}

// Game adapts a World to ebiten.Game
type Game struct {
	world  *game.World
	input  *game.InputState
	width  int
	height int
}

// New binds a World to a window. in must be the Input the World polls.
func New(world *game.World, in *game.InputState) *Game {
	return &Game{world: world, input: in}
}

// Run opens the window and blocks until it is closed
func (g *Game) Run(title string) error {
	view := g.world.Camera().View
	ebiten.SetWindowSize(int(view.X), int(view.Y))
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.world.Over() && inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.world.RequestReset()
	}

	for a, keys := range keyBindings {
		down := false
		for _, k := range keys {
			down = down || ebiten.IsKeyPressed(k)
		}
		g.input.Set(a, down)
	}
	g.input.Set(game.Fire, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	mx, my := ebiten.CursorPosition()
	g.input.SetPointer(geom.V(float64(mx), float64(my)))

	g.world.Tick(1000 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawState(screen, g.world.Snapshot())
}

// Layout keeps one world unit per pixel, so a bigger window sees more.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.world.SetViewport(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}
