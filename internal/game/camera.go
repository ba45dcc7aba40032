package game

import (
	"math"

	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
)

// Camera is the smoothed viewport. Scroll is the world position of the
// top-left corner of the screen.
type Camera struct {
	Scroll geom.Vec
	View   geom.Vec // viewport size in world units
}

// WorldToScreen maps a world position to screen space.
func (c *Camera) WorldToScreen(p geom.Vec) geom.Vec { return p.Sub(c.Scroll) }

// target is the scroll that centres focus, led slightly toward the pointer.
func (c *Camera) target(focus, pointer geom.Vec, lead float64) geom.Vec {
	half := c.View.Scale(0.5)
	return focus.Sub(half).Add(pointer.Sub(half).Scale(lead))
}

// Follow eases the scroll toward the target by follow per nominal frame and
// clamps it so the view never leaves the world.
func (c *Camera) Follow(focus, pointer geom.Vec, follow, lead, frames float64, worldW, worldH float64) {
	t := c.target(focus, pointer, lead)
	alpha := 1 - math.Pow(1-follow, frames)
	c.Scroll = c.Scroll.Add(t.Sub(c.Scroll).Scale(alpha))
	c.clamp(worldW, worldH)
}

// Snap jumps straight to the target.
func (c *Camera) Snap(focus, pointer geom.Vec, lead float64, worldW, worldH float64) {
	c.Scroll = c.target(focus, pointer, lead)
	c.clamp(worldW, worldH)
}

func (c *Camera) clamp(worldW, worldH float64) {
	c.Scroll.X = geom.Clamp(c.Scroll.X, 0, math.Max(0, worldW-c.View.X))
	c.Scroll.Y = geom.Clamp(c.Scroll.Y, 0, math.Max(0, worldH-c.View.Y))
}
