package game

import "github.com/Fresh4774/aquin-offline-arcade/internal/geom"

// Collectible is a blinking satellite that heals the player once.
type Collectible struct {
	Body
	Rotation  float64
	Spin      float64
	BlinkMs   float64
	Visible   bool
	Collected bool
}

func (w *World) newCollectible(pos geom.Vec) *Collectible {
	cfg := &w.cfg.Collectible
	c := &Collectible{
		Body:    Body{ID: w.nextEntityID(), Pos: pos, Radius: cfg.Radius, Alive: true},
		Spin:    w.rng.Centered(cfg.SpinRange),
		Visible: true,
	}
	w.collectibles = append(w.collectibles, c)
	return c
}

// Update spins, blinks and checks for pickup
func (c *Collectible) Update(w *World, dt float64) {
	if !c.Alive {
		return
	}
	cfg := &w.cfg.Collectible
	c.Rotation += c.Spin * w.frames(dt)

	c.BlinkMs += dt
	if c.BlinkMs > cfg.BlinkMs {
		c.BlinkMs = 0
		c.Visible = !c.Visible
	}

	p := w.player
	if p == nil || c.Collected || !c.Overlaps(&p.Body) {
		return
	}
	c.Collected = true
	c.Alive = false
	w.addScore(cfg.Score)
	w.heal(cfg.Heal)
	w.burst(c.Pos, 20, 5, 5, 10, colorCollect)
	w.emit(EventPickup, cfg.Score, "satellite")
}
