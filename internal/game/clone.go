package game

import (
	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
)

// Clone is an escort granted by MultiClone. It orbits the player and fires
// along the player heading whenever the player fires. Clones never collide.
type Clone struct {
	Body
	Phase    float64 // orbit angle
	Rotation float64
}

func (w *World) spawnClone(phase float64) *Clone {
	c := &Clone{
		Body:  Body{ID: w.nextEntityID(), Radius: w.cfg.Player.Radius * w.cfg.Powerup.CloneScale, Alive: true},
		Phase: phase,
	}
	c.follow(w)
	w.clones = append(w.clones, c)
	return c
}

func (c *Clone) follow(w *World) {
	p := w.player
	c.Pos = p.Pos.Add(geom.FromAngle(c.Phase).Scale(w.cfg.Powerup.CloneOrbit))
	c.Rotation = p.Heading
}

// Update keeps formation and mirrors the player's shots
func (c *Clone) Update(w *World, dt float64) {
	if !c.Alive {
		return
	}
	p := w.player
	if p == nil || !p.Alive || p.Powerup != config.MultiClone {
		c.Alive = false
		return
	}
	c.Phase += w.cfg.Powerup.CloneSpin * w.frames(dt)
	c.follow(w)
	if p.FiredThisTick {
		w.fireBullet(OwnerPlayer, c.Pos, p.Heading, c.Radius, w.cfg.Bullet.Radius, false)
	}
}
