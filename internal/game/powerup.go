package game

import (
	"math"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
)

// Powerup is an unclaimed pickup. It expires after its lifespan.
type Powerup struct {
	Body
	Kind     config.PowerupKind
	Rotation float64
	LifeMs   float64
	PulseMs  float64
	Pulse    float64 // cosmetic radius wobble
}

func (w *World) newPowerup(pos geom.Vec, kind config.PowerupKind) *Powerup {
	cfg := &w.cfg.Powerup
	pu := &Powerup{
		Body:   Body{ID: w.nextEntityID(), Pos: pos, Radius: cfg.Radius, Alive: true},
		Kind:   kind,
		LifeMs: cfg.LifespanMs,
	}
	w.powerups = append(w.powerups, pu)
	return pu
}

// Update ages the pickup and applies it on contact
func (pu *Powerup) Update(w *World, dt float64) {
	if !pu.Alive {
		return
	}
	pu.Rotation += w.cfg.Powerup.Spin * w.frames(dt)
	pu.LifeMs -= dt
	pu.PulseMs += dt
	pu.Pulse = math.Sin(pu.PulseMs/200) * 5
	if pu.LifeMs <= 0 {
		pu.Alive = false
		return
	}

	p := w.player
	if p == nil || !pu.Overlaps(&p.Body) {
		return
	}
	pu.Alive = false
	w.applyPowerup(pu.Kind)
	w.burst(pu.Pos, 20, 5, 5, 10, powerupColor(pu.Kind))
	w.emit(EventPickup, 0, string(pu.Kind))
}
