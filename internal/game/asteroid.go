package game

import (
	"math"

	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
)

// Asteroid drifts, spins and bounces off the world edges.
type Asteroid struct {
	Body
	Vel       geom.Vec
	Rotation  float64
	Spin      float64 // radians per nominal frame
	Health    int
	MaxHealth int
}

// Large reports whether the asteroid splits on death.
func (a *Asteroid) Large(threshold float64) bool {
	return a.Radius > threshold
}

// newAsteroid appends an asteroid with a random heading scaled by speed.
func (w *World) newAsteroid(pos geom.Vec, radius, speed, spin float64, health int) *Asteroid {
	a := &Asteroid{
		Body:      Body{ID: w.nextEntityID(), Pos: pos, Radius: radius, Alive: true},
		Rotation:  w.rng.Float64() * math.Pi * 2,
		Spin:      spin,
		Health:    health,
		MaxHealth: health,
	}
	a.Vel = geom.V(w.rng.Centered(speed), w.rng.Centered(speed))
	w.asteroids = append(w.asteroids, a)
	return a
}

// Update moves the asteroid one tick
func (a *Asteroid) Update(w *World, dt float64) {
	if !a.Alive {
		return
	}
	frames := w.frames(dt)
	a.Pos = a.Pos.Add(a.Vel.Scale(frames))
	a.Rotation += a.Spin * frames

	// Bounce: point the velocity component back inside
	ww, wh := w.cfg.World.Width, w.cfg.World.Height
	if a.Pos.X-a.Radius < 0 {
		a.Vel.X = math.Abs(a.Vel.X)
	} else if a.Pos.X+a.Radius > ww {
		a.Vel.X = -math.Abs(a.Vel.X)
	}
	if a.Pos.Y-a.Radius < 0 {
		a.Vel.Y = math.Abs(a.Vel.Y)
	} else if a.Pos.Y+a.Radius > wh {
		a.Vel.Y = -math.Abs(a.Vel.Y)
	}
}

// TakeDamage reduces health and returns true if the asteroid was destroyed.
// A destroyed large asteroid splits into small fragments. Score is awarded
// once; damaging a dead asteroid does nothing.
func (a *Asteroid) TakeDamage(w *World, n int) bool {
	if !a.Alive {
		return false
	}
	a.Health -= n
	if a.Health > 0 {
		return false
	}
	a.Health = 0
	a.Alive = false
	cfg := &w.cfg.Asteroid
	if a.Large(cfg.SplitThreshold) {
		a.split(w)
		w.addScore(cfg.ScoreLarge)
	} else {
		w.addScore(cfg.ScoreSmall)
	}
	w.emit(EventExplosion, int(a.Radius), "")
	return true
}

func (a *Asteroid) split(w *World) {
	cfg := &w.cfg.Asteroid
	for i := 0; i < cfg.SplitCount; i++ {
		pos := a.Pos.Add(geom.V(w.rng.Centered(cfg.SplitJitter), w.rng.Centered(cfg.SplitJitter)))
		w.newAsteroid(pos, cfg.SmallRadius, cfg.SmallSpeed, w.rng.Centered(cfg.SmallSpinRange), cfg.SmallHealth)
	}
	w.burst(a.Pos, 15, 5, 5, 10, colorAsteroidDust)
}
