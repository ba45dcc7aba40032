package game

import (
	"image/color"
	"math"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
)

var (
	colorPlayerHit    = color.RGBA{255, 100, 100, 204}
	colorAsteroidDust = color.RGBA{200, 200, 100, 204}
	colorAsteroidHit  = color.RGBA{150, 150, 150, 204}
	colorDebris       = color.RGBA{255, 200, 0, 204}
	colorEnemyBlast   = color.RGBA{255, 100, 0, 204}
	colorCollect      = color.RGBA{100, 255, 100, 204}
	colorBlast        = color.RGBA{255, 240, 120, 204}
)

func powerupColor(kind config.PowerupKind) color.RGBA {
	switch kind {
	case config.Laser:
		return color.RGBA{255, 0, 0, 204}
	case config.Shield:
		return color.RGBA{0, 255, 255, 204}
	case config.Bomb:
		return color.RGBA{255, 160, 0, 204}
	case config.MultiClone:
		return color.RGBA{200, 120, 255, 204}
	}
	return color.RGBA{255, 255, 255, 204}
}

// Particle is cosmetic debris. It never interacts with anything.
type Particle struct {
	Body
	Vel   geom.Vec
	Color color.RGBA
	Life  float64 // 1 when spawned, dead at 0
	Fade  float64 // life lost per nominal frame
}

// burst pushes n particles at pos with velocities in ±spread/2 and radii in
// [rMin, rMin+rRange). Particles past the cap are dropped.
func (w *World) burst(pos geom.Vec, n int, spread, rMin, rRange float64, c color.RGBA) {
	cfg := &w.cfg.Particle
	for i := 0; i < n; i++ {
		if limit := w.cfg.World.MaxParticles; limit > 0 && len(w.particles) >= limit {
			return
		}
		p := &Particle{
			Body:  Body{ID: w.nextEntityID(), Pos: pos, Alive: true},
			Vel:   geom.V(w.rng.Centered(spread), w.rng.Centered(spread)),
			Color: c,
			Life:  1,
			Fade:  cfg.FadeMin + w.rng.Float64()*cfg.FadeRange,
		}
		p.Radius = rMin + w.rng.Float64()*rRange
		w.particles = append(w.particles, p)
	}
}

// Update drifts, shrinks and fades the particle
func (p *Particle) Update(w *World, dt float64) {
	if !p.Alive {
		return
	}
	frames := w.frames(dt)
	p.Pos = p.Pos.Add(p.Vel.Scale(frames))
	p.Radius *= math.Pow(w.cfg.Particle.Decay, frames)
	p.Life -= p.Fade * frames
	if p.Life <= 0 {
		p.Life = 0
		p.Alive = false
	}
}
