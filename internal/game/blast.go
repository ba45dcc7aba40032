package game

import "github.com/Fresh4774/aquin-offline-arcade/internal/geom"

// Blast is the short-lived damage zone left by a bomb. The resolver hits
// each target inside it at most once.
type Blast struct {
	Body
	LifeMs float64
	MaxMs  float64
	Damage int
	hit    map[uint64]bool
}

func (w *World) spawnBlast(pos geom.Vec) *Blast {
	cfg := &w.cfg.Powerup
	b := &Blast{
		Body:   Body{ID: w.nextEntityID(), Pos: pos, Radius: cfg.BombRadius, Alive: true},
		LifeMs: cfg.BlastMs,
		MaxMs:  cfg.BlastMs,
		Damage: cfg.BombDamage,
		hit:    make(map[uint64]bool),
	}
	w.blasts = append(w.blasts, b)
	w.burst(pos, 30, 12, 5, 10, colorBlast)
	w.emit(EventBomb, w.player.BombCharges, "")
	return b
}

// Update ticks the blast lifetime
func (b *Blast) Update(w *World, dt float64) {
	if !b.Alive {
		return
	}
	b.LifeMs -= dt
	if b.LifeMs <= 0 {
		b.Alive = false
	}
}

// strike reports whether target id has not been hit yet, and records it.
func (b *Blast) strike(id uint64) bool {
	if b.hit[id] {
		return false
	}
	b.hit[id] = true
	return true
}

// Progress is 0 at detonation and 1 at expiry.
func (b *Blast) Progress() float64 {
	if b.MaxMs <= 0 {
		return 1
	}
	return 1 - b.LifeMs/b.MaxMs
}
