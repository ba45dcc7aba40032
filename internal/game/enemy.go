package game

import (
	"math"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
)

// Behavior is the enemy movement mode.
type Behavior uint8

const (
	Chase Behavior = iota
	Circle
	Retreat
	numBehaviors
)

func (b Behavior) String() string {
	switch b {
	case Circle:
		return "circle"
	case Retreat:
		return "retreat"
	}
	return "chase"
}

// Enemy is an AI ship that hunts the player.
type Enemy struct {
	Body
	Class     config.EnemyClass
	Rotation  float64
	Health    int
	MaxHealth int
	Speed     float64

	Behavior    Behavior
	BehaviorMs  float64 // time spent in the current behavior
	DwellMs     float64 // how long to keep it
	Offset      geom.Vec
	ShootMs     float64 // cooldown remaining
	ShootRateMs float64
	RamDamage   int
	Score       int
}

func (w *World) newEnemy(pos geom.Vec, class config.EnemyClass) *Enemy {
	def := w.cfg.Enemy.Class(class)
	e := &Enemy{
		Body:        Body{ID: w.nextEntityID(), Pos: pos, Radius: def.Radius, Alive: true},
		Class:       class,
		Health:      def.Health,
		MaxHealth:   def.Health,
		Speed:       def.Speed,
		ShootRateMs: def.ShootRateMs,
		RamDamage:   def.RamDamage,
		Score:       def.Score,
	}
	e.pickBehavior(w)
	w.enemies = append(w.enemies, e)
	return e
}

// pickBehavior rolls a new behavior, dwell time and targeting offset.
func (e *Enemy) pickBehavior(w *World) {
	cfg := &w.cfg.Enemy
	e.BehaviorMs = 0
	e.DwellMs = cfg.DwellMinMs + w.rng.Float64()*cfg.DwellRangeMs
	e.Behavior = Behavior(w.rng.Intn(int(numBehaviors)))
	e.Offset = geom.V(w.rng.Centered(cfg.TargetJitter), w.rng.Centered(cfg.TargetJitter))
}

// Update steers, shoots and rams. Enemies freeze once the run is over.
func (e *Enemy) Update(w *World, dt float64) {
	if !e.Alive || w.over {
		return
	}
	p := w.player
	if p == nil || !p.Alive {
		return
	}
	cfg := &w.cfg.Enemy
	frames := w.frames(dt)

	e.BehaviorMs += dt
	if e.BehaviorMs >= e.DwellMs {
		e.pickBehavior(w)
	}

	toTarget := p.Pos.Add(e.Offset).Sub(e.Pos)
	dist := toTarget.Len()
	e.Rotation = toTarget.Angle()

	var move geom.Vec
	switch e.Behavior {
	case Chase:
		move = geom.FromAngle(e.Rotation).Scale(e.Speed)
	case Circle:
		move = geom.FromAngle(e.Rotation + math.Pi/2).Scale(e.Speed)
		if dist > cfg.CircleChaseDistance {
			move = move.Add(geom.FromAngle(e.Rotation).Scale(e.Speed * cfg.CircleChaseFactor))
		}
	case Retreat:
		if dist < cfg.RetreatDistance {
			move = geom.FromAngle(e.Rotation).Scale(-e.Speed)
		} else {
			move = geom.FromAngle(w.rng.Float64() * math.Pi * 2).Scale(e.Speed * cfg.DriftFactor)
		}
	}
	e.Pos = e.Pos.Add(move.Scale(frames)).ClampRect(w.cfg.World.Width, w.cfg.World.Height)

	e.ShootMs -= dt
	if e.ShootMs <= 0 && dist < cfg.FireRange {
		w.fireBullet(OwnerEnemy, e.Pos, e.Rotation, cfg.MuzzleOffset, w.cfg.Bullet.Radius, false)
		e.ShootMs = e.ShootRateMs
	}

	// Ramming is a one-shot attack: the enemy is spent even if the player
	// is invulnerable.
	if e.Overlaps(&p.Body) {
		w.damagePlayer(e.RamDamage)
		w.burst(e.Pos, 15, 5, 5, 10, colorPlayerHit)
		e.Health = 0
		e.Alive = false
		w.emit(EventExplosion, int(e.Radius), "")
	}
}

// TakeDamage reduces health and returns true if the enemy was destroyed.
// Score and the powerup drop happen exactly once.
func (e *Enemy) TakeDamage(w *World, n int) bool {
	if !e.Alive {
		return false
	}
	e.Health -= n
	if e.Health > 0 {
		return false
	}
	e.Health = 0
	e.Alive = false
	w.addScore(e.Score)
	w.burst(e.Pos, 20, 7, 5, 15, colorEnemyBlast)
	if w.rng.Chance(w.cfg.Powerup.DropChance) {
		kinds := w.cfg.Powerup.Kinds
		w.newPowerup(e.Pos, kinds[w.rng.Intn(len(kinds))])
	}
	w.emit(EventExplosion, int(e.Radius), "")
	return true
}
