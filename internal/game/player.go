package game

import (
	"math"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
)

// Player is the controlled ship.
type Player struct {
	Body
	Vel     geom.Vec
	Heading float64 // tracks the pointer, not the movement vector
	Health  int

	ShootCooldownMs float64
	Invulnerable    bool
	InvulnerableMs  float64

	Powerup     config.PowerupKind // "" when none
	PowerupMs   float64
	BombCharges int

	// FiredThisTick is set by Shoot so escorts can fire in step.
	FiredThisTick bool

	specialHeld   bool
	powerupSecond int
}

func newPlayer(w *World, pos geom.Vec) *Player {
	return &Player{
		Body:   Body{ID: w.nextEntityID(), Pos: pos, Radius: w.cfg.Player.Radius, Alive: true},
		Health: w.cfg.Player.MaxHealth,
	}
}

// HealthPercent is health as 0..100 of max health.
func (p *Player) HealthPercent(maxHealth int) int {
	if maxHealth <= 0 {
		return 0
	}
	return p.Health * 100 / maxHealth
}

// Update moves the player one tick (dt in ms)
func (p *Player) Update(w *World, dt float64) {
	if !p.Alive {
		return
	}
	cfg := &w.cfg.Player
	frames := w.frames(dt)
	p.FiredThisTick = false

	// Aim at the pointer
	screen := w.camera.WorldToScreen(p.Pos)
	p.Heading = w.input.Pointer().Sub(screen).Angle()

	// Thrust
	var thrust geom.Vec
	if w.input.Down(Forward) {
		thrust = thrust.Add(geom.FromAngle(p.Heading).Scale(cfg.Accel))
	}
	if w.input.Down(Reverse) {
		thrust = thrust.Sub(geom.FromAngle(p.Heading).Scale(cfg.Accel * cfg.ReverseFactor))
	}
	if w.input.Down(StrafeLeft) {
		thrust = thrust.Add(geom.FromAngle(p.Heading - math.Pi/2).Scale(cfg.Accel * cfg.StrafeFactor))
	}
	if w.input.Down(StrafeRight) {
		thrust = thrust.Add(geom.FromAngle(p.Heading + math.Pi/2).Scale(cfg.Accel * cfg.StrafeFactor))
	}
	p.Vel = p.Vel.Add(thrust.Scale(frames))

	// Limit speed, then friction
	p.Vel = p.Vel.ClampLen(cfg.MaxSpeed)
	p.Vel = p.Vel.Scale(math.Pow(cfg.Friction, frames))

	p.Pos = p.Pos.Add(p.Vel.Scale(frames)).ClampRect(w.cfg.World.Width, w.cfg.World.Height)

	// Timers
	if p.ShootCooldownMs > 0 {
		p.ShootCooldownMs -= dt
	}
	if p.Invulnerable {
		p.InvulnerableMs -= dt
		if p.InvulnerableMs <= 0 {
			p.Invulnerable = false
			p.InvulnerableMs = 0
		}
	}
	if p.Powerup != "" {
		p.PowerupMs -= dt
		if p.PowerupMs <= 0 {
			w.clearPowerup()
		} else if s := int(math.Ceil(p.PowerupMs / 1000)); s != p.powerupSecond {
			p.powerupSecond = s
			w.emit(EventPowerup, s, string(p.Powerup))
		}
	}

	if w.input.Down(Fire) {
		p.Shoot(w)
	}

	special := w.input.Down(Special)
	if special && !p.specialHeld {
		p.detonate(w)
	}
	p.specialHeld = special
}

// Shoot fires when the cooldown has elapsed. Returns true if bullets spawned.
func (p *Player) Shoot(w *World) bool {
	if !p.Alive || p.ShootCooldownMs > 0 {
		return false
	}
	cfg := &w.cfg.Player
	if p.Powerup == config.Laser {
		for _, off := range [...]float64{-cfg.LaserSpread, 0, cfg.LaserSpread} {
			w.fireBullet(OwnerPlayer, p.Pos, p.Heading+off, cfg.MuzzleOffset, w.cfg.Bullet.LaserRadius, true)
		}
		p.ShootCooldownMs = cfg.LaserCooldownMs
	} else {
		w.fireBullet(OwnerPlayer, p.Pos, p.Heading, cfg.MuzzleOffset, w.cfg.Bullet.Radius, false)
		p.ShootCooldownMs = cfg.ShootCooldownMs
	}
	p.FiredThisTick = true
	w.emit(EventShot, 0, "")
	return true
}

// detonate spends a bomb charge.
func (p *Player) detonate(w *World) {
	if p.Powerup != config.Bomb || p.BombCharges <= 0 {
		return
	}
	p.BombCharges--
	w.spawnBlast(p.Pos)
}

// damagePlayer is the only path that lowers player health. Returns true if
// the damage landed.
func (w *World) damagePlayer(amount int) bool {
	p := w.player
	if p == nil || !p.Alive || p.Invulnerable {
		return false
	}
	p.Health -= amount
	w.burst(p.Pos, 10, 5, 5, 5, colorPlayerHit)
	if p.Health <= 0 {
		p.Health = 0
	}
	w.emit(EventHealth, p.HealthPercent(w.cfg.Player.MaxHealth), "")
	w.emit(EventHit, amount, "")
	if p.Health == 0 {
		p.Alive = false
		w.gameOver()
		return true
	}
	p.Invulnerable = true
	p.InvulnerableMs = w.cfg.Player.InvulnerableMs
	return true
}

// heal raises health, capped at max.
func (w *World) heal(amount int) {
	p := w.player
	p.Health += amount
	if p.Health > w.cfg.Player.MaxHealth {
		p.Health = w.cfg.Player.MaxHealth
	}
	w.emit(EventHealth, p.HealthPercent(w.cfg.Player.MaxHealth), "")
}

// applyPowerup replaces any active powerup with kind.
func (w *World) applyPowerup(kind config.PowerupKind) {
	p := w.player
	if p == nil || !p.Alive {
		return
	}
	w.clearPowerup()
	cfg := &w.cfg.Powerup
	p.Powerup = kind
	p.PowerupMs = cfg.DurationMs
	switch kind {
	case config.Shield:
		p.Invulnerable = true
		p.InvulnerableMs = cfg.DurationMs
	case config.Bomb:
		p.BombCharges = cfg.BombCharges
	case config.MultiClone:
		for i := 0; i < cfg.CloneCount; i++ {
			w.spawnClone(2 * math.Pi * float64(i) / float64(cfg.CloneCount))
		}
	}
	p.powerupSecond = int(math.Ceil(p.PowerupMs / 1000))
	w.emit(EventPowerup, p.powerupSecond, string(kind))
}

// clearPowerup ends the active powerup and undoes its side effects.
func (w *World) clearPowerup() {
	p := w.player
	if p == nil || p.Powerup == "" {
		return
	}
	switch p.Powerup {
	case config.Shield:
		p.Invulnerable = false
		p.InvulnerableMs = 0
	case config.Bomb:
		p.BombCharges = 0
	case config.MultiClone:
		for _, c := range w.clones {
			c.Alive = false
		}
	}
	p.Powerup = ""
	p.PowerupMs = 0
	p.powerupSecond = 0
	w.emit(EventPowerup, 0, "")
}
