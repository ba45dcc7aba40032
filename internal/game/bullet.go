package game

import "github.com/Fresh4774/aquin-offline-arcade/internal/geom"

// Owner decides what a bullet can damage.
type Owner uint8

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
)

func (o Owner) String() string {
	if o == OwnerEnemy {
		return "enemy"
	}
	return "player"
}

// Bullet is a projectile fired by the player, a clone or an enemy.
type Bullet struct {
	Body
	Vel    geom.Vec // units per nominal frame
	LifeMs float64
	Owner  Owner
	Damage int
	Laser  bool
}

// fireBullet spawns a bullet offset from origin along angle.
func (w *World) fireBullet(owner Owner, origin geom.Vec, angle, offset, radius float64, laser bool) *Bullet {
	dir := geom.FromAngle(angle)
	speed := w.cfg.Bullet.Speed
	damage := w.cfg.Bullet.Damage
	if owner == OwnerEnemy {
		speed = w.cfg.Bullet.EnemySpeed
		damage = w.cfg.Bullet.EnemyDamage
	}
	b := &Bullet{
		Body:   Body{ID: w.nextEntityID(), Pos: origin.Add(dir.Scale(offset)), Radius: radius, Alive: true},
		Vel:    dir.Scale(speed),
		LifeMs: w.cfg.Bullet.LifespanMs,
		Owner:  owner,
		Damage: damage,
		Laser:  laser,
	}
	w.bullets = append(w.bullets, b)
	return b
}

// Update moves the bullet one tick
func (b *Bullet) Update(w *World, dt float64) {
	if !b.Alive {
		return
	}
	b.Pos = b.Pos.Add(b.Vel.Scale(w.frames(dt)))
	b.LifeMs -= dt
	if b.LifeMs <= 0 {
		b.Alive = false
		return
	}
	if b.Pos.X < 0 || b.Pos.X > w.cfg.World.Width || b.Pos.Y < 0 || b.Pos.Y > w.cfg.World.Height {
		b.Alive = false
	}
}
