package game

import "github.com/Fresh4774/aquin-offline-arcade/internal/geom"

// resolve runs every cross-entity check once per tick, after all updates.
// Loops walk collections newest-first and the first match wins. Entities
// appended while a loop runs (split fragments, dropped powerups) are not
// visited by that loop.
func (w *World) resolve() {
	w.bulletHits()
	w.enemyFire()
	w.debrisHits()
	w.playerAsteroids()
	w.blastHits()
}

// bulletHits: player bullets against asteroids, then enemies. A bullet is
// destroyed by its first hit of any kind.
func (w *World) bulletHits() {
	for i := len(w.bullets) - 1; i >= 0; i-- {
		b := w.bullets[i]
		if !b.Alive || b.Owner != OwnerPlayer {
			continue
		}
		for j := len(w.asteroids) - 1; j >= 0; j-- {
			a := w.asteroids[j]
			if b.Overlaps(&a.Body) {
				a.TakeDamage(w, b.Damage)
				b.Alive = false
				break
			}
		}
		if !b.Alive {
			continue
		}
		for j := len(w.enemies) - 1; j >= 0; j-- {
			e := w.enemies[j]
			if b.Overlaps(&e.Body) {
				e.TakeDamage(w, b.Damage)
				b.Alive = false
				break
			}
		}
	}
}

// enemyFire: enemy bullets against the player, when the rule is enabled.
// A bullet that touches the player is spent even if no damage lands.
func (w *World) enemyFire() {
	p := w.player
	if !w.cfg.Rules.EnemyFireHitsPlayer || p == nil {
		return
	}
	for i := len(w.bullets) - 1; i >= 0; i-- {
		b := w.bullets[i]
		if b.Owner != OwnerEnemy || !b.Overlaps(&p.Body) {
			continue
		}
		b.Alive = false
		w.damagePlayer(b.Damage)
	}
}

// debrisHits: small asteroids act as projectiles against enemies.
func (w *World) debrisHits() {
	threshold := w.cfg.Asteroid.SplitThreshold
	for i := len(w.asteroids) - 1; i >= 0; i-- {
		a := w.asteroids[i]
		if !a.Alive || a.Large(threshold) {
			continue
		}
		for j := len(w.enemies) - 1; j >= 0; j-- {
			e := w.enemies[j]
			if a.Overlaps(&e.Body) {
				e.TakeDamage(w, 1)
				a.Alive = false
				w.burst(a.Pos, 10, 5, 3, 8, colorDebris)
				break
			}
		}
	}
}

// playerAsteroids: the player strikes every asteroid it touches. Damage
// respects invulnerability; the push and the hit on the asteroid do not.
func (w *World) playerAsteroids() {
	p := w.player
	if p == nil {
		return
	}
	cfg := &w.cfg.Asteroid
	for i := len(w.asteroids) - 1; i >= 0; i-- {
		a := w.asteroids[i]
		if !p.Overlaps(&a.Body) {
			continue
		}
		dmg := cfg.PlayerDamageSmall
		if a.Large(cfg.SplitThreshold) {
			dmg = cfg.PlayerDamageLarge
		}
		w.damagePlayer(dmg)
		w.burst(a.Pos, 10, 5, 3, 8, colorAsteroidHit)

		normal := p.Pos.Sub(a.Pos).Normalize()
		if normal == (geom.Vec{}) {
			normal = geom.V(1, 0)
		}
		p.Vel = p.Vel.Add(normal.Scale(cfg.PushImpulse))

		a.TakeDamage(w, 1)
	}
}

// blastHits: bomb blasts damage each asteroid and enemy inside them once.
func (w *World) blastHits() {
	for _, bl := range w.blasts {
		if !bl.Alive {
			continue
		}
		for i := len(w.asteroids) - 1; i >= 0; i-- {
			a := w.asteroids[i]
			if bl.Overlaps(&a.Body) && bl.strike(a.ID) {
				a.TakeDamage(w, bl.Damage)
			}
		}
		for i := len(w.enemies) - 1; i >= 0; i-- {
			e := w.enemies[i]
			if bl.Overlaps(&e.Body) && bl.strike(e.ID) {
				e.TakeDamage(w, bl.Damage)
			}
		}
	}
}
