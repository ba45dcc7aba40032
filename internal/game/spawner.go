package game

import (
	"math"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
)

// Spawner keeps the asteroid floor topped up and injects enemies and
// satellites on timers.
type Spawner struct {
	EnemyMs       float64 // time since the last enemy
	CollectibleMs float64 // time since the last satellite
}

// Update runs the spawn rules for one tick
func (s *Spawner) Update(w *World, dt float64) {
	s.EnemyMs += dt
	s.CollectibleMs += dt

	if s.EnemyMs > w.EnemyInterval() {
		w.spawnEnemy()
		s.EnemyMs = 0
	}
	if s.CollectibleMs > w.cfg.Collectible.SpawnIntervalMs {
		w.spawnCollectible()
		s.CollectibleMs = 0
	}
	if countAlive(w.asteroids) < w.AsteroidFloor() {
		w.spawnAsteroid()
	}
}

// EnemyInterval is the enemy spawn period at the current level.
func (w *World) EnemyInterval() float64 {
	return w.cfg.Enemy.BaseIntervalMs / float64(w.level)
}

// AsteroidFloor is the minimum live asteroid count at the current level.
func (w *World) AsteroidFloor() int {
	return w.cfg.Difficulty.AsteroidFloorBase + w.cfg.Difficulty.AsteroidPerLevel*w.level
}

// LargeEnemyChance is the probability a new enemy is large.
func (w *World) LargeEnemyChance() float64 {
	cfg := &w.cfg.Enemy
	return math.Min(cfg.LargeChance+cfg.LargeChancePerLevel*float64(w.level-1), cfg.LargeChanceMax)
}

// placement samples uniform points until one is at least minDist from the
// player. Without a player the first sample wins. After SpawnAttempts
// misses the farthest sample is used.
func (w *World) placement(minDist float64) geom.Vec {
	ww, wh := w.cfg.World.Width, w.cfg.World.Height
	sample := func() geom.Vec {
		return geom.V(w.rng.Float64()*ww, w.rng.Float64()*wh)
	}
	p := w.player
	if p == nil {
		return sample()
	}
	attempts := w.cfg.World.SpawnAttempts
	if attempts < 1 {
		attempts = 1
	}
	var best geom.Vec
	bestDist := -1.0
	for i := 0; i < attempts; i++ {
		c := sample()
		d := c.Dist(p.Pos)
		if d >= minDist {
			return c
		}
		if d > bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func (w *World) spawnAsteroid() *Asteroid {
	cfg := &w.cfg.Asteroid
	pos := w.placement(cfg.SpawnMinDistance)
	radius := cfg.MediumRadius
	if w.rng.Chance(cfg.LargeChance) {
		radius = cfg.LargeRadius
	}
	speed := cfg.SpeedMin + w.rng.Float64()*cfg.SpeedRange
	spin := w.rng.Centered(cfg.SpinRange)
	health := cfg.Health
	if radius > cfg.HealthThreshold {
		health = cfg.LargeHealth
	}
	return w.newAsteroid(pos, radius, speed, spin, health)
}

func (w *World) spawnEnemy() *Enemy {
	pos := w.placement(w.cfg.Enemy.SpawnMinDistance)
	class := config.EnemyNormal
	if w.rng.Chance(w.LargeEnemyChance()) {
		class = config.EnemyLarge
	}
	return w.newEnemy(pos, class)
}

func (w *World) spawnCollectible() *Collectible {
	pos := geom.V(w.rng.Float64()*w.cfg.World.Width, w.rng.Float64()*w.cfg.World.Height)
	return w.newCollectible(pos)
}
