package game

import (
	"image/color"
	"math"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
)

// PlayerState is the render view of the player
type PlayerState struct {
	X            float64 `json:"x" msgpack:"x"`
	Y            float64 `json:"y" msgpack:"y"`
	R            float64 `json:"r" msgpack:"r"`
	Radius       float64 `json:"rad" msgpack:"rad"`
	Health       int     `json:"hp" msgpack:"hp"`
	Alive        bool    `json:"a" msgpack:"a"`
	Invulnerable bool    `json:"inv,omitempty" msgpack:"inv,omitempty"`
	Powerup      string  `json:"pw,omitempty" msgpack:"pw,omitempty"`
	BombCharges  int     `json:"bc,omitempty" msgpack:"bc,omitempty"`
}

// BulletState is the render view of a bullet
type BulletState struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Radius float64 `json:"rad" msgpack:"rad"`
	Enemy  bool    `json:"e,omitempty" msgpack:"e,omitempty"`
	Laser  bool    `json:"l,omitempty" msgpack:"l,omitempty"`
}

// AsteroidState is the render view of an asteroid
type AsteroidState struct {
	ID     uint64  `json:"id" msgpack:"id"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	R      float64 `json:"r" msgpack:"r"`
	Radius float64 `json:"rad" msgpack:"rad"`
	HP     float64 `json:"hp" msgpack:"hp"` // health fraction
	Large  bool    `json:"lg,omitempty" msgpack:"lg,omitempty"`
}

// EnemyState is the render view of an enemy
type EnemyState struct {
	ID     uint64  `json:"id" msgpack:"id"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	R      float64 `json:"r" msgpack:"r"`
	Radius float64 `json:"rad" msgpack:"rad"`
	HP     float64 `json:"hp" msgpack:"hp"`
	Large  bool    `json:"lg,omitempty" msgpack:"lg,omitempty"`
}

// CollectibleState is the render view of a satellite
type CollectibleState struct {
	X       float64 `json:"x" msgpack:"x"`
	Y       float64 `json:"y" msgpack:"y"`
	R       float64 `json:"r" msgpack:"r"`
	Radius  float64 `json:"rad" msgpack:"rad"`
	Visible bool    `json:"v" msgpack:"v"`
}

// PowerupState is the render view of a powerup pickup
type PowerupState struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	R      float64 `json:"r" msgpack:"r"`
	Radius float64 `json:"rad" msgpack:"rad"`
	Kind   string  `json:"k" msgpack:"k"`
	Pulse  float64 `json:"p" msgpack:"p"`
	Fading float64 `json:"f,omitempty" msgpack:"f,omitempty"` // 0..1 in the last 3s
}

// CloneState is the render view of an escort
type CloneState struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	R      float64 `json:"r" msgpack:"r"`
	Radius float64 `json:"rad" msgpack:"rad"`
}

// BlastState is the render view of a bomb blast
type BlastState struct {
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	Radius   float64 `json:"rad" msgpack:"rad"`
	Progress float64 `json:"p" msgpack:"p"`
}

// ParticleState is the render view of a particle. C is packed 0xRRGGBB.
type ParticleState struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Radius float64 `json:"rad" msgpack:"rad"`
	C      uint32  `json:"c" msgpack:"c"`
	Life   float64 `json:"life" msgpack:"life"`
}

// HUD is what the score/time/health widgets show.
type HUD struct {
	Score    int    `json:"score" msgpack:"score"`
	Seconds  int    `json:"sec" msgpack:"sec"`
	Health   int    `json:"hp" msgpack:"hp"` // percent
	Level    int    `json:"lvl" msgpack:"lvl"`
	Powerup  string `json:"pw,omitempty" msgpack:"pw,omitempty"`
	PowerupS int    `json:"pws,omitempty" msgpack:"pws,omitempty"`
	GameOver bool   `json:"over" msgpack:"over"`
}

// State is a value copy of the post-tick world for renderers.
type State struct {
	Tick         uint64             `json:"tick" msgpack:"tick"`
	WorldW       float64            `json:"ww" msgpack:"ww"`
	WorldH       float64            `json:"wh" msgpack:"wh"`
	ScrollX      float64            `json:"sx" msgpack:"sx"`
	ScrollY      float64            `json:"sy" msgpack:"sy"`
	Player       PlayerState        `json:"pl" msgpack:"pl"`
	Bullets      []BulletState      `json:"b" msgpack:"b"`
	Asteroids    []AsteroidState    `json:"a" msgpack:"a"`
	Enemies      []EnemyState       `json:"e" msgpack:"e"`
	Collectibles []CollectibleState `json:"c" msgpack:"c"`
	Powerups     []PowerupState     `json:"pu" msgpack:"pu"`
	Clones       []CloneState       `json:"cl" msgpack:"cl"`
	Blasts       []BlastState       `json:"bl" msgpack:"bl"`
	Particles    []ParticleState    `json:"pa" msgpack:"pa"`
	HUD          HUD                `json:"hud" msgpack:"hud"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func packRGB(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func fraction(n, max int) float64 {
	if max <= 0 {
		return 0
	}
	return round2(float64(n) / float64(max))
}

// ToState converts to render state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		X:            round1(p.Pos.X),
		Y:            round1(p.Pos.Y),
		R:            round2(p.Heading),
		Radius:       p.Radius,
		Health:       p.Health,
		Alive:        p.Alive,
		Invulnerable: p.Invulnerable,
		Powerup:      string(p.Powerup),
		BombCharges:  p.BombCharges,
	}
}

// ToState converts to render state
func (b *Bullet) ToState() BulletState {
	return BulletState{
		X:      round1(b.Pos.X),
		Y:      round1(b.Pos.Y),
		Radius: b.Radius,
		Enemy:  b.Owner == OwnerEnemy,
		Laser:  b.Laser,
	}
}

// ToState converts to render state
func (a *Asteroid) ToState(threshold float64) AsteroidState {
	return AsteroidState{
		ID:     a.ID,
		X:      round1(a.Pos.X),
		Y:      round1(a.Pos.Y),
		R:      round2(a.Rotation),
		Radius: a.Radius,
		HP:     fraction(a.Health, a.MaxHealth),
		Large:  a.Large(threshold),
	}
}

// ToState converts to render state
func (e *Enemy) ToState() EnemyState {
	return EnemyState{
		ID:     e.ID,
		X:      round1(e.Pos.X),
		Y:      round1(e.Pos.Y),
		R:      round2(e.Rotation),
		Radius: e.Radius,
		HP:     fraction(e.Health, e.MaxHealth),
		Large:  e.Class == config.EnemyLarge,
	}
}

// ToState converts to render state
func (c *Collectible) ToState() CollectibleState {
	return CollectibleState{
		X:       round1(c.Pos.X),
		Y:       round1(c.Pos.Y),
		R:       round2(c.Rotation),
		Radius:  c.Radius,
		Visible: c.Visible,
	}
}

// ToState converts to render state
func (pu *Powerup) ToState() PowerupState {
	s := PowerupState{
		X:      round1(pu.Pos.X),
		Y:      round1(pu.Pos.Y),
		R:      round2(pu.Rotation),
		Radius: pu.Radius,
		Kind:   string(pu.Kind),
		Pulse:  round1(pu.Pulse),
	}
	if pu.LifeMs < 3000 {
		s.Fading = round2(pu.LifeMs / 3000)
	}
	return s
}

// ToState converts to render state
func (c *Clone) ToState() CloneState {
	return CloneState{X: round1(c.Pos.X), Y: round1(c.Pos.Y), R: round2(c.Rotation), Radius: c.Radius}
}

// ToState converts to render state
func (b *Blast) ToState() BlastState {
	return BlastState{X: round1(b.Pos.X), Y: round1(b.Pos.Y), Radius: b.Radius, Progress: round2(b.Progress())}
}

// ToState converts to render state
func (p *Particle) ToState() ParticleState {
	return ParticleState{
		X:      round1(p.Pos.X),
		Y:      round1(p.Pos.Y),
		Radius: round1(p.Radius),
		C:      packRGB(p.Color),
		Life:   round2(p.Life),
	}
}

// HUD returns the current HUD values.
func (w *World) HUD() HUD {
	h := HUD{
		Score:    w.score,
		Seconds:  w.Seconds(),
		Health:   w.player.HealthPercent(w.cfg.Player.MaxHealth),
		Level:    w.level,
		GameOver: w.over,
	}
	if p := w.player; p.Powerup != "" {
		h.Powerup = string(p.Powerup)
		h.PowerupS = int(math.Ceil(p.PowerupMs / 1000))
	}
	return h
}

// Snapshot copies the post-tick state. Only alive entities are included.
func (w *World) Snapshot() State {
	s := State{
		Tick:         w.tick,
		WorldW:       w.cfg.World.Width,
		WorldH:       w.cfg.World.Height,
		ScrollX:      round1(w.camera.Scroll.X),
		ScrollY:      round1(w.camera.Scroll.Y),
		Player:       w.player.ToState(),
		Bullets:      make([]BulletState, 0, len(w.bullets)),
		Asteroids:    make([]AsteroidState, 0, len(w.asteroids)),
		Enemies:      make([]EnemyState, 0, len(w.enemies)),
		Collectibles: make([]CollectibleState, 0, len(w.collectibles)),
		Powerups:     make([]PowerupState, 0, len(w.powerups)),
		Clones:       make([]CloneState, 0, len(w.clones)),
		Blasts:       make([]BlastState, 0, len(w.blasts)),
		Particles:    make([]ParticleState, 0, len(w.particles)),
		HUD:          w.HUD(),
	}
	for _, b := range w.bullets {
		if b.Alive {
			s.Bullets = append(s.Bullets, b.ToState())
		}
	}
	for _, a := range w.asteroids {
		if a.Alive {
			s.Asteroids = append(s.Asteroids, a.ToState(w.cfg.Asteroid.SplitThreshold))
		}
	}
	for _, e := range w.enemies {
		if e.Alive {
			s.Enemies = append(s.Enemies, e.ToState())
		}
	}
	for _, c := range w.collectibles {
		if c.Alive {
			s.Collectibles = append(s.Collectibles, c.ToState())
		}
	}
	for _, pu := range w.powerups {
		if pu.Alive {
			s.Powerups = append(s.Powerups, pu.ToState())
		}
	}
	for _, c := range w.clones {
		if c.Alive {
			s.Clones = append(s.Clones, c.ToState())
		}
	}
	for _, b := range w.blasts {
		if b.Alive {
			s.Blasts = append(s.Blasts, b.ToState())
		}
	}
	for _, p := range w.particles {
		if p.Alive {
			s.Particles = append(s.Particles, p.ToState())
		}
	}
	return s
}
