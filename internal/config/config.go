// Package config is the tuning table for a play session. Values are fixed
// for the lifetime of a World; frontends may load overrides before the
// World is built.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// EnemyClass identifies the class of enemy ship
type EnemyClass int

const (
	EnemyNormal EnemyClass = 0
	EnemyLarge  EnemyClass = 1
)

func (c EnemyClass) String() string {
	if c == EnemyLarge {
		return "large"
	}
	return "normal"
}

// EnemyClassDef holds the stats for an enemy class
type EnemyClassDef struct {
	Radius      float64
	Health      int
	Speed       float64 // units per nominal frame
	ShootRateMs float64
	RamDamage   int
	Score       int
}

// PowerupKind names a timed player modifier.
type PowerupKind string

const (
	Laser      PowerupKind = "Laser"
	Shield     PowerupKind = "Shield"
	Bomb       PowerupKind = "Bomb"
	MultiClone PowerupKind = "MultiClone"
)

// WorldConfig holds the arena and timing settings.
type WorldConfig struct {
	Width               float64
	Height              float64
	FrameMs             float64 // nominal frame the per-frame rates are tuned for
	MaxDeltaMs          float64
	Seed                uint32
	InitialAsteroids    int
	InitialCollectibles int
	SpawnAttempts       int
	MaxParticles        int
}

type PlayerConfig struct {
	Radius          float64
	Accel           float64
	ReverseFactor   float64
	StrafeFactor    float64
	MaxSpeed        float64
	Friction        float64
	MaxHealth       int
	InvulnerableMs  float64
	ShootCooldownMs float64
	LaserCooldownMs float64
	LaserSpread     float64
	MuzzleOffset    float64
}

type BulletConfig struct {
	Radius      float64
	LaserRadius float64
	Speed       float64
	EnemySpeed  float64
	LifespanMs  float64
	Damage      int
	EnemyDamage int
}

type AsteroidConfig struct {
	LargeRadius       float64
	MediumRadius      float64
	LargeChance       float64
	SmallRadius       float64
	SplitThreshold    float64 // radius above which an asteroid counts as large
	SpawnMinDistance  float64
	SpeedMin          float64
	SpeedRange        float64
	SmallSpeed        float64
	SpinRange         float64
	SmallSpinRange    float64
	SplitCount        int
	SplitJitter       float64
	ScoreLarge        int
	ScoreSmall        int
	PlayerDamageLarge int
	PlayerDamageSmall int
	PushImpulse       float64
	Health            int     // spawned asteroids at or below HealthThreshold
	LargeHealth       int     // spawned asteroids above HealthThreshold
	HealthThreshold   float64 // radius
	SmallHealth       int     // split fragments
}

type EnemyConfig struct {
	Classes             [2]EnemyClassDef
	SpawnMinDistance    float64
	BaseIntervalMs      float64
	LargeChance         float64
	LargeChancePerLevel float64
	LargeChanceMax      float64
	DwellMinMs          float64
	DwellRangeMs        float64
	TargetJitter        float64
	CircleChaseDistance float64
	CircleChaseFactor   float64 // share of speed spent closing in while circling far away
	RetreatDistance     float64
	DriftFactor         float64 // share of speed for the random drift outside RetreatDistance
	FireRange           float64
	MuzzleOffset        float64
}

type CollectibleConfig struct {
	Radius          float64
	Heal            int
	Score           int
	BlinkMs         float64
	SpinRange       float64
	SpawnIntervalMs float64
}

type PowerupConfig struct {
	Kinds       []PowerupKind
	Radius      float64
	LifespanMs  float64
	DurationMs  float64
	DropChance  float64
	Spin        float64
	BombCharges int
	BombRadius  float64
	BombDamage  int
	BlastMs     float64
	CloneCount  int
	CloneOrbit  float64
	CloneSpin   float64 // radians per nominal frame
	CloneScale  float64 // clone radius relative to the player
}

type ParticleConfig struct {
	Decay     float64
	FadeMin   float64
	FadeRange float64
}

type DifficultyConfig struct {
	LevelMs           float64
	AsteroidFloorBase int
	AsteroidPerLevel  int
}

type CameraConfig struct {
	ViewWidth   float64
	ViewHeight  float64
	Follow      float64
	PointerLead float64
}

// RulesConfig selects between the rule variants of the game.
type RulesConfig struct {
	EnemyFireHitsPlayer bool
}

// Config is the full tuning table.
type Config struct {
	World       WorldConfig
	Player      PlayerConfig
	Bullet      BulletConfig
	Asteroid    AsteroidConfig
	Enemy       EnemyConfig
	Collectible CollectibleConfig
	Powerup     PowerupConfig
	Particle    ParticleConfig
	Difficulty  DifficultyConfig
	Camera      CameraConfig
	Rules       RulesConfig
}

// Default returns the stock arcade tuning.
func Default() Config {
	return Config{
		World: WorldConfig{
			Width:               3000,
			Height:              3000,
			FrameMs:             1000.0 / 60.0,
			MaxDeltaMs:          100,
			Seed:                1,
			InitialAsteroids:    10,
			InitialCollectibles: 3,
			SpawnAttempts:       1000,
			MaxParticles:        2000,
		},
		Player: PlayerConfig{
			Radius:          20,
			Accel:           0.5,
			ReverseFactor:   0.5,
			StrafeFactor:    0.7,
			MaxSpeed:        5,
			Friction:        0.98,
			MaxHealth:       100,
			InvulnerableMs:  1000,
			ShootCooldownMs: 300,
			LaserCooldownMs: 150,
			LaserSpread:     0.2,
			MuzzleOffset:    30,
		},
		Bullet: BulletConfig{
			Radius:      5,
			LaserRadius: 10,
			Speed:       10,
			EnemySpeed:  7,
			LifespanMs:  2000,
			Damage:      1,
			EnemyDamage: 10,
		},
		Asteroid: AsteroidConfig{
			LargeRadius:       40,
			MediumRadius:      30,
			LargeChance:       0.7,
			SmallRadius:       15,
			SplitThreshold:    25,
			SpawnMinDistance:  300,
			SpeedMin:          0.5,
			SpeedRange:        0.5,
			SmallSpeed:        3,
			SpinRange:         0.02,
			SmallSpinRange:    0.05,
			SplitCount:        3,
			SplitJitter:       20,
			ScoreLarge:        100,
			ScoreSmall:        50,
			PlayerDamageLarge: 15,
			PlayerDamageSmall: 5,
			PushImpulse:       5,
			Health:            2,
			LargeHealth:       3,
			HealthThreshold:   35,
			SmallHealth:       1,
		},
		Enemy: EnemyConfig{
			Classes: [2]EnemyClassDef{
				EnemyNormal: {Radius: 20, Health: 3, Speed: 2.5, ShootRateMs: 3000, RamDamage: 10, Score: 100},
				EnemyLarge:  {Radius: 30, Health: 5, Speed: 1.5, ShootRateMs: 2000, RamDamage: 20, Score: 200},
			},
			SpawnMinDistance:    400,
			BaseIntervalMs:      5000,
			LargeChance:         0.3,
			LargeChancePerLevel: 0.05,
			LargeChanceMax:      0.6,
			DwellMinMs:          3000,
			DwellRangeMs:        5000,
			TargetJitter:        100,
			CircleChaseDistance: 300,
			CircleChaseFactor:   0.5,
			RetreatDistance:     200,
			DriftFactor:         0.5,
			FireRange:           500,
			MuzzleOffset:        30,
		},
		Collectible: CollectibleConfig{
			Radius:          15,
			Heal:            20,
			Score:           300,
			BlinkMs:         500,
			SpinRange:       0.02,
			SpawnIntervalMs: 15000,
		},
		Powerup: PowerupConfig{
			Kinds:       []PowerupKind{Laser, Shield, Bomb, MultiClone},
			Radius:      15,
			LifespanMs:  10000,
			DurationMs:  15000,
			DropChance:  0.3,
			Spin:        0.03,
			BombCharges: 3,
			BombRadius:  400,
			BombDamage:  3,
			BlastMs:     400,
			CloneCount:  2,
			CloneOrbit:  60,
			CloneSpin:   0.05,
			CloneScale:  0.75,
		},
		Particle: ParticleConfig{
			Decay:     0.96,
			FadeMin:   0.02,
			FadeRange: 0.05,
		},
		Difficulty: DifficultyConfig{
			LevelMs:           30000,
			AsteroidFloorBase: 10,
			AsteroidPerLevel:  2,
		},
		Camera: CameraConfig{
			ViewWidth:   1280,
			ViewHeight:  720,
			Follow:      0.1,
			PointerLead: 0.1,
		},
		Rules: RulesConfig{
			EnemyFireHitsPlayer: true,
		},
	}
}

// Class returns the definition for an enemy class
func (c *EnemyConfig) Class(class EnemyClass) EnemyClassDef {
	if class < 0 || int(class) >= len(c.Classes) {
		return c.Classes[EnemyNormal]
	}
	return c.Classes[class]
}

// Validate checks the invariants the simulation relies on.
func (c *Config) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world size %.0fx%.0f", ErrInvalid, c.World.Width, c.World.Height)
	case c.World.FrameMs <= 0:
		return fmt.Errorf("%w: frame duration must be positive", ErrInvalid)
	case c.World.MaxDeltaMs <= 0:
		return fmt.Errorf("%w: max delta must be positive", ErrInvalid)
	case c.Player.Radius <= 0 || c.Bullet.Radius <= 0 || c.Bullet.LaserRadius <= 0:
		return fmt.Errorf("%w: player and bullet radii must be positive", ErrInvalid)
	case c.Asteroid.LargeRadius <= 0 || c.Asteroid.MediumRadius <= 0 || c.Asteroid.SmallRadius <= 0:
		return fmt.Errorf("%w: asteroid radii must be positive", ErrInvalid)
	case c.Asteroid.Health <= 0 || c.Asteroid.LargeHealth <= 0 || c.Asteroid.SmallHealth <= 0:
		return fmt.Errorf("%w: asteroid health must be positive", ErrInvalid)
	case c.Asteroid.SmallRadius > c.Asteroid.SplitThreshold:
		return fmt.Errorf("%w: small asteroid radius %.0f above split threshold %.0f",
			ErrInvalid, c.Asteroid.SmallRadius, c.Asteroid.SplitThreshold)
	case c.Collectible.Radius <= 0 || c.Powerup.Radius <= 0:
		return fmt.Errorf("%w: pickup radii must be positive", ErrInvalid)
	case c.Player.MaxHealth <= 0:
		return fmt.Errorf("%w: player max health must be positive", ErrInvalid)
	case c.Difficulty.LevelMs <= 0:
		return fmt.Errorf("%w: difficulty level duration must be positive", ErrInvalid)
	case len(c.Powerup.Kinds) == 0:
		return fmt.Errorf("%w: no powerup kinds", ErrInvalid)
	}
	for i, def := range c.Enemy.Classes {
		if def.Radius <= 0 || def.Health <= 0 {
			return fmt.Errorf("%w: enemy class %s needs positive radius and health", ErrInvalid, EnemyClass(i))
		}
	}
	return nil
}
