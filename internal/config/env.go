package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every override variable name.
const EnvPrefix = "ARCADE_"

// Load returns Default() with overrides applied from an optional dotenv
// file and then from the process environment. A missing envFile is not an
// error; an empty envFile skips the file entirely.
func Load(envFile string) (Config, error) {
	cfg := Default()
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("load %s: %w", envFile, err)
			}
		} else {
			log.Printf("config: loaded %s", envFile)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields for every ARCADE_* variable that lookup returns
// a non-empty value for.
func (c *Config) ApplyEnv(lookup func(string) string) error {
	floats := map[string]*float64{
		"WORLD_WIDTH":          &c.World.Width,
		"WORLD_HEIGHT":         &c.World.Height,
		"MAX_DELTA_MS":         &c.World.MaxDeltaMs,
		"PLAYER_MAX_SPEED":     &c.Player.MaxSpeed,
		"PLAYER_ACCEL":         &c.Player.Accel,
		"PLAYER_FRICTION":      &c.Player.Friction,
		"SHOOT_COOLDOWN_MS":    &c.Player.ShootCooldownMs,
		"BULLET_SPEED":         &c.Bullet.Speed,
		"ENEMY_INTERVAL_MS":    &c.Enemy.BaseIntervalMs,
		"COLLECTIBLE_INTERVAL": &c.Collectible.SpawnIntervalMs,
		"POWERUP_DURATION_MS":  &c.Powerup.DurationMs,
		"POWERUP_DROP_CHANCE":  &c.Powerup.DropChance,
		"LEVEL_MS":             &c.Difficulty.LevelMs,
		"VIEW_WIDTH":           &c.Camera.ViewWidth,
		"VIEW_HEIGHT":          &c.Camera.ViewHeight,
	}
	ints := map[string]*int{
		"INITIAL_ASTEROIDS":    &c.World.InitialAsteroids,
		"INITIAL_COLLECTIBLES": &c.World.InitialCollectibles,
		"PLAYER_MAX_HEALTH":    &c.Player.MaxHealth,
		"ENEMY_BULLET_DAMAGE":  &c.Bullet.EnemyDamage,
		"BOMB_CHARGES":         &c.Powerup.BombCharges,
		"MAX_PARTICLES":        &c.World.MaxParticles,
	}

	for name, dst := range floats {
		v := lookup(EnvPrefix + name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, name, v, err)
		}
		*dst = f
	}
	for name, dst := range ints {
		v := lookup(EnvPrefix + name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, name, v, err)
		}
		*dst = n
	}
	if v := lookup(EnvPrefix + "SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: %sSEED=%q: %v", ErrInvalid, EnvPrefix, v, err)
		}
		c.World.Seed = uint32(n)
	}
	if v := lookup(EnvPrefix + "ENEMY_FIRE_HITS_PLAYER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sENEMY_FIRE_HITS_PLAYER=%q: %v", ErrInvalid, EnvPrefix, v, err)
		}
		c.Rules.EnemyFireHitsPlayer = b
	}
	return nil
}
