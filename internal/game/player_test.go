package game

import (
	"math"
	"testing"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
	"github.com/Fresh4774/aquin-offline-arcade/internal/rng"
)

func TestShootCooldown(t *testing.T) {
	w, _ := newQuietWorld()
	p := w.player

	if !p.Shoot(w) {
		t.Fatal("first shot should fire")
	}
	if len(w.bullets) != 1 {
		t.Fatalf("expected 1 bullet, got %d", len(w.bullets))
	}
	b := w.bullets[0]
	if b.Radius != 5 {
		t.Errorf("expected bullet radius 5, got %v", b.Radius)
	}
	if math.Abs(b.Vel.Len()-10) > 1e-9 {
		t.Errorf("expected bullet speed 10, got %v", b.Vel.Len())
	}
	if math.Abs(b.Pos.Dist(p.Pos)-30) > 1e-9 {
		t.Errorf("bullet should spawn 30 from the ship, got %v", b.Pos.Dist(p.Pos))
	}

	if p.Shoot(w) {
		t.Error("second shot inside the cooldown should not fire")
	}
	if len(w.bullets) != 1 {
		t.Errorf("expected still 1 bullet, got %d", len(w.bullets))
	}

	for i := 0; i < 19; i++ {
		w.Tick(frame)
	}
	if !p.Shoot(w) {
		t.Error("should fire again once 300ms have passed")
	}
}

func TestHeldFireRespectsCooldown(t *testing.T) {
	w, in := newQuietWorld()
	in.Set(Fire, true)
	for i := 0; i < 60; i++ {
		w.Tick(frame)
	}
	// 1s of held fire at 300ms: shots at 0, 300, 600, 900ms
	if n := len(w.bullets); n != 4 {
		t.Errorf("expected 4 bullets from one second of fire, got %d", n)
	}
}

func TestLaserSpread(t *testing.T) {
	w, _ := newQuietWorld()
	p := w.player
	p.Heading = 0
	w.applyPowerup(config.Laser)

	if !p.Shoot(w) {
		t.Fatal("laser should fire")
	}
	if len(w.bullets) != 3 {
		t.Fatalf("expected 3 bullets, got %d", len(w.bullets))
	}
	want := []float64{-0.2, 0, 0.2}
	for i, b := range w.bullets {
		if math.Abs(b.Vel.Angle()-want[i]) > 1e-9 {
			t.Errorf("bullet %d angle %v, want %v", i, b.Vel.Angle(), want[i])
		}
		if b.Radius != 10 || !b.Laser {
			t.Errorf("bullet %d should be a laser bolt", i)
		}
	}
	if p.ShootCooldownMs != 150 {
		t.Errorf("expected laser cooldown 150, got %v", p.ShootCooldownMs)
	}
}

func TestShieldOverridesPreviousPowerup(t *testing.T) {
	w, _ := newQuietWorld()
	p := w.player
	log := &eventLog{}
	w.Subscribe(log)

	w.applyPowerup(config.MultiClone)
	if len(w.clones) != 2 {
		t.Fatalf("expected 2 clones, got %d", len(w.clones))
	}

	w.applyPowerup(config.Shield)
	for _, c := range w.clones {
		if c.Alive {
			t.Error("clones should be removed when the powerup is replaced")
		}
	}
	if p.Powerup != config.Shield || p.PowerupMs != 15000 {
		t.Errorf("expected Shield for 15000ms, got %s/%v", p.Powerup, p.PowerupMs)
	}
	if !p.Invulnerable || p.InvulnerableMs != 15000 {
		t.Errorf("shield should make the player invulnerable for 15000ms, got %v/%v", p.Invulnerable, p.InvulnerableMs)
	}
	ev, ok := log.last(EventPowerup)
	if !ok || ev.Label != "Shield" || ev.Value != 15 {
		t.Errorf("expected powerup event Shield/15, got %+v", ev)
	}

	w.Tick(frame)
	if len(w.clones) != 0 {
		t.Errorf("removed clones should be purged, got %d", len(w.clones))
	}

	for i := 0; i < 905; i++ {
		w.Tick(frame)
	}
	if p.Powerup != "" {
		t.Errorf("powerup should expire, still %s", p.Powerup)
	}
	if p.Invulnerable {
		t.Error("invulnerability should end with the shield")
	}
	if ev, _ := log.last(EventPowerup); ev.Label != "" {
		t.Errorf("expected a cleared powerup event, got %+v", ev)
	}
}

func TestBombChargesClearedWithPowerup(t *testing.T) {
	w, _ := newQuietWorld()
	p := w.player
	w.applyPowerup(config.Bomb)
	w.applyPowerup(config.Laser)
	if p.BombCharges != 0 {
		t.Errorf("bomb charges should be discarded, got %d", p.BombCharges)
	}
}

func TestClonesFireWithPlayer(t *testing.T) {
	w, in := newQuietWorld()
	w.applyPowerup(config.MultiClone)
	in.Set(Fire, true)
	w.Tick(frame)

	if n := len(w.bullets); n != 3 {
		t.Fatalf("expected player + 2 clone bullets, got %d", n)
	}
	for _, c := range w.clones {
		if d := c.Pos.Dist(w.player.Pos); math.Abs(d-60) > 1e-6 {
			t.Errorf("clone should orbit at 60, got %v", d)
		}
	}
	for _, b := range w.bullets {
		if b.Owner != OwnerPlayer {
			t.Error("clone bullets are player-owned")
		}
	}
}

func TestCollectibleCollectedOnce(t *testing.T) {
	w, _ := newQuietWorld()
	p := w.player
	p.Health = 50
	c := w.newCollectible(p.Pos)

	c.Update(w, frame)
	c.Update(w, frame)

	if p.Health != 70 {
		t.Errorf("expected health 70, got %d", p.Health)
	}
	if w.Score() != 300 {
		t.Errorf("expected score 300, got %d", w.Score())
	}
	if c.Alive || !c.Collected {
		t.Error("collectible should be spent")
	}
}

func TestCollectibleHealCapped(t *testing.T) {
	w, _ := newQuietWorld()
	p := w.player
	p.Health = 95
	w.newCollectible(p.Pos)
	w.Tick(frame)
	if p.Health != 100 {
		t.Errorf("heal should cap at 100, got %d", p.Health)
	}
}

func TestCollectibleBlinks(t *testing.T) {
	w, _ := newQuietWorld()
	c := w.newCollectible(geom.V(100, 100))
	for i := 0; i < 31; i++ {
		w.Tick(frame)
	}
	if c.Visible {
		t.Error("satellite should be hidden after 500ms")
	}
}

func TestPowerupExpiresUnclaimed(t *testing.T) {
	w, _ := newQuietWorld()
	w.newPowerup(geom.V(100, 100), config.Laser)
	for i := 0; i < 610; i++ {
		w.Tick(frame)
	}
	if len(w.Powerups()) != 0 {
		t.Error("powerup should expire after 10s")
	}
	if w.player.Powerup != "" {
		t.Error("expired pickup should not apply")
	}
}

func TestPowerupPickup(t *testing.T) {
	w, _ := newQuietWorld()
	w.newPowerup(w.player.Pos, config.Laser)
	w.Tick(frame)
	if w.player.Powerup != config.Laser {
		t.Errorf("expected Laser, got %q", w.player.Powerup)
	}
	if len(w.Powerups()) != 0 {
		t.Error("pickup should be removed")
	}
}

func TestEnemyRamIsOneShot(t *testing.T) {
	w, _ := newQuietWorld()
	p := w.player
	e := w.newEnemy(p.Pos.Add(geom.V(5, 0)), config.EnemyLarge)
	e.Behavior = Chase

	w.Tick(frame)

	if p.Health != 80 {
		t.Errorf("large ram should deal 20, health=%d", p.Health)
	}
	if e.Alive {
		t.Error("ramming enemy should be destroyed")
	}
	if w.Score() != 0 {
		t.Errorf("rams award no score, got %d", w.Score())
	}
}

func TestEnemyRamWhileInvulnerable(t *testing.T) {
	w, _ := newQuietWorld()
	p := w.player
	w.applyPowerup(config.Shield)
	e := w.newEnemy(p.Pos, config.EnemyNormal)

	w.Tick(frame)

	if p.Health != 100 {
		t.Errorf("shielded player should take no ram damage, got %d", p.Health)
	}
	if e.Alive {
		t.Error("enemy is spent even against a shield")
	}
}

func TestEnemyChaseClosesDistance(t *testing.T) {
	w, _ := newQuietWorld()
	p := w.player
	e := w.newEnemy(p.Pos.Add(geom.V(800, 0)), config.EnemyNormal)
	e.Behavior = Chase
	e.DwellMs = 1e9
	e.Offset = geom.Vec{}

	start := e.Pos.Dist(p.Pos)
	for i := 0; i < 60; i++ {
		w.Tick(frame)
	}
	if d := e.Pos.Dist(p.Pos); d >= start-100 {
		t.Errorf("chasing enemy should close in: %v -> %v", start, d)
	}
}

func TestEnemyRetreatsWhenClose(t *testing.T) {
	w, _ := newQuietWorld()
	p := w.player
	e := w.newEnemy(p.Pos.Add(geom.V(150, 0)), config.EnemyNormal)
	e.Behavior = Retreat
	e.DwellMs = 1e9
	e.Offset = geom.Vec{}

	e.Update(w, frame)
	if e.Pos.X <= p.Pos.X+150 {
		t.Errorf("enemy inside 200 should back away, x=%v", e.Pos.X)
	}
}

func TestEnemyFiresInRange(t *testing.T) {
	w, _ := newQuietWorld()
	p := w.player
	near := w.newEnemy(p.Pos.Add(geom.V(400, 0)), config.EnemyNormal)
	far := w.newEnemy(p.Pos.Add(geom.V(0, 900)), config.EnemyNormal)
	near.Behavior, far.Behavior = Circle, Circle
	near.DwellMs, far.DwellMs = 1e9, 1e9

	near.Update(w, frame)
	far.Update(w, frame)

	if len(w.bullets) != 1 || w.bullets[0].Owner != OwnerEnemy {
		t.Fatalf("only the enemy in range should fire, bullets=%d", len(w.bullets))
	}
	if near.ShootMs != near.ShootRateMs {
		t.Errorf("shot should reset the cooldown, got %v", near.ShootMs)
	}
	if math.Abs(w.bullets[0].Vel.Len()-7) > 1e-9 {
		t.Errorf("enemy bullet speed should be 7, got %v", w.bullets[0].Vel.Len())
	}
}

func TestEnemyBehaviorReselects(t *testing.T) {
	w, _ := newQuietWorld()
	e := w.newEnemy(geom.V(100, 100), config.EnemyNormal)
	if e.DwellMs < 3000 || e.DwellMs >= 8000 {
		t.Errorf("dwell %v outside [3000, 8000)", e.DwellMs)
	}
	if math.Abs(e.Offset.X) > 50 || math.Abs(e.Offset.Y) > 50 {
		t.Errorf("targeting offset %+v outside ±50", e.Offset)
	}
	e.BehaviorMs = e.DwellMs
	e.Update(w, 0)
	if e.BehaviorMs != 0 {
		t.Error("behavior timer should restart after reselection")
	}
}

func TestSpawnPlacementKeepsDistance(t *testing.T) {
	w := NewWorld(config.Default(), rng.New(11), nil)
	for i := 0; i < 200; i++ {
		e := w.spawnEnemy()
		if d := e.Pos.Dist(w.player.Pos); d < 400 {
			t.Fatalf("enemy spawned %.1f from player, want >= 400", d)
		}
	}
}

func TestSpawnPlacementFallback(t *testing.T) {
	cfg := quietConfig()
	cfg.World.Width = 100
	cfg.World.Height = 100
	cfg.World.SpawnAttempts = 50
	w := NewWorld(cfg, rng.New(2), nil)

	pos := w.placement(10000)
	if pos.X < 0 || pos.X > 100 || pos.Y < 0 || pos.Y > 100 {
		t.Errorf("fallback placement left the world: %+v", pos)
	}

	w.player = nil
	pos = w.placement(10000)
	if pos.X < 0 || pos.X > 100 {
		t.Errorf("placement without a player should still sample the world: %+v", pos)
	}
}

func TestLargeEnemyChanceScales(t *testing.T) {
	w, _ := newQuietWorld()
	if c := w.LargeEnemyChance(); math.Abs(c-0.3) > 1e-9 {
		t.Errorf("level 1 chance should be 0.3, got %v", c)
	}
	w.level = 20
	if c := w.LargeEnemyChance(); c != 0.6 {
		t.Errorf("chance should cap at 0.6, got %v", c)
	}
	if w.AsteroidFloor() != w.cfg.Difficulty.AsteroidFloorBase+w.cfg.Difficulty.AsteroidPerLevel*20 {
		t.Error("asteroid floor should scale with level")
	}
}

func TestInputBitsRoundTrip(t *testing.T) {
	var in InputState
	in.Set(Forward, true)
	in.Set(Fire, true)
	bits := in.Bits()

	var out InputState
	out.SetBits(bits)
	if !out.Down(Forward) || !out.Down(Fire) || out.Down(Reverse) || out.Down(Special) {
		t.Errorf("bits %08b decoded wrong", bits)
	}
	if a, ok := ParseAction("special"); !ok || a != Special {
		t.Error("ParseAction should map special")
	}
}
