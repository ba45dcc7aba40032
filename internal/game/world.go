package game

import (
	"math"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
	"github.com/Fresh4774/aquin-offline-arcade/internal/rng"
)

// World owns every entity collection and runs the per-tick pipeline. It is
// single-threaded: callers serialise Tick, input writes and Snapshot.
type World struct {
	cfg   config.Config
	rng   *rng.Source
	input Input

	player       *Player
	bullets      []*Bullet
	asteroids    []*Asteroid
	enemies      []*Enemy
	collectibles []*Collectible
	powerups     []*Powerup
	clones       []*Clone
	blasts       []*Blast
	particles    []*Particle

	listeners []Listener
	spawner   Spawner
	camera    Camera
	clock     Clock

	tick         uint64
	elapsed      float64 // ms of run time
	lastSecond   int
	score        int
	level        int
	over         bool
	resetPending bool
	nextID       uint64

	baseSeed uint32
	run      uint32
}

// NewWorld builds a World and starts the first run. cfg is copied and
// fixed for the lifetime of the World. A nil src seeds from cfg.World.Seed;
// a nil in reads as no input.
func NewWorld(cfg config.Config, src *rng.Source, in Input) *World {
	if src == nil {
		src = rng.New(cfg.World.Seed)
	}
	if in == nil {
		in = &InputState{}
	}
	cfg.Powerup.Kinds = append([]config.PowerupKind(nil), cfg.Powerup.Kinds...)
	w := &World{
		cfg:      cfg,
		rng:      src,
		input:    in,
		baseSeed: src.Seed(),
	}
	w.clock.MaxDeltaMs = cfg.World.MaxDeltaMs
	w.camera.View = geom.V(cfg.Camera.ViewWidth, cfg.Camera.ViewHeight)
	w.reset()
	return w
}

func (w *World) nextEntityID() uint64 {
	w.nextID++
	return w.nextID
}

// frames converts a delta in ms into nominal frames.
func (w *World) frames(dt float64) float64 {
	return dt / w.cfg.World.FrameMs
}

// RequestReset schedules a full reset at the start of the next tick.
func (w *World) RequestReset() {
	w.resetPending = true
}

// reset clears every collection and starts a new run. Each run reseeds the
// random source with baseSeed+run so runs are reproducible.
func (w *World) reset() {
	w.resetPending = false
	w.rng.SetSeed(w.baseSeed + w.run)
	w.run++

	w.nextID = 0
	w.bullets = nil
	w.asteroids = nil
	w.enemies = nil
	w.collectibles = nil
	w.powerups = nil
	w.clones = nil
	w.blasts = nil
	w.particles = nil
	w.spawner = Spawner{}
	w.elapsed = 0
	w.lastSecond = 0
	w.score = 0
	w.level = 1
	w.over = false

	center := geom.V(w.cfg.World.Width/2, w.cfg.World.Height/2)
	w.player = newPlayer(w, center)
	for i := 0; i < w.cfg.World.InitialAsteroids; i++ {
		w.spawnAsteroid()
	}
	for i := 0; i < w.cfg.World.InitialCollectibles; i++ {
		w.spawnCollectible()
	}
	w.camera.Snap(w.player.Pos, w.camera.View.Scale(0.5), w.cfg.Camera.PointerLead, w.cfg.World.Width, w.cfg.World.Height)

	w.emit(EventReset, 0, "")
	w.emit(EventScore, 0, "")
	w.emit(EventTime, 0, "")
	w.emit(EventHealth, 100, "")
	w.emit(EventPowerup, 0, "")
}

// Frame advances the World using a wall-clock timestamp in ms.
func (w *World) Frame(nowMs float64) {
	w.Tick(w.clock.Delta(nowMs))
}

// Tick runs one simulation step of dt ms: spawn, update, resolve, purge,
// difficulty, camera. Once the run is over only the camera moves.
func (w *World) Tick(dt float64) {
	if w.resetPending {
		w.reset()
	}
	dt = geom.Clamp(dt, 0, w.cfg.World.MaxDeltaMs)
	w.tick++

	if !w.over {
		w.advance(dt)
	}
	w.updateCamera(dt)
}

func (w *World) advance(dt float64) {
	w.elapsed += dt
	if s := int(w.elapsed / 1000); s > w.lastSecond {
		w.lastSecond = s
		w.emit(EventTime, s, "")
	}

	w.spawner.Update(w, dt)

	w.player.Update(w, dt)
	for i, n := 0, len(w.clones); i < n; i++ {
		w.clones[i].Update(w, dt)
	}
	for i, n := 0, len(w.bullets); i < n; i++ {
		w.bullets[i].Update(w, dt)
	}
	for i, n := 0, len(w.asteroids); i < n; i++ {
		w.asteroids[i].Update(w, dt)
	}
	for i, n := 0, len(w.enemies); i < n; i++ {
		w.enemies[i].Update(w, dt)
	}
	for i, n := 0, len(w.collectibles); i < n; i++ {
		w.collectibles[i].Update(w, dt)
	}
	for i, n := 0, len(w.powerups); i < n; i++ {
		w.powerups[i].Update(w, dt)
	}
	for i, n := 0, len(w.blasts); i < n; i++ {
		w.blasts[i].Update(w, dt)
	}
	for i, n := 0, len(w.particles); i < n; i++ {
		w.particles[i].Update(w, dt)
	}

	w.resolve()
	w.purge()
	w.updateDifficulty()
}

// purge drops every not-alive entity, keeping order.
func (w *World) purge() {
	w.bullets = purge(w.bullets)
	w.asteroids = purge(w.asteroids)
	w.enemies = purge(w.enemies)
	w.collectibles = purge(w.collectibles)
	w.powerups = purge(w.powerups)
	w.clones = purge(w.clones)
	w.blasts = purge(w.blasts)
	w.particles = purge(w.particles)
}

func (w *World) updateCamera(dt float64) {
	cfg := &w.cfg.Camera
	w.camera.Follow(w.player.Pos, w.input.Pointer(), cfg.Follow, cfg.PointerLead, w.frames(dt),
		w.cfg.World.Width, w.cfg.World.Height)
}

func (w *World) addScore(n int) {
	if n <= 0 {
		return
	}
	w.score += n
	w.emit(EventScore, w.score, "")
}

func (w *World) gameOver() {
	if w.over {
		return
	}
	w.over = true
	w.emit(EventGameOver, w.score, "")
}

// SetViewport resizes the camera view in world units.
func (w *World) SetViewport(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	w.camera.View = geom.V(width, height)
	w.camera.clamp(w.cfg.World.Width, w.cfg.World.Height)
}

func (w *World) Config() *config.Config { return &w.cfg }
func (w *World) Player() *Player        { return w.player }
func (w *World) Camera() Camera         { return w.camera }
func (w *World) Score() int             { return w.score }
func (w *World) Level() int             { return w.level }
func (w *World) Over() bool             { return w.over }

// ElapsedMs is the run time so far.
func (w *World) ElapsedMs() float64 { return w.elapsed }

// Seconds is the whole seconds shown on the HUD.
func (w *World) Seconds() int { return int(math.Floor(w.elapsed / 1000)) }

// Seed is the random seed of the current run.
func (w *World) Seed() uint32 { return w.baseSeed + w.run - 1 }

func (w *World) Bullets() []*Bullet           { return w.bullets }
func (w *World) Asteroids() []*Asteroid       { return w.asteroids }
func (w *World) Enemies() []*Enemy            { return w.enemies }
func (w *World) Collectibles() []*Collectible { return w.collectibles }
func (w *World) Powerups() []*Powerup         { return w.powerups }
func (w *World) Clones() []*Clone             { return w.clones }
func (w *World) Blasts() []*Blast             { return w.blasts }
func (w *World) Particles() []*Particle       { return w.particles }
