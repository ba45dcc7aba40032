package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
	"github.com/Fresh4774/aquin-offline-arcade/internal/geom"
	"github.com/Fresh4774/aquin-offline-arcade/internal/protocol"
	"github.com/Fresh4774/aquin-offline-arcade/internal/rng"
)

const (
	TickRate       = 60 // physics ticks per second
	BroadcastRate  = 30 // snapshot broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate

	tickMs = 1000.0 / TickRate
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendRaw(data []byte)
	SendBinary(data []byte)
}

// Runner drives one World at a fixed tick rate and fans its snapshots and
// events out to the attached viewers and controller.
type Runner struct {
	mu         sync.Mutex
	world      *game.World
	input      *game.InputState
	viewers    map[Broadcaster]bool
	controller Broadcaster
	tick       uint64
	stop       chan struct{}
	lastActive time.Time
}

// NewRunner creates a Runner whose world is seeded with seed
func NewRunner(cfg config.Config, seed uint32) *Runner {
	in := &game.InputState{}
	r := &Runner{
		world:      game.NewWorld(cfg, rng.New(seed), in),
		input:      in,
		viewers:    make(map[Broadcaster]bool),
		stop:       make(chan struct{}),
		lastActive: time.Now(),
	}
	r.world.Subscribe(game.ListenerFunc(r.forward))
	return r
}

// Run starts the game loop
func (r *Runner) Run() {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.update()
		case <-r.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
}

// Subscribe adds a listener to the world. The listener runs on the tick
// goroutine with the runner locked.
func (r *Runner) Subscribe(l game.Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.world.Subscribe(l)
}

// Attach adds a viewer
func (r *Runner) Attach(b Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewers[b] = true
	r.lastActive = time.Now()
	if r.controller != nil {
		b.SendJSON(protocol.Envelope{T: protocol.MsgCtrlOn})
	}
}

// SetController makes b the session's controller, replacing any previous one
func (r *Runner) SetController(b Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.controller != nil && r.controller != b {
		r.controller.SendJSON(protocol.Envelope{T: protocol.MsgCtrlOff})
	}
	r.controller = b
	r.lastActive = time.Now()
	r.broadcastMsg(protocol.Envelope{T: protocol.MsgCtrlOn})
}

// Detach removes b whether it is a viewer or the controller. Held actions
// are released when the controller leaves.
func (r *Runner) Detach(b Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = time.Now()
	if r.controller == b {
		r.controller = nil
		r.input.Clear()
		r.broadcastMsg(protocol.Envelope{T: protocol.MsgCtrlOff})
		return
	}
	delete(r.viewers, b)
}

// SetInput replaces the held actions and the screen-space pointer
func (r *Runner) SetInput(px, py float64, bits uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.input.SetPointer(geom.V(px, py))
	r.input.SetBits(bits)
	r.lastActive = time.Now()
}

// RequestReset restarts the run at the next tick boundary
func (r *Runner) RequestReset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.world.RequestReset()
	r.lastActive = time.Now()
}

// SetViewport resizes the camera view
func (r *Runner) SetViewport(w, h float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.world.SetViewport(w, h)
}

// Status summarises the session for check and list replies
func (r *Runner) Status() protocol.SessionInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return protocol.SessionInfo{
		Viewers: len(r.viewers),
		Score:   r.world.Score(),
		Level:   r.world.Level(),
		Over:    r.world.Over(),
	}
}

// HasController reports whether a controller is attached
func (r *Runner) HasController() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.controller != nil
}

// Seconds returns the current run time in whole seconds
func (r *Runner) Seconds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world.Seconds()
}

// Seed returns the seed of the current run
func (r *Runner) Seed() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world.Seed()
}

// Idle reports whether nobody is attached and nothing happened for maxIdle
func (r *Runner) Idle(now time.Time, maxIdle time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers) == 0 && r.controller == nil && now.Sub(r.lastActive) > maxIdle
}

// update runs one game tick
func (r *Runner) update() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.world.Tick(tickMs)
	r.tick++

	if r.tick%BroadcastEvery == 0 && len(r.viewers) > 0 {
		r.broadcastState()
	}
}

// forward relays world events. Viewers get every event; the controller
// only gets HUD events.
func (r *Runner) forward(ev game.Event) {
	data, err := json.Marshal(protocol.Envelope{T: protocol.MsgEvent, Data: ev})
	if err != nil {
		log.Printf("runner: marshal event: %v", err)
		return
	}
	for v := range r.viewers {
		v.SendRaw(data)
	}
	if r.controller != nil && !ev.Cosmetic() {
		r.controller.SendRaw(data)
	}
}

// broadcastState sends the current snapshot to all viewers
func (r *Runner) broadcastState() {
	state := r.world.Snapshot()
	data, err := protocol.EncodeFrame(&state)
	if err != nil {
		log.Printf("runner: encode frame: %v", err)
		return
	}
	for v := range r.viewers {
		v.SendBinary(data)
	}
}

// broadcastMsg sends a message to all viewers
func (r *Runner) broadcastMsg(msg protocol.Envelope) {
	for v := range r.viewers {
		v.SendJSON(msg)
	}
}
