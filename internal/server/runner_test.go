package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
	"github.com/Fresh4774/aquin-offline-arcade/internal/protocol"
)

// sink is a Broadcaster that keeps everything it is sent.
type sink struct {
	msgs   []protocol.Envelope
	events []game.Event
	frames [][]byte
}

func (r *sink) SendJSON(msg interface{}) {
	if env, ok := msg.(protocol.Envelope); ok {
		r.msgs = append(r.msgs, env)
	}
}

func (r *sink) SendRaw(data []byte) {
	var env struct {
		T string     `json:"t"`
		D game.Event `json:"d"`
	}
	if err := json.Unmarshal(data, &env); err == nil && env.T == protocol.MsgEvent {
		r.events = append(r.events, env.D)
	}
}

func (r *sink) SendBinary(data []byte) { r.frames = append(r.frames, data) }

func (r *sink) sawMsg(t string) bool {
	for _, m := range r.msgs {
		if m.T == t {
			return true
		}
	}
	return false
}

func (r *sink) sawEvent(k game.EventKind) bool {
	for _, ev := range r.events {
		if ev.Kind == k {
			return true
		}
	}
	return false
}

func TestRunnerBroadcastsEverySecondTick(t *testing.T) {
	r := NewRunner(config.Default(), 3)
	v := &sink{}
	r.Attach(v)
	for i := 0; i < 4; i++ {
		r.update()
	}
	if len(v.frames) != 2 {
		t.Fatalf("expected 2 frames at %d Hz, got %d", BroadcastRate, len(v.frames))
	}
	s, err := protocol.DecodeFrame(v.frames[0])
	if err != nil {
		t.Fatal(err)
	}
	if s.Tick != 2 || s.WorldW != 3000 {
		t.Errorf("unexpected frame header tick=%d ww=%v", s.Tick, s.WorldW)
	}
}

func TestRunnerNoFramesWithoutViewers(t *testing.T) {
	r := NewRunner(config.Default(), 3)
	ctl := &sink{}
	r.SetController(ctl)
	for i := 0; i < 4; i++ {
		r.update()
	}
	if len(ctl.frames) != 0 {
		t.Error("controllers should not receive frames")
	}
}

func TestRunnerForwardsEvents(t *testing.T) {
	r := NewRunner(config.Default(), 3)
	v, ctl := &sink{}, &sink{}
	r.Attach(v)
	r.SetController(ctl)

	r.SetInput(900, 360, 1<<uint(game.Fire))
	r.update()

	if !v.sawEvent(game.EventShot) {
		t.Error("viewer should hear the shot")
	}
	if ctl.sawEvent(game.EventShot) {
		t.Error("controller should not get cosmetic events")
	}

	r.RequestReset()
	r.update()
	if !v.sawEvent(game.EventReset) || !ctl.sawEvent(game.EventReset) {
		t.Error("both should see the reset")
	}
}

func TestRunnerControllerLifecycle(t *testing.T) {
	r := NewRunner(config.Default(), 3)
	v, ctl := &sink{}, &sink{}
	r.Attach(v)
	r.SetController(ctl)
	if !v.sawMsg(protocol.MsgCtrlOn) || !r.HasController() {
		t.Fatal("viewer should be told a controller attached")
	}

	late := &sink{}
	r.Attach(late)
	if !late.sawMsg(protocol.MsgCtrlOn) {
		t.Error("late viewer should learn about the controller")
	}

	r.SetInput(0, 0, 1<<uint(game.Forward))
	r.Detach(ctl)
	if !v.sawMsg(protocol.MsgCtrlOff) || r.HasController() {
		t.Error("viewer should be told the controller left")
	}
	if r.input.Down(game.Forward) {
		t.Error("held actions should be released with the controller")
	}

	second := &sink{}
	r.SetController(second)
	r.SetController(&sink{})
	if !second.sawMsg(protocol.MsgCtrlOff) {
		t.Error("replaced controller should be told")
	}
}

func TestRunnerIdle(t *testing.T) {
	r := NewRunner(config.Default(), 3)
	later := time.Now().Add(time.Hour)
	if !r.Idle(later, time.Minute) {
		t.Error("unattended runner should be idle")
	}
	v := &sink{}
	r.Attach(v)
	if r.Idle(later, time.Minute) {
		t.Error("runner with a viewer is not idle")
	}
	r.Detach(v)
	if r.Idle(time.Now(), time.Minute) {
		t.Error("recent activity should keep the runner alive")
	}
}

func TestSessionReap(t *testing.T) {
	sm := NewSessionManager(config.Default(), nil)
	defer sm.Close()
	idle := sm.CreateSession()
	busy := sm.CreateSession()
	busy.Runner.Attach(&sink{})

	if idle.Runner.Seed() == busy.Runner.Seed() {
		t.Error("sessions should get distinct seeds")
	}
	if n := sm.Reap(time.Now().Add(time.Hour), time.Minute); n != 1 {
		t.Errorf("expected 1 reaped session, got %d", n)
	}
	if sm.GetSession(idle.ID) != nil {
		t.Error("idle session should be gone")
	}
	if sm.GetSession(busy.ID) == nil {
		t.Error("attended session should survive")
	}
	if list := sm.ListSessions(); len(list) != 1 || list[0].ID != busy.ID || list[0].Viewers != 1 {
		t.Errorf("unexpected session list %+v", list)
	}
}
