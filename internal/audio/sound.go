// Package audio turns world events into short generated sound effects.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// Sounds plays a cue for every event it is published. It is a game.Listener.
type Sounds struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// New creates a sound sink at the given master volume (0..1)
func New(volume float64) *Sounds {
	return &Sounds{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Init opens the speaker. Publish is a no-op until it succeeds.
func (s *Sounds) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Publish queues the cue for ev on the mixer
func (s *Sounds) Publish(ev game.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	cue := Cue(ev, sampleRate, s.volume)
	if cue == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(cue)
	speaker.Unlock()
}

// Close silences everything still playing
func (s *Sounds) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	s.initialized = false
}
