package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
)

// drain streams s to the end and returns the sample count and peak level.
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, v := range buf[:n] {
			peak = math.Max(peak, math.Max(math.Abs(v[0]), math.Abs(v[1])))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("stream never ended")
	return 0, 0
}

func TestOscillatorLength(t *testing.T) {
	for _, w := range []Wave{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		osc := NewOscillator(440, 0, 100*time.Millisecond, w, sampleRate)
		n, peak := drain(t, osc)
		if n != sampleRate.N(100*time.Millisecond) {
			t.Errorf("wave %d: expected %d samples, got %d", w, sampleRate.N(100*time.Millisecond), n)
		}
		if peak > 1 || peak == 0 {
			t.Errorf("wave %d: peak %f out of range", w, peak)
		}
		if osc.Err() != nil {
			t.Errorf("wave %d: unexpected error %v", w, osc.Err())
		}
	}
}

func TestCueForEveryCosmeticEvent(t *testing.T) {
	kinds := []game.EventKind{
		game.EventShot, game.EventHit, game.EventExplosion, game.EventPickup,
		game.EventBomb, game.EventLevelUp, game.EventGameOver,
	}
	for _, k := range kinds {
		s := Cue(game.Event{Kind: k}, sampleRate, 1)
		if s == nil {
			t.Errorf("%s: expected a sound", k)
			continue
		}
		n, peak := drain(t, s)
		if n == 0 || n > sampleRate.N(time.Second) {
			t.Errorf("%s: unexpected length %d", k, n)
		}
		if peak == 0 || peak > 1 {
			t.Errorf("%s: peak %f out of range", k, peak)
		}
	}
}

func TestHUDEventsAreSilent(t *testing.T) {
	for _, k := range []game.EventKind{game.EventScore, game.EventTime, game.EventHealth, game.EventReset} {
		if Cue(game.Event{Kind: k}, sampleRate, 1) != nil {
			t.Errorf("%s should not make a sound", k)
		}
	}
}

func TestZeroVolumeIsSilent(t *testing.T) {
	_, peak := drain(t, Cue(game.Event{Kind: game.EventShot}, sampleRate, 0))
	if peak != 0 {
		t.Errorf("expected silence, peak %f", peak)
	}
}

func TestPublishBeforeInitIsNoop(t *testing.T) {
	s := New(1)
	s.Publish(game.Event{Kind: game.EventShot})
	if s.mixer.Len() != 0 {
		t.Error("nothing should be queued before Init")
	}
	s.Close()
}
