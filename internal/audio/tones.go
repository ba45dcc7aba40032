package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/Fresh4774/aquin-offline-arcade/internal/game"
	"github.com/Fresh4774/aquin-offline-arcade/internal/rng"
)

// Wave is an oscillator shape
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	sweep    float64 // Hz per second
	phase    float64
	duration int
	position int
	wave     Wave
	rate     beep.SampleRate
	noise    *rng.Source
}

// NewOscillator creates a tone of freq Hz. sweep bends the pitch over time.
func NewOscillator(freq, sweep float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	o := &oscillator{
		freq:     freq,
		sweep:    sweep,
		duration: rate.N(d),
		wave:     wave,
		rate:     rate,
	}
	if wave == WaveNoise {
		o.noise = rng.New(uint32(freq*1000) + 7)
	}
	return o
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.noise.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		t := float64(o.position) / float64(o.rate)
		f := math.Max(o.freq+o.sweep*t, 0)
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay applies a short linear attack and an exponential tail
type decay struct {
	streamer beep.Streamer
	position int
	attack   int
	rate     beep.SampleRate
	k        float64
}

func newDecay(s beep.Streamer, attack time.Duration, k float64, rate beep.SampleRate) beep.Streamer {
	return &decay{streamer: s, attack: rate.N(attack), rate: rate, k: k}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := math.Exp(-d.k * float64(d.position) / float64(d.rate))
		if d.position < d.attack {
			vol *= float64(d.position) / float64(d.attack)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// newVolume scales a stream linearly. vol <= 0 is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func tone(freq, sweep float64, d time.Duration, wave Wave, k float64, rate beep.SampleRate) beep.Streamer {
	return newDecay(NewOscillator(freq, sweep, d, wave, rate), 5*time.Millisecond, k, rate)
}

// Cue returns the sound for ev, or nil when ev is silent
func Cue(ev game.Event, rate beep.SampleRate, volume float64) beep.Streamer {
	var s beep.Streamer
	switch ev.Kind {
	case game.EventShot:
		s = newVolume(tone(880, -2400, 70*time.Millisecond, WaveSquare, 30, rate), 0.25)
	case game.EventHit:
		s = newVolume(tone(140, -200, 180*time.Millisecond, WaveSaw, 12, rate), 0.5)
	case game.EventExplosion:
		s = beep.Mix(
			newVolume(tone(300, 0, 350*time.Millisecond, WaveNoise, 9, rate), 0.4),
			newVolume(tone(70, -60, 350*time.Millisecond, WaveSine, 6, rate), 0.5),
		)
	case game.EventPickup:
		s = beep.Seq(
			newVolume(tone(988, 0, 80*time.Millisecond, WaveSine, 10, rate), 0.4),
			newVolume(tone(1319, 0, 160*time.Millisecond, WaveSine, 10, rate), 0.4),
		)
	case game.EventBomb:
		s = beep.Mix(
			newVolume(tone(200, 0, 600*time.Millisecond, WaveNoise, 4, rate), 0.4),
			newVolume(tone(55, -30, 600*time.Millisecond, WaveSine, 3, rate), 0.5),
		)
	case game.EventLevelUp:
		s = beep.Seq(
			newVolume(tone(523, 0, 100*time.Millisecond, WaveSquare, 8, rate), 0.2),
			newVolume(tone(659, 0, 100*time.Millisecond, WaveSquare, 8, rate), 0.2),
			newVolume(tone(784, 0, 200*time.Millisecond, WaveSquare, 8, rate), 0.2),
		)
	case game.EventGameOver:
		s = newVolume(tone(440, -500, 800*time.Millisecond, WaveSaw, 2, rate), 0.4)
	default:
		return nil
	}
	return newVolume(s, volume)
}
