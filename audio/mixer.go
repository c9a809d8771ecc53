package audio

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Mixer is a beep.Streamer guarded by its own lock, so the speaker goroutine
// and the game loop can share it.
type Mixer struct {
	mu       sync.Mutex
	mixer    *beep.Mixer
	rate     beep.SampleRate
	emitters map[*Emitter]struct{}
	listener mgl32.Vec3
}

func NewMixer(rate beep.SampleRate) *Mixer {
	return &Mixer{
		mixer:    &beep.Mixer{},
		rate:     rate,
		emitters: make(map[*Emitter]struct{}),
	}
}

func (m *Mixer) SampleRate() beep.SampleRate { return m.rate }

// Stream never drains: with nothing playing it yields silence so the
// speaker keeps pulling.
func (m *Mixer) Stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.mixer.Stream(samples)
	if !ok {
		n = 0
	}
	clear(samples[n:])
	return len(samples), true
}

func (m *Mixer) Err() error { return nil }

// Len is the number of streamers still playing.
func (m *Mixer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mixer.Len()
}

// Play starts a one-shot copy of buf at volume (linear gain).
func (m *Mixer) Play(buf *beep.Buffer, volume float64) {
	if buf == nil {
		return
	}
	s := gain(buf.Streamer(0, buf.Len()), volume)
	m.mu.Lock()
	m.mixer.Add(s)
	m.mu.Unlock()
}

// Loop starts buf repeating forever at pos. Gain falls off with listener
// distance beyond refDistance.
func (m *Mixer) Loop(buf *beep.Buffer, pos mgl32.Vec3, refDistance, volume float64) *Emitter {
	vol := &effects.Volume{
		Streamer: beep.Loop(-1, buf.Streamer(0, buf.Len())),
		Base:     2,
	}
	e := &Emitter{
		mixer:       m,
		ctrl:        &beep.Ctrl{Streamer: vol},
		vol:         vol,
		Position:    pos,
		RefDistance: refDistance,
		Volume:      volume,
	}
	m.mu.Lock()
	m.emitters[e] = struct{}{}
	e.attenuate(m.listener)
	m.mixer.Add(e.ctrl)
	m.mu.Unlock()
	return e
}

// SetListener re-attenuates every emitter for a listener at pos.
func (m *Mixer) SetListener(pos mgl32.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = pos
	for e := range m.emitters {
		e.attenuate(pos)
	}
}

// Emitters is the number of live looping emitters.
func (m *Mixer) Emitters() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.emitters)
}

// Clear stops everything.
func (m *Mixer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for e := range m.emitters {
		e.stopLocked()
	}
	m.mixer.Clear()
}

func gain(s beep.Streamer, volume float64) beep.Streamer {
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(volume)}
}
