package audio

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Emitter is a looping sound at a point in the world.
type Emitter struct {
	Position    mgl32.Vec3
	RefDistance float64
	Volume      float64

	mixer   *Mixer
	ctrl    *beep.Ctrl
	vol     *effects.Volume
	gain    float64
	stopped bool
}

// Gain is the linear gain applied for the last listener position.
func (e *Emitter) Gain() float64 {
	e.mixer.mu.Lock()
	defer e.mixer.mu.Unlock()
	return e.gain
}

func (e *Emitter) Stopped() bool {
	e.mixer.mu.Lock()
	defer e.mixer.mu.Unlock()
	return e.stopped
}

// Stop silences the emitter; the mixer drops it on its next pull. Stopping
// twice is harmless.
func (e *Emitter) Stop() {
	if e == nil {
		return
	}
	e.mixer.mu.Lock()
	defer e.mixer.mu.Unlock()
	e.stopLocked()
}

func (e *Emitter) stopLocked() {
	if e.stopped {
		return
	}
	e.stopped = true
	e.ctrl.Paused = true
	e.ctrl.Streamer = nil
	delete(e.mixer.emitters, e)
}

// attenuate uses the inverse distance model with unit rolloff.
func (e *Emitter) attenuate(listener mgl32.Vec3) {
	d := float64(e.Position.Sub(listener).Len())
	ref := math.Max(e.RefDistance, 1e-6)
	e.gain = e.Volume * ref / (ref + math.Max(d, ref) - ref)
	if e.gain <= 0 {
		e.vol.Silent = true
		return
	}
	e.vol.Silent = false
	e.vol.Volume = math.Log2(e.gain)
}
