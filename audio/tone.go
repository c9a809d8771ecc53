// Package audio mixes one-shot effects and looping positional emitters into
// a single beep stream for the speaker.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Format is the mono-duplicated 16-bit stereo format of every buffer here.
func Format(rate beep.SampleRate) beep.Format {
	return beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
}

// oscillator is a sine with an exponential decay, optionally gliding
// between two frequencies.
type oscillator struct {
	from, to float64
	decay    float64
	phase    float64
	position int
	duration int
	rate     beep.SampleRate
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}
		t := float64(o.position) / float64(o.duration)
		freq := o.from + (o.to-o.from)*t
		val := math.Sin(2*math.Pi*o.phase) * math.Exp(-o.decay*t)
		samples[i][0] = val
		samples[i][1] = val

		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// Tone renders a decaying sine sweep into a seekable buffer.
func Tone(rate beep.SampleRate, from, to float64, d time.Duration, decay float64) *beep.Buffer {
	buf := beep.NewBuffer(Format(rate))
	buf.Append(&oscillator{from: from, to: to, decay: decay, duration: rate.N(d), rate: rate})
	return buf
}
