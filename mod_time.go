package scrub

import (
	"time"
)

type Time struct {
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
	Frames  uint64
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App) {
	app.addResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
}

// advance uses the frame delta the app was ticked with rather than the
// wall clock, so tests can drive time.
func (t *Time) advance(seconds float32) {
	t.Dt = time.Duration(float64(seconds) * float64(time.Second))
	t.Time = t.Time.Add(t.Dt)
	t.Elapsed += t.Dt
	t.Frames++
}
