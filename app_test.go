package scrub

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

// recorder logs every lifecycle call it receives.
type recorder struct {
	name     string
	log      *[]string
	dts      []float32
	onUpdate func()
}

func (r *recorder) Init(s *Scene)  { *r.log = append(*r.log, r.name+":init") }
func (r *recorder) InitAfter()     { *r.log = append(*r.log, r.name+":initAfter") }
func (r *recorder) Start()         { *r.log = append(*r.log, r.name+":start") }
func (r *recorder) Destroy()       { *r.log = append(*r.log, r.name+":destroy") }
func (r *recorder) Update(dt float32) {
	r.dts = append(r.dts, dt)
	if r.onUpdate != nil {
		r.onUpdate()
	}
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := &MockResource1{name: "Resource1"}
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := &MockResource2{name: "Resource2"}
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")

	got, ok := Resource[MockResource2](app)
	require.True(t, ok)
	assert.Same(t, resource2, got)
}

func TestMustResourcePanicsWhenMissing(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.Panics(t, func() { MustResource[MockResource1](app) })
	assert.NotPanics(t, func() { app.Input() })
	assert.NotPanics(t, func() { app.Time() })
	assert.Nil(t, app.Mixer())
}

func TestTickClampsAndSplitsDelta(t *testing.T) {
	app := NewAppBuilder().Build()
	var log []string
	rec := &recorder{name: "a", log: &log}
	s := NewScene("a", app)
	s.AddUpdate("rec", rec)
	app.ChangeScene(s)

	app.Tick(1)
	require.Len(t, rec.dts, 5)
	for _, dt := range rec.dts {
		assert.InDelta(t, 0.01, dt, 1e-6)
	}

	rec.dts = nil
	app.Tick(0.02)
	require.Len(t, rec.dts, 5)
	assert.InDelta(t, 0.004, rec.dts[0], 1e-6)

	assert.Equal(t, uint64(2), app.Time().Frames)
	assert.Equal(t, 1020*time.Millisecond, app.Time().Elapsed.Round(time.Millisecond))
}

func TestChangeSceneDestroysOldBeforeInitializingNew(t *testing.T) {
	app := NewAppBuilder().Build()
	var log []string
	a := NewScene("a", app)
	b := NewScene("b", app)
	ra := &recorder{name: "a", log: &log}
	a.AddUpdate("rec", ra)
	b.AddUpdate("rec", &recorder{name: "b", log: &log})

	app.ChangeScene(a)
	app.Tick(0.01)
	assert.Equal(t, []string{"a:init", "a:initAfter", "a:start"}, log)
	assert.Same(t, a, app.Scene())

	log = nil
	ra.dts = nil
	ra.onUpdate = func() { app.ChangeScene(b) }
	app.Tick(0.01)

	assert.Len(t, ra.dts, 1, "remaining updates of the old scene are skipped")
	assert.Equal(t, []string{"a:destroy", "b:init", "b:initAfter", "b:start"}, log)
	assert.Same(t, b, app.Scene())
}

func TestPressedLastsOneUpdate(t *testing.T) {
	app := NewAppBuilder().Build()
	latch := NewKeyLatch(time.Hour)
	app.SetKeySource(latch)

	var seen []bool
	var log []string
	s := NewScene("a", app)
	s.AddUpdate("rec", &recorder{name: "a", log: &log, onUpdate: func() {
		seen = append(seen, app.Input().IsPressed(KeySpace))
	}})
	app.ChangeScene(s)

	latch.Press(KeySpace)
	app.Tick(0.05)
	assert.Equal(t, []bool{true, false, false, false, false}, seen)
	assert.True(t, app.Input().IsHeld(KeySpace))

	seen = nil
	app.Tick(0.05)
	assert.NotContains(t, seen, true)
}

func TestRunStopsOnQuit(t *testing.T) {
	app := NewAppBuilder().Build()
	var log []string
	s := NewScene("a", app)
	s.AddUpdate("rec", &recorder{name: "a", log: &log})
	app.ChangeScene(s)

	frames := 0
	app.Run(context.Background(), time.Millisecond, func(a *App) {
		frames++
		if frames == 3 {
			a.Quit()
		}
	})
	assert.Equal(t, 3, frames)
	assert.Contains(t, log, "a:destroy")
	assert.Nil(t, app.Scene())
}

func TestRunStopsOnContext(t *testing.T) {
	app := NewAppBuilder().Build()
	ctx, cancel := context.WithCancel(context.Background())
	frames := 0
	app.Run(ctx, time.Millisecond, func(a *App) {
		frames++
		if frames == 2 {
			cancel()
		}
	})
	assert.GreaterOrEqual(t, frames, 2)
}
