package scrub

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

type Module interface {
	Install(app *App)
}

// App owns the resources, the active scene and the frame loop. It is
// driven from a single goroutine; only KeySource implementations are
// touched from elsewhere.
type App struct {
	modules   []Module
	resources map[reflect.Type]any

	scene   *Scene
	next    *Scene
	pending bool
	quit    bool

	source KeySource
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// AddResources registers pointers to resources, one per type.
func (app *App) AddResources(resources ...any) *App {
	return app.addResources(resources...)
}

// Resource looks up a resource by its element type.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

// MustResource is Resource for resources a module is required to install.
func MustResource[T any](app *App) *T {
	r, ok := Resource[T](app)
	if !ok {
		panic(fmt.Sprintf("%s is not in resources", reflect.TypeOf((*T)(nil))))
	}
	return r
}

func (app *App) Config() *Config { return MustResource[Config](app) }

func (app *App) Input() *Input { return MustResource[Input](app) }

func (app *App) Time() *Time { return MustResource[Time](app) }

func (app *App) Assets() *Assets { return MustResource[Assets](app) }

// SetKeySource attaches the device the input state is polled from once per
// frame.
func (app *App) SetKeySource(src KeySource) { app.source = src }

func (app *App) Scene() *Scene { return app.scene }

// ChangeScene queues s. The switch happens at the end of the current Tick
// (or at the start of the next one when called outside a Tick): the old
// scene is destroyed before s is initialized.
func (app *App) ChangeScene(s *Scene) {
	app.next = s
	app.pending = true
}

func (app *App) Quit() { app.quit = true }

func (app *App) Quitting() bool { return app.quit }

// Tick advances one rendered frame of realDt seconds. The delta is clamped
// to Config.MaxStep and split into Config.StepsPerFrame updates; key edges
// are visible to the first update only.
func (app *App) Tick(realDt float32) {
	cfg := app.Config()
	input := app.Input()
	app.Time().advance(realDt)

	if app.source != nil {
		app.source.Poll(input)
	}
	app.applySceneChange()

	dt := min(max(realDt, 0), cfg.MaxStep)
	steps := max(cfg.StepsPerFrame, 1)
	sub := dt / float32(steps)
	for i := 0; i < steps && app.scene != nil && !app.pending; i++ {
		app.scene.update(sub)
		input.EndFrame()
	}
	input.EndFrame()

	app.applySceneChange()
}

func (app *App) applySceneChange() {
	if !app.pending {
		return
	}
	next := app.next
	app.next, app.pending = nil, false

	log := app.Logger()
	if app.scene != nil {
		log.Debugf("destroying scene %q", app.scene.Name)
		app.scene.destroy()
	}
	app.scene = next
	if next != nil {
		log.Infof("starting scene %q", next.Name)
		next.start()
	}
}

// Run ticks at the given interval until ctx is done or Quit is called.
// draw, when set, runs after every frame.
func (app *App) Run(ctx context.Context, interval time.Duration, draw func(*App)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for !app.quit {
		select {
		case <-ctx.Done():
			app.shutdown()
			return
		case now := <-ticker.C:
			app.Tick(float32(now.Sub(last).Seconds()))
			last = now
			if draw != nil {
				draw(app)
			}
		}
	}
	app.shutdown()
}

func (app *App) shutdown() {
	if app.scene != nil {
		app.scene.destroy()
		app.scene = nil
	}
}
