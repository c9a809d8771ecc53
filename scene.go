package scrub

import (
	"fmt"

	"github.com/gekko3d/scrub/graph"
	"github.com/gekko3d/scrub/player"
)

// Updatable is a part of a scene that is ticked every update. Parts may
// also implement InitAfter, Start and Destroy.
type Updatable interface {
	// Init is called once the scene is entered, in registration order.
	Init(s *Scene)
	Update(dt float32)
}

type initAfterer interface{ InitAfter() }
type starter interface{ Start() }
type destroyer interface{ Destroy() }

type scenePhase int

const (
	phaseCreated scenePhase = iota
	phaseInit
	phaseInitAfter
	phaseStarted
	phaseDestroyed
)

// Scene is an ordered name -> Updatable registry plus the graph its parts
// attach to.
type Scene struct {
	Name string
	App  *App
	Root *graph.Node
	// Camera is written by whichever part controls the view.
	Camera player.Pose

	names   []string
	updates map[string]Updatable
	phase   scenePhase
}

func NewScene(name string, app *App) *Scene {
	return &Scene{
		Name:    name,
		App:     app,
		Root:    graph.NewNode(name),
		updates: make(map[string]Updatable),
	}
}

// AddUpdate registers u under name. Parts added after the scene was
// entered catch up on the phases already run.
// Logger is the app logger tagged with the scene name.
func (s *Scene) Logger() Logger {
	return WithScope(s.App.Logger(), s.Name)
}

func (s *Scene) AddUpdate(name string, u Updatable) {
	if _, ok := s.updates[name]; ok {
		panic(fmt.Sprintf("scene %q already has update %q", s.Name, name))
	}
	s.names = append(s.names, name)
	s.updates[name] = u

	if s.phase >= phaseInit {
		u.Init(s)
	}
	if s.phase >= phaseInitAfter {
		if ia, ok := u.(initAfterer); ok {
			ia.InitAfter()
		}
	}
	if s.phase >= phaseStarted {
		if st, ok := u.(starter); ok {
			st.Start()
		}
	}
}

func (s *Scene) GetUpdate(name string) (Updatable, bool) {
	u, ok := s.updates[name]
	return u, ok
}

// Updates lists the registered names in update order.
func (s *Scene) Updates() []string {
	return append([]string(nil), s.names...)
}

// Part fetches a registered part by name and type.
func Part[T Updatable](s *Scene, name string) (T, bool) {
	u, ok := s.updates[name]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := u.(T)
	return t, ok
}

func (s *Scene) each(fn func(u Updatable)) {
	// Parts added during the walk have already caught up.
	n := len(s.names)
	for i := 0; i < n; i++ {
		fn(s.updates[s.names[i]])
	}
}

func (s *Scene) init() {
	if s.phase >= phaseInit {
		return
	}
	s.phase = phaseInit
	s.each(func(u Updatable) { u.Init(s) })
}

func (s *Scene) initAfter() {
	s.init()
	if s.phase >= phaseInitAfter {
		return
	}
	s.phase = phaseInitAfter
	s.each(func(u Updatable) {
		if ia, ok := u.(initAfterer); ok {
			ia.InitAfter()
		}
	})
}

func (s *Scene) start() {
	s.initAfter()
	if s.phase >= phaseStarted {
		return
	}
	s.phase = phaseStarted
	s.each(func(u Updatable) {
		if st, ok := u.(starter); ok {
			st.Start()
		}
	})
}

func (s *Scene) update(dt float32) {
	if s.phase != phaseStarted {
		return
	}
	s.each(func(u Updatable) { u.Update(dt) })
}

func (s *Scene) destroy() {
	if s.phase == phaseDestroyed {
		return
	}
	s.phase = phaseDestroyed
	for i := len(s.names) - 1; i >= 0; i-- {
		if d, ok := s.updates[s.names[i]].(destroyer); ok {
			d.Destroy()
		}
	}
	s.Root.Clear()
}

// Phase names where the scene is in its lifecycle, for logs.
func (s *Scene) Phase() string {
	switch s.phase {
	case phaseCreated:
		return "created"
	case phaseInit:
		return "init"
	case phaseInitAfter:
		return "init-after"
	case phaseStarted:
		return "started"
	default:
		return "destroyed"
	}
}
