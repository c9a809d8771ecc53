package scrub

import (
	"slices"

	"github.com/gekko3d/scrub/level"
)

const PartMenu = "menu"

// NewMenuScene shows the level picker with selected preselected.
func NewMenuScene(app *App, selected string) *Scene {
	s := NewScene("menu", app)
	m := &Menu{Levels: level.Names()}
	if i := slices.Index(m.Levels, selected); i >= 0 {
		m.Selected = i
	}
	s.AddUpdate(PartMenu, m)
	return s
}

// Menu toggles between the built-in levels and starts the chosen one.
type Menu struct {
	Levels   []string
	Selected int
	// Message is the last failure to start a level.
	Message string

	scene *Scene
}

func (m *Menu) Init(s *Scene) { m.scene = s }

func (m *Menu) Level() string {
	if len(m.Levels) == 0 {
		return ""
	}
	return m.Levels[m.Selected]
}

func (m *Menu) Update(dt float32) {
	app := m.scene.App
	in := app.Input()

	switch {
	case in.IsPressed(KeyEscape) || in.IsPressed(KeyQ):
		app.Quit()
	case in.IsPressed(KeyTab) || in.IsPressed(KeyRight) || in.IsPressed(KeyD):
		m.step(1)
	case in.IsPressed(KeyLeft) || in.IsPressed(KeyA):
		m.step(-1)
	case in.IsPressed(KeyEnter) || in.IsPressed(KeySpace):
		m.Start()
	}
}

func (m *Menu) step(d int) {
	if n := len(m.Levels); n > 0 {
		m.Selected = (m.Selected + d + n) % n
	}
}

// Start queues the game scene for the selected level.
func (m *Menu) Start() {
	app := m.scene.App
	next, err := NewGameScene(app, m.Level())
	if err != nil {
		m.Message = err.Error()
		m.scene.Logger().Errorf("starting level: %v", err)
		return
	}
	app.ChangeScene(next)
}
