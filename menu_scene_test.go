package scrub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuTogglesAndStartsLevel(t *testing.T) {
	app := newTestApp(t, DefaultConfig())
	app.ChangeScene(NewMenuScene(app, "scene1"))
	app.Tick(0.016)

	menu, ok := Part[*Menu](app.Scene(), PartMenu)
	require.True(t, ok)
	assert.Equal(t, "scene1", menu.Level())

	app.Input().Set(KeyTab, true)
	app.Tick(0.016)
	assert.Equal(t, "scene2", menu.Level())
	app.Input().Set(KeyTab, false)
	app.Input().Set(KeyTab, true)
	app.Tick(0.016)
	assert.Equal(t, "scene1", menu.Level(), "toggle wraps")

	app.Input().Set(KeyEnter, true)
	app.Tick(0.016)
	assert.Equal(t, "scene1", app.Scene().Name)
	_, ok = Part[*Controller](app.Scene(), PartPlayer)
	assert.True(t, ok)
}

func TestMenuEscapeQuits(t *testing.T) {
	app := newTestApp(t, DefaultConfig())
	app.ChangeScene(NewMenuScene(app, ""))
	app.Input().Set(KeyEscape, true)
	app.Tick(0.016)
	assert.True(t, app.Quitting())
}

func TestMenuReportsBrokenLevel(t *testing.T) {
	app := newTestApp(t, DefaultConfig())
	s := NewMenuScene(app, "")
	app.ChangeScene(s)
	app.Tick(0)

	menu, _ := Part[*Menu](s, PartMenu)
	menu.Levels = []string{"missing"}
	menu.Selected = 0
	menu.Start()
	assert.Contains(t, menu.Message, "missing")
	app.Tick(0)
	assert.Same(t, s, app.Scene())
}
