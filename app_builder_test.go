package scrub

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockModule struct {
	installed bool
}

func (m *MockModule) Install(app *App) {
	m.installed = true
}

func TestAppBuilder_Defaults(t *testing.T) {
	app := NewAppBuilder().Build()

	assert.Equal(t, DefaultConfig(), *app.Config())
	_, ok := Resource[Input](app)
	assert.True(t, ok)
	_, ok = Resource[Time](app)
	assert.True(t, ok)
}

func TestAppBuilder_UseConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "scene2"
	cfg.StepsPerFrame = 2

	app := NewAppBuilder().UseConfig(cfg).Build()
	assert.Equal(t, "scene2", app.Config().Level)
	assert.Equal(t, 2, app.Config().StepsPerFrame)
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	if len(builder.modules) != 1 {
		t.Errorf("Expected modules to contain 1 module, got %v", len(builder.modules))
	}

	builder.Build()
	assert.True(t, mockModule.installed)
}

func TestAppBuilder_ModulesInstallResources(t *testing.T) {
	var out bytes.Buffer
	app := NewAppBuilder().UseModule(
		LoggingModule{Prefix: "scrub", Debug: true, Out: &out},
		InputModule{},
		TimeModule{},
		AssetsModule{TextureSize: 8},
		AudioModule{SampleRate: 22050},
	).Build()

	require.NotNil(t, app.Mixer())
	assert.Equal(t, 8, app.Assets().TextureSize)

	app.Logger().Debugf("hello %d", 1)
	app.Logger().Warnf("careful")
	assert.Contains(t, out.String(), "[scrub] DEBUG: hello 1")
	assert.Contains(t, out.String(), "[scrub] WARN: careful")
}

func TestLoggerFallsBackToNop(t *testing.T) {
	var app *App
	assert.NotNil(t, app.Logger())
	assert.False(t, NewAppBuilder().Build().Logger().DebugEnabled())
}
