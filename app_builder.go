package scrub

import (
	"reflect"
)

type AppBuilder struct {
	app     *App
	config  Config
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{
		app: &App{
			resources: make(map[reflect.Type]any),
		},
		config: DefaultConfig(),
	}
}

func (b *AppBuilder) UseConfig(cfg Config) *AppBuilder {
	b.config = cfg
	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build installs the config, then every module in order. Input and Time are
// added when no module provided them.
func (b *AppBuilder) Build() *App {
	app := b.app
	cfg := b.config
	app.addResources(&cfg)

	for _, module := range b.modules {
		module.Install(app)
	}
	app.modules = b.modules

	if _, ok := Resource[Input](app); !ok {
		InputModule{}.Install(app)
	}
	if _, ok := Resource[Time](app); !ok {
		TimeModule{}.Install(app)
	}

	return app
}
