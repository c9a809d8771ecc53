package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/scrub"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

var (
	levelFlag = flag.String("level", "scene1", "level preselected in the menu")
	seedFlag  = flag.Int64("seed", 1, "placement and particle seed")
	debugFlag = flag.Bool("debug", false, "debug logging")
	muteFlag  = flag.Bool("mute", false, "disable audio")
	logFlag   = flag.String("log", "scrub.log", "log file")
	fpsFlag   = flag.Int("fps", 30, "frames per second")
	texFlag   = flag.String("textures", "", "directory with decal_diff*.png overrides")
)

// lookStep is how far one arrow key event turns the view, in pointer units.
const lookStep = 40

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "scrub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logFile, err := os.Create(*logFlag)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logFile.Close()

	cfg := scrub.DefaultConfig()
	cfg.Level = *levelFlag
	cfg.Seed = *seedFlag

	app := scrub.NewAppBuilder().
		UseConfig(cfg).
		UseModule(
			scrub.LoggingModule{Prefix: "scrub", Debug: *debugFlag, Out: logFile},
			scrub.InputModule{},
			scrub.TimeModule{},
			scrub.AssetsModule{TextureSize: 32},
			scrub.AudioModule{SampleRate: sampleRate},
		).
		Build()
	log := app.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "scrub crashed: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()
	screen.EnableMouse()
	screen.HideCursor()

	v := newView(screen)

	start := time.Now()
	if err := app.Assets().LoadAllProgress(ctx, v.drawLoading, scrub.DefaultLoaders(sampleRate, cfg.Seed, *texFlag)...); err != nil {
		return err
	}
	log.Infof("loaded %d assets in %v", app.Assets().Len(), time.Since(start))

	if !*muteFlag {
		if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
			log.Warnf("audio unavailable, continuing muted: %v", err)
		} else {
			speaker.Play(app.Mixer())
			defer speaker.Close()
		}
	}

	latch := scrub.NewKeyLatch(scrub.DefaultKeyHold)
	app.SetKeySource(latch)
	go pump(screen, latch, stop)

	app.ChangeScene(scrub.NewMenuScene(app, cfg.Level))
	app.Run(ctx, time.Second/time.Duration(max(*fpsFlag, 1)), v.draw)
	log.Infof("bye")
	return nil
}

// pump forwards terminal events to the latch until the screen closes.
func pump(screen tcell.Screen, latch *scrub.KeyLatch, stop func()) {
	var buttons tcell.ButtonMask
	var lastX, lastY int
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				stop()
				return
			}
			pressKey(latch, ev)
		case *tcell.EventMouse:
			x, y := ev.Position()
			if ev.Buttons()&tcell.Button1 != 0 && buttons&tcell.Button1 == 0 {
				latch.Press(scrub.MouseButtonLeft)
			}
			if ev.Buttons()&tcell.Button2 != 0 && buttons&tcell.Button2 == 0 {
				latch.Press(scrub.MouseButtonRight)
			}
			if buttons != 0 {
				latch.Move(float64(x-lastX)*lookStep/4, float64(y-lastY)*lookStep/4)
			}
			buttons, lastX, lastY = ev.Buttons(), x, y
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

func pressKey(latch *scrub.KeyLatch, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		latch.Press(scrub.KeyEnter)
	case tcell.KeyEscape:
		latch.Press(scrub.KeyEscape)
	case tcell.KeyTab:
		latch.Press(scrub.KeyTab)
	case tcell.KeyUp:
		latch.Press(scrub.KeyUp)
	case tcell.KeyDown:
		latch.Press(scrub.KeyDown)
	case tcell.KeyLeft:
		latch.Press(scrub.KeyLeft)
		latch.Move(-lookStep, 0)
	case tcell.KeyRight:
		latch.Press(scrub.KeyRight)
		latch.Move(lookStep, 0)
	case tcell.KeyPgUp:
		latch.Move(0, -lookStep)
	case tcell.KeyPgDn:
		latch.Move(0, lookStep)
	case tcell.KeyRune:
		r := unicode.ToLower(ev.Rune())
		switch {
		case r >= 'a' && r <= 'z':
			latch.Press(scrub.KeyA + int(r-'a'))
		case r == ' ':
			latch.Press(scrub.KeySpace)
		case r == '+':
			latch.Press(scrub.KeyKPPlus)
		case r == '-':
			latch.Press(scrub.KeyKPMinus)
		}
	}
}
