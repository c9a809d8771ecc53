package scrub

import (
	"sync"
	"time"
)

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyMinus
	KeyEqual
	KeyKPPlus
	KeyKPMinus
	KeyShift
	KeyControl
	KeyLeftAlt
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// KeyCount bounds the key codes above.
const KeyCount = 256

type InputModule struct{}

// Input is the polled device state. Pressed is the held state; the Just*
// edges last until EndFrame.
type Input struct {
	Pressed [KeyCount]bool

	JustPressed  [KeyCount]bool
	JustReleased [KeyCount]bool

	MouseDeltaX, MouseDeltaY float64
}

func (mod InputModule) Install(app *App) {
	app.addResources(&Input{})
}

func (input *Input) IsHeld(key int) bool { return valid(key) && input.Pressed[key] }

// IsPressed is true during the first update after the key went down.
func (input *Input) IsPressed(key int) bool { return valid(key) && input.JustPressed[key] }

func (input *Input) IsReleased(key int) bool { return valid(key) && input.JustReleased[key] }

// Set records the key state, raising an edge when it changed.
func (input *Input) Set(key int, down bool) {
	if !valid(key) {
		return
	}
	if down {
		if !input.Pressed[key] {
			input.JustPressed[key] = true
		}
		input.Pressed[key] = true
	} else {
		if input.Pressed[key] {
			input.JustReleased[key] = true
		}
		input.Pressed[key] = false
	}
}

func (input *Input) MoveMouse(dx, dy float64) {
	input.MouseDeltaX += dx
	input.MouseDeltaY += dy
}

// EndFrame drops edges and mouse motion once they have been seen.
func (input *Input) EndFrame() {
	input.JustPressed = [KeyCount]bool{}
	input.JustReleased = [KeyCount]bool{}
	input.MouseDeltaX, input.MouseDeltaY = 0, 0
}

func valid(key int) bool { return key >= 0 && key < KeyCount }

// KeySource feeds device state into Input once per frame.
type KeySource interface {
	Poll(input *Input)
}

// KeyLatch is a KeySource for devices that only report key-down events,
// like terminals: a key counts as held until Hold passes without a repeat.
// Its methods are safe to call from an event goroutine.
type KeyLatch struct {
	Hold time.Duration
	Now  func() time.Time

	mu     sync.Mutex
	seen   map[int]time.Time
	taps   []int
	dx, dy float64
}

// DefaultKeyHold outlasts the usual terminal auto-repeat delay of 250 to
// 600ms, so a held key does not drop out before its first repeat arrives.
const DefaultKeyHold = 650 * time.Millisecond

func NewKeyLatch(hold time.Duration) *KeyLatch {
	return &KeyLatch{Hold: hold, Now: time.Now, seen: make(map[int]time.Time)}
}

// Press refreshes the hold on key.
func (l *KeyLatch) Press(key int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.seen[key]; !held {
		l.taps = append(l.taps, key)
	}
	l.seen[key] = l.Now()
}

// Release ends the hold immediately.
func (l *KeyLatch) Release(key int) {
	l.mu.Lock()
	delete(l.seen, key)
	l.mu.Unlock()
}

func (l *KeyLatch) Move(dx, dy float64) {
	l.mu.Lock()
	l.dx += dx
	l.dy += dy
	l.mu.Unlock()
}

func (l *KeyLatch) Poll(input *Input) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.Now()
	for key, at := range l.seen {
		if now.Sub(at) > l.Hold {
			delete(l.seen, key)
		}
	}
	// A tap shorter than one frame still produces a press edge.
	for _, key := range l.taps {
		input.Set(key, true)
	}
	l.taps = l.taps[:0]
	for key := 0; key < KeyCount; key++ {
		_, held := l.seen[key]
		if !held && input.Pressed[key] {
			input.Set(key, false)
		}
	}
	input.MoveMouse(l.dx, l.dy)
	l.dx, l.dy = 0, 0
}
