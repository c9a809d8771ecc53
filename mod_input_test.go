package scrub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputEdges(t *testing.T) {
	var in Input
	in.Set(KeyW, true)
	assert.True(t, in.IsHeld(KeyW))
	assert.True(t, in.IsPressed(KeyW))

	in.EndFrame()
	in.Set(KeyW, true)
	assert.True(t, in.IsHeld(KeyW))
	assert.False(t, in.IsPressed(KeyW), "a repeat is not a new press")

	in.Set(KeyW, false)
	assert.False(t, in.IsHeld(KeyW))
	assert.True(t, in.IsReleased(KeyW))
	in.EndFrame()
	assert.False(t, in.IsReleased(KeyW))

	assert.False(t, in.IsHeld(-1))
	assert.False(t, in.IsPressed(KeyCount))
	in.Set(KeyCount+3, true)
}

func TestInputMouseDeltaResetsEachFrame(t *testing.T) {
	var in Input
	in.MoveMouse(3, -2)
	in.MoveMouse(1, 0)
	assert.Equal(t, 4.0, in.MouseDeltaX)
	assert.Equal(t, -2.0, in.MouseDeltaY)
	in.EndFrame()
	assert.Zero(t, in.MouseDeltaX)
}

func TestKeyLatchHoldsUntilQuiet(t *testing.T) {
	now := time.Unix(0, 0)
	latch := NewKeyLatch(150 * time.Millisecond)
	latch.Now = func() time.Time { return now }

	var in Input
	latch.Press(KeyA)
	latch.Poll(&in)
	assert.True(t, in.IsPressed(KeyA))
	in.EndFrame()

	now = now.Add(100 * time.Millisecond)
	latch.Press(KeyA) // auto-repeat
	latch.Poll(&in)
	assert.True(t, in.IsHeld(KeyA))
	assert.False(t, in.IsPressed(KeyA))

	now = now.Add(200 * time.Millisecond)
	latch.Poll(&in)
	assert.False(t, in.IsHeld(KeyA))
	assert.True(t, in.IsReleased(KeyA))
}

func TestDefaultKeyHoldBridgesRepeatDelay(t *testing.T) {
	now := time.Unix(0, 0)
	latch := NewKeyLatch(DefaultKeyHold)
	latch.Now = func() time.Time { return now }

	var in Input
	latch.Press(KeyW)
	latch.Poll(&in)
	in.EndFrame()

	// Nothing arrives until the terminal starts repeating.
	for elapsed := time.Duration(0); elapsed < 600*time.Millisecond; elapsed += 33 * time.Millisecond {
		now = now.Add(33 * time.Millisecond)
		latch.Poll(&in)
		require.True(t, in.IsHeld(KeyW), "dropped after %v", elapsed)
		require.False(t, in.IsReleased(KeyW))
		in.EndFrame()
	}
	latch.Press(KeyW)
	latch.Poll(&in)
	assert.True(t, in.IsHeld(KeyW))
	assert.False(t, in.IsPressed(KeyW))
}

func TestKeyLatchShortTapStillPresses(t *testing.T) {
	now := time.Unix(0, 0)
	latch := NewKeyLatch(10 * time.Millisecond)
	latch.Now = func() time.Time { return now }

	var in Input
	latch.Press(KeyE)
	now = now.Add(time.Second)
	latch.Poll(&in)
	assert.True(t, in.IsPressed(KeyE))
	assert.False(t, in.IsHeld(KeyE))
}

func TestKeyLatchReleaseAndMouse(t *testing.T) {
	latch := NewKeyLatch(time.Hour)
	var in Input
	latch.Press(KeySpace)
	latch.Poll(&in)
	in.EndFrame()

	latch.Release(KeySpace)
	latch.Move(5, 1)
	latch.Poll(&in)
	assert.True(t, in.IsReleased(KeySpace))
	assert.Equal(t, 5.0, in.MouseDeltaX)

	in.EndFrame()
	latch.Poll(&in)
	assert.Zero(t, in.MouseDeltaX)
}
