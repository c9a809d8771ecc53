package player

import (
	"math"
	"testing"

	"github.com/gekko3d/scrub/collide"
	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floorWorld() *collide.Octree {
	return collide.NewOctree(mesh.Plane(40, 40))
}

func TestFreeFallApproachesTerminalVelocity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KillY = -1e9
	p := New(cfg)
	const dt = 0.01

	damping := math.Exp(-30*dt) - 1
	damping *= 0.1
	k := 1 + damping
	terminal := -float64(cfg.Gravity) * dt * k / (1 - k)

	for i := 0; i < 3000; i++ {
		p.Tick(Controls{}, dt, nil)
	}
	assert.False(t, p.OnFloor)
	assert.InDelta(t, terminal, p.Velocity.Y(), 0.01)
	assert.InDelta(t, 0, p.Velocity.X(), 1e-6)
}

func TestLandsOnFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Spawn = cfg.Spawn.Translate(mgl32.Vec3{0, 2, 0})
	p := New(cfg)
	world := floorWorld()

	grounded := 0
	for i := 0; i < 500; i++ {
		p.Tick(Controls{}, 0.01, world)
		if i >= 480 && p.OnFloor {
			grounded++
		}
	}
	// Resting contact can flicker for a tick at zero depth.
	assert.Greater(t, grounded, 0)
	assert.InDelta(t, 0, p.Velocity.Y(), 0.5)
	assert.InDelta(t, 0.35, p.Capsule.Start.Y(), 0.02)
	assert.InDelta(t, 1, p.Head().Y(), 0.02)
}

func TestJumpOnlyFromFloor(t *testing.T) {
	p := New(DefaultConfig())
	p.ApplyControls(Controls{Jump: true}, 0.01)
	assert.Zero(t, p.Velocity.Y(), "airborne jump must be ignored")

	p.OnFloor = true
	p.ApplyControls(Controls{Jump: true}, 0.01)
	assert.Equal(t, p.JumpSpeed, p.Velocity.Y())
}

func TestWalkForwardUsesFlattenedView(t *testing.T) {
	p := New(DefaultConfig())
	p.OnFloor = true
	p.Pitch = -1.2 // looking at the floor must not slow walking
	p.ApplyControls(Controls{Forward: true}, 0.01)

	assert.InDelta(t, 0, p.Velocity.Y(), 1e-6)
	assert.InDelta(t, -1.0, p.Velocity.Z(), 1e-5) // speed 100 * dt 0.01

	p.Velocity = mgl32.Vec3{}
	p.OnFloor = false
	p.ApplyControls(Controls{Right: true}, 0.01)
	assert.InDelta(t, 0.1, p.Velocity.X(), 1e-5) // air speed 10
}

func TestWallRemovesNormalVelocity(t *testing.T) {
	m := mesh.Plane(40, 40)
	m.Append(mesh.Box(0.2, 4, 10).Transformed(mgl32.Translate3D(1.1, 2, 0)))
	world := collide.NewOctree(m)

	cfg := DefaultConfig()
	p := New(cfg)
	p.Capsule = p.Capsule.Translate(mgl32.Vec3{0.6, 0.3, 0})
	p.Velocity = mgl32.Vec3{5, 0, 2}
	p.Step(0.02, world)

	require.False(t, p.OnFloor)
	assert.LessOrEqual(t, p.Capsule.Start.X(), float32(1-0.35+1e-3))
	assert.InDelta(t, 0, p.Velocity.X(), 1e-3, "velocity into the wall is removed")
	assert.Greater(t, p.Velocity.Z(), float32(1.5))
}

func TestOutOfBoundsResets(t *testing.T) {
	p := New(DefaultConfig())
	p.Capsule = p.Capsule.Translate(mgl32.Vec3{5, -30, 5})
	p.Yaw, p.Pitch = 1, 0.5
	p.Velocity = mgl32.Vec3{0, -40, 0}

	assert.True(t, p.ResetIfOutOfBounds())
	assert.Equal(t, DefaultConfig().Spawn, p.Capsule)
	assert.Zero(t, p.Yaw)
	assert.Zero(t, p.Pitch)
	assert.Equal(t, mgl32.Vec3{}, p.Velocity)
	assert.False(t, p.ResetIfOutOfBounds())
}

func TestLookClampsPitch(t *testing.T) {
	p := New(DefaultConfig())
	p.Look(0, -5000)
	assert.InDelta(t, math.Pi/2, p.Pitch, 1e-6)
	p.Look(0, 10000)
	assert.InDelta(t, -math.Pi/2, p.Pitch, 1e-6)

	p.Look(250, 0)
	assert.InDelta(t, -0.5, p.Yaw, 1e-6)
}

func TestAimRayFollowsView(t *testing.T) {
	p := New(DefaultConfig())
	r := p.AimRay()
	assert.Equal(t, p.Head(), r.Origin)
	assert.True(t, r.Direction.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6))

	p.Pitch = -math.Pi / 2
	r = p.AimRay()
	assert.True(t, r.Direction.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-5), "%v", r.Direction)

	p.Yaw = math.Pi / 2
	p.Pitch = 0
	assert.True(t, p.Forward().ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-5))
	assert.True(t, p.Side().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5), "%v", p.Side())
}

func TestTopDownCameraLooksDown(t *testing.T) {
	p := New(DefaultConfig())
	p.TopDown = true
	cam := p.Camera()
	assert.InDelta(t, p.Head().Y()+p.Config().TopDownHeight, cam.Position.Y(), 1e-6)
	dir := cam.Orientation.Rotate(mgl32.Vec3{0, 0, -1})
	assert.True(t, dir.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-5), "%v", dir)
}
