// Package player implements the first-person capsule controller: input
// impulses, gravity, damping and collision against static level geometry.
package player

import (
	"math"

	"github.com/gekko3d/scrub/collide"
	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// World is the static geometry the capsule collides with.
type World interface {
	CapsuleIntersect(c collide.Capsule) (collide.Contact, bool)
}

type Config struct {
	Speed     float32
	AirSpeed  float32
	JumpSpeed float32
	Gravity   float32
	// KillY resets the player once the head drops to it.
	KillY float32
	Spawn collide.Capsule
	// LookScale converts pointer movement units to radians.
	LookScale float32
	// TopDownHeight is how far above the head the overview camera sits.
	TopDownHeight float32
}

func DefaultConfig() Config {
	return Config{
		Speed:     100,
		AirSpeed:  10,
		JumpSpeed: 20,
		Gravity:   15,
		KillY:     -25,
		Spawn: collide.Capsule{
			Start:  mgl32.Vec3{0, 0.35, 0},
			End:    mgl32.Vec3{0, 1, 0},
			Radius: 0.35,
		},
		LookScale:     1.0 / 500,
		TopDownHeight: 12,
	}
}

// Controls is the movement intent for one tick.
type Controls struct {
	Forward, Back, Left, Right bool
	Jump                       bool
}

type Player struct {
	Capsule  collide.Capsule
	Velocity mgl32.Vec3
	OnFloor  bool
	Yaw      float32
	Pitch    float32
	TopDown  bool

	// Speed is mutable at runtime; powerups raise it.
	Speed     float32
	AirSpeed  float32
	JumpSpeed float32

	cfg Config
}

func New(cfg Config) *Player {
	return &Player{
		Capsule:   cfg.Spawn,
		Speed:     cfg.Speed,
		AirSpeed:  cfg.AirSpeed,
		JumpSpeed: cfg.JumpSpeed,
		cfg:       cfg,
	}
}

func (p *Player) Config() Config { return p.cfg }

// Look turns the view by pointer movement. Pitch stays within ±90°.
func (p *Player) Look(dx, dy float32) {
	p.Yaw -= dx * p.cfg.LookScale
	p.Pitch -= dy * p.cfg.LookScale
	p.Pitch = mgl32.Clamp(p.Pitch, -math.Pi/2, math.Pi/2)
}

// Orientation applies yaw about Y then pitch about the rotated X.
func (p *Player) Orientation() mgl32.Quat {
	yaw := mgl32.QuatRotate(p.Yaw, mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(p.Pitch, mgl32.Vec3{1, 0, 0})
	return yaw.Mul(pitch)
}

func (p *Player) Head() mgl32.Vec3 { return p.Capsule.End }

// LookDirection is the unit view direction.
func (p *Player) LookDirection() mgl32.Vec3 {
	return p.Orientation().Rotate(mgl32.Vec3{0, 0, -1})
}

// Forward is the view direction flattened onto the XZ plane.
func (p *Player) Forward() mgl32.Vec3 {
	f := mgl32.Vec3{
		-float32(math.Sin(float64(p.Yaw))),
		0,
		-float32(math.Cos(float64(p.Yaw))),
	}
	return f.Normalize()
}

// Side is the flattened right-hand vector.
func (p *Player) Side() mgl32.Vec3 {
	return p.Forward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// AimRay leaves the head along the view direction (the screen centre).
func (p *Player) AimRay() mesh.Ray {
	return mesh.Ray{Origin: p.Head(), Direction: p.LookDirection()}
}

// Pose is a camera placement.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// Camera returns the active camera: the first-person head, or the overview
// looking straight down when TopDown is set.
func (p *Player) Camera() Pose {
	if p.TopDown {
		return Pose{
			Position:    p.Head().Add(mgl32.Vec3{0, p.cfg.TopDownHeight, 0}),
			Orientation: mgl32.QuatRotate(-math.Pi/2, mgl32.Vec3{1, 0, 0}),
		}
	}
	return Pose{Position: p.Head(), Orientation: p.Orientation()}
}

// ApplyControls adds this tick's movement impulses.
func (p *Player) ApplyControls(c Controls, dt float32) {
	speed := p.AirSpeed
	if p.OnFloor {
		speed = p.Speed
	}
	delta := dt * speed
	fwd, side := p.Forward(), p.Side()
	if c.Forward {
		p.Velocity = p.Velocity.Add(fwd.Mul(delta))
	}
	if c.Back {
		p.Velocity = p.Velocity.Sub(fwd.Mul(delta))
	}
	if c.Left {
		p.Velocity = p.Velocity.Sub(side.Mul(delta))
	}
	if c.Right {
		p.Velocity = p.Velocity.Add(side.Mul(delta))
	}
	if p.OnFloor && c.Jump {
		p.Velocity[1] = p.JumpSpeed
	}
}

// Step integrates velocity and resolves the capsule against world, which
// may be nil.
func (p *Player) Step(dt float32, world World) {
	damping := float32(math.Exp(float64(-30*dt))) - 1
	if !p.OnFloor {
		p.Velocity[1] -= p.cfg.Gravity * dt
		damping *= 0.1
	}
	p.Velocity = p.Velocity.Add(p.Velocity.Mul(damping))
	p.Capsule = p.Capsule.Translate(p.Velocity.Mul(dt))
	p.collide(world)
}

func (p *Player) collide(world World) {
	p.OnFloor = false
	if world == nil {
		return
	}
	contact, ok := world.CapsuleIntersect(p.Capsule)
	if !ok {
		return
	}
	p.OnFloor = contact.Normal.Y() > 0
	if !p.OnFloor {
		p.Velocity = p.Velocity.Sub(contact.Normal.Mul(contact.Normal.Dot(p.Velocity)))
	}
	p.Capsule = p.Capsule.Translate(contact.Normal.Mul(contact.Depth))
}

// ResetIfOutOfBounds returns the player to the spawn capsule with a level
// view once the head falls to KillY.
func (p *Player) ResetIfOutOfBounds() bool {
	if p.Head().Y() > p.cfg.KillY {
		return false
	}
	p.Reset()
	return true
}

func (p *Player) Reset() {
	p.Capsule = p.cfg.Spawn
	p.Velocity = mgl32.Vec3{}
	p.Yaw, p.Pitch = 0, 0
	p.OnFloor = false
}

// Tick is one full update: controls, physics, bounds check.
func (p *Player) Tick(c Controls, dt float32, world World) {
	p.ApplyControls(c, dt)
	p.Step(dt, world)
	p.ResetIfOutOfBounds()
}
