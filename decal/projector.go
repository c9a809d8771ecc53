// Package decal projects a box onto a static surface mesh and clips the
// surface triangles inside it into a decal mesh.
package decal

import (
	"math"

	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaxAngle is the normal tolerance used when Projector.MaxAngle is zero.
const DefaultMaxAngle = float32(math.Pi / 3)

// Projector is an oriented box. Size holds full extents: x and y are the
// footprint, z the depth along the projection axis.
type Projector struct {
	Position        mgl32.Vec3
	Orientation     mgl32.Quat
	Size            mgl32.Vec3
	ReferenceNormal mgl32.Vec3
	// MaxAngle in radians.
	MaxAngle float32
}

// NewProjector centres a projector on a surface point, looking into the
// surface along -normal, spun by spin radians about that axis.
func NewProjector(point, normal mgl32.Vec3, spin float32, size mgl32.Vec3) Projector {
	n := normal.Normalize()
	look := mesh.RotationBetween(mgl32.Vec3{0, 0, 1}, n.Mul(-1))
	return Projector{
		Position:        point,
		Orientation:     look.Mul(mgl32.QuatRotate(spin, mgl32.Vec3{0, 0, 1})).Normalize(),
		Size:            size,
		ReferenceNormal: n,
		MaxAngle:        DefaultMaxAngle,
	}
}

func (p Projector) ObjectToWorld() mgl32.Mat4 {
	return mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).Mul4(p.Orientation.Mat4())
}

func (p Projector) WorldToObject() mgl32.Mat4 {
	return p.Orientation.Conjugate().Mat4().Mul4(mgl32.Translate3D(-p.Position.X(), -p.Position.Y(), -p.Position.Z()))
}

func (p Projector) maxAngle() float32 {
	if p.MaxAngle <= 0 {
		return DefaultMaxAngle
	}
	return p.MaxAngle
}
