package graph

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// ObjectToWorld is T * R * S.
func (t Transform) ObjectToWorld() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// WorldToObject is inv(S) * conj(R) * inv(T).
func (t Transform) WorldToObject() mgl32.Mat4 {
	invScale := mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z())
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())
	return invScale.Mul4(t.Rotation.Conjugate().Mat4()).Mul4(invTranslate)
}

// Compose returns the transform of a child with local transform c under t.
// Scales multiply per axis, so non-uniform scale combined with rotation is
// only exact when the axes line up.
func (t Transform) Compose(c Transform) Transform {
	scaled := mgl32.Vec3{
		c.Position.X() * t.Scale.X(),
		c.Position.Y() * t.Scale.Y(),
		c.Position.Z() * t.Scale.Z(),
	}
	return Transform{
		Position: t.Position.Add(t.Rotation.Rotate(scaled)),
		Rotation: t.Rotation.Mul(c.Rotation).Normalize(),
		Scale: mgl32.Vec3{
			t.Scale.X() * c.Scale.X(),
			t.Scale.Y() * c.Scale.Y(),
			t.Scale.Z() * c.Scale.Z(),
		},
	}
}
