package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyAABB is inverted so the first ExpandPoint snaps it to the point.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func (b AABB) IsEmpty() bool {
	return b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() || b.Min.Z() > b.Max.Z()
}

func (b AABB) ExpandPoint(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

func (b AABB) ExpandScalar(s float32) AABB {
	d := mgl32.Vec3{s, s, s}
	return AABB{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

func (b AABB) Union(o AABB) AABB {
	if o.IsEmpty() {
		return b
	}
	return b.ExpandPoint(o.Min).ExpandPoint(o.Max)
}

func (b AABB) Center() mgl32.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }
func (b AABB) Size() mgl32.Vec3   { return b.Max.Sub(b.Min) }

func (b AABB) Contains(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

func (b AABB) Intersects(o AABB) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

// Transformed returns the box enclosing all eight transformed corners.
func (b AABB) Transformed(m mgl32.Mat4) AABB {
	out := EmptyAABB()
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{b.Min.X(), b.Min.Y(), b.Min.Z()}
		if i&1 != 0 {
			c[0] = b.Max.X()
		}
		if i&2 != 0 {
			c[1] = b.Max.Y()
		}
		if i&4 != 0 {
			c[2] = b.Max.Z()
		}
		out = out.ExpandPoint(m.Mul4x1(c.Vec4(1)).Vec3())
	}
	return out
}
