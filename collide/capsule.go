// Package collide resolves a player capsule against static level geometry
// held in a triangle octree.
package collide

import (
	"math"

	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

type Capsule struct {
	Start  mgl32.Vec3
	End    mgl32.Vec3
	Radius float32
}

func (c Capsule) Center() mgl32.Vec3 {
	return c.Start.Add(c.End).Mul(0.5)
}

func (c Capsule) Translate(v mgl32.Vec3) Capsule {
	c.Start = c.Start.Add(v)
	c.End = c.End.Add(v)
	return c
}

func (c Capsule) Bounds() mesh.AABB {
	return mesh.EmptyAABB().ExpandPoint(c.Start).ExpandPoint(c.End).ExpandScalar(c.Radius)
}

// Contact describes how far and in which direction to push a shape out of
// the geometry it overlaps.
type Contact struct {
	Normal mgl32.Vec3
	Depth  float32
}

// triangleContact tests a single triangle. The triangle's plane is
// one-sided: a capsule entirely behind it by more than its radius is ignored.
func triangleContact(c Capsule, t mesh.Triangle) (Contact, bool) {
	normal := t.FaceNormal()
	if normal == (mgl32.Vec3{}) {
		return Contact{}, false
	}
	constant := -normal.Dot(t.P[0])
	d1 := normal.Dot(c.Start) + constant - c.Radius
	d2 := normal.Dot(c.End) + constant - c.Radius
	if (d1 > 0 && d2 > 0) || (d1 < -c.Radius && d2 < -c.Radius) {
		return Contact{}, false
	}

	delta := float32(0)
	if den := abs32(d1) + abs32(d2); den > 0 {
		delta = abs32(d1 / den)
	}
	p := c.Start.Add(c.End.Sub(c.Start).Mul(delta))
	if t.ContainsPoint(p) {
		return Contact{Normal: normal, Depth: abs32(min(d1, d2))}, true
	}

	r2 := c.Radius * c.Radius
	edges := [3][2]mgl32.Vec3{{t.P[0], t.P[1]}, {t.P[1], t.P[2]}, {t.P[2], t.P[0]}}
	for _, e := range edges {
		p1, p2 := closestSegmentPoints(c.Start, c.End, e[0], e[1])
		if p1.Sub(p2).LenSqr() < r2 {
			d := p1.Sub(p2)
			l := d.Len()
			if l < 1e-9 {
				return Contact{Normal: normal, Depth: c.Radius}, true
			}
			return Contact{Normal: d.Mul(1 / l), Depth: c.Radius - l}, true
		}
	}
	return Contact{}, false
}

// closestSegmentPoints returns the closest pair of points on segments a0-a1
// and b0-b1.
func closestSegmentPoints(a0, a1, b0, b1 mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	r := a1.Sub(a0)
	s := b1.Sub(b0)
	w := b0.Sub(a0)
	a := r.Dot(s)
	b := r.Dot(r)
	c := s.Dot(s)
	d := s.Dot(w)
	e := r.Dot(w)

	var t1, t2 float32
	divisor := b*c - a*a
	switch {
	case c < 1e-12:
		t2 = 0
		if b > 1e-12 {
			t1 = e / b
		}
	case abs32(divisor) < 1e-10:
		// Parallel: pick whichever end of a lands nearer the middle of b.
		d1 := -d / c
		d2 := (a - d) / c
		if abs32(d1-0.5) < abs32(d2-0.5) {
			t1, t2 = 0, d1
		} else {
			t1, t2 = 1, d2
		}
	default:
		t1 = (d*a + e*c) / divisor
		t2 = (t1*a - d) / c
	}
	t1 = clamp01(t1)
	t2 = clamp01(t2)
	return a0.Add(r.Mul(t1)), b0.Add(s.Mul(t2))
}

func clamp01(v float32) float32 {
	return float32(math.Max(0, math.Min(1, float64(v))))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
