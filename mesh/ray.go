package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray has a unit Direction; Distance values along it are world units.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay normalizes dir. ok is false for a zero direction.
func NewRay(origin, dir mgl32.Vec3) (Ray, bool) {
	l := dir.Len()
	if l < 1e-12 {
		return Ray{}, false
	}
	return Ray{Origin: origin, Direction: dir.Mul(1 / l)}, true
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transformed moves the ray through m and renormalizes. scale is the length
// the unit direction had after transformation: local distances divide by it.
func (r Ray) Transformed(m mgl32.Mat4) (out Ray, scale float32) {
	origin := m.Mul4x1(r.Origin.Vec4(1)).Vec3()
	dir := m.Mul4x1(r.Direction.Vec4(0)).Vec3()
	scale = dir.Len()
	if scale < 1e-6 {
		return Ray{Origin: origin}, 0
	}
	return Ray{Origin: origin, Direction: dir.Mul(1 / scale)}, scale
}

type Hit struct {
	Distance float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Triangle int
}

// IntersectTriangle is Möller–Trumbore. With cullBack set, faces whose
// winding points away from the ray origin are skipped.
func IntersectTriangle(r Ray, a, b, c mgl32.Vec3, cullBack bool) (float32, bool) {
	const eps = 1e-7
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if cullBack {
		if det < eps {
			return 0, false
		}
	} else if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectSphere returns the entering distance. A ray starting inside the
// sphere does not hit it.
func IntersectSphere(r Ray, center mgl32.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	if c < 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - float32(math.Sqrt(float64(disc)))
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectAABB is the slab test; it returns the entry distance clamped to 0.
func IntersectAABB(r Ray, box AABB) (float32, bool) {
	tmin := float32(0)
	tmax := float32(math.Inf(1))
	for i := 0; i < 3; i++ {
		d := r.Direction[i]
		if d > -1e-12 && d < 1e-12 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t0 := (box.Min[i] - r.Origin[i]) * inv
		t1 := (box.Max[i] - r.Origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = max(tmin, t0)
		tmax = min(tmax, t1)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// Raycast returns the nearest front-facing hit within maxDist.
func (m *Mesh) Raycast(r Ray, maxDist float32) (Hit, bool) {
	best := Hit{Distance: maxDist}
	found := false
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		d, ok := IntersectTriangle(r, t.P[0], t.P[1], t.P[2], true)
		if !ok || d > best.Distance {
			continue
		}
		best = Hit{Distance: d, Point: r.At(d), Normal: t.FaceNormal(), Triangle: i}
		found = true
	}
	return best, found
}

// RotationBetween is the shortest rotation taking from onto to. Opposite
// vectors rotate half a turn about any perpendicular axis.
func RotationBetween(from, to mgl32.Vec3) mgl32.Quat {
	from, to = safeNormalize(from), safeNormalize(to)
	cos := from.Dot(to)
	if cos > 1-1e-6 {
		return mgl32.QuatIdent()
	}
	if cos < -1+1e-6 {
		axis := mgl32.Vec3{1, 0, 0}.Cross(from)
		if axis.Len() < 1e-3 {
			axis = mgl32.Vec3{0, 1, 0}.Cross(from)
		}
		return mgl32.QuatRotate(math.Pi, axis.Normalize())
	}
	axis := from.Cross(to)
	s := float32(math.Sqrt(float64((1 + cos) * 2)))
	return mgl32.Quat{W: s * 0.5, V: axis.Mul(1 / s)}.Normalize()
}
