package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Primitive builders produce non-indexed meshes centred on the origin with
// counter-clockwise (outward) winding.

type builder struct {
	m Mesh
}

// flat adds a face with its face normal, flipping the winding when it does
// not agree with outward. Degenerate faces are dropped.
func (b *builder) flat(p0, p1, p2, outward mgl32.Vec3) {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Len() < 1e-9 {
		return
	}
	if n.Dot(outward) < 0 {
		p1, p2 = p2, p1
		n = n.Mul(-1)
	}
	n = n.Normalize()
	b.m.AddTriangle(Triangle{P: [3]mgl32.Vec3{p0, p1, p2}, N: [3]mgl32.Vec3{n, n, n}})
}

func (b *builder) smooth(p [3]mgl32.Vec3, n [3]mgl32.Vec3, outward mgl32.Vec3) {
	f := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if f.Len() < 1e-9 {
		return
	}
	if f.Dot(outward) < 0 {
		p[1], p[2] = p[2], p[1]
		n[1], n[2] = n[2], n[1]
	}
	b.m.AddTriangle(Triangle{P: p, N: n})
}

func (b *builder) quad(p0, p1, p2, p3, outward mgl32.Vec3) {
	b.flat(p0, p1, p2, outward)
	b.flat(p0, p2, p3, outward)
}

func (b *builder) mesh() *Mesh {
	m := b.m
	return &m
}

func Box(w, h, d float32) *Mesh {
	x, y, z := w/2, h/2, d/2
	c := func(sx, sy, sz float32) mgl32.Vec3 { return mgl32.Vec3{sx * x, sy * y, sz * z} }
	var b builder
	b.quad(c(1, -1, -1), c(1, 1, -1), c(1, 1, 1), c(1, -1, 1), mgl32.Vec3{1, 0, 0})
	b.quad(c(-1, -1, -1), c(-1, -1, 1), c(-1, 1, 1), c(-1, 1, -1), mgl32.Vec3{-1, 0, 0})
	b.quad(c(-1, 1, -1), c(-1, 1, 1), c(1, 1, 1), c(1, 1, -1), mgl32.Vec3{0, 1, 0})
	b.quad(c(-1, -1, -1), c(1, -1, -1), c(1, -1, 1), c(-1, -1, 1), mgl32.Vec3{0, -1, 0})
	b.quad(c(-1, -1, 1), c(1, -1, 1), c(1, 1, 1), c(-1, 1, 1), mgl32.Vec3{0, 0, 1})
	b.quad(c(-1, -1, -1), c(-1, 1, -1), c(1, 1, -1), c(1, -1, -1), mgl32.Vec3{0, 0, -1})
	return b.mesh()
}

// Plane lies in XZ facing +Y.
func Plane(w, d float32) *Mesh {
	x, z := w/2, d/2
	var b builder
	b.quad(mgl32.Vec3{-x, 0, -z}, mgl32.Vec3{-x, 0, z}, mgl32.Vec3{x, 0, z}, mgl32.Vec3{x, 0, -z}, mgl32.Vec3{0, 1, 0})
	return b.mesh()
}

// Sphere is a UV sphere with smooth normals.
func Sphere(radius float32, widthSegments, heightSegments int) *Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)
	point := func(i, j int) mgl32.Vec3 {
		theta := math.Pi * float64(j) / float64(heightSegments)
		phi := 2 * math.Pi * float64(i) / float64(widthSegments)
		return mgl32.Vec3{
			float32(math.Sin(theta) * math.Cos(phi)),
			float32(math.Cos(theta)),
			float32(math.Sin(theta) * math.Sin(phi)),
		}
	}
	var b builder
	for j := 0; j < heightSegments; j++ {
		for i := 0; i < widthSegments; i++ {
			n00, n10 := point(i, j), point(i+1, j)
			n01, n11 := point(i, j+1), point(i+1, j+1)
			tri := func(a, c, d mgl32.Vec3) {
				out := a.Add(c).Add(d)
				b.smooth(
					[3]mgl32.Vec3{a.Mul(radius), c.Mul(radius), d.Mul(radius)},
					[3]mgl32.Vec3{a, c, d},
					out,
				)
			}
			tri(n00, n01, n11)
			tri(n00, n11, n10)
		}
	}
	return b.mesh()
}

// Cylinder runs along Y from -height/2 to height/2. A zero radius collapses
// that end into an apex.
func Cylinder(radiusTop, radiusBottom, height float32, segments int) *Mesh {
	segments = max(segments, 3)
	hy := height / 2
	ring := func(r, y float32, i int) mgl32.Vec3 {
		a := 2 * math.Pi * float64(i) / float64(segments)
		return mgl32.Vec3{r * float32(math.Sin(a)), y, r * float32(math.Cos(a))}
	}
	var b builder
	for i := 0; i < segments; i++ {
		b0, b1 := ring(radiusBottom, -hy, i), ring(radiusBottom, -hy, i+1)
		t0, t1 := ring(radiusTop, hy, i), ring(radiusTop, hy, i+1)
		mid := b0.Add(b1).Add(t0).Add(t1).Mul(0.25)
		outward := mgl32.Vec3{mid.X(), 0, mid.Z()}
		b.flat(b0, b1, t1, outward)
		b.flat(b0, t1, t0, outward)
		if radiusTop > 0 {
			b.flat(mgl32.Vec3{0, hy, 0}, t0, t1, mgl32.Vec3{0, 1, 0})
		}
		if radiusBottom > 0 {
			b.flat(mgl32.Vec3{0, -hy, 0}, b0, b1, mgl32.Vec3{0, -1, 0})
		}
	}
	return b.mesh()
}

func Cone(radius, height float32, segments int) *Mesh {
	return Cylinder(0, radius, height, segments)
}

// Icosahedron with flat faces and vertices on the given radius.
func Icosahedron(radius float32) *Mesh {
	t := float32((1 + math.Sqrt(5)) / 2)
	v := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i := range v {
		v[i] = v[i].Normalize().Mul(radius)
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	var b builder
	for _, f := range faces {
		p0, p1, p2 := v[f[0]], v[f[1]], v[f[2]]
		b.flat(p0, p1, p2, p0.Add(p1).Add(p2))
	}
	return b.mesh()
}
