// Package mesh holds triangle meshes, primitive builders, a surface sampler
// and the ray queries shared by the decal, collide and dirt packages.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a triangle list. With Indices nil every three positions form a
// triangle, otherwise Indices are consumed in triples.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
}

// Triangle is a single face with its vertex normals.
type Triangle struct {
	P [3]mgl32.Vec3
	N [3]mgl32.Vec3
}

func (m *Mesh) HasNormals() bool {
	return m != nil && len(m.Positions) > 0 && len(m.Normals) == len(m.Positions)
}

// MustHaveNormals panics when the mesh carries no per-vertex normals.
func (m *Mesh) MustHaveNormals() {
	if m == nil {
		panic("mesh: nil mesh")
	}
	if len(m.Positions) > 0 && len(m.Normals) != len(m.Positions) {
		panic(fmt.Sprintf("mesh: %d positions but %d normals", len(m.Positions), len(m.Normals)))
	}
}

func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	if m.Indices != nil {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

func (m *Mesh) vertex(i int) int {
	if m.Indices != nil {
		return int(m.Indices[i])
	}
	return i
}

// Triangle returns face i. Normals are zero when the mesh has none.
func (m *Mesh) Triangle(i int) Triangle {
	var t Triangle
	withNormals := m.HasNormals()
	for k := 0; k < 3; k++ {
		v := m.vertex(i*3 + k)
		t.P[k] = m.Positions[v]
		if withNormals {
			t.N[k] = m.Normals[v]
		}
	}
	return t
}

// AddTriangle appends a non-indexed face. It panics on an indexed mesh.
func (m *Mesh) AddTriangle(t Triangle) {
	if m.Indices != nil {
		panic("mesh: AddTriangle on indexed mesh")
	}
	m.Positions = append(m.Positions, t.P[0], t.P[1], t.P[2])
	m.Normals = append(m.Normals, t.N[0], t.N[1], t.N[2])
}

// Append copies every face of other into m, flattening indices.
func (m *Mesh) Append(other *Mesh) {
	for i := 0; i < other.TriangleCount(); i++ {
		t := other.Triangle(i)
		if !other.HasNormals() {
			n := t.FaceNormal()
			t.N = [3]mgl32.Vec3{n, n, n}
		}
		m.AddTriangle(t)
	}
}

// Transformed returns a flattened copy with positions multiplied by mat and
// normals by its inverse transpose.
func (m *Mesh) Transformed(mat mgl32.Mat4) *Mesh {
	normalMat := mat.Mat3().Inv().Transpose()
	out := &Mesh{
		Positions: make([]mgl32.Vec3, 0, m.TriangleCount()*3),
		Normals:   make([]mgl32.Vec3, 0, m.TriangleCount()*3),
	}
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		if !m.HasNormals() {
			n := t.FaceNormal()
			t.N = [3]mgl32.Vec3{n, n, n}
		}
		for k := 0; k < 3; k++ {
			t.P[k] = mat.Mul4x1(t.P[k].Vec4(1)).Vec3()
			t.N[k] = safeNormalize(normalMat.Mul3x1(t.N[k]))
		}
		out.AddTriangle(t)
	}
	return out
}

func (m *Mesh) Bounds() AABB {
	box := EmptyAABB()
	for _, p := range m.Positions {
		box = box.ExpandPoint(p)
	}
	return box
}

// FaceNormal is the unit normal given by the winding order; zero for a
// degenerate face.
func (t Triangle) FaceNormal() mgl32.Vec3 {
	return safeNormalize(t.P[1].Sub(t.P[0]).Cross(t.P[2].Sub(t.P[0])))
}

func (t Triangle) Area() float32 {
	return 0.5 * t.P[1].Sub(t.P[0]).Cross(t.P[2].Sub(t.P[0])).Len()
}

func (t Triangle) Centroid() mgl32.Vec3 {
	return t.P[0].Add(t.P[1]).Add(t.P[2]).Mul(1.0 / 3.0)
}

func (t Triangle) Bounds() AABB {
	return EmptyAABB().ExpandPoint(t.P[0]).ExpandPoint(t.P[1]).ExpandPoint(t.P[2])
}

// ContainsPoint reports whether p, projected onto the triangle's plane,
// falls inside the triangle (edges included).
func (t Triangle) ContainsPoint(p mgl32.Vec3) bool {
	v0 := t.P[2].Sub(t.P[0])
	v1 := t.P[1].Sub(t.P[0])
	v2 := p.Sub(t.P[0])
	dot00, dot01, dot02 := v0.Dot(v0), v0.Dot(v1), v0.Dot(v2)
	dot11, dot12 := v1.Dot(v1), v1.Dot(v2)
	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return false
	}
	inv := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * inv
	v := (dot00*dot12 - dot01*dot02) * inv
	return u >= 0 && v >= 0 && u+v <= 1
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
