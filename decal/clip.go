package decal

import (
	"math"

	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

type Triangle [3]Vertex

type clipVertex struct {
	pos    mgl32.Vec3
	normal mgl32.Vec3
}

var clipPlanes = [6]mgl32.Vec3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Clip returns the parts of surface inside the projector box whose face
// normals lie within MaxAngle of the reference normal (either facing).
// The surface must carry per-vertex normals; it is never modified.
func Clip(surface *mesh.Mesh, p Projector) []Triangle {
	surface.MustHaveNormals()

	toLocal := p.WorldToObject()
	toWorld := p.ObjectToWorld()
	invRot := p.Orientation.Conjugate()

	var out []Triangle
	for i := 0; i < surface.TriangleCount(); i++ {
		t := surface.Triangle(i)
		verts := make([]clipVertex, 3, 12)
		for k := 0; k < 3; k++ {
			verts[k] = clipVertex{
				pos:    toLocal.Mul4x1(t.P[k].Vec4(1)).Vec3(),
				normal: invRot.Rotate(t.N[k]),
			}
		}
		for _, plane := range clipPlanes {
			if len(verts) == 0 {
				break
			}
			verts = clipAgainst(verts, plane, 0.5*absDot(p.Size, plane))
		}
		for j := 0; j+2 < len(verts); j += 3 {
			tri := [3]clipVertex{verts[j], verts[j+1], verts[j+2]}
			if !withinTolerance(tri, p) {
				continue
			}
			out = append(out, toWorldTriangle(tri, p, toWorld))
		}
	}
	return out
}

func absDot(size, plane mgl32.Vec3) float32 {
	return float32(math.Abs(float64(size.Dot(plane))))
}

// clipAgainst clips a triangle list against the plane dot(v, n) = s, keeping
// the side where dot(v, n) <= s. Winding order is preserved.
func clipAgainst(in []clipVertex, n mgl32.Vec3, s float32) []clipVertex {
	out := make([]clipVertex, 0, len(in))
	for i := 0; i+2 < len(in); i += 3 {
		tri := [3]clipVertex{in[i], in[i+1], in[i+2]}
		var outside [3]bool
		total := 0
		for k := range tri {
			if tri[k].pos.Dot(n) > s {
				outside[k] = true
				total++
			}
		}
		switch total {
		case 0:
			out = append(out, tri[:]...)
		case 1:
			// Rotate so the outside vertex comes first; the quad left over
			// splits into two triangles.
			r := rotateTo(tri, outside, true)
			ab := clipEdge(r[0], r[1], n, s)
			ac := clipEdge(r[0], r[2], n, s)
			out = append(out, r[1], r[2], ab, ac, ab, r[2])
		case 2:
			// Rotate so the inside vertex comes first.
			r := rotateTo(tri, outside, false)
			out = append(out, r[0], clipEdge(r[0], r[1], n, s), clipEdge(r[0], r[2], n, s))
		}
	}
	return out
}

// rotateTo cycles tri until the vertex whose outside flag equals want is first.
func rotateTo(tri [3]clipVertex, outside [3]bool, want bool) [3]clipVertex {
	for k := 0; k < 3; k++ {
		if outside[k] == want {
			return [3]clipVertex{tri[k], tri[(k+1)%3], tri[(k+2)%3]}
		}
	}
	return tri
}

// clipEdge interpolates position and normal where segment v0-v1 crosses the plane.
func clipEdge(v0, v1 clipVertex, n mgl32.Vec3, s float32) clipVertex {
	d0 := v0.pos.Dot(n) - s
	d1 := v1.pos.Dot(n) - s
	t := d0 / (d0 - d1)
	return clipVertex{
		pos:    v0.pos.Add(v1.pos.Sub(v0.pos).Mul(t)),
		normal: v0.normal.Add(v1.normal.Sub(v0.normal).Mul(t)),
	}
}

// withinTolerance compares the face normal with the reference normal in
// projector space. Angles are reduced mod 180°, so back faces count.
func withinTolerance(tri [3]clipVertex, p Projector) bool {
	face := tri[1].pos.Sub(tri[0].pos).Cross(tri[2].pos.Sub(tri[0].pos))
	ref := p.Orientation.Conjugate().Rotate(p.ReferenceNormal)
	lf, lr := face.Len(), ref.Len()
	if lf < 1e-12 || lr < 1e-12 {
		return false
	}
	cos := face.Dot(ref) / (lf * lr)
	limit := float32(math.Cos(float64(p.maxAngle())))
	return float32(math.Abs(float64(cos))) >= limit-1e-6
}

func toWorldTriangle(tri [3]clipVertex, p Projector, toWorld mgl32.Mat4) Triangle {
	var out Triangle
	for k, v := range tri {
		n := p.Orientation.Rotate(v.normal)
		if l := n.Len(); l > 1e-12 {
			n = n.Mul(1 / l)
		}
		out[k] = Vertex{
			Position: toWorld.Mul4x1(v.pos.Vec4(1)).Vec3(),
			Normal:   n,
			UV: mgl32.Vec2{
				0.5 + v.pos.X()/p.Size.X(),
				0.5 + v.pos.Y()/p.Size.Y(),
			},
		}
	}
	return out
}
