package collide

import (
	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultMaxDepth     = 8
	defaultLeafCapacity = 8
)

// Octree indexes the faces of a static mesh. A face is stored in every
// child whose box overlaps the face's bounds.
type Octree struct {
	triangles []mesh.Triangle
	root      *octNode

	// stamp dedupes faces stored in several leaves during one query.
	stamp []uint32
	query uint32
}

type octNode struct {
	box      mesh.AABB
	faces    []int
	children []*octNode
}

func NewOctree(m *mesh.Mesh) *Octree {
	o := &Octree{}
	box := mesh.EmptyAABB()
	faces := make([]int, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		o.triangles = append(o.triangles, t)
		box = box.Union(t.Bounds())
		faces = append(faces, i)
	}
	o.stamp = make([]uint32, len(o.triangles))
	if len(faces) == 0 {
		o.root = &octNode{box: mesh.EmptyAABB()}
		return o
	}
	o.root = &octNode{box: cube(box.ExpandScalar(0.01)), faces: faces}
	o.split(o.root, 0)
	return o
}

// cube grows box to its largest side around the same centre.
func cube(box mesh.AABB) mesh.AABB {
	size := box.Size()
	half := max(size.X(), size.Y(), size.Z()) / 2
	c := box.Center()
	h := mgl32.Vec3{half, half, half}
	return mesh.AABB{Min: c.Sub(h), Max: c.Add(h)}
}

func (o *Octree) split(n *octNode, depth int) {
	if len(n.faces) <= defaultLeafCapacity || depth >= defaultMaxDepth {
		return
	}
	half := n.box.Size().Mul(0.5)
	for i := 0; i < 8; i++ {
		offset := mgl32.Vec3{
			float32(i&1) * half.X(),
			float32((i>>1)&1) * half.Y(),
			float32((i>>2)&1) * half.Z(),
		}
		lo := n.box.Min.Add(offset)
		child := &octNode{box: mesh.AABB{Min: lo, Max: lo.Add(half)}}
		for _, f := range n.faces {
			if child.box.Intersects(o.triangles[f].Bounds()) {
				child.faces = append(child.faces, f)
			}
		}
		if len(child.faces) == 0 {
			continue
		}
		// A child that took every face would split forever.
		if len(child.faces) < len(n.faces) {
			o.split(child, depth+1)
		}
		n.children = append(n.children, child)
	}
	n.faces = nil
}

func (o *Octree) Len() int { return len(o.triangles) }

// facesIn returns each face whose leaf box overlaps box exactly once.
func (o *Octree) facesIn(box mesh.AABB) []int {
	o.query++
	if o.query == 0 {
		clear(o.stamp)
		o.query = 1
	}
	var out []int
	var walk func(n *octNode)
	walk = func(n *octNode) {
		if !n.box.Intersects(box) {
			return
		}
		for _, f := range n.faces {
			if o.stamp[f] != o.query {
				o.stamp[f] = o.query
				out = append(out, f)
			}
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(o.root)
	return out
}

// CapsuleIntersect pushes a copy of c out of every overlapping face in turn
// and reports the total displacement as a unit normal and depth.
func (o *Octree) CapsuleIntersect(c Capsule) (Contact, bool) {
	moved := c
	hit := false
	for _, f := range o.facesIn(c.Bounds()) {
		if contact, ok := triangleContact(moved, o.triangles[f]); ok {
			hit = true
			moved = moved.Translate(contact.Normal.Mul(contact.Depth))
		}
	}
	if !hit {
		return Contact{}, false
	}
	v := moved.Center().Sub(c.Center())
	depth := v.Len()
	if depth < 1e-9 {
		return Contact{}, false
	}
	return Contact{Normal: v.Mul(1 / depth), Depth: depth}, true
}

// Raycast returns the nearest front-facing face hit within maxDist.
func (o *Octree) Raycast(r mesh.Ray, maxDist float32) (mesh.Hit, bool) {
	best := mesh.Hit{Distance: maxDist}
	found := false
	var walk func(n *octNode)
	walk = func(n *octNode) {
		if t, ok := mesh.IntersectAABB(r, n.box); !ok || t > best.Distance {
			return
		}
		for _, f := range n.faces {
			tri := o.triangles[f]
			d, ok := mesh.IntersectTriangle(r, tri.P[0], tri.P[1], tri.P[2], true)
			if ok && d <= best.Distance {
				best = mesh.Hit{Distance: d, Point: r.At(d), Normal: tri.FaceNormal(), Triangle: f}
				found = true
			}
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(o.root)
	return best, found
}
