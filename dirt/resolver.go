package dirt

import (
	"github.com/gekko3d/scrub/graph"
	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

type Pass int

const (
	ColliderPass Pass = iota + 1
	GeometryPass
)

type Hit struct {
	ID       ID
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
	Pass     Pass
}

// Resolver picks the entity a ray points at. Collider spheres are tried
// first; only if none is within Reach is the visual geometry tried.
type Resolver struct {
	Reach float32
	reg   *Registry
}

func (res *Resolver) Resolve(origin, dir mgl32.Vec3) (Hit, bool) {
	ray, ok := mesh.NewRay(origin, dir)
	if !ok {
		return Hit{}, false
	}
	if hit, ok := res.colliders(ray); ok && hit.Distance <= res.Reach {
		return hit, true
	}
	if hit, ok := res.geometry(ray); ok && hit.Distance <= res.Reach {
		return hit, true
	}
	return Hit{}, false
}

// colliders only considers spheres the grid finds around the reach segment;
// anything else is necessarily out of reach.
func (res *Resolver) colliders(ray mesh.Ray) (Hit, bool) {
	reg := res.reg
	radius := reg.cfg.ColliderRadius
	best := Hit{Distance: res.Reach}
	found := false
	for _, id := range reg.grid.QuerySegment(ray.Origin, ray.At(res.Reach), radius) {
		idx, ok := reg.byCollider[id]
		if !ok {
			continue
		}
		center := reg.slots[idx].e.Collider.WorldPosition()
		t, ok := mesh.IntersectSphere(ray, center, radius)
		if !ok || t > best.Distance {
			continue
		}
		p := ray.At(t)
		best = Hit{
			ID:       ID{Index: idx, Gen: reg.slots[idx].gen},
			Point:    p,
			Normal:   p.Sub(center).Normalize(),
			Distance: t,
			Pass:     ColliderPass,
		}
		found = true
	}
	return best, found
}

func (res *Resolver) geometry(ray mesh.Ray) (Hit, bool) {
	reg := res.reg
	best := Hit{Distance: res.Reach}
	found := false
	reg.Decals.Traverse(func(n *graph.Node) bool {
		if n.Geometry == nil {
			return true
		}
		idx, ok := reg.byVisual[n.ID]
		if !ok {
			return true
		}
		e := &reg.slots[idx].e
		if t, ok := mesh.IntersectAABB(ray, e.bounds); !ok || t > best.Distance {
			return true
		}

		world := n.WorldMatrix()
		local, scale := ray.Transformed(world.Inv())
		if scale == 0 {
			return true
		}
		h, ok := n.Geometry.Raycast(local, best.Distance*scale)
		if !ok {
			return true
		}
		d := h.Distance / scale
		normal := world.Mat3().Inv().Transpose().Mul3x1(h.Normal).Normalize()
		best = Hit{
			ID:       ID{Index: idx, Gen: reg.slots[idx].gen},
			Point:    ray.At(d),
			Normal:   normal,
			Distance: d,
			Pass:     GeometryPass,
		}
		found = true
		return true
	})
	return best, found
}
