package decal

import (
	"math"
	"testing"

	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floorProjector(size mgl32.Vec3) Projector {
	return NewProjector(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 0, size)
}

func totalArea(tris []Triangle) float32 {
	var a float32
	for _, t := range tris {
		a += 0.5 * t[1].Position.Sub(t[0].Position).Cross(t[2].Position.Sub(t[0].Position)).Len()
	}
	return a
}

func TestClipFloorPlaneToFootprint(t *testing.T) {
	surface := mesh.Plane(10, 10)
	p := floorProjector(mgl32.Vec3{1, 1, 0.2})

	tris := Clip(surface, p)
	require.NotEmpty(t, tris)
	assert.InDelta(t, 1.0, totalArea(tris), 1e-4)

	for _, tri := range tris {
		for _, v := range tri {
			assert.InDelta(t, 0, v.Position.Y(), 1e-5)
			assert.LessOrEqual(t, math.Abs(float64(v.Position.X())), 0.5+1e-5)
			assert.LessOrEqual(t, math.Abs(float64(v.Position.Z())), 0.5+1e-5)
			assert.GreaterOrEqual(t, v.UV.X(), float32(-1e-5))
			assert.LessOrEqual(t, v.UV.X(), float32(1+1e-5))
			assert.GreaterOrEqual(t, v.UV.Y(), float32(-1e-5))
			assert.LessOrEqual(t, v.UV.Y(), float32(1+1e-5))
			assert.InDelta(t, 1, v.Normal.Y(), 1e-5)
		}
		// Clipping keeps the surface's winding.
		n := tri[1].Position.Sub(tri[0].Position).Cross(tri[2].Position.Sub(tri[0].Position))
		assert.Greater(t, n.Y(), float32(0))
	}
}

func TestClipUVCoversUnitSquare(t *testing.T) {
	tris := Clip(mesh.Plane(10, 10), floorProjector(mgl32.Vec3{2, 2, 0.2}))
	var lo, hi = mgl32.Vec2{1, 1}, mgl32.Vec2{0, 0}
	for _, tri := range tris {
		for _, v := range tri {
			lo = mgl32.Vec2{min(lo.X(), v.UV.X()), min(lo.Y(), v.UV.Y())}
			hi = mgl32.Vec2{max(hi.X(), v.UV.X()), max(hi.Y(), v.UV.Y())}
		}
	}
	assert.InDelta(t, 0, lo.X(), 1e-4)
	assert.InDelta(t, 0, lo.Y(), 1e-4)
	assert.InDelta(t, 1, hi.X(), 1e-4)
	assert.InDelta(t, 1, hi.Y(), 1e-4)
}

func TestClipOutsideDepthIsEmpty(t *testing.T) {
	surface := mesh.Plane(10, 10)
	p := NewProjector(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0}, 0, mgl32.Vec3{1, 1, 0.1})
	assert.Empty(t, Clip(surface, p))

	m := Build(surface, p, Material{})
	assert.True(t, m.Empty())
	assert.Equal(t, 0, m.ToSurface().TriangleCount())
}

func TestClipRejectsSteepFaces(t *testing.T) {
	// A vertical wall crossing the box is at 90° to the reference normal.
	wall := mesh.Plane(4, 4).Transformed(mgl32.HomogRotate3DX(mgl32.DegToRad(90)))
	p := floorProjector(mgl32.Vec3{1, 1, 1})
	assert.Empty(t, Clip(wall, p))

	tilt := func(deg float32) *mesh.Mesh {
		return mesh.Plane(4, 4).Transformed(mgl32.HomogRotate3DX(mgl32.DegToRad(deg)))
	}
	assert.NotEmpty(t, Clip(tilt(50), p), "50° is within tolerance")
	assert.Empty(t, Clip(tilt(70), p), "70° is outside tolerance")
	assert.NotEmpty(t, Clip(tilt(180), p), "a back-facing surface is parallel mod 180°")
}

func TestClipSpinRotatesFootprint(t *testing.T) {
	surface := mesh.Plane(10, 10)
	p := NewProjector(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, float32(math.Pi/4), mgl32.Vec3{2, 1, 0.2})
	tris := Clip(surface, p)
	assert.InDelta(t, 2.0, totalArea(tris), 1e-3)

	var reach float32
	for _, tri := range tris {
		for _, v := range tri {
			reach = max(reach, v.Position.Len())
		}
	}
	// Corners of a 2x1 rectangle sit sqrt(1.25) from the centre.
	assert.InDelta(t, math.Sqrt(1.25), reach, 1e-3)
}

func TestClipAcrossBoxEdge(t *testing.T) {
	// Two boxes' worth of geometry: a floor and the top of a step. Only
	// what falls inside the projector depth survives.
	step := mesh.Box(1, 1, 1).Transformed(mgl32.Translate3D(0.5, 0.5, 0))
	surface := mesh.Plane(4, 4)
	surface.Append(step)

	p := NewProjector(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 0, mgl32.Vec3{1, 1, 0.2})
	tris := Clip(surface, p)
	require.NotEmpty(t, tris)
	for _, tri := range tris {
		for _, v := range tri {
			assert.LessOrEqual(t, v.Position.Y(), float32(0.1+1e-5))
			assert.GreaterOrEqual(t, v.Position.Y(), float32(-0.1-1e-5))
		}
	}
}

func TestClipDoesNotModifySurface(t *testing.T) {
	surface := mesh.Plane(2, 2)
	before := append([]mgl32.Vec3(nil), surface.Positions...)
	Clip(surface, floorProjector(mgl32.Vec3{1, 1, 1}))
	assert.Equal(t, before, surface.Positions)
}

func TestClipWithoutNormalsPanics(t *testing.T) {
	surface := &mesh.Mesh{Positions: []mgl32.Vec3{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}}}
	assert.Panics(t, func() { Clip(surface, floorProjector(mgl32.Vec3{1, 1, 1})) })
}

func TestClipAgainstTriangleCases(t *testing.T) {
	v := func(x, y float32) clipVertex { return clipVertex{pos: mgl32.Vec3{x, y, 0}} }
	tri := []clipVertex{v(0, 0), v(2, 0), v(0, 2)}
	n := mgl32.Vec3{1, 0, 0}

	assert.Len(t, clipAgainst(tri, n, 5), 3, "all inside")
	assert.Len(t, clipAgainst(tri, n, -1), 0, "all outside")
	assert.Len(t, clipAgainst(tri, n, 1), 6, "one outside makes a quad")

	two := clipAgainst(tri, mgl32.Vec3{-1, 0, 0}, -1)
	// x >= 1 keeps only the (2,0) corner.
	require.Len(t, two, 3)
	for _, c := range two {
		assert.GreaterOrEqual(t, c.pos.X(), float32(1-1e-6))
	}
}

func TestMaterialTextureName(t *testing.T) {
	assert.Equal(t, "decal_diff4", Material{Variant: 0}.TextureName())
	assert.Equal(t, "decal_diff7", Material{Variant: 3}.TextureName())
}

func TestNewProjectorLooksIntoSurface(t *testing.T) {
	p := NewProjector(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 0, 2}, 1.2, mgl32.Vec3{1, 1, 1})
	axis := p.Orientation.Rotate(mgl32.Vec3{0, 0, 1})
	assert.True(t, axis.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5), "got %v", axis)
	assert.InDelta(t, 1, p.ReferenceNormal.Len(), 1e-6)

	local := p.WorldToObject().Mul4x1(mgl32.Vec4{1, 2, 3, 1}).Vec3()
	assert.InDelta(t, 0, local.Len(), 1e-5)
}

func TestClipQuadInsideProjectorKeepsTriangleCount(t *testing.T) {
	surface := mesh.Plane(2, 2)
	tris := Clip(surface, floorProjector(mgl32.Vec3{5, 5, 1}))
	assert.Len(t, tris, surface.TriangleCount())
	assert.InDelta(t, 4.0, totalArea(tris), 1e-4)
}
