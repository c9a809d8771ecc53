package dirt

import (
	"math"

	"github.com/gekko3d/scrub/graph"
	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// SpatialHashGrid buckets collider node ids by the cells their bounds touch.
// It stores no positions: queries return broadphase candidates.
type SpatialHashGrid struct {
	cellSize float32
	cells    map[uint64][]graph.NodeID
}

func NewSpatialHashGrid(cellSize float32) *SpatialHashGrid {
	return &SpatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]graph.NodeID),
	}
}

func (grid *SpatialHashGrid) Clear() {
	clear(grid.cells)
}

func (grid *SpatialHashGrid) Insert(id graph.NodeID, box mesh.AABB) {
	grid.each(box, func(key uint64) {
		grid.cells[key] = append(grid.cells[key], id)
	})
}

// Remove drops id from every cell box touches. box must be the one id was
// inserted with.
func (grid *SpatialHashGrid) Remove(id graph.NodeID, box mesh.AABB) {
	grid.each(box, func(key uint64) {
		ids := grid.cells[key]
		for i, v := range ids {
			if v == id {
				ids[i] = ids[len(ids)-1]
				ids = ids[:len(ids)-1]
				break
			}
		}
		if len(ids) == 0 {
			delete(grid.cells, key)
		} else {
			grid.cells[key] = ids
		}
	})
}

func (grid *SpatialHashGrid) QueryAABB(box mesh.AABB) []graph.NodeID {
	unique := make(map[graph.NodeID]struct{})
	var results []graph.NodeID
	grid.each(box, func(key uint64) {
		for _, id := range grid.cells[key] {
			if _, ok := unique[id]; !ok {
				unique[id] = struct{}{}
				results = append(results, id)
			}
		}
	})
	return results
}

// QuerySegment returns candidates whose bounds may come within radius of
// the segment a-b.
func (grid *SpatialHashGrid) QuerySegment(a, b mgl32.Vec3, radius float32) []graph.NodeID {
	keys := make(map[uint64]struct{})
	unique := make(map[graph.NodeID]struct{})
	var results []graph.NodeID
	grid.eachAlong(a, b, radius, func(key uint64) {
		if _, ok := keys[key]; ok {
			return
		}
		keys[key] = struct{}{}
		for _, id := range grid.cells[key] {
			if _, ok := unique[id]; !ok {
				unique[id] = struct{}{}
				results = append(results, id)
			}
		}
	})
	return results
}

// eachAlong walks a-b one cell length at a time, so a long diagonal visits
// cells in proportion to its length instead of its bounding volume. Keys
// can repeat.
func (grid *SpatialHashGrid) eachAlong(a, b mgl32.Vec3, radius float32, fn func(key uint64)) {
	d := b.Sub(a)
	steps := max(int(math.Ceil(float64(d.Len()/grid.cellSize))), 1)
	prev := a
	for i := 1; i <= steps; i++ {
		next := a.Add(d.Mul(float32(i) / float32(steps)))
		grid.each(mesh.EmptyAABB().ExpandPoint(prev).ExpandPoint(next).ExpandScalar(radius), fn)
		prev = next
	}
}

// Cells is the number of occupied cells.
func (grid *SpatialHashGrid) Cells() int { return len(grid.cells) }

func (grid *SpatialHashGrid) each(box mesh.AABB, fn func(key uint64)) {
	minX, maxX := grid.getCellIndex(box.Min.X()), grid.getCellIndex(box.Max.X())
	minY, maxY := grid.getCellIndex(box.Min.Y()), grid.getCellIndex(box.Max.Y())
	minZ, maxZ := grid.getCellIndex(box.Min.Z()), grid.getCellIndex(box.Max.Z())
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				fn(grid.hashKey(x, y, z))
			}
		}
	}
}

func (grid *SpatialHashGrid) getCellIndex(pos float32) int {
	return int(math.Floor(float64(pos / grid.cellSize)))
}

func (grid *SpatialHashGrid) hashKey(x, y, z int) uint64 {
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}
