package mesh

import (
	"math"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Sampler draws area-weighted random points on a mesh surface.
type Sampler struct {
	mesh       *Mesh
	cumulative []float32
	rng        *rand.Rand
}

func NewSampler(m *Mesh, rng *rand.Rand) *Sampler {
	s := &Sampler{mesh: m, rng: rng, cumulative: make([]float32, m.TriangleCount())}
	var total float32
	for i := range s.cumulative {
		total += m.Triangle(i).Area()
		s.cumulative[i] = total
	}
	return s
}

// Sample returns a surface point and the face normal there. ok is false for
// a mesh with no area.
func (s *Sampler) Sample() (point, normal mgl32.Vec3, ok bool) {
	n := len(s.cumulative)
	if n == 0 || s.cumulative[n-1] <= 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	target := s.rng.Float32() * s.cumulative[n-1]
	i := sort.Search(n, func(i int) bool { return s.cumulative[i] > target })
	if i == n {
		i = n - 1
	}
	t := s.mesh.Triangle(i)

	r1 := float32(math.Sqrt(float64(s.rng.Float32())))
	r2 := s.rng.Float32()
	a, b := 1-r1, r1*(1-r2)
	c := r1 * r2
	point = t.P[0].Mul(a).Add(t.P[1].Mul(b)).Add(t.P[2].Mul(c))
	return point, t.FaceNormal(), true
}
