// Package particles is a CPU particle pool for short cleaning bursts. State
// is kept as parallel slices and packed into flat attribute buffers for
// drawing.
package particles

import (
	"math"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

type Config struct {
	Gravity  float32
	Lifetime float32
	// MaxSpeed scales the random launch speed.
	MaxSpeed float32
	MinSize  float32
	SizeVar  float32
	// Whiten is how far emitted colours are pulled toward white.
	Whiten float32
	// Alpha is the opacity every particle is emitted with.
	Alpha        float32
	MaxParticles int
}

func DefaultConfig() Config {
	return Config{
		Gravity:      15,
		Lifetime:     1,
		MaxSpeed:     4,
		MinSize:      10,
		SizeVar:      20,
		Whiten:       0.7,
		Alpha:        0.75,
		MaxParticles: 4096,
	}
}

// Buffers are the packed attributes: three floats per position, four per
// colour, one per size and angle.
type Buffers struct {
	Positions []float32
	Colors    []float32
	Sizes     []float32
	Angles    []float32
}

type System struct {
	cfg Config
	rng *rand.Rand

	pos   []mgl32.Vec3
	vel   []mgl32.Vec3
	age   []float32
	life  []float32
	size  []float32
	angle []float32
	color [][4]float32
	alive int

	buf Buffers
}

func New(cfg Config, rng *rand.Rand) *System {
	return &System{cfg: cfg, rng: rng}
}

func (s *System) Len() int { return s.alive }

func (s *System) Buffers() Buffers { return s.buf }

// Position returns particle i as last packed.
func (s *System) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{s.buf.Positions[i*3], s.buf.Positions[i*3+1], s.buf.Positions[i*3+2]}
}

// Emit spawns count particles at origin, launched into the hemisphere of
// normal. Call Rebuild afterwards to sort and pack them.
func (s *System) Emit(origin mgl32.Vec3, colour [3]float32, normal mgl32.Vec3, count int) {
	if room := s.cfg.MaxParticles - s.alive; count > room {
		count = room
	}
	c := [4]float32{1, 1, 1, s.cfg.Alpha}
	for k := 0; k < 3; k++ {
		c[k] = colour[k] + (1-colour[k])*s.cfg.Whiten
	}
	for i := 0; i < count; i++ {
		dir := s.randomDirection()
		if dir.Dot(normal) < 0 {
			dir = dir.Mul(-1)
		}
		s.push(
			origin,
			dir.Mul(s.cfg.MaxSpeed*s.rng.Float32()),
			s.cfg.MinSize+s.cfg.SizeVar*s.rng.Float32(),
			2*math.Pi*s.rng.Float32(),
			c,
		)
	}
}

func (s *System) push(p, v mgl32.Vec3, size, angle float32, c [4]float32) {
	if s.alive < len(s.pos) {
		i := s.alive
		s.pos[i], s.vel[i], s.age[i], s.life[i] = p, v, 0, s.cfg.Lifetime
		s.size[i], s.angle[i], s.color[i] = size, angle, c
	} else {
		s.pos = append(s.pos, p)
		s.vel = append(s.vel, v)
		s.age = append(s.age, 0)
		s.life = append(s.life, s.cfg.Lifetime)
		s.size = append(s.size, size)
		s.angle = append(s.angle, angle)
		s.color = append(s.color, c)
	}
	s.alive++
}

// randomDirection is uniform on the unit sphere.
func (s *System) randomDirection() mgl32.Vec3 {
	z := 2*s.rng.Float32() - 1
	phi := 2 * math.Pi * s.rng.Float64()
	r := float32(math.Sqrt(float64(1 - z*z)))
	return mgl32.Vec3{r * float32(math.Cos(phi)), r * float32(math.Sin(phi)), z}
}

// Swap-remove one particle.
func (s *System) killAt(i int) {
	last := s.alive - 1
	s.pos[i] = s.pos[last]
	s.vel[i] = s.vel[last]
	s.age[i] = s.age[last]
	s.life[i] = s.life[last]
	s.size[i] = s.size[last]
	s.angle[i] = s.angle[last]
	s.color[i] = s.color[last]
	s.alive--
}

// Update ages, culls and integrates every particle. Only positions are
// repacked unless a particle expired.
func (s *System) Update(dt float32) {
	killed := false
	i := 0
	for i < s.alive {
		s.age[i] += dt
		if s.age[i] >= s.life[i] {
			s.killAt(i)
			killed = true
			continue
		}
		s.vel[i][1] -= s.cfg.Gravity * dt
		s.pos[i] = s.pos[i].Add(s.vel[i].Mul(dt))
		i++
	}
	if killed {
		s.pack()
		return
	}
	s.packPositions()
}

// Rebuild sorts particles back to front from camera and repacks every
// attribute.
func (s *System) Rebuild(camera mgl32.Vec3) {
	n := s.alive
	dist := make([]float32, n)
	order := make([]int, n)
	for i := 0; i < n; i++ {
		dist[i] = s.pos[i].Sub(camera).LenSqr()
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return dist[order[a]] > dist[order[b]] })

	pos := make([]mgl32.Vec3, n)
	vel := make([]mgl32.Vec3, n)
	age := make([]float32, n)
	life := make([]float32, n)
	size := make([]float32, n)
	angle := make([]float32, n)
	color := make([][4]float32, n)
	for k, i := range order {
		pos[k], vel[k], age[k], life[k] = s.pos[i], s.vel[i], s.age[i], s.life[i]
		size[k], angle[k], color[k] = s.size[i], s.angle[i], s.color[i]
	}
	s.pos, s.vel, s.age, s.life = pos, vel, age, life
	s.size, s.angle, s.color = size, angle, color
	s.pack()
}

// Clear drops every particle.
func (s *System) Clear() {
	s.alive = 0
	s.pack()
}

func (s *System) pack() {
	n := s.alive
	s.buf.Colors = s.buf.Colors[:0]
	s.buf.Sizes = s.buf.Sizes[:0]
	s.buf.Angles = s.buf.Angles[:0]
	for i := 0; i < n; i++ {
		c := s.color[i]
		s.buf.Colors = append(s.buf.Colors, c[0], c[1], c[2], c[3])
		s.buf.Sizes = append(s.buf.Sizes, s.size[i])
		s.buf.Angles = append(s.buf.Angles, s.angle[i])
	}
	s.packPositions()
}

func (s *System) packPositions() {
	s.buf.Positions = s.buf.Positions[:0]
	for i := 0; i < s.alive; i++ {
		p := s.pos[i]
		s.buf.Positions = append(s.buf.Positions, p[0], p[1], p[2])
	}
}
