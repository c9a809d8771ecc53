package dirt

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gekko3d/scrub/audio"
	"github.com/gekko3d/scrub/decal"
	"github.com/gekko3d/scrub/graph"
	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep"
	"github.com/lucasb-eyer/go-colorful"
)

// Assets resolves named models and sounds. Unknown names panic.
type Assets interface {
	Model(name string) *mesh.Mesh
	Sound(name string) *beep.Buffer
}

// Audio starts looping positional sounds.
type Audio interface {
	Loop(buf *beep.Buffer, pos mgl32.Vec3, refDistance, volume float64) *audio.Emitter
	SetListener(pos mgl32.Vec3)
}

type Deps struct {
	// Surface is the static level mesh decals are clipped onto.
	Surface *mesh.Mesh
	Assets  Assets
	// Audio may be nil; powerups are then silent.
	Audio Audio
	Rand  *rand.Rand
}

type slot struct {
	gen  uint32
	live bool
	e    Entity
}

// Registry owns every dirt entity. An entity is reachable through its
// collider node id and its visual node id; both maps, the spatial grid and
// the scene groups change together.
type Registry struct {
	// Decals holds visuals, Colliders the invisible spheres.
	Decals    *graph.Node
	Colliders *graph.Node

	cfg    Config
	deps   Deps
	shapes []*mesh.Mesh

	slots []slot
	free  []uint32
	live  int

	byCollider map[graph.NodeID]uint32
	byVisual   map[graph.NodeID]uint32
	grid       *SpatialHashGrid
	resolver   *Resolver
}

func NewRegistry(cfg Config, deps Deps) *Registry {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(1))
	}
	colliders := graph.NewNode("Colliders")
	colliders.Visible = false
	r := &Registry{
		Decals:     graph.NewNode("Decals"),
		Colliders:  colliders,
		cfg:        cfg,
		deps:       deps,
		shapes:     BlockShapes(),
		byCollider: make(map[graph.NodeID]uint32),
		byVisual:   make(map[graph.NodeID]uint32),
		grid:       NewSpatialHashGrid(cfg.CellSize),
	}
	r.resolver = &Resolver{Reach: cfg.Reach, reg: r}
	return r
}

func (r *Registry) Config() Config { return r.cfg }

// Resolver is the aim resolver used by RemoveNearestAlongRay.
func (r *Registry) Resolver() *Resolver { return r.resolver }

func (r *Registry) Len() int { return r.live }

// Place creates an entity of kind at a surface point. It never fails; a
// decal that clips to nothing is still tracked.
func (r *Registry) Place(kind Kind, position, normal mgl32.Vec3) ID {
	if normal.Len() < 1e-9 {
		normal = mgl32.Vec3{0, 1, 0}
	}
	normal = normal.Normalize()
	e := Entity{Kind: kind, Position: position, Normal: normal, anchor: position}

	switch kind {
	case Decal:
		r.buildDecal(&e)
	case Block:
		r.buildBlock(&e)
	case Powerup:
		r.buildPowerup(&e)
	default:
		panic(fmt.Sprintf("dirt: unknown kind %d", int(kind)))
	}

	collider := graph.NewNode("Sphere Collider")
	collider.Visible = false
	collider.Local.Position = e.anchor
	e.Collider = collider
	e.cell = mesh.EmptyAABB().ExpandPoint(e.anchor).ExpandScalar(r.cfg.ColliderRadius)

	idx := r.alloc()
	e.ID = ID{Index: idx, Gen: r.slots[idx].gen}

	r.Decals.Add(e.Container)
	r.Colliders.Add(collider)
	e.bounds = worldBounds(e.Visual)

	r.slots[idx].e = e
	r.slots[idx].live = true
	r.live++
	r.byCollider[collider.ID] = idx
	r.byVisual[e.Visual.ID] = idx
	r.grid.Insert(collider.ID, e.cell)
	return e.ID
}

func (r *Registry) buildDecal(e *Entity) {
	rng := r.deps.Rand
	spin := rng.Float32() * 2 * math.Pi
	scale := r.cfg.DecalScale * (1 + rng.Float32())
	p := decal.NewProjector(e.Position, e.Normal, spin, mgl32.Vec3{scale, scale, r.cfg.DecalDepth})
	mat := decal.Material{Variant: rng.Intn(decal.Variants), Tint: r.randomTint()}

	dm := decal.Build(r.deps.Surface, p, mat)
	node := graph.NewNode("Decal")
	node.Geometry = dm.ToSurface()
	node.Color = mat.Tint

	e.Decal = dm
	e.Visual = node
	e.Container = node
	e.Color = mat.Tint
}

func (r *Registry) buildBlock(e *Entity) {
	rng := r.deps.Rand
	shape := r.shapes[rng.Intn(len(r.shapes))]
	s := r.cfg.BlockScale * (1 + rng.Float32())

	container := graph.NewNode("Block")
	container.Local.Position = e.Position
	container.Local.Rotation = uprightOn(e.Normal, rng.Float32()*2*math.Pi)

	block := graph.NewNode("Block Mesh")
	block.Geometry = shape
	block.Local.Position = mgl32.Vec3{0, r.cfg.BlockLift * s, 0}
	block.Local.Scale = mgl32.Vec3{s, s, s}
	block.Color = r.randomTint()
	container.Add(block)

	e.Visual = block
	e.Container = container
	e.Color = block.Color
}

// buildPowerup lifts the powerup off the surface; its collider follows.
func (r *Registry) buildPowerup(e *Entity) {
	rng := r.deps.Rand
	model := r.deps.Assets.Model(r.cfg.PowerupModel)
	lifted := e.Position.Add(e.Normal.Mul(r.cfg.PowerupLift))

	container := graph.NewNode("Powerup")
	container.Local.Position = lifted
	container.Local.Rotation = uprightOn(e.Normal, 0)

	h := rng.Float64() * 360
	cr, cg, cb := colorful.Hsl(h, 0.5, 0.5).Clamped().RGB255()
	visual := graph.NewNode("Powerup Mesh")
	visual.Geometry = model
	visual.Color = [4]uint8{cr, cg, cb, 255}
	container.Add(visual)

	if r.deps.Audio != nil {
		buf := r.deps.Assets.Sound(r.cfg.PowerupSound)
		e.Sound = r.deps.Audio.Loop(buf, lifted, r.cfg.SoundRefDistance, r.cfg.SoundVolume)
	}
	e.Visual = visual
	e.Container = container
	e.Color = visual.Color
	e.anchor = lifted
	e.phase = rng.Float32() * 2 * math.Pi
}

func (r *Registry) randomTint() [4]uint8 {
	rng := r.deps.Rand
	c := colorful.Color{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()}
	cr, cg, cb := c.RGB255()
	return [4]uint8{cr, cg, cb, 255}
}

// uprightOn stands local +Y on normal, turned yaw radians about it.
func uprightOn(normal mgl32.Vec3, yaw float32) mgl32.Quat {
	return mesh.RotationBetween(mgl32.Vec3{0, 1, 0}, normal).
		Mul(mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})).
		Normalize()
}

func worldBounds(n *graph.Node) mesh.AABB {
	if n.Geometry == nil || n.Geometry.TriangleCount() == 0 {
		return mesh.EmptyAABB()
	}
	return n.Geometry.Bounds().Transformed(n.WorldMatrix())
}

func (r *Registry) alloc() uint32 {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		return idx
	}
	r.slots = append(r.slots, slot{gen: 1})
	return uint32(len(r.slots) - 1)
}

func (r *Registry) lookup(id ID) (*slot, bool) {
	if int(id.Index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[id.Index]
	if !s.live || s.gen != id.Gen {
		return nil, false
	}
	return s, true
}

func (r *Registry) Get(id ID) (Entity, bool) {
	s, ok := r.lookup(id)
	if !ok {
		return Entity{}, false
	}
	return s.e, true
}

// Each visits live entities in slot order until fn returns false.
func (r *Registry) Each(fn func(Entity) bool) {
	for i := range r.slots {
		if r.slots[i].live && !fn(r.slots[i].e) {
			return
		}
	}
}

// Remove takes one entity out of the scene, the index and the arena.
func (r *Registry) Remove(id ID) bool {
	if _, ok := r.lookup(id); !ok {
		return false
	}
	r.remove(id.Index)
	return true
}

func (r *Registry) remove(idx uint32) Entity {
	s := &r.slots[idx]
	e := s.e

	delete(r.byCollider, e.Collider.ID)
	delete(r.byVisual, e.Visual.ID)
	r.grid.Remove(e.Collider.ID, e.cell)
	r.Decals.Remove(e.Container)
	r.Colliders.Remove(e.Collider)
	e.Sound.Stop()

	s.e = Entity{}
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	r.free = append(r.free, idx)
	r.live--
	return e
}

// RemoveNearestAlongRay removes whatever the resolver hits first. A miss
// changes nothing.
func (r *Registry) RemoveNearestAlongRay(origin, dir mgl32.Vec3) (Removed, bool) {
	hit, ok := r.resolver.Resolve(origin, dir)
	if !ok {
		return Removed{}, false
	}
	e := r.slots[hit.ID.Index].e
	pos := e.Collider.WorldPosition()
	r.remove(hit.ID.Index)
	return Removed{
		ID:       hit.ID,
		Kind:     e.Kind,
		Position: pos,
		Point:    hit.Point,
		Normal:   hit.Normal,
		Color:    e.Color,
	}, true
}

// ClearAll removes every entity and stops every sound.
func (r *Registry) ClearAll() {
	for i := range r.slots {
		if r.slots[i].live {
			r.remove(uint32(i))
		}
	}
	r.Decals.Clear()
	r.Colliders.Clear()
	clear(r.byCollider)
	clear(r.byVisual)
	r.grid.Clear()
}

// SetListener moves the point positional sounds are heard from.
func (r *Registry) SetListener(pos mgl32.Vec3) {
	if r.deps.Audio != nil {
		r.deps.Audio.SetListener(pos)
	}
}

// Update spins and bobs powerups. Colliders stay where they were placed.
func (r *Registry) Update(dt float32) {
	for i := range r.slots {
		s := &r.slots[i]
		if !s.live || s.e.Kind != Powerup {
			continue
		}
		e := &s.e
		e.phase += dt
		e.Container.Local.Rotation = uprightOn(e.Normal, e.phase*r.cfg.PowerupSpin)
		bob := r.cfg.PowerupBob * float32(math.Sin(float64(2*e.phase)))
		e.Container.Local.Position = e.anchor.Add(e.Normal.Mul(bob))
		e.bounds = worldBounds(e.Visual)
	}
}
