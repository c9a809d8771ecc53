package scrub

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gekko3d/scrub/audio"
	"github.com/gekko3d/scrub/collide"
	"github.com/gekko3d/scrub/dirt"
	"github.com/gekko3d/scrub/graph"
	"github.com/gekko3d/scrub/level"
	"github.com/gekko3d/scrub/mesh"
	"github.com/gekko3d/scrub/particles"
	"github.com/gekko3d/scrub/player"
	"github.com/go-gl/mathgl/mgl32"
)

// Part names of a game scene, in update order.
const (
	PartLevel     = "level"
	PartDirt      = "dirt"
	PartPlayer    = "player"
	PartParticles = "particles"
)

var brushColour = [3]float32{0x3c / 255.0, 0x9e / 255.0, 0xe8 / 255.0}

// NewGameScene builds a playable scene for a built-in level.
func NewGameScene(app *App, name string) (*Scene, error) {
	def, err := level.Load(name)
	if err != nil {
		return nil, fmt.Errorf("game scene %q: %w", name, err)
	}
	cfg := app.Config()
	rng := rand.New(rand.NewSource(cfg.Seed))

	s := NewScene(name, app)
	lvl := newLevelPart(def)
	s.AddUpdate(PartLevel, lvl)
	s.AddUpdate(PartDirt, &DirtLayer{rng: rng})
	s.AddUpdate(PartPlayer, &Controller{rng: rng})
	s.AddUpdate(PartParticles, &ParticleLayer{System: particles.New(cfg.Particles, rng)})
	return s, nil
}

// LevelPart is the static level: its mesh, collision octree and bucket.
type LevelPart struct {
	Def    level.Def
	Mesh   *mesh.Mesh
	Octree *collide.Octree
	Node   *graph.Node
	Bucket *graph.Node
}

func newLevelPart(def level.Def) *LevelPart {
	m := def.BuildMesh()
	node := graph.NewNode("Level")
	node.Geometry = m
	node.Color = [4]uint8{180, 180, 170, 255}
	return &LevelPart{Def: def, Mesh: m, Octree: collide.NewOctree(m), Node: node}
}

func (l *LevelPart) Init(s *Scene) {
	s.Root.Add(l.Node)

	l.Bucket = graph.NewNode("Bucket")
	l.Bucket.Local.Position = l.Def.Bucket.Position.Vec3()
	if assets, ok := Resource[Assets](s.App); ok {
		l.Bucket.Geometry = assets.Model("bucket")
	}
	l.Bucket.Color = [4]uint8{60, 158, 232, 255}
	s.Root.Add(l.Bucket)
}

func (l *LevelPart) Update(dt float32) {}

// BucketHit reports how far along r the bucket's refill sphere is.
func (l *LevelPart) BucketHit(r mesh.Ray) (float32, bool) {
	radius := l.Def.Bucket.Radius
	if radius <= 0 {
		radius = 1
	}
	return mesh.IntersectSphere(r, l.Bucket.WorldPosition(), radius)
}

// Placement counts entities by kind.
type Placement struct {
	Decals, Blocks, Powerups int
}

// Cleanable is what has to be cleaned to finish: decals and blocks.
func (p Placement) Cleanable() int { return p.Decals + p.Blocks }

// DirtLayer owns the registry and places the level's dirt once the level
// mesh exists.
type DirtLayer struct {
	Registry *dirt.Registry
	// Placed counts what the placement pass actually put down.
	Placed Placement

	scene *Scene
	level *LevelPart
	rng   *rand.Rand
}

func (d *DirtLayer) Init(s *Scene) {
	d.scene = s
	d.level, _ = Part[*LevelPart](s, PartLevel)
	cfg := s.App.Config()

	deps := dirt.Deps{
		Surface: d.level.Mesh,
		Assets:  s.App.Assets(),
		Rand:    d.rng,
	}
	if mixer := s.App.Mixer(); mixer != nil {
		deps.Audio = mixer
	}
	d.Registry = dirt.NewRegistry(cfg.Dirt, deps)
	s.Root.Add(d.Registry.Decals)
	s.Root.Add(d.Registry.Colliders)
}

func (d *DirtLayer) InitAfter() {
	cfg := d.scene.App.Config()
	def := d.level.Def
	decals := pick(cfg.Decals, def.Decals)
	objects := pick(cfg.Objects, def.Objects)
	powerups := pick(cfg.Powerups, def.Powerups)

	sampler := mesh.NewSampler(d.level.Mesh, d.rng)
	placed := 0
	for i := 0; i < decals; i++ {
		p, n, ok := sampler.Sample()
		if !ok {
			break
		}
		d.Registry.Place(dirt.Decal, p, n)
		placed++
	}
	blocks := d.placeFlat(sampler, dirt.Block, objects, cfg.ObjectAttempts, cfg.FlatAngle)
	ups := d.placeFlat(sampler, dirt.Powerup, powerups, cfg.PowerupAttempts, cfg.FlatAngle)
	d.Placed = Placement{Decals: placed, Blocks: blocks, Powerups: ups}

	d.scene.Logger().Infof("level %q: placed %d decals, %d objects, %d powerups", def.Name, placed, blocks, ups)
}

// placeFlat makes up to attempts*count samples and keeps those on surfaces
// within maxAngle of up.
func (d *DirtLayer) placeFlat(sampler *mesh.Sampler, kind dirt.Kind, count, attempts int, maxAngle float32) int {
	minCos := float32(math.Cos(float64(maxAngle)))
	placed := 0
	for i := 0; placed < count && i < attempts*count; i++ {
		p, n, ok := sampler.Sample()
		if !ok {
			break
		}
		if n.Y() > minCos {
			d.Registry.Place(kind, p, n)
			placed++
		}
	}
	return placed
}

func pick(override, fallback int) int {
	if override > 0 {
		return override
	}
	return fallback
}

func (d *DirtLayer) Update(dt float32) { d.Registry.Update(dt) }

func (d *DirtLayer) Destroy() {
	d.Registry.ClearAll()
}

// ParticleLayer ticks the cleaning particles.
type ParticleLayer struct {
	System *particles.System
	scene  *Scene
}

func (p *ParticleLayer) Init(s *Scene) { p.scene = s }

func (p *ParticleLayer) Update(dt float32) { p.System.Update(dt) }

// Emit spawns a burst and resorts the buffers for the current camera.
func (p *ParticleLayer) Emit(origin mgl32.Vec3, colour [3]float32, normal mgl32.Vec3, count int) {
	p.System.Emit(origin, colour, normal, count)
	p.System.Rebuild(p.scene.Camera.Position)
}

func (p *ParticleLayer) Destroy() { p.System.Clear() }

// Controller turns input into player motion and the clean, splat and
// refill actions.
type Controller struct {
	Player *player.Player
	HUD    *HUD

	scene     *Scene
	level     *LevelPart
	dirt      *DirtLayer
	particles *ParticleLayer
	rng       *rand.Rand
	finished  bool
}

func (c *Controller) Init(s *Scene) {
	c.scene = s
	cfg := s.App.Config()
	c.level, _ = Part[*LevelPart](s, PartLevel)
	c.dirt, _ = Part[*DirtLayer](s, PartDirt)

	pcfg := cfg.Player
	pcfg.Spawn = c.level.Def.SpawnCapsule(pcfg.Spawn)
	c.Player = player.New(pcfg)

	// The target is known once the dirt layer has placed everything.
	c.HUD = NewHUD(cfg.WaterCapacity, 0, cfg.FlashDuration)
}

func (c *Controller) InitAfter() {
	c.HUD.Progress.SetTarget(c.dirt.Placed.Cleanable())
	c.particles, _ = Part[*ParticleLayer](c.scene, PartParticles)
	c.scene.Camera = c.Player.Camera()
}

func (c *Controller) Start() {
	c.scene.Logger().Debugf("player spawned at %v", c.Player.Head())
}

func (c *Controller) Update(dt float32) {
	app := c.scene.App
	in := app.Input()

	if in.IsPressed(KeyEscape) {
		app.ChangeScene(NewMenuScene(app, c.level.Def.Name))
		return
	}
	if in.IsPressed(KeyC) {
		c.Player.TopDown = !c.Player.TopDown
	}
	if in.IsHeld(KeyKPPlus) {
		c.HUD.Water.Add(1)
	}
	if in.IsHeld(KeyKPMinus) {
		c.HUD.Water.Add(-1)
	}

	c.Player.Look(float32(in.MouseDeltaX), float32(in.MouseDeltaY))
	controls := player.Controls{
		Forward: in.IsHeld(KeyW) || in.IsHeld(KeyUp),
		Back:    in.IsHeld(KeyS) || in.IsHeld(KeyDown),
		Left:    in.IsHeld(KeyA),
		Right:   in.IsHeld(KeyD),
		Jump:    in.IsPressed(KeySpace),
	}
	c.Player.Tick(controls, dt, c.level.Octree)

	if in.IsPressed(MouseButtonLeft) || in.IsPressed(KeyE) {
		c.Clean()
	}
	if in.IsPressed(MouseButtonRight) || in.IsPressed(KeyF) {
		c.Splat()
	}

	c.scene.Camera = c.Player.Camera()
	c.dirt.Registry.SetListener(c.Player.Head())
	c.HUD.Update(dt)

	if !c.finished && c.HUD.Progress.Done() {
		c.finished = true
		c.HUD.Message = "All clean!"
		c.scene.Logger().Infof("level %q cleaned", c.level.Def.Name)
	}
}

// Clean removes what the player aims at, if there is water for it, then
// tries the bucket. An empty tank that was not refilled raises the flash.
func (c *Controller) Clean() {
	cfg := c.scene.App.Config()
	ray := c.Player.AimRay()

	if !c.HUD.Water.Empty() {
		removed, ok := c.dirt.Registry.RemoveNearestAlongRay(ray.Origin, ray.Direction)
		if ok {
			c.play("clean")
			c.scene.Logger().Debugf("cleaned %s %s at %v", removed.Kind, removed.ID, removed.Position)
			switch removed.Kind {
			case dirt.Decal:
				c.HUD.Water.Use(cfg.CleanCost)
				c.HUD.Progress.Add(1)
				c.particles.Emit(removed.Position, halfWhite(removed.Color), removed.Normal, cfg.CleanParticles)
				c.brush()
			case dirt.Block:
				c.HUD.Progress.Add(1)
			case dirt.Powerup:
				c.powerup()
			}
		} else {
			c.brush()
		}
	}

	if !c.refill() && c.HUD.Water.Empty() {
		c.HUD.Water.NotifyEmpty()
		c.play("empty")
	}
}

// Splat places a decal wherever the aim ray meets the level.
func (c *Controller) Splat() (dirt.ID, bool) {
	hit, ok := c.level.Octree.Raycast(c.Player.AimRay(), c.scene.App.Config().SplatReach)
	if !ok {
		return dirt.ID{}, false
	}
	c.play("splat")
	c.HUD.Progress.SetTarget(c.HUD.Progress.Max() + 1)
	return c.dirt.Registry.Place(dirt.Decal, hit.Point, hit.Normal), true
}

func (c *Controller) refill() bool {
	if c.HUD.Water.Full() {
		return false
	}
	d, ok := c.level.BucketHit(c.Player.AimRay())
	if !ok || d >= c.scene.App.Config().BucketReach {
		return false
	}
	c.HUD.Water.Refill()
	c.play("refill")
	return true
}

func (c *Controller) powerup() {
	cfg := c.scene.App.Config()
	log := c.scene.Logger()
	if c.rng.Float32() < cfg.CapacityChance {
		c.HUD.Water.Grow(cfg.CapacityBonus)
		log.Infof("powerup: water capacity %d", c.HUD.Water.Max())
		return
	}
	c.Player.Speed *= cfg.SpeedBoost
	log.Infof("powerup: speed %.1f", c.Player.Speed)
}

func (c *Controller) brush() {
	ray := c.Player.AimRay()
	origin := ray.At(0.5).Sub(mgl32.Vec3{0, 0.2, 0})
	c.particles.Emit(origin, brushColour, ray.Direction, c.scene.App.Config().BrushParticles)
}

func (c *Controller) play(name string) {
	mixer := c.scene.App.Mixer()
	if mixer == nil {
		return
	}
	mixer.Play(c.scene.App.Assets().Sound(name), 0.3)
}

// halfWhite mixes an entity tint halfway toward white.
func halfWhite(c [4]uint8) [3]float32 {
	var out [3]float32
	for i := range out {
		out[i] = 0.5 + 0.5*float32(c[i])/255
	}
	return out
}

var _ dirt.Audio = (*audio.Mixer)(nil)
