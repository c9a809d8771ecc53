package dirt

import (
	"github.com/gekko3d/scrub/mesh"
)

type Config struct {
	ColliderRadius float32
	Reach          float32
	CellSize       float32

	DecalDepth float32
	// DecalScale is the minimum footprint; the actual one is up to twice that.
	DecalScale float32

	BlockScale float32
	BlockLift  float32

	PowerupLift      float32
	PowerupModel     string
	PowerupSound     string
	SoundRefDistance float64
	SoundVolume      float64
	PowerupSpin      float32
	PowerupBob       float32
}

func DefaultConfig() Config {
	return Config{
		ColliderRadius:   0.75,
		Reach:            1.0,
		CellSize:         2.0,
		DecalDepth:       0.1,
		DecalScale:       0.75,
		BlockScale:       0.3,
		BlockLift:        0.47,
		PowerupLift:      1.0,
		PowerupModel:     "powerup",
		PowerupSound:     "powerup",
		SoundRefDistance: 5,
		SoundVolume:      0.05,
		PowerupSpin:      1.5,
		PowerupBob:       0.1,
	}
}

// BlockShapes is the pool blocks are drawn from, sized for unit scale.
func BlockShapes() []*mesh.Mesh {
	return []*mesh.Mesh{
		mesh.Box(1, 1, 1),
		mesh.Sphere(0.5, 12, 8),
		mesh.Cylinder(0, 0.6, 0.8, 3),
		mesh.Cylinder(0.5, 0.5, 1, 12),
		mesh.Icosahedron(0.5),
		mesh.Cone(0.5, 1, 12),
		mesh.Box(1, 1, 1),
	}
}
