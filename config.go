package scrub

import (
	"math"

	"github.com/gekko3d/scrub/dirt"
	"github.com/gekko3d/scrub/particles"
	"github.com/gekko3d/scrub/player"
)

type Config struct {
	Level string
	Seed  int64

	// MaxStep clamps a frame's delta in seconds before it is split into
	// StepsPerFrame updates.
	MaxStep       float32
	StepsPerFrame int

	// Placement counts override the level's when positive.
	Decals   int
	Objects  int
	Powerups int
	// FlatAngle is the steepest surface, in radians from up, blocks and
	// powerups are placed on.
	FlatAngle       float32
	ObjectAttempts  int
	PowerupAttempts int

	WaterCapacity int
	CleanCost     int
	BucketReach   float32
	// SplatReach bounds the splat ray; splats land at any distance within it.
	SplatReach float32

	CleanParticles int
	BrushParticles int

	CapacityChance float32
	CapacityBonus  int
	SpeedBoost     float32

	FlashDuration float32

	Player    player.Config
	Dirt      dirt.Config
	Particles particles.Config
}

func DefaultConfig() Config {
	return Config{
		Level:           "scene1",
		Seed:            1,
		MaxStep:         0.05,
		StepsPerFrame:   5,
		FlatAngle:       math.Pi / 6,
		ObjectAttempts:  2,
		PowerupAttempts: 5,
		WaterCapacity:   5,
		CleanCost:       1,
		BucketReach:     1,
		SplatReach:      100,
		CleanParticles:  200,
		BrushParticles:  50,
		CapacityChance:  0.75,
		CapacityBonus:   5,
		SpeedBoost:      1.5,
		FlashDuration:   0.5,
		Player:          player.DefaultConfig(),
		Dirt:            dirt.DefaultConfig(),
		Particles:       particles.DefaultConfig(),
	}
}
