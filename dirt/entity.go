// Package dirt tracks the dirt placed in a level: decals clipped onto the
// level surface, loose blocks and powerups. Each entity pairs a visual node
// with an invisible sphere collider; the Resolver finds what the player is
// aiming at.
package dirt

import (
	"fmt"

	"github.com/gekko3d/scrub/audio"
	"github.com/gekko3d/scrub/decal"
	"github.com/gekko3d/scrub/graph"
	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

type Kind int

const (
	Decal Kind = iota
	Block
	Powerup
)

func (k Kind) String() string {
	switch k {
	case Decal:
		return "decal"
	case Block:
		return "block"
	case Powerup:
		return "powerup"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ID is a generational handle. The zero ID never refers to a live entity.
type ID struct {
	Index uint32
	Gen   uint32
}

func (id ID) IsZero() bool { return id.Gen == 0 }

func (id ID) String() string { return fmt.Sprintf("%d#%d", id.Index, id.Gen) }

type Entity struct {
	ID   ID
	Kind Kind
	// Visual carries the geometry; Container is what sits in the decals
	// group (the visual itself for decals).
	Visual    *graph.Node
	Collider  *graph.Node
	Container *graph.Node
	Decal     *decal.Mesh
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	Color     [4]uint8
	Sound     *audio.Emitter

	bounds mesh.AABB
	cell   mesh.AABB
	anchor mgl32.Vec3
	phase  float32
}

// Removed describes an entity taken out by RemoveNearestAlongRay.
type Removed struct {
	ID   ID
	Kind Kind
	// Position is the collider's last world position.
	Position mgl32.Vec3
	// Point and Normal come from the aim hit.
	Point  mgl32.Vec3
	Normal mgl32.Vec3
	Color  [4]uint8
}
