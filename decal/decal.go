package decal

import (
	"fmt"

	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// Variants is the number of decal textures a Material can select.
const Variants = 4

type Material struct {
	Variant int
	Tint    [4]uint8
}

// TextureName is the asset key of the material's texture.
func (m Material) TextureName() string {
	return fmt.Sprintf("decal_diff%d", 4+m.Variant%Variants)
}

// Mesh is the clipped geometry of one decal. It is immutable once built.
type Mesh struct {
	Triangles []Triangle
	Material  Material
	Projector Projector
}

func Build(surface *mesh.Mesh, p Projector, mat Material) *Mesh {
	return &Mesh{
		Triangles: Clip(surface, p),
		Material:  mat,
		Projector: p,
	}
}

func (m *Mesh) Empty() bool { return len(m.Triangles) == 0 }

// ToSurface converts the decal to a plain mesh for ray queries and drawing.
func (m *Mesh) ToSurface() *mesh.Mesh {
	out := &mesh.Mesh{
		Positions: make([]mgl32.Vec3, 0, len(m.Triangles)*3),
		Normals:   make([]mgl32.Vec3, 0, len(m.Triangles)*3),
	}
	for _, t := range m.Triangles {
		out.AddTriangle(mesh.Triangle{
			P: [3]mgl32.Vec3{t[0].Position, t[1].Position, t[2].Position},
			N: [3]mgl32.Vec3{t[0].Normal, t[1].Normal, t[2].Normal},
		})
	}
	return out
}
