// Package level loads level definitions and builds their static collision
// and decal surface mesh.
package level

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gekko3d/scrub/collide"
	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed levels/*.toml
var builtin embed.FS

type Vec [3]float32

func (v Vec) Vec3() mgl32.Vec3 { return mgl32.Vec3(v) }

type Box struct {
	Name   string `toml:"name"`
	Center Vec    `toml:"center"`
	Size   Vec    `toml:"size"`
	// Rotation in degrees, applied X then Y then Z.
	Rotation Vec `toml:"rotation"`
}

type Spawn struct {
	Start  Vec     `toml:"start"`
	End    Vec     `toml:"end"`
	Radius float32 `toml:"radius"`
}

type Bucket struct {
	Position Vec     `toml:"position"`
	Radius   float32 `toml:"radius"`
}

type Def struct {
	Name     string `toml:"name"`
	Title    string `toml:"title"`
	Decals   int    `toml:"decals"`
	Objects  int    `toml:"objects"`
	Powerups int    `toml:"powerups"`
	Spawn    *Spawn `toml:"spawn"`
	Bucket   Bucket `toml:"bucket"`
	Boxes    []Box  `toml:"box"`
}

// Names lists the built-in levels in order.
func Names() []string {
	entries, err := builtin.ReadDir("levels")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}

// Load reads a built-in level by name.
func Load(name string) (Def, error) {
	data, err := builtin.ReadFile(path.Join("levels", name+".toml"))
	if err != nil {
		return Def{}, fmt.Errorf("level %q: %w", name, err)
	}
	return Parse(data)
}

func Parse(data []byte) (Def, error) {
	var def Def
	md, err := toml.Decode(string(data), &def)
	if err != nil {
		return Def{}, fmt.Errorf("decode level: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Def{}, fmt.Errorf("decode level: unknown keys %v", undecoded)
	}
	if err := def.validate(); err != nil {
		return Def{}, err
	}
	return def, nil
}

func (d Def) validate() error {
	if d.Name == "" {
		return fmt.Errorf("level: missing name")
	}
	if len(d.Boxes) == 0 {
		return fmt.Errorf("level %q: no geometry", d.Name)
	}
	if d.Decals < 0 || d.Objects < 0 || d.Powerups < 0 {
		return fmt.Errorf("level %q: negative counts", d.Name)
	}
	for i, b := range d.Boxes {
		if b.Size[0] <= 0 || b.Size[1] <= 0 || b.Size[2] <= 0 {
			return fmt.Errorf("level %q: box %d (%s) has non-positive size", d.Name, i, b.Name)
		}
	}
	return nil
}

// SpawnCapsule returns the level's spawn or def when none is set.
func (d Def) SpawnCapsule(def collide.Capsule) collide.Capsule {
	if d.Spawn == nil {
		return def
	}
	return collide.Capsule{Start: d.Spawn.Start.Vec3(), End: d.Spawn.End.Vec3(), Radius: d.Spawn.Radius}
}

// Target is how many items must be cleaned to finish the level.
func (d Def) Target() int { return d.Decals + d.Objects }

func (b Box) Matrix() mgl32.Mat4 {
	rot := mgl32.AnglesToQuat(
		mgl32.DegToRad(b.Rotation[0]),
		mgl32.DegToRad(b.Rotation[1]),
		mgl32.DegToRad(b.Rotation[2]),
		mgl32.XYZ,
	)
	return mgl32.Translate3D(b.Center[0], b.Center[1], b.Center[2]).Mul4(rot.Mat4())
}

// BuildMesh merges every box into one world-space mesh.
func (d Def) BuildMesh() *mesh.Mesh {
	out := &mesh.Mesh{}
	for _, b := range d.Boxes {
		out.Append(mesh.Box(b.Size[0], b.Size[1], b.Size[2]).Transformed(b.Matrix()))
	}
	return out
}
