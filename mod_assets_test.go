package scrub

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/scrub/decal"
	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoadersProvideGameAssets(t *testing.T) {
	a := NewAssets(16)
	require.NoError(t, a.LoadAll(context.Background(), DefaultLoaders(8000, 1, "")...))

	for v := 0; v < decal.Variants; v++ {
		tex := a.Texture(decal.Material{Variant: v}.TextureName())
		assert.Equal(t, image.Rect(0, 0, 16, 16), tex.Image.Bounds())
		assert.NotEmpty(t, tex.Id)
	}
	assert.True(t, a.Model("powerup").HasNormals())
	assert.NotNil(t, a.Model("bucket"))
	for _, name := range []string{"powerup", "clean", "splat", "refill", "empty"} {
		assert.Greater(t, a.Sound(name).Len(), 0, name)
	}
}

func TestUnknownAssetsPanic(t *testing.T) {
	a := NewAssets(4)
	assert.PanicsWithValue(t, `texture "nope" is not loaded`, func() { a.Texture("nope") })
	assert.PanicsWithValue(t, `model "nope" is not loaded`, func() { a.Model("nope") })
	assert.PanicsWithValue(t, `sound "nope" is not loaded`, func() { a.Sound("nope") })
}

func TestLoadAllIsAllOrNothing(t *testing.T) {
	a := NewAssets(4)
	boom := errors.New("boom")
	err := a.LoadAll(context.Background(),
		ModelMesh("box", mesh.Box(1, 1, 1)),
		func(ctx context.Context, into *Assets) error { return boom },
	)
	require.ErrorIs(t, err, boom)
	assert.Zero(t, a.Len())
	assert.Panics(t, func() { a.Model("box") })
}

func TestModelWithoutNormalsFailsToLoad(t *testing.T) {
	a := NewAssets(4)
	bare := &mesh.Mesh{Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	assert.Error(t, a.LoadAll(context.Background(), ModelMesh("bare", bare)))
}

func TestRegisterTextureRescales(t *testing.T) {
	a := NewAssets(8)
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.Set(x, y, color.RGBA{200, 10, 10, 255})
		}
	}
	id := a.RegisterTexture("red", src)
	tex := a.Texture("red")
	assert.Equal(t, id, tex.Id)
	assert.Equal(t, 8, tex.Image.Bounds().Dx())
	r, g, _, _ := tex.Image.At(4, 4).RGBA()
	assert.Greater(t, r, g)
}

func TestTextureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dot.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 3, 3))))
	require.NoError(t, f.Close())

	a := NewAssets(4)
	require.NoError(t, a.LoadAll(context.Background(), TextureFile("dot", path)))
	assert.Equal(t, 4, a.Texture("dot").Image.Bounds().Dy())

	err = a.LoadAll(context.Background(), TextureFile("missing", filepath.Join(t.TempDir(), "none.png")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAssetIdsAreUnique(t *testing.T) {
	a := NewAssets(4)
	one := a.RegisterModel("a", mesh.Box(1, 1, 1))
	two := a.RegisterModel("b", mesh.Box(1, 1, 1))
	assert.NotEqual(t, one, two)
}

func TestTextureCoverage(t *testing.T) {
	a := NewAssets(4)
	solid := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			solid.Set(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	a.RegisterTexture("solid", solid)
	a.RegisterTexture("clear", image.NewNRGBA(image.Rect(0, 0, 2, 2)))

	assert.InDelta(t, 1, a.Texture("solid").Coverage(), 1e-6)
	assert.Zero(t, a.Texture("clear").Coverage())
	assert.Zero(t, Texture{}.Coverage())

	require.NoError(t, a.LoadAll(context.Background(), DecalTexture(0, 1)))
	splat := a.Texture(decal.Material{Variant: 0}.TextureName()).Coverage()
	assert.Greater(t, splat, float32(0))
	assert.Less(t, splat, float32(1))
}

func TestDecalTexturesPreferFilesInDir(t *testing.T) {
	dir := t.TempDir()
	name := decal.Material{Variant: 1}.TextureName()
	f, err := os.Create(filepath.Join(dir, name+".png"))
	require.NoError(t, err)
	solid := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			solid.Set(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	require.NoError(t, png.Encode(f, solid))
	require.NoError(t, f.Close())

	loaders := DecalTextures(dir, 1)
	require.Len(t, loaders, decal.Variants)

	a := NewAssets(4)
	require.NoError(t, a.LoadAll(context.Background(), loaders...))
	assert.InDelta(t, 1, a.Texture(name).Coverage(), 1e-6, "loaded from disk")
	assert.Less(t, a.Texture(decal.Material{Variant: 0}.TextureName()).Coverage(), float32(1), "synthesized")
}

func TestLoadAllProgressCountsEveryLoader(t *testing.T) {
	loaders := DefaultLoaders(8000, 1, "")
	var seen []int
	total := 0
	a := NewAssets(4)
	require.NoError(t, a.LoadAllProgress(context.Background(), func(done, n int) {
		seen = append(seen, done)
		total = n
	}, loaders...))

	require.Len(t, seen, len(loaders))
	assert.Equal(t, len(loaders), total)
	for i, done := range seen {
		assert.Equal(t, i+1, done)
	}
}

func TestLoadAllProgressStopsOnError(t *testing.T) {
	calls := 0
	a := NewAssets(4)
	err := a.LoadAllProgress(context.Background(), func(done, total int) { calls++ },
		func(ctx context.Context, into *Assets) error { return errors.New("boom") })
	assert.Error(t, err)
	assert.Zero(t, calls)
}
