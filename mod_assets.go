package scrub

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gekko3d/scrub/audio"
	"github.com/gekko3d/scrub/decal"
	"github.com/gekko3d/scrub/mesh"
	"github.com/google/uuid"
	"github.com/gopxl/beep"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

type AssetId string

type Texture struct {
	Id    AssetId
	Name  string
	Image *image.RGBA
}

// Coverage is the mean alpha of the texture in [0, 1].
func (t Texture) Coverage() float32 {
	if t.Image == nil {
		return 0
	}
	b := t.Image.Bounds()
	if b.Empty() {
		return 0
	}
	var sum int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += int(t.Image.RGBAAt(x, y).A)
		}
	}
	return float32(sum) / float32(255*b.Dx()*b.Dy())
}

type Model struct {
	Id   AssetId
	Name string
	Mesh *mesh.Mesh
}

type Sound struct {
	Id     AssetId
	Name   string
	Buffer *beep.Buffer
}

// Assets maps names to loaded textures, models and sounds. Lookups of
// unknown names panic: every name the game uses is loaded up front.
type Assets struct {
	// TextureSize is the square size every texture is rescaled to.
	TextureSize int

	mu       sync.RWMutex
	textures map[string]Texture
	models   map[string]Model
	sounds   map[string]Sound
}

type AssetsModule struct {
	TextureSize int
}

func (mod AssetsModule) Install(app *App) {
	size := mod.TextureSize
	if size <= 0 {
		size = 64
	}
	app.addResources(NewAssets(size))
}

func NewAssets(textureSize int) *Assets {
	return &Assets{
		TextureSize: textureSize,
		textures:    make(map[string]Texture),
		models:      make(map[string]Model),
		sounds:      make(map[string]Sound),
	}
}

func (a *Assets) Texture(name string) Texture {
	a.mu.RLock()
	defer a.mu.RUnlock()
	t, ok := a.textures[name]
	if !ok {
		panic(fmt.Sprintf("texture %q is not loaded", name))
	}
	return t
}

func (a *Assets) Model(name string) *mesh.Mesh {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.models[name]
	if !ok {
		panic(fmt.Sprintf("model %q is not loaded", name))
	}
	return m.Mesh
}

func (a *Assets) Sound(name string) *beep.Buffer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sounds[name]
	if !ok {
		panic(fmt.Sprintf("sound %q is not loaded", name))
	}
	return s.Buffer
}

func (a *Assets) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.textures) + len(a.models) + len(a.sounds)
}

// RegisterTexture stores img rescaled to TextureSize x TextureSize.
func (a *Assets) RegisterTexture(name string, img image.Image) AssetId {
	dst := image.NewRGBA(image.Rect(0, 0, a.TextureSize, a.TextureSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	id := makeAssetId()
	a.mu.Lock()
	a.textures[name] = Texture{Id: id, Name: name, Image: dst}
	a.mu.Unlock()
	return id
}

// RegisterModel stores a mesh; models are hit by aim rays and so need
// normals.
func (a *Assets) RegisterModel(name string, m *mesh.Mesh) AssetId {
	m.MustHaveNormals()
	id := makeAssetId()
	a.mu.Lock()
	a.models[name] = Model{Id: id, Name: name, Mesh: m}
	a.mu.Unlock()
	return id
}

func (a *Assets) RegisterSound(name string, buf *beep.Buffer) AssetId {
	id := makeAssetId()
	a.mu.Lock()
	a.sounds[name] = Sound{Id: id, Name: name, Buffer: buf}
	a.mu.Unlock()
	return id
}

func (a *Assets) merge(from *Assets) {
	from.mu.RLock()
	defer from.mu.RUnlock()
	a.mu.Lock()
	defer a.mu.Unlock()
	for k, v := range from.textures {
		a.textures[k] = v
	}
	for k, v := range from.models {
		a.models[k] = v
	}
	for k, v := range from.sounds {
		a.sounds[k] = v
	}
}

// Loader registers one or more assets.
type Loader func(ctx context.Context, into *Assets) error

// LoadAll runs loaders concurrently. Either every asset becomes visible or,
// on the first error, none does.
func (a *Assets) LoadAll(ctx context.Context, loaders ...Loader) error {
	return a.LoadAllProgress(ctx, nil, loaders...)
}

// LoadAllProgress is LoadAll reporting each finished loader to progress.
// Calls are serialized and done increases by one each time.
func (a *Assets) LoadAllProgress(ctx context.Context, progress func(done, total int), loaders ...Loader) error {
	staging := NewAssets(a.TextureSize)
	var (
		mu   sync.Mutex
		done int
	)
	tick := func() {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		progress(done, len(loaders))
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, load := range loaders {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := load(ctx, staging); err != nil {
				return err
			}
			tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading assets: %w", err)
	}
	a.merge(staging)
	return nil
}

// TextureFile loads a PNG from disk.
func TextureFile(name, path string) Loader {
	return func(ctx context.Context, into *Assets) error {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("texture %q: %w", name, err)
		}
		defer file.Close()

		img, err := png.Decode(file)
		if err != nil {
			return fmt.Errorf("texture %q: decoding %s: %w", name, path, err)
		}
		into.RegisterTexture(name, img)
		return nil
	}
}

func ModelMesh(name string, m *mesh.Mesh) Loader {
	return func(ctx context.Context, into *Assets) error {
		if !m.HasNormals() {
			return fmt.Errorf("model %q has no normals", name)
		}
		into.RegisterModel(name, m)
		return nil
	}
}

func SoundTone(name string, rate beep.SampleRate, from, to float64, d time.Duration, decay float64) Loader {
	return func(ctx context.Context, into *Assets) error {
		into.RegisterSound(name, audio.Tone(rate, from, to, d, decay))
		return nil
	}
}

// DecalTexture synthesizes a splotch for one decal variant.
func DecalTexture(variant int, seed int64) Loader {
	return func(ctx context.Context, into *Assets) error {
		into.RegisterTexture(decal.Material{Variant: variant}.TextureName(), splotch(32, rand.New(rand.NewSource(seed+int64(variant)))))
		return nil
	}
}

// DecalTextures loads <dir>/<texture name>.png for each decal variant that
// has one and synthesizes the rest. An empty dir synthesizes all of them.
func DecalTextures(dir string, seed int64) []Loader {
	loaders := make([]Loader, 0, decal.Variants)
	for v := 0; v < decal.Variants; v++ {
		name := decal.Material{Variant: v}.TextureName()
		if dir != "" {
			path := filepath.Join(dir, name+".png")
			if _, err := os.Stat(path); err == nil {
				loaders = append(loaders, TextureFile(name, path))
				continue
			}
		}
		loaders = append(loaders, DecalTexture(v, seed))
	}
	return loaders
}

// DefaultLoaders produces every asset the game scenes reference. Decal
// textures come from textureDir where present.
func DefaultLoaders(rate beep.SampleRate, seed int64, textureDir string) []Loader {
	loaders := []Loader{
		ModelMesh("powerup", mesh.Icosahedron(0.25)),
		ModelMesh("bucket", mesh.Cylinder(0.35, 0.28, 0.5, 12)),
		SoundTone("powerup", rate, 440, 660, 800*time.Millisecond, 2),
		SoundTone("clean", rate, 900, 300, 150*time.Millisecond, 20),
		SoundTone("splat", rate, 200, 80, 120*time.Millisecond, 25),
		SoundTone("refill", rate, 300, 600, 250*time.Millisecond, 8),
		SoundTone("empty", rate, 150, 150, 200*time.Millisecond, 10),
	}
	return append(loaders, DecalTextures(textureDir, seed)...)
}

// splotch is a few overlapping soft discs in white with varying alpha; the
// material tint colours it.
func splotch(size int, rng *rand.Rand) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	type blob struct{ x, y, r float64 }
	blobs := make([]blob, 3+rng.Intn(4))
	for i := range blobs {
		blobs[i] = blob{
			x: 0.3 + 0.4*rng.Float64(),
			y: 0.3 + 0.4*rng.Float64(),
			r: 0.1 + 0.15*rng.Float64(),
		}
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u := (float64(x) + 0.5) / float64(size)
			v := (float64(y) + 0.5) / float64(size)
			var a float64
			for _, b := range blobs {
				d := math.Hypot(u-b.x, v-b.y) / b.r
				a = math.Max(a, 1-d*d)
			}
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, uint8(255 * math.Max(a, 0))})
		}
	}
	return img
}

type AudioModule struct {
	SampleRate beep.SampleRate
}

func (mod AudioModule) Install(app *App) {
	rate := mod.SampleRate
	if rate == 0 {
		rate = 44100
	}
	app.addResources(audio.NewMixer(rate))
}

// Mixer is the audio mixer, or nil when no AudioModule was installed.
func (app *App) Mixer() *audio.Mixer {
	m, _ := Resource[audio.Mixer](app)
	return m
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
