package renderable

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"

	"mini-render/internal/graphics/gpu"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// TextureCache keeps decoded images by path so a texture shared by several
// renderables is read from disk once.
type TextureCache struct {
	mu     sync.RWMutex
	images map[string]*image.RGBA
}

func NewTextureCache() *TextureCache {
	return &TextureCache{images: make(map[string]*image.RGBA)}
}

// DefaultTextureCache is used by textures created without an explicit cache.
var DefaultTextureCache = NewTextureCache()

// Get returns the cached image for path, decoding it on first use.
func (c *TextureCache) Get(path string) (*image.RGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another caller may have decoded the same path meanwhile.
	if cached, ok := c.images[path]; ok {
		return cached, nil
	}
	c.images[path] = img
	return img, nil
}

// Preload decodes paths concurrently and fills the cache. The first error is
// returned; images decoded before it stay cached.
func (c *TextureCache) Preload(paths ...string) error {
	var g errgroup.Group
	g.SetLimit(4)
	for _, p := range paths {
		g.Go(func() error {
			_, err := c.Get(p)
			return err
		})
	}
	return g.Wait()
}

// Put stores an already decoded image under path.
func (c *TextureCache) Put(path string, img *image.RGBA) {
	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
}

func (c *TextureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// LoadImage decodes an image file into RGBA.
func LoadImage(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	head := make([]byte, 261)
	n, _ := file.Read(head)
	if !filetype.IsImage(head[:n]) {
		return nil, fmt.Errorf("texture %s: not an image file", path)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind texture file: %w", err)
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Texture is a diffuse texture with its sampler.
type Texture struct {
	path  string
	cache *TextureCache
	image *image.RGBA

	texture gpu.Texture
	sampler gpu.Sampler
}

// NewTexture returns a texture read from path through cache on Initialize.
// A nil cache means DefaultTextureCache.
func NewTexture(path string, cache *TextureCache) *Texture {
	if cache == nil {
		cache = DefaultTextureCache
	}
	return &Texture{path: path, cache: cache}
}

// NewTextureFromImage returns a texture with already decoded pixels.
func NewTextureFromImage(name string, img image.Image) *Texture {
	return &Texture{path: name, image: toRGBA(img)}
}

func (t *Texture) Path() string { return t.path }

func (t *Texture) Resource() gpu.Texture { return t.texture }

func (t *Texture) Sampler() gpu.Sampler { return t.sampler }

// Initialize decodes the image if needed and creates the GPU texture and
// sampler. It is a no-op once the texture exists.
func (t *Texture) Initialize(dev gpu.Device) error {
	if t.texture != nil {
		return nil
	}
	if t.image == nil {
		img, err := t.cache.Get(t.path)
		if err != nil {
			return err
		}
		t.image = img
	}

	size := t.image.Rect.Size()
	tex, err := dev.CreateTexture2D(gpu.TextureDesc{
		Width:     size.X,
		Height:    size.Y,
		MipLevels: 0,
		Format:    gpu.FormatR8G8B8A8Unorm,
		BindFlags: gpu.BindShaderResource,
	}, t.image.Pix)
	if err != nil {
		return fmt.Errorf("texture %s: %w", t.path, err)
	}
	smp, err := dev.CreateSampler(gpu.DefaultSampler)
	if err != nil {
		tex.Release()
		return fmt.Errorf("texture %s sampler: %w", t.path, err)
	}
	t.texture, t.sampler = tex, smp
	return nil
}

func (t *Texture) Release() {
	gpu.Release(t.sampler, t.texture)
	t.texture, t.sampler = nil, nil
}
