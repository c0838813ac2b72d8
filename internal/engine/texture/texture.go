// Package texture decodes part images and caches GPU texture handles
// keyed by path and render quality.
package texture

import (
	"fmt"
	"image"
	"os"
	"sort"

	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // BMP decoder registration
	xdraw "golang.org/x/image/draw"

	"github.com/kurisu-dev/parapet/internal/logger"
)

// Quality selects the downscale factor applied before upload.
type Quality string

// Render quality levels.
const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// Scale returns the downscale factor for q. Unknown values scale 1.
func (q Quality) Scale() float32 {
	switch q {
	case QualityMedium:
		return 0.75
	case QualityLow:
		return 0.5
	}
	return 1
}

// Valid reports whether q names a known quality level.
func (q Quality) Valid() bool {
	switch q {
	case QualityHigh, QualityMedium, QualityLow:
		return true
	}
	return false
}

// Texture is one uploaded GPU texture.
type Texture struct {
	ID     uint32
	Width  int32
	Height int32
	Path   string
}

// UploadFunc pushes RGBA pixels to the GPU and returns the handle.
type UploadFunc func(img *image.RGBA) uint32

// ReleaseFunc frees a GPU handle.
type ReleaseFunc func(id uint32)

// MaxEntries is the cache capacity before eviction kicks in.
const MaxEntries = 50

type entry struct {
	texture *Texture
	usage   int
}

// Cache loads, downsamples and caches textures. Upload and release
// are injected by the renderer, keeping the cache itself free of GL
// state.
type Cache struct {
	upload  UploadFunc
	release ReleaseFunc
	quality Quality

	entries    map[string]*entry
	maxEntries int
}

// NewCache creates a cache at high quality.
func NewCache(upload UploadFunc, release ReleaseFunc) *Cache {
	return &Cache{
		upload:     upload,
		release:    release,
		quality:    QualityHigh,
		entries:    make(map[string]*entry),
		maxEntries: MaxEntries,
	}
}

// Quality returns the active quality level.
func (c *Cache) Quality() Quality {
	return c.quality
}

// SetQuality switches the quality level. A change clears the cache so
// every texture reloads at the new scale. Unknown levels are ignored.
func (c *Cache) SetQuality(q Quality) {
	if !q.Valid() || q == c.quality {
		return
	}
	c.quality = q
	c.Clear()
	logger.Info("Render quality changed", zap.String("quality", string(q)))
}

// Load returns the texture for path at the active quality, loading
// and uploading it on first use. With forceReload the cached entry is
// replaced. Failures are logged and returned; the caller skips the
// part for the frame.
func (c *Cache) Load(path string, forceReload bool) (*Texture, error) {
	key := fmt.Sprintf("%s_%s", path, c.quality)
	if !forceReload {
		if e, ok := c.entries[key]; ok {
			e.usage++
			return e.texture, nil
		}
	}

	img, err := decodeScaled(path, c.quality.Scale())
	if err != nil {
		logger.Warn("Failed to load texture", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	if old, ok := c.entries[key]; ok {
		c.release(old.texture.ID)
		delete(c.entries, key)
	}
	if len(c.entries) >= c.maxEntries {
		c.evict()
	}

	tex := &Texture{
		ID:     c.upload(img),
		Width:  int32(img.Bounds().Dx()),
		Height: int32(img.Bounds().Dy()),
		Path:   path,
	}
	c.entries[key] = &entry{texture: tex, usage: 1}
	return tex, nil
}

// evict releases the least-used tenth of the cache, at minimum one
// entry, to make room for a new texture.
func (c *Cache) evict() {
	count := len(c.entries) / 10
	if count < 1 {
		count = 1
	}

	type candidate struct {
		key   string
		usage int
	}
	candidates := make([]candidate, 0, len(c.entries))
	for key, e := range c.entries {
		candidates = append(candidates, candidate{key: key, usage: e.usage})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].usage != candidates[j].usage {
			return candidates[i].usage < candidates[j].usage
		}
		return candidates[i].key < candidates[j].key
	})

	for _, victim := range candidates[:count] {
		c.release(c.entries[victim.key].texture.ID)
		delete(c.entries, victim.key)
	}
	logger.Debug("Evicted textures", zap.Int("count", count))
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Clear releases every cached texture.
func (c *Cache) Clear() {
	for _, e := range c.entries {
		c.release(e.texture.ID)
	}
	c.entries = make(map[string]*entry)
}

// decodeScaled decodes the image at path and resamples it by scale,
// returning RGBA pixels ready for upload.
func decodeScaled(path string, scale float32) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texture: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding texture: %w", err)
	}

	bounds := src.Bounds()
	width := int(float32(bounds.Dx()) * scale)
	height := int(float32(bounds.Dy()) * scale)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == bounds.Dx() && height == bounds.Dy() {
		xdraw.Copy(dst, image.Point{}, src, bounds, xdraw.Src, nil)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)
	}
	return dst, nil
}
