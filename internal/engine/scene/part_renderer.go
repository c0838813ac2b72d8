// Package scene renders the loaded model as depth sorted textured
// quads driven by the parameter store.
package scene

import (
	"image"
	"sort"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/kurisu-dev/parapet/internal/engine/param"
	"github.com/kurisu-dev/parapet/internal/engine/scene/shaders"
	"github.com/kurisu-dev/parapet/internal/engine/shader"
	"github.com/kurisu-dev/parapet/internal/engine/texture"
	"github.com/kurisu-dev/parapet/internal/logger"
	"github.com/kurisu-dev/parapet/pkg/formats"
	"github.com/kurisu-dev/parapet/pkg/math"
)

// Parts with no mesh of their own draw as a unit quad.
var defaultQuadVertices = []float32{
	// Position (XYZ), TexCoord (UV)
	-0.5, -0.5, 0.0, 0.0, 1.0, // Bottom-left
	0.5, -0.5, 0.0, 1.0, 1.0, // Bottom-right
	0.5, 0.5, 0.0, 1.0, 0.0, // Top-right
	-0.5, 0.5, 0.0, 0.0, 0.0, // Top-left
}

var defaultQuadIndices = []uint32{0, 1, 2, 2, 3, 0}

// Part is one drawable element of the loaded model.
type Part struct {
	ID        string
	Name      string
	Depth     int
	Opacity   float32
	Visible   bool
	Deformers []formats.Deformer

	texture    *texture.Texture
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// PartRenderer draws model parts back to front with parameter driven
// opacity. It owns the shader program, each part's buffers and the
// texture cache.
type PartRenderer struct {
	store    *param.Store
	textures *texture.Cache

	program      uint32
	locTransform int32
	locTexture   int32
	locAlpha     int32

	parts    map[string]*Part
	declared []*Part
	sorted   []*Part

	initialized bool
}

// NewPartRenderer creates a renderer reading parameters from store.
// Init must run on the GL thread before anything can be drawn.
func NewPartRenderer(store *param.Store) *PartRenderer {
	r := &PartRenderer{
		store: store,
		parts: make(map[string]*Part),
	}
	r.textures = texture.NewCache(uploadTexture, releaseTexture)
	return r
}

// Init compiles the part shader and sets up blending over a
// transparent clear color.
func (r *PartRenderer) Init() error {
	program, err := shader.CompileProgram(shaders.PartVertexShader, shaders.PartFragmentShader)
	if err != nil {
		return err
	}
	r.program = program
	r.locTransform = shader.GetUniform(program, "uTransform")
	r.locTexture = shader.GetUniform(program, "uTexture")
	r.locAlpha = shader.GetUniform(program, "uAlpha")

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.initialized = true
	logger.Info("Part renderer initialized")
	return nil
}

// Initialized reports whether Init has run.
func (r *PartRenderer) Initialized() bool {
	return r.initialized
}

// SetQuality switches texture quality. Cached textures are dropped
// and reload lazily at the new scale.
func (r *PartRenderer) SetQuality(q texture.Quality) {
	r.textures.SetQuality(q)
}

// LoadModel replaces the loaded parts with the model's. Parts whose
// texture fails to load are kept but skipped when drawing.
func (r *PartRenderer) LoadModel(model *formats.Model) {
	if !r.initialized {
		logger.Warn("Part renderer not initialized, cannot load model")
		return
	}
	r.unloadParts()

	logger.Info("Loading model", zap.Int("parts", len(model.Parts)))
	for i := range model.Parts {
		def := &model.Parts[i]
		part := &Part{
			ID:        def.ID,
			Name:      def.Name,
			Depth:     def.Depth,
			Opacity:   def.Opacity,
			Visible:   def.Visible,
			Deformers: def.Deformers,
		}

		if def.TexturePath != "" {
			tex, err := r.textures.Load(def.TexturePath, false)
			if err == nil {
				part.texture = tex
			} else {
				logger.Error("Failed to load part texture",
					zap.String("part", def.ID),
					zap.String("path", def.TexturePath),
					zap.Error(err))
			}
		}

		vertices, indices := partMesh(def)
		r.createBuffers(part, vertices, indices)

		r.parts[part.ID] = part
		r.declared = append(r.declared, part)
	}
	r.sorted = nil
	logger.Info("Model loaded", zap.Int("parts", len(r.parts)))
}

// partMesh returns the part's mesh, or the unit quad when the part
// carries none or its data is inconsistent.
func partMesh(def *formats.Part) ([]float32, []uint32) {
	if len(def.Vertices) == 0 {
		return defaultQuadVertices, defaultQuadIndices
	}
	if len(def.Vertices)%5 != 0 || len(def.Indices) == 0 {
		logger.Warn("Part has malformed mesh, using quad", zap.String("part", def.ID))
		return defaultQuadVertices, defaultQuadIndices
	}
	return def.Vertices, def.Indices
}

func (r *PartRenderer) createBuffers(part *Part, vertices []float32, indices []uint32) {
	gl.GenVertexArrays(1, &part.vao)
	gl.BindVertexArray(part.vao)

	gl.GenBuffers(1, &part.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, part.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &part.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, part.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	// Position attribute (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 5*4, 0)
	gl.EnableVertexAttribArray(0)

	// TexCoord attribute (location 1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	part.indexCount = int32(len(indices))
}

// SetPartOpacity sets a part's base opacity. Unknown ids are ignored.
func (r *PartRenderer) SetPartOpacity(id string, opacity float32) {
	if part, ok := r.parts[id]; ok {
		part.Opacity = opacity
	}
}

// SetPartVisible toggles a part. Unknown ids are ignored.
func (r *PartRenderer) SetPartVisible(id string, visible bool) {
	if part, ok := r.parts[id]; ok {
		part.Visible = visible
	}
}

// PartCount returns the number of loaded parts.
func (r *PartRenderer) PartCount() int {
	return len(r.parts)
}

// sortedParts returns the draw order, resorting only when the part
// set changed. Depth ties keep declaration order.
func (r *PartRenderer) sortedParts() []*Part {
	if r.sorted == nil {
		r.sorted = make([]*Part, len(r.declared))
		copy(r.sorted, r.declared)
		sort.SliceStable(r.sorted, func(i, j int) bool {
			return r.sorted[i].Depth < r.sorted[j].Depth
		})
	}
	return r.sorted
}

// effectiveAlpha combines the part's opacity with its opacity
// deformers, each scaling by 1 + value*scale, clamped to [0, 1].
func effectiveAlpha(part *Part, store *param.Store) float32 {
	alpha := part.Opacity
	for _, d := range part.Deformers {
		if d.Parameter == "" || d.Kind != formats.DeformKindOpacity {
			continue
		}
		value := store.Get(d.Parameter, 0)
		alpha *= 1 + value*d.Scale
	}
	return math.Clamp01(alpha)
}

// Render draws every visible part, back to front, with the view
// transform applied in the vertex shader. The caller clears the
// target first.
func (r *PartRenderer) Render(view math.Mat4) {
	if !r.initialized {
		logger.Warn("Part renderer not initialized")
		return
	}
	if len(r.parts) == 0 {
		return
	}

	gl.UseProgram(r.program)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UniformMatrix4fv(r.locTransform, 1, false, view.Ptr())
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.locTexture, 0)

	for _, part := range r.sortedParts() {
		if !part.Visible || part.texture == nil {
			continue
		}

		gl.Uniform1f(r.locAlpha, effectiveAlpha(part, r.store))
		gl.BindTexture(gl.TEXTURE_2D, part.texture.ID)
		gl.BindVertexArray(part.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, part.indexCount, gl.UNSIGNED_INT, 0)
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// unloadParts deletes every part's buffers and forgets the parts.
func (r *PartRenderer) unloadParts() {
	for _, part := range r.declared {
		if part.vao != 0 {
			gl.DeleteVertexArrays(1, &part.vao)
		}
		if part.vbo != 0 {
			gl.DeleteBuffers(1, &part.vbo)
		}
		if part.ebo != 0 {
			gl.DeleteBuffers(1, &part.ebo)
		}
	}
	r.parts = make(map[string]*Part)
	r.declared = nil
	r.sorted = nil
}

// Cleanup releases the shader program, part buffers and all cached
// textures. The renderer must be reinitialized before further use.
func (r *PartRenderer) Cleanup() {
	r.unloadParts()
	r.textures.Clear()
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
	r.initialized = false
	logger.Info("Part renderer cleaned up")
}

// uploadTexture pushes decoded RGBA pixels to the GPU with linear
// filtering and edge clamping.
func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return texID
}

func releaseTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}
