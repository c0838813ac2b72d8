package scene

import (
	"testing"

	"github.com/kurisu-dev/parapet/internal/engine/param"
	"github.com/kurisu-dev/parapet/pkg/formats"
)

func TestEffectiveAlphaPlainOpacity(t *testing.T) {
	store := param.NewStore()
	part := &Part{Opacity: 0.8}

	if got := effectiveAlpha(part, store); got != 0.8 {
		t.Errorf("expected alpha 0.8, got %v", got)
	}
}

func TestEffectiveAlphaDeformer(t *testing.T) {
	store := param.NewStore()
	store.Register("PARAM_FADE", 0, -1, 1)
	part := &Part{
		Opacity: 1,
		Deformers: []formats.Deformer{
			{Parameter: "PARAM_FADE", Kind: formats.DeformKindOpacity, Scale: 0.5},
		},
	}

	// Parameter at 0 leaves opacity untouched.
	if got := effectiveAlpha(part, store); got != 1 {
		t.Errorf("expected alpha 1, got %v", got)
	}

	// 1 * (1 + (-1)*0.5) = 0.5
	store.Set("PARAM_FADE", -1)
	if got := effectiveAlpha(part, store); got != 0.5 {
		t.Errorf("expected alpha 0.5, got %v", got)
	}
}

func TestEffectiveAlphaStacksDeformers(t *testing.T) {
	store := param.NewStore()
	store.Register("A", -0.5, -1, 1)
	store.Register("B", -0.5, -1, 1)
	part := &Part{
		Opacity: 1,
		Deformers: []formats.Deformer{
			{Parameter: "A", Kind: formats.DeformKindOpacity, Scale: 1},
			{Parameter: "B", Kind: formats.DeformKindOpacity, Scale: 1},
		},
	}

	// 1 * 0.5 * 0.5 = 0.25
	if got := effectiveAlpha(part, store); got != 0.25 {
		t.Errorf("expected alpha 0.25, got %v", got)
	}
}

func TestEffectiveAlphaClamps(t *testing.T) {
	store := param.NewStore()
	store.Register("UP", 10, -100, 100)
	store.Register("DOWN", -10, -100, 100)

	over := &Part{
		Opacity: 1,
		Deformers: []formats.Deformer{
			{Parameter: "UP", Kind: formats.DeformKindOpacity, Scale: 1},
		},
	}
	if got := effectiveAlpha(over, store); got != 1 {
		t.Errorf("expected alpha clamped to 1, got %v", got)
	}

	under := &Part{
		Opacity: 1,
		Deformers: []formats.Deformer{
			{Parameter: "DOWN", Kind: formats.DeformKindOpacity, Scale: 1},
		},
	}
	if got := effectiveAlpha(under, store); got != 0 {
		t.Errorf("expected alpha clamped to 0, got %v", got)
	}
}

func TestEffectiveAlphaSkipsOtherDeformers(t *testing.T) {
	store := param.NewStore()
	store.Register("PARAM_X", -1, -1, 1)
	part := &Part{
		Opacity: 1,
		Deformers: []formats.Deformer{
			{Parameter: "", Kind: formats.DeformKindOpacity, Scale: 1},
			{Parameter: "PARAM_X", Kind: "position", Scale: 1},
		},
	}

	if got := effectiveAlpha(part, store); got != 1 {
		t.Errorf("expected alpha 1, got %v", got)
	}
}

func addTestPart(r *PartRenderer, id string, depth int) *Part {
	part := &Part{ID: id, Depth: depth, Opacity: 1, Visible: true}
	r.parts[id] = part
	r.declared = append(r.declared, part)
	r.sorted = nil
	return part
}

func TestSortedPartsByDepth(t *testing.T) {
	r := NewPartRenderer(param.NewStore())
	addTestPart(r, "front", 2)
	addTestPart(r, "back", 0)
	addTestPart(r, "middle", 1)

	order := r.sortedParts()
	want := []string{"back", "middle", "front"}
	for i, id := range want {
		if order[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, order[i].ID)
		}
	}
}

func TestSortedPartsStableOnTies(t *testing.T) {
	r := NewPartRenderer(param.NewStore())
	addTestPart(r, "first", 1)
	addTestPart(r, "second", 1)
	addTestPart(r, "third", 1)

	order := r.sortedParts()
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if order[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, order[i].ID)
		}
	}
}

func TestSortedPartsCached(t *testing.T) {
	r := NewPartRenderer(param.NewStore())
	addTestPart(r, "a", 0)

	first := r.sortedParts()
	second := r.sortedParts()
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 part, got %d and %d", len(first), len(second))
	}

	// Adding a part invalidates the cached order.
	addTestPart(r, "b", -1)
	order := r.sortedParts()
	if len(order) != 2 || order[0].ID != "b" {
		t.Errorf("expected resorted order starting with b, got %v", order[0].ID)
	}
}

func TestSetPartOpacity(t *testing.T) {
	r := NewPartRenderer(param.NewStore())
	part := addTestPart(r, "face", 0)

	r.SetPartOpacity("face", 0.25)
	if part.Opacity != 0.25 {
		t.Errorf("expected opacity 0.25, got %v", part.Opacity)
	}

	// Unknown ids are ignored.
	r.SetPartOpacity("missing", 0.5)
}

func TestSetPartVisible(t *testing.T) {
	r := NewPartRenderer(param.NewStore())
	part := addTestPart(r, "arm", 0)

	r.SetPartVisible("arm", false)
	if part.Visible {
		t.Error("expected part hidden")
	}
	r.SetPartVisible("arm", true)
	if !part.Visible {
		t.Error("expected part visible")
	}
	r.SetPartVisible("missing", false)
}

func TestPartMeshDefaultsToQuad(t *testing.T) {
	vertices, indices := partMesh(&formats.Part{ID: "empty"})
	if len(vertices) != 20 {
		t.Errorf("expected 20 vertex floats, got %d", len(vertices))
	}
	if len(indices) != 6 {
		t.Errorf("expected 6 indices, got %d", len(indices))
	}
}

func TestPartMeshMalformedFallsBack(t *testing.T) {
	def := &formats.Part{
		ID:       "broken",
		Vertices: []float32{0, 0, 0, 0}, // not a multiple of 5
		Indices:  []uint32{0},
	}
	vertices, indices := partMesh(def)
	if len(vertices) != 20 || len(indices) != 6 {
		t.Errorf("expected quad fallback, got %d vertices and %d indices", len(vertices), len(indices))
	}

	noIndices := &formats.Part{
		ID:       "noindex",
		Vertices: []float32{0, 0, 0, 0, 0},
	}
	vertices, indices = partMesh(noIndices)
	if len(vertices) != 20 || len(indices) != 6 {
		t.Errorf("expected quad fallback, got %d vertices and %d indices", len(vertices), len(indices))
	}
}

func TestPartMeshCustom(t *testing.T) {
	def := &formats.Part{
		ID: "mesh",
		Vertices: []float32{
			0, 0, 0, 0, 0,
			1, 0, 0, 1, 0,
			0, 1, 0, 0, 1,
		},
		Indices: []uint32{0, 1, 2},
	}
	vertices, indices := partMesh(def)
	if len(vertices) != 15 {
		t.Errorf("expected 15 vertex floats, got %d", len(vertices))
	}
	if len(indices) != 3 {
		t.Errorf("expected 3 indices, got %d", len(indices))
	}
}

func TestPartCount(t *testing.T) {
	r := NewPartRenderer(param.NewStore())
	if r.PartCount() != 0 {
		t.Errorf("expected 0 parts, got %d", r.PartCount())
	}
	addTestPart(r, "a", 0)
	addTestPart(r, "b", 1)
	if r.PartCount() != 2 {
		t.Errorf("expected 2 parts, got %d", r.PartCount())
	}
}
