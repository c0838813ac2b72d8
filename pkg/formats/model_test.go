package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseModel(t *testing.T) {
	doc := []byte(`{
		"Version": 3,
		"FileReferences": {
			"Moc": "pet.moc3",
			"Textures": ["textures/body.png", "textures/face.png"],
			"Physics": "pet.physics3.json",
			"Motions": {
				"Idle": ["motions/idle_01.motion3.json", {"File": "motions/idle_02.motion3.json"}],
				"Tap": [{"File": "motions/tap_01.motion3.json"}]
			}
		},
		"Parameters": [
			{"Id": "ParamAngleX", "Default": 0, "Min": -30, "Max": 30},
			{"Id": "ParamHairFront"}
		],
		"Parts": [
			{
				"Id": "body",
				"Name": "Body",
				"TexturePath": "textures/body.png",
				"Depth": 1,
				"Opacity": 0.8,
				"Visible": true,
				"Deformers": [{"parameter": "ParamMouthOpen", "type": "opacity", "scale": 0.5}]
			},
			{"Id": "face", "TexturePath": "textures/face.png"}
		]
	}`)

	model, err := ParseModel(doc)
	if err != nil {
		t.Fatalf("failed to parse model: %v", err)
	}

	if model.Version != 3 {
		t.Errorf("expected version 3, got %d", model.Version)
	}
	if model.FileReferences.Moc != "pet.moc3" {
		t.Errorf("expected moc pet.moc3, got %s", model.FileReferences.Moc)
	}
	if len(model.FileReferences.Textures) != 2 {
		t.Errorf("expected 2 textures, got %d", len(model.FileReferences.Textures))
	}
	if model.FileReferences.Physics != "pet.physics3.json" {
		t.Errorf("expected physics pet.physics3.json, got %s", model.FileReferences.Physics)
	}

	idle := model.FileReferences.Motions["Idle"]
	if len(idle) != 2 {
		t.Fatalf("expected 2 idle motions, got %d", len(idle))
	}
	if idle[0].File != "motions/idle_01.motion3.json" {
		t.Errorf("expected string motion ref, got %s", idle[0].File)
	}
	if idle[1].File != "motions/idle_02.motion3.json" {
		t.Errorf("expected object motion ref, got %s", idle[1].File)
	}

	if len(model.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(model.Parameters))
	}
	if model.Parameters[0].Min != -30 || model.Parameters[0].Max != 30 {
		t.Errorf("expected range [-30, 30], got [%f, %f]", model.Parameters[0].Min, model.Parameters[0].Max)
	}
	if model.Parameters[1].Min != -100 || model.Parameters[1].Max != 100 {
		t.Errorf("expected default range [-100, 100], got [%f, %f]", model.Parameters[1].Min, model.Parameters[1].Max)
	}

	if len(model.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(model.Parts))
	}
	if model.Parts[0].Opacity != 0.8 {
		t.Errorf("expected opacity 0.8, got %f", model.Parts[0].Opacity)
	}
	if len(model.Parts[0].Deformers) != 1 {
		t.Fatalf("expected 1 deformer, got %d", len(model.Parts[0].Deformers))
	}
	d := model.Parts[0].Deformers[0]
	if d.Parameter != "ParamMouthOpen" || d.Kind != "opacity" || d.Scale != 0.5 {
		t.Errorf("unexpected deformer %+v", d)
	}
	if model.Parts[1].Opacity != 1 {
		t.Errorf("expected default opacity 1, got %f", model.Parts[1].Opacity)
	}
	if !model.Parts[1].Visible {
		t.Error("expected default visible true")
	}
}

func TestParseModel_VersionDefault(t *testing.T) {
	model, err := ParseModel([]byte(`{"Parts": [{"Id": "body"}]}`))
	if err != nil {
		t.Fatalf("failed to parse model: %v", err)
	}
	if model.Version != 3 {
		t.Errorf("expected default version 3, got %d", model.Version)
	}
}

func TestParseModel_WrappedParameters(t *testing.T) {
	doc := []byte(`{
		"Parameters": {"Parameters": [{"Id": "ParamAngleX", "Min": -30, "Max": 30}]},
		"Parts": [{"Id": "body"}]
	}`)
	model, err := ParseModel(doc)
	if err != nil {
		t.Fatalf("failed to parse model: %v", err)
	}
	if len(model.Parameters) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(model.Parameters))
	}
	if model.Parameters[0].ID != "ParamAngleX" {
		t.Errorf("expected ParamAngleX, got %s", model.Parameters[0].ID)
	}
}

func TestParseModel_NoParts(t *testing.T) {
	for _, doc := range []string{`{"Version": 3}`, `{"Version": 3, "Parts": []}`} {
		_, err := ParseModel([]byte(doc))
		if !errors.Is(err, ErrNoParts) {
			t.Errorf("doc %s: expected ErrNoParts, got %v", doc, err)
		}
	}
}

func TestParseModel_MissingPartID(t *testing.T) {
	_, err := ParseModel([]byte(`{"Parts": [{"Id": "body"}, {"Name": "Face"}]}`))
	if !errors.Is(err, ErrMissingPartID) {
		t.Errorf("expected ErrMissingPartID, got %v", err)
	}
}

func TestParseModel_InvalidJSON(t *testing.T) {
	_, err := ParseModel([]byte(`{not json`))
	if !errors.Is(err, ErrInvalidModelDocument) {
		t.Errorf("expected ErrInvalidModelDocument, got %v", err)
	}
}

func TestParseModelFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pet.model3.json")
	doc := []byte(`{"Version": 3, "Parts": [{"Id": "body", "TexturePath": "body.png"}]}`)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("failed to write model file: %v", err)
	}

	model, err := ParseModelFile(path)
	if err != nil {
		t.Fatalf("failed to parse model file: %v", err)
	}
	if len(model.Parts) != 1 || model.Parts[0].ID != "body" {
		t.Errorf("unexpected parts %+v", model.Parts)
	}
}

func TestParseModelFile_Missing(t *testing.T) {
	_, err := ParseModelFile(filepath.Join(t.TempDir(), "nope.model3.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}
