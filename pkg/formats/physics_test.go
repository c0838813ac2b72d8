package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParsePhysics(t *testing.T) {
	doc := []byte(`{
		"Version": 3,
		"Settings": [
			{
				"Id": "hair",
				"Input": "ParamAngleX",
				"Output": "ParamHairFront",
				"Points": [
					{"Position": [0, 0], "Fixed": true},
					{"Position": [0, -5], "Mass": 1.2},
					{"Position": [0, -10]}
				],
				"Springs": [
					{"A": 0, "B": 1, "Stiffness": 0.8},
					{"A": 1, "B": 2, "Length": 5}
				]
			}
		]
	}`)

	physics, err := ParsePhysics(doc)
	if err != nil {
		t.Fatalf("failed to parse physics: %v", err)
	}
	if len(physics.Settings) != 1 {
		t.Fatalf("expected 1 setting, got %d", len(physics.Settings))
	}

	setting := physics.Settings[0]
	if setting.ID != "hair" || setting.Input != "ParamAngleX" || setting.Output != "ParamHairFront" {
		t.Errorf("unexpected setting header %+v", setting)
	}
	if len(setting.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(setting.Points))
	}
	if !setting.Points[0].Fixed {
		t.Error("expected point 0 fixed")
	}
	if setting.Points[0].Mass != 1 {
		t.Errorf("expected default mass 1, got %f", setting.Points[0].Mass)
	}
	if setting.Points[1].Mass != 1.2 {
		t.Errorf("expected mass 1.2, got %f", setting.Points[1].Mass)
	}
	if setting.Points[2].Position != [2]float32{0, -10} {
		t.Errorf("unexpected position %v", setting.Points[2].Position)
	}

	if len(setting.Springs) != 2 {
		t.Fatalf("expected 2 springs, got %d", len(setting.Springs))
	}
	if setting.Springs[0].Stiffness != 0.8 {
		t.Errorf("expected stiffness 0.8, got %f", setting.Springs[0].Stiffness)
	}
	if setting.Springs[1].Stiffness != 1 {
		t.Errorf("expected default stiffness 1, got %f", setting.Springs[1].Stiffness)
	}
	if setting.Springs[0].Length != 0 {
		t.Errorf("expected unset length 0, got %f", setting.Springs[0].Length)
	}
}

func TestParsePhysics_BadSpringIndex(t *testing.T) {
	doc := []byte(`{
		"Settings": [
			{
				"Id": "hair",
				"Points": [{"Position": [0, 0]}, {"Position": [0, -5]}],
				"Springs": [{"A": 0, "B": 5}]
			}
		]
	}`)
	_, err := ParsePhysics(doc)
	if !errors.Is(err, ErrBadSpringIndex) {
		t.Errorf("expected ErrBadSpringIndex, got %v", err)
	}
}

func TestParsePhysics_InvalidJSON(t *testing.T) {
	_, err := ParsePhysics([]byte(`{`))
	if !errors.Is(err, ErrInvalidPhysicsDocument) {
		t.Errorf("expected ErrInvalidPhysicsDocument, got %v", err)
	}
}

func TestParsePhysicsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pet.physics3.json")
	doc := []byte(`{"Settings": [{"Id": "hair", "Points": [{"Position": [0, 0]}], "Springs": []}]}`)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("failed to write physics file: %v", err)
	}

	physics, err := ParsePhysicsFile(path)
	if err != nil {
		t.Fatalf("failed to parse physics file: %v", err)
	}
	if len(physics.Settings) != 1 || physics.Settings[0].ID != "hair" {
		t.Errorf("unexpected settings %+v", physics.Settings)
	}
}

func TestParsePhysicsFile_Missing(t *testing.T) {
	_, err := ParsePhysicsFile(filepath.Join(t.TempDir(), "nope.physics3.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}
