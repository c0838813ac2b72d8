package engine

import (
	"os"
	"path/filepath"
	"testing"
)

const testMotion = `{
	"Meta": {"Duration": 2.0, "Loop": true},
	"Curves": [
		{"Target": "Parameter", "Id": "PARAM_X", "Segments": [0, 1000000, 10]}
	]
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeTestModel lays out a loadable model directory and returns the
// definition path.
func writeTestModel(t *testing.T, idleGroup string, physics string) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "idle_01.motion3.json"), testMotion)
	writeFile(t, filepath.Join(dir, "tap_01.motion3.json"), testMotion)

	model := `{
		"Version": 3,
		"FileReferences": {
			"Motions": {
				"` + idleGroup + `": [{"File": "idle_01.motion3.json"}],
				"Tap": ["tap_01.motion3.json"]
			}` + physics + `
		},
		"Parameters": [
			{"Id": "PARAM_X", "Default": 0, "Min": -30, "Max": 30}
		],
		"Parts": [
			{"Id": "body", "Name": "Body"}
		]
	}`
	path := filepath.Join(dir, "pet.model3.json")
	writeFile(t, path, model)
	return path
}

func TestLoadModelStartsIdle(t *testing.T) {
	e := New()
	if err := e.LoadModel(writeTestModel(t, "Idle", "")); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	id, ok := e.PlayingMotion()
	if !ok || id != "idle_01" {
		t.Errorf("expected idle_01 playing, got %q (%v)", id, ok)
	}
}

func TestLoadModelIdleGroupCaseInsensitive(t *testing.T) {
	e := New()
	if err := e.LoadModel(writeTestModel(t, "idle", "")); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	id, ok := e.PlayingMotion()
	if !ok || id != "idle_01" {
		t.Errorf("expected idle_01 playing, got %q (%v)", id, ok)
	}
}

func TestLoadModelFallbackFirstMotion(t *testing.T) {
	e := New()
	if err := e.LoadModel(writeTestModel(t, "Greeting", "")); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	if _, ok := e.PlayingMotion(); !ok {
		t.Error("expected some motion playing without an idle group")
	}
}

func TestLoadModelMissing(t *testing.T) {
	e := New()
	if err := e.LoadModel(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestLoadModelInstallsDefaultChain(t *testing.T) {
	e := New()
	if err := e.LoadModel(writeTestModel(t, "Idle", "")); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	chains := e.physics.Chains()
	if len(chains) != 1 {
		t.Fatalf("expected 1 physics chain, got %d", len(chains))
	}
	if chains[0].ID != "hair" {
		t.Errorf("expected default hair chain, got %q", chains[0].ID)
	}
}

func TestLoadModelReadsPhysicsDocument(t *testing.T) {
	e := New()
	path := writeTestModel(t, "Idle", `,
			"Physics": "pet.physics3.json"`)
	physicsDoc := `{
		"Version": 3,
		"Settings": [{
			"Id": "tail",
			"Input": "PARAM_ANGLE_X",
			"Output": "PARAM_TAIL",
			"Points": [
				{"Position": [0, 0], "Fixed": true},
				{"Position": [0, -4]}
			],
			"Springs": [{"A": 0, "B": 1, "Stiffness": 0.8}]
		}]
	}`
	writeFile(t, filepath.Join(filepath.Dir(path), "pet.physics3.json"), physicsDoc)

	if err := e.LoadModel(path); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	chains := e.physics.Chains()
	if len(chains) != 1 {
		t.Fatalf("expected 1 physics chain, got %d", len(chains))
	}
	if chains[0].Output != "PARAM_TAIL" {
		t.Errorf("expected output PARAM_TAIL, got %q", chains[0].Output)
	}
}

func TestUpdateWritesMotionValues(t *testing.T) {
	e := New()
	if err := e.LoadModel(writeTestModel(t, "Idle", "")); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	e.Update(0.1)
	if got := e.Parameter("PARAM_X"); got != 10 {
		t.Errorf("expected PARAM_X 10, got %v", got)
	}
}

func TestPlayGroup(t *testing.T) {
	e := New()
	if err := e.LoadModel(writeTestModel(t, "Idle", "")); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	if !e.PlayGroup("Tap") {
		t.Error("expected PlayGroup to start a tap motion")
	}
	id, ok := e.PlayingMotion()
	if !ok || id != "tap_01" {
		t.Errorf("expected tap_01 playing, got %q (%v)", id, ok)
	}

	if e.PlayGroup("Nothing") {
		t.Error("expected false for unknown group")
	}
}

func TestPlayMotionUnknown(t *testing.T) {
	e := New()
	if e.PlayMotion("ghost") {
		t.Error("expected false for unknown motion")
	}
}

func TestSetParameterClampsToDefinition(t *testing.T) {
	e := New()
	if err := e.LoadModel(writeTestModel(t, "Idle", "")); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	e.SetParameter("PARAM_X", 100)
	if got := e.Parameter("PARAM_X"); got != 30 {
		t.Errorf("expected clamp to 30, got %v", got)
	}

	e.ResetParameters()
	if got := e.Parameter("PARAM_X"); got != 0 {
		t.Errorf("expected reset to 0, got %v", got)
	}
}

func TestRenderBeforeInitGL(t *testing.T) {
	e := New()
	// Must not touch GL without a context.
	e.Render()
	e.Resize(800, 600)
}

func TestMotionsListing(t *testing.T) {
	e := New()
	if err := e.LoadModel(writeTestModel(t, "Idle", "")); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	ids := e.Motions()
	if len(ids) != 2 {
		t.Fatalf("expected 2 motions, got %d", len(ids))
	}
	if ids[0] != "idle_01" || ids[1] != "tap_01" {
		t.Errorf("unexpected motion ids: %v", ids)
	}

	groups := e.MotionGroups()
	if len(groups) != 2 {
		t.Errorf("expected 2 groups, got %v", groups)
	}
}
