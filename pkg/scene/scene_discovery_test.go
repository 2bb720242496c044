package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cornell-empty", "Cornell Empty"},
		{"sunset_floor", "Sunset Floor"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata(t *testing.T) {
	dir := t.TempDir()

	named := filepath.Join(dir, "named.json")
	if err := os.WriteFile(named, []byte(`{"name": "Named Scene", "description": "Has metadata"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(dir, "broken-file.json")
	if err := os.WriteFile(broken, []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		path        string
		id          string
		displayName string
		description string
	}{
		{named, "json:named", "Named Scene", "Has metadata"},
		{broken, "json:broken-file", "Broken File", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			info := ParseSceneMetadata(tc.path)
			if info.ID != tc.id {
				t.Errorf("ID = %q, want %q", info.ID, tc.id)
			}
			if info.DisplayName != tc.displayName {
				t.Errorf("DisplayName = %q, want %q", info.DisplayName, tc.displayName)
			}
			if info.Description != tc.description {
				t.Errorf("Description = %q, want %q", info.Description, tc.description)
			}
			if info.Type != "json" || info.FilePath != tc.path {
				t.Errorf("Unexpected type/path: %q %q", info.Type, info.FilePath)
			}
		})
	}
}

func TestListJSONScenesIn(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta.json", "alpha.json", "ignored.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(`{}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	scenes, err := listJSONScenesIn(dir)
	if err != nil {
		t.Fatalf("listJSONScenesIn() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d", len(scenes))
	}
	if scenes[0].DisplayName != "Alpha" || scenes[1].DisplayName != "Zeta" {
		t.Errorf("Expected sorted [Alpha Zeta], got [%s %s]", scenes[0].DisplayName, scenes[1].DisplayName)
	}
}

func TestListAllScenes(t *testing.T) {
	response, err := ListAllScenes()
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}
	if len(response.Groups) == 0 || response.Groups[0].Name != "Built-in Scenes" {
		t.Fatalf("Expected Built-in Scenes as first group, got %+v", response.Groups)
	}

	expected := []string{"default", "cornell", "mirrors"}
	scenes := response.Groups[0].Scenes
	if len(scenes) != len(expected) {
		t.Fatalf("Built-in scenes count = %d, want %d", len(scenes), len(expected))
	}
	for i, id := range expected {
		if scenes[i].ID != id {
			t.Errorf("Scene %d ID = %q, want %q", i, scenes[i].ID, id)
		}
		if scenes[i].Type != "builtin" || scenes[i].DisplayName == "" {
			t.Errorf("Scene %q missing metadata: %+v", id, scenes[i])
		}
	}
}

func TestCreate(t *testing.T) {
	for _, info := range ListBuiltInScenes() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := Create(info.ID)
			if err != nil {
				t.Fatalf("Create(%q) error: %v", info.ID, err)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Built-in scene is invalid: %v", err)
			}
			if len(s.Shapes) == 0 || len(s.Lights) == 0 {
				t.Errorf("Expected shapes and lights, got %d shapes %d lights", len(s.Shapes), len(s.Lights))
			}
		})
	}

	// Each call builds a fresh scene
	a, _ := Create("default")
	b, _ := Create("default")
	if a == b || a.Shapes[0] == b.Shapes[0] {
		t.Error("Expected independent scene instances")
	}
}

func TestCreate_Unknown(t *testing.T) {
	_, err := Create("no-such-scene")
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}

	_, err = Create("json:no-such-file")
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene for missing json scene, got %v", err)
	}
}

func TestCreateRegistered(t *testing.T) {
	s, err := CreateRegistered("mirrors")
	if err != nil || len(s.Shapes) == 0 {
		t.Fatalf("Expected built-in scene, got %v (err %v)", s, err)
	}

	path := filepath.Join(t.TempDir(), "room.json")
	content := `{"shapes": [{"type": "sphere", "center": [0, 0, 4], "radius": 1}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Create(path); err != nil {
		t.Fatalf("Expected Create to load a file path, got %v", err)
	}

	for _, name := range []string{path, filepath.Join(t.TempDir(), "missing.json"), "json:../" + filepath.Base(path)} {
		_, err := CreateRegistered(name)
		if !errors.Is(err, ErrUnknownScene) {
			t.Errorf("CreateRegistered(%q): expected ErrUnknownScene, got %v", name, err)
		}
	}
}

func TestCreate_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.json")
	content := `{
		"ambient": [0.1, 0.1, 0.1],
		"lights": [{"position": [0, 5, 0], "color": [1, 1, 1], "power": 2}],
		"shapes": [
			{"type": "sphere", "center": [0, 0, 4], "radius": 1, "material": {"color": [1, 0, 0]}},
			{"type": "planeYZ", "fixed": 3, "facing": "negative", "boundA": [-1, 1], "boundB": [0, 8],
			 "material": {"color": [0, 1, 0], "reflectivity": 0.5}}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Create(path)
	if err != nil {
		t.Fatalf("Create(%q) error: %v", path, err)
	}
	if len(s.Shapes) != 2 || len(s.Lights) != 1 {
		t.Fatalf("Expected 2 shapes and 1 light, got %d and %d", len(s.Shapes), len(s.Lights))
	}
	if s.Shapes[1].Material().Reflectivity != 0.5 {
		t.Errorf("Expected plane reflectivity 0.5, got %f", s.Shapes[1].Material().Reflectivity)
	}
	// Missing camera fields fall back to the default view
	if s.CameraConfig.Direction.Z != 1 || s.CameraConfig.Up.Y != 1 {
		t.Errorf("Expected default camera, got %+v", s.CameraConfig)
	}
}

func TestCreate_JSONFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative radius", `{"shapes": [{"type": "sphere", "radius": -1}]}`},
		{"inverted bounds", `{"shapes": [{"type": "planeXY", "facing": "positive", "boundA": [1, -1], "boundB": [0, 1]}]}`},
		{"bad facing", `{"shapes": [{"type": "planeXY", "facing": "up", "boundA": [0, 1], "boundB": [0, 1]}]}`},
		{"zero power", `{"lights": [{"position": [0, 0, 0], "color": [1, 1, 1], "power": 0}]}`},
		{"reflectivity above one", `{"shapes": [{"type": "sphere", "radius": 1, "material": {"reflectivity": 1.5}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Create(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
