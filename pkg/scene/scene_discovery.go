package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// ErrUnknownScene is returned by Create for names that are neither built in nor a scene file
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by Create
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to scene file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtInGroup = "Built-in Scenes"

type builtIn struct {
	info   SceneInfo
	create func() *Scene
}

var builtIns = []builtIn{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Two spheres in front of a reflective back wall",
		},
		create: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "cornell",
			Name:        "Cornell Box",
			Description: "Open box built from all three plane orientations with a mirror sphere",
		},
		create: NewCornellScene,
	},
	{
		info: SceneInfo{
			ID:          "mirrors",
			Name:        "Facing Mirrors",
			Description: "Two parallel mirrors producing deep reflection chains",
		},
		create: NewMirrorsScene,
	},
}

// Create builds a fresh scene by name. Besides the registered IDs accepted by
// CreateRegistered, names ending in .json are loaded from that path on disk.
func Create(name string) (*Scene, error) {
	if strings.HasSuffix(strings.ToLower(name), ".json") {
		return NewJSONScene(name)
	}
	return CreateRegistered(name)
}

// CreateRegistered builds a fresh scene from a built-in ID or a "json:<name>" ID
// discovered in the scenes directory. Other names, file paths included, are rejected
// with ErrUnknownScene before anything is read.
func CreateRegistered(name string) (*Scene, error) {
	for _, b := range builtIns {
		if b.info.ID == name {
			return b.create(), nil
		}
	}

	if strings.HasPrefix(name, "json:") {
		scenes, err := ListJSONScenes()
		if err != nil {
			return nil, err
		}
		for _, info := range scenes {
			if info.ID == name {
				return NewJSONScene(info.FilePath)
			}
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// ListBuiltInScenes returns the compiled-in scenes in registration order
func ListBuiltInScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtIns))
	for _, b := range builtIns {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtInGroup
		info.Type = "builtin"
		scenes = append(scenes, info)
	}
	return scenes
}

// ListJSONScenes scans the scenes directory and returns discovered scene files
func ListJSONScenes() ([]SceneInfo, error) {
	// Try different possible paths for scenes directory
	possiblePaths := []string{"scenes", "../scenes"}
	var scenesDir string

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			scenesDir = path
			break
		}
	}

	if scenesDir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}
	return listJSONScenesIn(scenesDir)
}

func listJSONScenesIn(dir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		scenes = append(scenes, ParseSceneMetadata(filePath))
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseSceneMetadata extracts the name and description of a scene file.
// Unreadable files still produce an entry named after the file.
func ParseSceneMetadata(filePath string) SceneInfo {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:          "json:" + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "json",
		FilePath:    filePath,
	}

	file, err := loaders.LoadSceneFile(filePath)
	if err != nil {
		return info
	}
	if file.Name != "" {
		info.Name = file.Name
		info.DisplayName = file.Name
	}
	info.Description = file.Description
	return info
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListJSONScenes()
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: ListBuiltInScenes(),
	})
	if len(fileScenes) > 0 {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   fileScenes[0].Group,
			Scenes: fileScenes,
		})
	}
	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
