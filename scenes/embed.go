package scenes

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var ScenesFS embed.FS

const DefaultScene = "bowl.yaml"

// Scene is an ordered list of prefab instances.
type Scene struct {
	Name     string   `yaml:"name"`
	Entities []Entity `yaml:"entities"`
}

// Entity places a prefab. Name, X and Y override the prefab's name and
// transform; Components are merged over the prefab's components key by key.
// An entity without a prefab is built from Components alone.
type Entity struct {
	Prefab     string         `yaml:"prefab,omitempty"`
	Name       string         `yaml:"name,omitempty"`
	X          *float64       `yaml:"x,omitempty"`
	Y          *float64       `yaml:"y,omitempty"`
	Components map[string]any `yaml:"components,omitempty"`
}

// LoadSceneFromFS reads a scene, preferring the on-disk copy under scenes/.
func LoadSceneFromFS(name string) (*Scene, error) {
	name = normalizeName(name)
	data, err := os.ReadFile(filepath.Join("scenes", name))
	if err != nil {
		data, err = fs.ReadFile(ScenesFS, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(data)
}

// LoadSceneFile reads a scene from an arbitrary path.
func LoadSceneFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(data)
}

func ParseScene(data []byte) (*Scene, error) {
	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("unmarshal scene: %w", err)
	}
	return &scene, nil
}

func (s *Scene) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func normalizeName(name string) string {
	name = strings.TrimPrefix(filepath.ToSlash(name), "scenes/")
	if name == "" {
		return DefaultScene
	}
	if filepath.Ext(name) == "" {
		name += ".yaml"
	}
	return name
}
