package entity

import (
	"fmt"

	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/prefabs"
	"github.com/milk9111/planetbowl/scenes"
)

// LoadSceneToWorld builds every scene entity in order. It stops at the first
// entity that fails and returns the entities built so far.
func LoadSceneToWorld(w *ecs.World, scene *scenes.Scene) ([]ecs.Entity, error) {
	if w == nil {
		return nil, fmt.Errorf("load scene: world is nil")
	}
	if scene == nil {
		return nil, fmt.Errorf("load scene: scene is nil")
	}

	built := make([]ecs.Entity, 0, len(scene.Entities))
	for i, se := range scene.Entities {
		spec, source, err := resolveSceneEntity(se)
		if err != nil {
			return built, fmt.Errorf("load scene %q: entity %d: %w", scene.Name, i, err)
		}
		e, err := BuildEntityFromSpec(w, spec, source)
		if err != nil {
			return built, fmt.Errorf("load scene %q: entity %d: %w", scene.Name, i, err)
		}
		built = append(built, e)
	}
	return built, nil
}

// resolveSceneEntity merges a scene entry over its prefab.
func resolveSceneEntity(se scenes.Entity) (entityPrefabSpec, string, error) {
	spec := entityPrefabSpec{Components: map[string]any{}}
	source := "inline"
	if se.Prefab != "" {
		base, err := prefabs.LoadEntityBuildSpec(se.Prefab)
		if err != nil {
			return spec, se.Prefab, err
		}
		spec.Name = base.Name
		for k, v := range base.Components {
			spec.Components[k] = v
		}
		source = se.Prefab
	}

	for k, v := range se.Components {
		spec.Components[k] = mergeComponent(spec.Components[k], v)
	}

	if se.Name != "" {
		spec.Name = se.Name
		spec.Components["name"] = map[string]any{"value": se.Name}
	}
	if se.X != nil || se.Y != nil {
		tr := map[string]any{}
		if existing, ok := spec.Components["transform"].(map[string]any); ok {
			for k, v := range existing {
				tr[k] = v
			}
		}
		if se.X != nil {
			tr["x"] = *se.X
		}
		if se.Y != nil {
			tr["y"] = *se.Y
		}
		spec.Components["transform"] = tr
	}
	return spec, source, nil
}

// mergeComponent overlays override onto base field by field when both are
// mappings; otherwise override wins.
func mergeComponent(base, override any) any {
	bm, okB := base.(map[string]any)
	om, okO := override.(map[string]any)
	if !okB || !okO {
		return override
	}
	out := make(map[string]any, len(bm)+len(om))
	for k, v := range bm {
		out[k] = v
	}
	for k, v := range om {
		out[k] = v
	}
	return out
}
