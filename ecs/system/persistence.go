package system

import (
	"fmt"

	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/ecs/entity"
	"github.com/milk9111/planetbowl/scenes"
	"github.com/rs/zerolog"
)

const controlsPrefab = "controls.yaml"

// SceneLoadListener is told about every completed scene load.
type SceneLoadListener func(sequence uint64)

// SceneLoader returns a scene by name.
type SceneLoader func(name string) (*scenes.Scene, error)

// PersistenceSystem loads the scene on the first frame and reloads it on
// request. Entities marked Persistent with KeepOnReload survive a reload;
// when the scene brings a second entity with the same persistent ID the
// survivor wins and the newcomer is destroyed.
type PersistenceSystem struct {
	sceneName    string
	loadScene    SceneLoader
	physicsReset func()
	listeners    []SceneLoadListener
	initialized  bool
	loadSequence uint64
	err          error
	log          zerolog.Logger
}

func NewPersistenceSystem(sceneName string, physicsReset func(), log zerolog.Logger) *PersistenceSystem {
	return &PersistenceSystem{
		sceneName:    sceneName,
		loadScene:    scenes.LoadSceneFromFS,
		physicsReset: physicsReset,
		log:          log,
	}
}

// SetSceneLoader replaces the scene source.
func (p *PersistenceSystem) SetSceneLoader(fn SceneLoader) {
	if fn != nil {
		p.loadScene = fn
	}
}

func (p *PersistenceSystem) AddSceneLoadListener(fn SceneLoadListener) {
	if fn != nil {
		p.listeners = append(p.listeners, fn)
	}
}

func (p *PersistenceSystem) SceneName() string {
	return p.sceneName
}

// Err returns the error of the last failed load, if any.
func (p *PersistenceSystem) Err() error {
	return p.err
}

func (p *PersistenceSystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.SceneLoadedComponent.Kind(), func(e ecs.Entity, _ *component.SceneLoaded) {
		ecs.DestroyEntity(w, e)
	})

	if !p.initialized {
		p.initialized = true
		p.reload(w)
		return
	}

	if _, ok := ecs.First(w, component.ReloadRequestComponent.Kind()); ok {
		ecs.ForEach(w, component.ReloadRequestComponent.Kind(), func(e ecs.Entity, _ *component.ReloadRequest) {
			ecs.DestroyEntity(w, e)
		})
		p.reload(w)
	}
}

func (p *PersistenceSystem) reload(w *ecs.World) {
	if err := p.reloadWorld(w); err != nil {
		p.err = err
		p.log.Error().Err(err).Str("scene", p.sceneName).Msg("scene load failed")
		return
	}
	p.err = nil
}

func (p *PersistenceSystem) snapshotPersistentSingletons(w *ecs.World) map[string]ecs.Entity {
	preferred := map[string]ecs.Entity{}
	if w == nil {
		return preferred
	}

	ecs.ForEach(w, component.PersistentComponent.Kind(), func(e ecs.Entity, persistent *component.Persistent) {
		if persistent == nil || persistent.ID == "" || !persistent.KeepOnReload {
			return
		}
		if _, exists := preferred[persistent.ID]; !exists {
			preferred[persistent.ID] = e
		}
	})

	return preferred
}

func (p *PersistenceSystem) pruneForReload(w *ecs.World) {
	if w == nil {
		return
	}

	toDestroy := make([]ecs.Entity, 0)
	for _, e := range ecs.Entities(w) {
		persistent, ok := ecs.Get(w, e, component.PersistentComponent.Kind())
		if !ok || persistent == nil || !persistent.KeepOnReload {
			toDestroy = append(toDestroy, e)
		}
	}

	for _, e := range toDestroy {
		ecs.DestroyEntity(w, e)
	}
}

func (p *PersistenceSystem) resolvePersistentSingletons(w *ecs.World, preferred map[string]ecs.Entity) int {
	if w == nil {
		return 0
	}

	seen := make(map[string]ecs.Entity)
	toDestroy := make([]ecs.Entity, 0)
	ecs.ForEach(w, component.PersistentComponent.Kind(), func(e ecs.Entity, persistent *component.Persistent) {
		if persistent == nil || persistent.ID == "" {
			return
		}
		if preferredEntity, ok := preferred[persistent.ID]; ok {
			seen[persistent.ID] = preferredEntity
			if e != preferredEntity {
				toDestroy = append(toDestroy, e)
			}
			return
		}

		if existing, ok := seen[persistent.ID]; ok && existing != e {
			toDestroy = append(toDestroy, e)
			return
		}
		seen[persistent.ID] = e
	})

	for _, e := range toDestroy {
		ecs.DestroyEntity(w, e)
	}
	return len(toDestroy)
}

func (p *PersistenceSystem) reloadWorld(w *ecs.World) error {
	preferredSingletons := p.snapshotPersistentSingletons(w)
	p.pruneForReload(w)

	if p.physicsReset != nil {
		p.physicsReset()
	}

	scene, err := p.loadScene(p.sceneName)
	if err != nil {
		return fmt.Errorf("load scene %q: %w", p.sceneName, err)
	}

	if _, err = entity.LoadSceneToWorld(w, scene); err != nil {
		return err
	}

	if _, ok := ecs.First(w, component.InputComponent.Kind()); !ok {
		if _, err = entity.BuildEntity(w, controlsPrefab); err != nil {
			return err
		}
	}

	dropped := p.resolvePersistentSingletons(w, preferredSingletons)

	p.loadSequence++
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.SceneLoadedComponent.Kind(), &component.SceneLoaded{Sequence: p.loadSequence})

	p.log.Info().
		Str("scene", scene.Name).
		Uint64("sequence", p.loadSequence).
		Int("entities", len(ecs.Entities(w))).
		Int("duplicates_dropped", dropped).
		Msg("scene loaded")

	for _, fn := range p.listeners {
		fn(p.loadSequence)
	}
	return nil
}
