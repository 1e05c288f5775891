package entity

import (
	"fmt"

	"github.com/milk9111/planetbowl/common"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/prefabs"
	"github.com/milk9111/planetbowl/scenes"
)

type componentExportFn func(w *ecs.World, e ecs.Entity) (any, bool, error)

var componentExporters = map[string]componentExportFn{
	"planet_tag":        exportTag(component.PlanetTagComponent.Kind()),
	"bowl_tag":          exportTag(component.BowlTagComponent.Kind()),
	"transform":         exportTransform,
	"render":            exportRender,
	"input":             exportTag(component.InputComponent.Kind()),
	"persistent":        exportPersistent,
	"bowl_mesh":         exportBowlMesh,
	"bowl_tilt":         exportBowlTilt,
	"physics_body":      exportPhysicsBody,
	"bowl_tether":       exportBowlTether,
	"collision_sound":   exportCollisionSound,
	"music_player":      exportMusicPlayer,
	"echo_tilt":         exportEchoTilt,
	"planet_bowl_setup": exportPlanetBowlSetup,
}

// ExportScene writes every entity with at least one exportable component as
// an inline scene entity, so the result loads without prefabs.
func ExportScene(w *ecs.World, name string) (*scenes.Scene, error) {
	scene := &scenes.Scene{Name: name}
	for _, e := range ecs.Entities(w) {
		comps := map[string]any{}
		for _, key := range componentBuildOrder {
			export, ok := componentExporters[key]
			if !ok {
				continue
			}
			raw, present, err := export(w, e)
			if err != nil {
				return nil, fmt.Errorf("export scene: entity %s: %s: %w", e, key, err)
			}
			if present {
				comps[key] = raw
			}
		}
		if len(comps) == 0 {
			continue
		}
		scene.Entities = append(scene.Entities, scenes.Entity{
			Name:       NameOf(w, e),
			Components: comps,
		})
	}
	return scene, nil
}

func exportTag[T any](kind component.ComponentKind[T]) componentExportFn {
	return func(w *ecs.World, e ecs.Entity) (any, bool, error) {
		if !ecs.Has(w, e, kind) {
			return nil, false, nil
		}
		return map[string]any{}, true, nil
	}
}

func exportTransform(w *ecs.World, e ecs.Entity) (any, bool, error) {
	tf, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return nil, false, nil
	}
	raw, err := prefabs.EncodeComponentSpec(transformSpec{X: tf.X, Y: tf.Y, Rotation: common.RadToDeg(tf.Rotation)})
	return raw, true, err
}

func exportRender(w *ecs.World, e ecs.Entity) (any, bool, error) {
	r, ok := ecs.Get(w, e, component.RenderComponent.Kind())
	if !ok {
		return nil, false, nil
	}
	spec := renderSpec{Layer: r.Layer}
	if r.Color != nil {
		spec.Color = &prefabs.YAMLColor{Color: r.Color}
	}
	raw, err := prefabs.EncodeComponentSpec(spec)
	return raw, true, err
}

func exportPersistent(w *ecs.World, e ecs.Entity) (any, bool, error) {
	p, ok := ecs.Get(w, e, component.PersistentComponent.Kind())
	if !ok {
		return nil, false, nil
	}
	raw, err := prefabs.EncodeComponentSpec(persistentSpec{ID: p.ID, KeepOnReload: p.KeepOnReload})
	return raw, true, err
}

func exportBowlMesh(w *ecs.World, e ecs.Entity) (any, bool, error) {
	m, ok := ecs.Get(w, e, component.BowlMeshComponent.Kind())
	if !ok {
		return nil, false, nil
	}
	raw, err := prefabs.EncodeComponentSpec(bowlMeshSpec{
		Radius:    m.Radius,
		Segments:  m.Segments,
		Span:      common.RadToDeg(m.Span),
		Thickness: m.Thickness,
	})
	return raw, true, err
}

func exportBowlTilt(w *ecs.World, e ecs.Entity) (any, bool, error) {
	t, ok := ecs.Get(w, e, component.BowlTiltComponent.Kind())
	if !ok {
		return nil, false, nil
	}
	raw, err := prefabs.EncodeComponentSpec(bowlTiltSpec{MaxTiltAngle: t.MaxTiltAngle, TiltSpeed: t.TiltSpeed})
	return raw, true, err
}

func exportPhysicsBody(w *ecs.World, e ecs.Entity) (any, bool, error) {
	b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return nil, false, nil
	}
	raw, err := prefabs.EncodeComponentSpec(physicsBodySpec{
		Mode:        b.Mode.String(),
		Mass:        b.Mass,
		Drag:        b.Drag,
		AngularDrag: b.AngularDrag,
		UseGravity:  &b.UseGravity,
		Friction:    &b.Friction,
		Elasticity:  &b.Elasticity,
		Collider:    b.Collider.String(),
		Radius:      b.Radius,
	})
	return raw, true, err
}

func exportBowlTether(w *ecs.World, e ecs.Entity) (any, bool, error) {
	t, ok := ecs.Get(w, e, component.BowlTetherComponent.Kind())
	if !ok {
		return nil, false, nil
	}
	raw, err := prefabs.EncodeComponentSpec(bowlTetherSpec{Bowl: t.BowlName, FallDistance: t.FallDistance})
	return raw, true, err
}

func exportCollisionSound(w *ecs.World, e ecs.Entity) (any, bool, error) {
	cs, ok := ecs.Get(w, e, component.CollisionSoundComponent.Kind())
	if !ok {
		return nil, false, nil
	}
	raw, err := prefabs.EncodeComponentSpec(collisionSoundSpec{
		Clip:              cs.ClipRef,
		Volume:            &cs.Volume,
		MinCollisionSpeed: &cs.MinCollisionSpeed,
		Cooldown:          &cs.Cooldown,
	})
	return raw, true, err
}

func exportMusicPlayer(w *ecs.World, e ecs.Entity) (any, bool, error) {
	mp, ok := ecs.Get(w, e, component.MusicPlayerComponent.Kind())
	if !ok {
		return nil, false, nil
	}
	raw, err := prefabs.EncodeComponentSpec(musicPlayerSpec{
		AmbientClip:       mp.AmbientClip,
		Volume:            &mp.Volume,
		MusicTracks:       mp.Tracks,
		TrackVolumes:      mp.TrackVolumes,
		CrossfadeDuration: &mp.CrossfadeDuration,
	})
	return raw, true, err
}

func exportEchoTilt(w *ecs.World, e ecs.Entity) (any, bool, error) {
	et, ok := ecs.Get(w, e, component.EchoTiltComponent.Kind())
	if !ok {
		return nil, false, nil
	}
	raw, err := prefabs.EncodeComponentSpec(echoTiltSpec{
		Bowl:               et.BowlName,
		EchoRateAtMaxTilt:  &et.EchoRateAtMaxTilt,
		FeedbackAtMaxTilt:  &et.FeedbackAtMaxTilt,
		ReverbAtMaxTilt:    &et.ReverbAtMaxTilt,
		RateParam:          et.RateParam,
		FeedbackParam:      et.FeedbackParam,
		FeedbackParamAlias: et.FeedbackParamAlias,
		ReverbParam:        et.ReverbParam,
	})
	return raw, true, err
}

func exportPlanetBowlSetup(w *ecs.World, e ecs.Entity) (any, bool, error) {
	s, ok := ecs.Get(w, e, component.PlanetBowlSetupComponent.Kind())
	if !ok {
		return nil, false, nil
	}
	raw, err := prefabs.EncodeComponentSpec(planetBowlSetupSpec{
		Planet:            s.PlanetName,
		Bowl:              s.BowlName,
		AutoSetupOnStart:  &s.AutoSetupOnStart,
		PlanetMass:        &s.PlanetMass,
		PlanetDrag:        &s.PlanetDrag,
		PlanetAngularDrag: &s.PlanetAngularDrag,
		MakeBowlStatic:    &s.MakeBowlStatic,
	})
	return raw, true, err
}
