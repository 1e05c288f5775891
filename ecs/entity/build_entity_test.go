package entity

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/milk9111/planetbowl/common"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/prefabs"
	"github.com/milk9111/planetbowl/scenes"
)

func TestBuildEntityPrefabs(t *testing.T) {
	tests := []struct {
		prefab string
		check  func(t *testing.T, w *ecs.World, e ecs.Entity)
	}{
		{"planet.yaml", func(t *testing.T, w *ecs.World, e ecs.Entity) {
			if !ecs.Has(w, e, component.PlanetTagComponent.Kind()) {
				t.Fatalf("planet tag missing")
			}
			cs, ok := ecs.Get(w, e, component.CollisionSoundComponent.Kind())
			if !ok {
				t.Fatalf("collision sound missing")
			}
			if cs.ClipRef != "synth:clink" || cs.Volume != 1 || cs.MinCollisionSpeed != 0.5 || cs.Cooldown != 0.15 {
				t.Fatalf("unexpected collision sound %+v", cs)
			}
			if !math.IsInf(cs.Gate.LastTrigger(), -1) || cs.Gate.Cooldown != 0.15 {
				t.Fatalf("gate should start untriggered with the configured cooldown")
			}
		}},
		{"bowl.yaml", func(t *testing.T, w *ecs.World, e ecs.Entity) {
			mesh, ok := ecs.Get(w, e, component.BowlMeshComponent.Kind())
			if !ok || mesh.Segments != 16 || math.Abs(mesh.Span-common.DegToRad(150)) > 1e-9 {
				t.Fatalf("unexpected bowl mesh %+v", mesh)
			}
			if ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
				t.Fatalf("the bowl prefab leaves physics to the setup utility")
			}
		}},
		{"music_player.yaml", func(t *testing.T, w *ecs.World, e ecs.Entity) {
			mp, ok := ecs.Get(w, e, component.MusicPlayerComponent.Kind())
			if !ok {
				t.Fatalf("music player missing")
			}
			if mp.Volume != 0.6 || len(mp.Tracks) != 3 || len(mp.TrackVolumes) != 2 || mp.CrossfadeDuration != 2 {
				t.Fatalf("unexpected music player %+v", mp)
			}
			if mp.InstanceID == uuid.Nil || mp.Claimed {
				t.Fatalf("a fresh music player needs an instance id and no claim")
			}
			p, ok := ecs.Get(w, e, component.PersistentComponent.Kind())
			if !ok || p.ID != "music_player" || !p.KeepOnReload {
				t.Fatalf("music player must persist across reloads")
			}
		}},
		{"echo_tilt.yaml", func(t *testing.T, w *ecs.World, e ecs.Entity) {
			et, ok := ecs.Get(w, e, component.EchoTiltComponent.Kind())
			if !ok || et.BowlName != "bowl_03" || et.FeedbackParamAlias != "FeedBack_1" || et.ReverbAtMaxTilt != 0.5 {
				t.Fatalf("unexpected echo tilt %+v", et)
			}
		}},
		{"planet_bowl_setup.yaml", func(t *testing.T, w *ecs.World, e ecs.Entity) {
			s, ok := ecs.Get(w, e, component.PlanetBowlSetupComponent.Kind())
			if !ok || !s.AutoSetupOnStart || s.PlanetName != "Planet_69" || !s.MakeBowlStatic || s.Done {
				t.Fatalf("unexpected setup %+v", s)
			}
		}},
		{"controls.yaml", func(t *testing.T, w *ecs.World, e ecs.Entity) {
			if !ecs.Has(w, e, component.InputComponent.Kind()) {
				t.Fatalf("controls need an input component")
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.prefab, func(t *testing.T) {
			w := ecs.NewWorld()
			e, err := BuildEntity(w, tc.prefab)
			if err != nil {
				t.Fatalf("build %s: %v", tc.prefab, err)
			}
			tc.check(t, w, e)
		})
	}
}

func TestBuildEntityMusicPlayerDefaults(t *testing.T) {
	tests := []struct {
		name          string
		raw           map[string]any
		wantVolume    float64
		wantCrossfade float64
	}{
		{"empty", map[string]any{}, 0.6, 2},
		{"explicit_zero", map[string]any{"volume": 0, "crossfade_duration": 0}, 0, 0},
		{"clamped", map[string]any{"volume": 3}, 1, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			spec := prefabs.EntityBuildSpec{Components: map[string]any{"music_player": tc.raw}}
			e, err := BuildEntityFromSpec(w, spec, tc.name)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			mp, ok := ecs.Get(w, e, component.MusicPlayerComponent.Kind())
			if !ok {
				t.Fatalf("music player missing")
			}
			if mp.Volume != tc.wantVolume || mp.CrossfadeDuration != tc.wantCrossfade {
				t.Fatalf("got volume %v crossfade %v", mp.Volume, mp.CrossfadeDuration)
			}
		})
	}
}

func TestBuildEntityRejectsUnknownComponent(t *testing.T) {
	w := ecs.NewWorld()
	spec := prefabs.EntityBuildSpec{Components: map[string]any{
		"transform": map[string]any{"x": 1},
		"jetpack":   map[string]any{},
	}}
	if _, err := BuildEntityFromSpec(w, spec, "test"); err == nil {
		t.Fatalf("expected an error for an unknown component")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("a failed build must not leave entities behind, found %d", n)
	}
}

func TestBuildEntityPhysicsDefaults(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]any
		mode       component.BodyMode
		collider   component.ColliderKind
		radius     float64
		gravity    bool
	}{
		{
			name:       "plain_dynamic",
			components: map[string]any{"physics_body": map[string]any{}},
			mode:       component.BodyDynamic,
			collider:   component.ColliderCircle,
			radius:     0.5,
			gravity:    true,
		},
		{
			name: "bowl_gets_arc",
			components: map[string]any{
				"bowl_mesh":    map[string]any{"radius": 3},
				"physics_body": map[string]any{"mode": "kinematic"},
			},
			mode:     component.BodyKinematic,
			collider: component.ColliderArc,
		},
		{
			name:       "explicit_circle",
			components: map[string]any{"physics_body": map[string]any{"collider": "circle", "radius": 1.5, "use_gravity": false}},
			mode:       component.BodyDynamic,
			collider:   component.ColliderCircle,
			radius:     1.5,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e, err := BuildEntityFromSpec(w, prefabs.EntityBuildSpec{Components: tc.components}, tc.name)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
			if !ok {
				t.Fatalf("physics body missing")
			}
			if body.Mode != tc.mode || body.Collider != tc.collider || body.Radius != tc.radius || body.UseGravity != tc.gravity {
				t.Fatalf("got %+v", body)
			}
		})
	}

	w := ecs.NewWorld()
	bad := prefabs.EntityBuildSpec{Components: map[string]any{"physics_body": map[string]any{"mode": "floaty"}}}
	if _, err := BuildEntityFromSpec(w, bad, "bad"); err == nil {
		t.Fatalf("unknown body mode should fail")
	}
}

func TestLoadSceneAppliesOverrides(t *testing.T) {
	w := ecs.NewWorld()
	scene, err := scenes.LoadSceneFromFS(scenes.DefaultScene)
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	built, err := LoadSceneToWorld(w, scene)
	if err != nil {
		t.Fatalf("load scene to world: %v", err)
	}
	if len(built) != len(scene.Entities) {
		t.Fatalf("built %d of %d entities", len(built), len(scene.Entities))
	}

	p69, ok := FindByName(w, "Planet_69")
	if !ok {
		t.Fatalf("Planet_69 not found")
	}
	tf, _ := ecs.Get(w, p69, component.TransformComponent.Kind())
	if tf.X != 10 || tf.Y != 4 {
		t.Fatalf("Planet_69 should keep the prefab transform, got %+v", tf)
	}

	p70, ok := FindByName(w, "Planet_70")
	if !ok {
		t.Fatalf("Planet_70 not found")
	}
	tf, _ = ecs.Get(w, p70, component.TransformComponent.Kind())
	if tf.X != 8.6 || tf.Y != 2.5 {
		t.Fatalf("Planet_70 position override lost, got %+v", tf)
	}
	body, ok := ecs.Get(w, p70, component.PhysicsBodyComponent.Kind())
	if !ok || body.Radius != 0.35 || body.Mass != 0.6 {
		t.Fatalf("Planet_70 physics override lost, got %+v", body)
	}
	cs, ok := ecs.Get(w, p70, component.CollisionSoundComponent.Kind())
	if !ok || cs.ClipRef != "sounds/thud.wav" || cs.Volume != 0.9 || cs.MinCollisionSpeed != 0.5 {
		t.Fatalf("Planet_70 collision sound should merge over the prefab, got %+v", cs)
	}
	if !ecs.Has(w, p70, component.PlanetTagComponent.Kind()) {
		t.Fatalf("Planet_70 should keep prefab components it does not override")
	}
}

func TestMergeComponent(t *testing.T) {
	base := map[string]any{"a": 1, "b": 2}
	got := mergeComponent(base, map[string]any{"b": 3}).(map[string]any)
	if got["a"] != 1 || got["b"] != 3 {
		t.Fatalf("unexpected merge %v", got)
	}
	if base["b"] != 2 {
		t.Fatalf("merge must not mutate the prefab map")
	}
	if mergeComponent(base, "x") != "x" {
		t.Fatalf("a scalar override replaces the prefab value")
	}
}
