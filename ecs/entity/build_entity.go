package entity

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/milk9111/planetbowl/common"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/prefabs"
	"github.com/milk9111/planetbowl/sound"
	"golang.org/x/image/colornames"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"name":              addName,
	"planet_tag":        addPlanetTag,
	"bowl_tag":          addBowlTag,
	"transform":         addTransform,
	"render":            addRender,
	"input":             addInput,
	"persistent":        addPersistent,
	"bowl_mesh":         addBowlMesh,
	"bowl_tilt":         addBowlTilt,
	"physics_body":      addPhysicsBody,
	"bowl_tether":       addBowlTether,
	"collision_sound":   addCollisionSound,
	"music_player":      addMusicPlayer,
	"echo_tilt":         addEchoTilt,
	"planet_bowl_setup": addPlanetBowlSetup,
}

// physics_body comes after bowl_mesh so a bowl defaults to an arc collider.
var componentBuildOrder = []string{
	"name",
	"planet_tag",
	"bowl_tag",
	"transform",
	"render",
	"input",
	"persistent",
	"bowl_mesh",
	"bowl_tilt",
	"physics_body",
	"bowl_tether",
	"collision_sound",
	"music_player",
	"echo_tilt",
	"planet_bowl_setup",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, spec, prefabPath)
}

// BuildEntityFromSpec creates an entity from an already loaded spec. source
// names the spec in errors.
func BuildEntityFromSpec(w *ecs.World, spec entityPrefabSpec, source string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", source)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: source}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", source, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", source, names[0])
	}

	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

// FindByName returns the first live entity whose Name matches exactly.
func FindByName(w *ecs.World, name string) (ecs.Entity, bool) {
	if w == nil || name == "" {
		return 0, false
	}
	var (
		found ecs.Entity
		ok    bool
	)
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		if !ok && n.Value == name {
			found, ok = e, true
		}
	})
	return found, ok
}

// NameOf returns the entity's name or "".
func NameOf(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok && n != nil {
		return n.Value
	}
	return ""
}

type nameSpec = prefabs.NameComponentSpec

func addName(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	if s, ok := raw.(string); ok {
		return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: s})
	}
	spec, err := prefabs.DecodeComponentSpec[nameSpec](raw)
	if err != nil {
		return fmt.Errorf("decode name spec: %w", err)
	}
	return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Value})
}

func addPlanetTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlanetTagComponent.Kind(), &component.PlanetTag{})
}

func addBowlTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.BowlTagComponent.Kind(), &component.BowlTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		Rotation: common.DegToRad(spec.Rotation),
	})
}

type renderSpec = prefabs.RenderComponentSpec

func addRender(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[renderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render spec: %w", err)
	}
	r := &component.Render{Color: colornames.White, Layer: spec.Layer}
	if spec.Color != nil && spec.Color.Color != nil {
		r.Color = spec.Color.Color
	}
	return ecs.Add(w, e, component.RenderComponent.Kind(), r)
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type persistentSpec = prefabs.PersistentComponentSpec

func addPersistent(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[persistentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode persistent spec: %w", err)
	}
	return ecs.Add(w, e, component.PersistentComponent.Kind(), &component.Persistent{
		ID:           spec.ID,
		KeepOnReload: spec.KeepOnReload,
	})
}

const (
	defaultBowlRadius    = 4.0
	defaultBowlSegments  = 16
	defaultBowlSpan      = 150.0
	defaultBowlThickness = 0.15

	defaultMaxTiltAngle = 20.0
	defaultTiltSpeed    = 30.0
	defaultFallDistance = 6.0

	defaultPlanetRadius     = 0.5
	defaultBowlFallbackSize = 2.0
	defaultFriction         = 0.7
	defaultElasticity       = 0.2
)

type bowlMeshSpec = prefabs.BowlMeshComponentSpec

func addBowlMesh(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[bowlMeshSpec](raw)
	if err != nil {
		return fmt.Errorf("decode bowl mesh spec: %w", err)
	}
	if spec.Radius <= 0 {
		spec.Radius = defaultBowlRadius
	}
	if spec.Segments <= 0 {
		spec.Segments = defaultBowlSegments
	}
	if spec.Span <= 0 || spec.Span > 360 {
		spec.Span = defaultBowlSpan
	}
	if spec.Thickness <= 0 {
		spec.Thickness = defaultBowlThickness
	}
	return ecs.Add(w, e, component.BowlMeshComponent.Kind(), &component.BowlMesh{
		Radius:    spec.Radius,
		Segments:  spec.Segments,
		Span:      common.DegToRad(spec.Span),
		Thickness: spec.Thickness,
	})
}

type bowlTiltSpec = prefabs.BowlTiltComponentSpec

func addBowlTilt(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[bowlTiltSpec](raw)
	if err != nil {
		return fmt.Errorf("decode bowl tilt spec: %w", err)
	}
	return ecs.Add(w, e, component.BowlTiltComponent.Kind(), newBowlTilt(spec.MaxTiltAngle, spec.TiltSpeed))
}

func newBowlTilt(maxAngle, speed float64) *component.BowlTilt {
	if maxAngle <= 0 {
		maxAngle = defaultMaxTiltAngle
	}
	if speed <= 0 {
		speed = defaultTiltSpeed
	}
	return &component.BowlTilt{MaxTiltAngle: maxAngle, TiltSpeed: speed}
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}

	mode, err := parseBodyMode(spec.Mode)
	if err != nil {
		return err
	}
	collider, err := parseCollider(spec.Collider)
	if err != nil {
		return err
	}

	body := &component.PhysicsBody{
		Mode:        mode,
		Mass:        spec.Mass,
		Drag:        math.Max(0, spec.Drag),
		AngularDrag: math.Max(0, spec.AngularDrag),
		UseGravity:  mode == component.BodyDynamic,
		Friction:    defaultFriction,
		Elasticity:  defaultElasticity,
		Collider:    collider,
		Radius:      spec.Radius,
	}
	if spec.UseGravity != nil {
		body.UseGravity = *spec.UseGravity
	}
	if spec.Friction != nil {
		body.Friction = *spec.Friction
	}
	if spec.Elasticity != nil {
		body.Elasticity = *spec.Elasticity
	}
	if body.Mode == component.BodyDynamic && body.Mass <= 0 {
		body.Mass = 1
	}
	if body.Collider == component.ColliderNone {
		defaultCollider(w, e, body, defaultPlanetRadius)
	}
	if body.Collider == component.ColliderCircle && body.Radius <= 0 {
		body.Radius = defaultPlanetRadius
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body)
}

// defaultCollider picks an arc when the entity has a bowl mesh and a circle of
// the given radius otherwise.
func defaultCollider(w *ecs.World, e ecs.Entity, body *component.PhysicsBody, radius float64) {
	if ecs.Has(w, e, component.BowlMeshComponent.Kind()) {
		body.Collider = component.ColliderArc
		return
	}
	body.Collider = component.ColliderCircle
	body.Radius = radius
}

func parseBodyMode(s string) (component.BodyMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dynamic":
		return component.BodyDynamic, nil
	case "kinematic":
		return component.BodyKinematic, nil
	case "static":
		return component.BodyStatic, nil
	default:
		return 0, fmt.Errorf("unknown body mode %q", s)
	}
}

func parseCollider(s string) (component.ColliderKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return component.ColliderNone, nil
	case "circle":
		return component.ColliderCircle, nil
	case "arc":
		return component.ColliderArc, nil
	default:
		return 0, fmt.Errorf("unknown collider %q", s)
	}
}

type bowlTetherSpec = prefabs.BowlTetherComponentSpec

func addBowlTether(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[bowlTetherSpec](raw)
	if err != nil {
		return fmt.Errorf("decode bowl tether spec: %w", err)
	}
	if spec.FallDistance <= 0 {
		spec.FallDistance = defaultFallDistance
	}
	return ecs.Add(w, e, component.BowlTetherComponent.Kind(), &component.BowlTether{
		BowlName:     spec.Bowl,
		FallDistance: spec.FallDistance,
	})
}

type collisionSoundSpec = prefabs.CollisionSoundComponentSpec

func addCollisionSound(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[collisionSoundSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collision sound spec: %w", err)
	}
	cs := &component.CollisionSound{
		ClipRef:           strings.TrimSpace(spec.Clip),
		Volume:            floatOr(spec.Volume, 1),
		MinCollisionSpeed: floatOr(spec.MinCollisionSpeed, 0.5),
		Cooldown:          floatOr(spec.Cooldown, 0.15),
	}
	cs.Volume = common.Clamp01(cs.Volume)
	cs.Gate = sound.NewCollisionGate(cs.Cooldown, cs.MinCollisionSpeed)
	return ecs.Add(w, e, component.CollisionSoundComponent.Kind(), cs)
}

type musicPlayerSpec = prefabs.MusicPlayerComponentSpec

const (
	defaultMusicVolume       = 0.6
	defaultCrossfadeDuration = 2.0
)

func addMusicPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[musicPlayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode music player spec: %w", err)
	}
	return ecs.Add(w, e, component.MusicPlayerComponent.Kind(), &component.MusicPlayer{
		AmbientClip:       strings.TrimSpace(spec.AmbientClip),
		Volume:            common.Clamp01(floatOr(spec.Volume, defaultMusicVolume)),
		Tracks:            spec.MusicTracks,
		TrackVolumes:      spec.TrackVolumes,
		CrossfadeDuration: floatOr(spec.CrossfadeDuration, defaultCrossfadeDuration),
		InstanceID:        uuid.New(),
	})
}

type echoTiltSpec = prefabs.EchoTiltComponentSpec

func addEchoTilt(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[echoTiltSpec](raw)
	if err != nil {
		return fmt.Errorf("decode echo tilt spec: %w", err)
	}
	return ecs.Add(w, e, component.EchoTiltComponent.Kind(), &component.EchoTilt{
		BowlName:           spec.Bowl,
		EchoRateAtMaxTilt:  common.Clamp01(floatOr(spec.EchoRateAtMaxTilt, 0.8)),
		FeedbackAtMaxTilt:  common.Clamp01(floatOr(spec.FeedbackAtMaxTilt, 0.7)),
		ReverbAtMaxTilt:    common.Clamp01(floatOr(spec.ReverbAtMaxTilt, 0.5)),
		RateParam:          stringOr(spec.RateParam, "Echo_Rate"),
		FeedbackParam:      stringOr(spec.FeedbackParam, "FeedBack"),
		FeedbackParamAlias: stringOr(spec.FeedbackParamAlias, "FeedBack_1"),
		ReverbParam:        stringOr(spec.ReverbParam, "Reverb_Gain"),
	})
}

type planetBowlSetupSpec = prefabs.PlanetBowlSetupComponentSpec

func addPlanetBowlSetup(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[planetBowlSetupSpec](raw)
	if err != nil {
		return fmt.Errorf("decode planet bowl setup spec: %w", err)
	}
	def := DefaultSetupOptions()
	return ecs.Add(w, e, component.PlanetBowlSetupComponent.Kind(), &component.PlanetBowlSetup{
		PlanetName:        stringOr(spec.Planet, def.PlanetName),
		BowlName:          stringOr(spec.Bowl, def.BowlName),
		AutoSetupOnStart:  boolOr(spec.AutoSetupOnStart, true),
		PlanetMass:        floatOr(spec.PlanetMass, def.PlanetMass),
		PlanetDrag:        floatOr(spec.PlanetDrag, def.PlanetDrag),
		PlanetAngularDrag: floatOr(spec.PlanetAngularDrag, def.PlanetAngularDrag),
		MakeBowlStatic:    boolOr(spec.MakeBowlStatic, def.MakeBowlStatic),
	})
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
