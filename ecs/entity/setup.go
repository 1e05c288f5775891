package entity

import (
	"errors"
	"fmt"

	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/rs/zerolog"
)

var (
	ErrPlanetNotFound = errors.New("setup: planet not found")
	ErrBowlNotFound   = errors.New("setup: bowl not found")
)

const (
	resetHeight    = 2.0
	testDropHeight = 5.0
)

// SetupOptions configures SetupPlanetAndBowl.
type SetupOptions struct {
	PlanetName        string
	BowlName          string
	PlanetMass        float64
	PlanetDrag        float64
	PlanetAngularDrag float64
	MakeBowlStatic    bool
}

func DefaultSetupOptions() SetupOptions {
	return SetupOptions{
		PlanetName:        "Planet_69",
		BowlName:          "bowl_03",
		PlanetMass:        1,
		PlanetDrag:        0.5,
		PlanetAngularDrag: 0.5,
		MakeBowlStatic:    true,
	}
}

// SetupOptionsFrom reads options from a setup component, falling back to the
// defaults for empty names.
func SetupOptionsFrom(c *component.PlanetBowlSetup) SetupOptions {
	opts := DefaultSetupOptions()
	if c == nil {
		return opts
	}
	opts.PlanetName = stringOr(c.PlanetName, opts.PlanetName)
	opts.BowlName = stringOr(c.BowlName, opts.BowlName)
	opts.PlanetMass = c.PlanetMass
	opts.PlanetDrag = c.PlanetDrag
	opts.PlanetAngularDrag = c.PlanetAngularDrag
	opts.MakeBowlStatic = c.MakeBowlStatic
	return opts
}

type SetupResult struct {
	Planet ecs.Entity
	Bowl   ecs.Entity
}

// SetupPlanetAndBowl makes the named planet a dynamic body that rolls inside
// the named bowl. Both objects are looked up before anything changes, so a
// missing one leaves the world untouched.
func SetupPlanetAndBowl(w *ecs.World, opts SetupOptions, log zerolog.Logger) (SetupResult, error) {
	planet, bowl, err := findPair(w, opts)
	if err != nil {
		log.Error().Err(err).Str("planet", opts.PlanetName).Str("bowl", opts.BowlName).Msg("planet and bowl setup aborted")
		return SetupResult{}, err
	}

	log.Info().Str("planet", opts.PlanetName).Str("bowl", opts.BowlName).Msg("setting up planet and bowl")
	if err := setupPlanet(w, planet, opts, log); err != nil {
		return SetupResult{}, err
	}
	if err := setupBowl(w, bowl, opts, log); err != nil {
		return SetupResult{}, err
	}
	if err := attachTether(w, planet, opts.BowlName); err != nil {
		return SetupResult{}, err
	}
	log.Info().Msg("planet and bowl setup completed")
	return SetupResult{Planet: planet, Bowl: bowl}, nil
}

func findPair(w *ecs.World, opts SetupOptions) (ecs.Entity, ecs.Entity, error) {
	planet, ok := FindByName(w, opts.PlanetName)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrPlanetNotFound, opts.PlanetName)
	}
	bowl, ok := FindByName(w, opts.BowlName)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrBowlNotFound, opts.BowlName)
	}
	return planet, bowl, nil
}

func setupPlanet(w *ecs.World, planet ecs.Entity, opts SetupOptions, log zerolog.Logger) error {
	body, ok := ecs.Get(w, planet, component.PhysicsBodyComponent.Kind())
	if !ok {
		body = &component.PhysicsBody{Friction: defaultFriction, Elasticity: defaultElasticity}
		log.Debug().Msg("added physics body to planet")
	}
	body.Mode = component.BodyDynamic
	body.Mass = opts.PlanetMass
	if body.Mass <= 0 {
		body.Mass = 1
	}
	body.Drag = max(0, opts.PlanetDrag)
	body.AngularDrag = max(0, opts.PlanetAngularDrag)
	body.UseGravity = true
	if body.Collider == component.ColliderNone {
		body.Collider = component.ColliderCircle
		body.Radius = defaultPlanetRadius
		log.Debug().Float64("radius", body.Radius).Msg("added circle collider to planet")
	}
	body.Body = nil
	body.Shapes = nil
	if err := ecs.Add(w, planet, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return fmt.Errorf("setup planet: %w", err)
	}
	if !ecs.Has(w, planet, component.PlanetTagComponent.Kind()) {
		if err := ecs.Add(w, planet, component.PlanetTagComponent.Kind(), &component.PlanetTag{}); err != nil {
			return fmt.Errorf("setup planet: %w", err)
		}
	}
	return nil
}

func setupBowl(w *ecs.World, bowl ecs.Entity, opts SetupOptions, log zerolog.Logger) error {
	body, ok := ecs.Get(w, bowl, component.PhysicsBodyComponent.Kind())
	if !ok {
		body = &component.PhysicsBody{Friction: defaultFriction, Elasticity: defaultElasticity}
		log.Debug().Msg("added physics body to bowl")
	}
	if opts.MakeBowlStatic {
		body.Mode = component.BodyKinematic
		body.UseGravity = false
	} else {
		body.Mode = component.BodyDynamic
		body.UseGravity = true
		if body.Mass <= 0 {
			body.Mass = 1
		}
	}
	if body.Collider == component.ColliderNone {
		if ecs.Has(w, bowl, component.BowlMeshComponent.Kind()) {
			body.Collider = component.ColliderArc
			log.Debug().Msg("added arc collider to bowl")
		} else {
			body.Collider = component.ColliderCircle
			body.Radius = defaultBowlFallbackSize
			log.Debug().Float64("radius", body.Radius).Msg("added fallback circle collider to bowl")
		}
	}
	body.Body = nil
	body.Shapes = nil
	if err := ecs.Add(w, bowl, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return fmt.Errorf("setup bowl: %w", err)
	}

	if !ecs.Has(w, bowl, component.BowlTiltComponent.Kind()) {
		if err := ecs.Add(w, bowl, component.BowlTiltComponent.Kind(), newBowlTilt(0, 0)); err != nil {
			return fmt.Errorf("setup bowl: %w", err)
		}
		log.Debug().Msg("added tilt to bowl")
	}
	if !ecs.Has(w, bowl, component.BowlTagComponent.Kind()) {
		if err := ecs.Add(w, bowl, component.BowlTagComponent.Kind(), &component.BowlTag{}); err != nil {
			return fmt.Errorf("setup bowl: %w", err)
		}
	}
	return nil
}

// attachTether replaces any existing tether on the planet.
func attachTether(w *ecs.World, planet ecs.Entity, bowlName string) error {
	ecs.Remove(w, planet, component.BowlTetherComponent.Kind())
	err := ecs.Add(w, planet, component.BowlTetherComponent.Kind(), &component.BowlTether{
		BowlName:     bowlName,
		FallDistance: defaultFallDistance,
	})
	if err != nil {
		return fmt.Errorf("attach tether: %w", err)
	}
	return nil
}

// ResetPlanetPosition puts the planet just above the bowl at rest.
func ResetPlanetPosition(w *ecs.World, opts SetupOptions, log zerolog.Logger) error {
	return dropPlanet(w, opts, resetHeight, log)
}

// TestCollision drops the planet from high above the bowl so it falls in.
func TestCollision(w *ecs.World, opts SetupOptions, log zerolog.Logger) error {
	return dropPlanet(w, opts, testDropHeight, log)
}

func dropPlanet(w *ecs.World, opts SetupOptions, height float64, log zerolog.Logger) error {
	planet, bowl, err := findPair(w, opts)
	if err != nil {
		return err
	}
	bowlTf, ok := ecs.Get(w, bowl, component.TransformComponent.Kind())
	if !ok {
		return fmt.Errorf("%w: %q has no transform", ErrBowlNotFound, opts.BowlName)
	}
	return PlaceAbove(w, planet, *bowlTf, height, log)
}

// PlaceAbove moves e height units above anchor and zeroes its velocity.
func PlaceAbove(w *ecs.World, e ecs.Entity, anchor component.Transform, height float64, log zerolog.Logger) error {
	x, y := anchor.X, anchor.Y-height
	rot := 0.0
	if tf, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		rot = tf.Rotation
	}
	if err := SetEntityTransform(w, e, x, y, rot); err != nil {
		return err
	}
	if ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
		if err := ecs.Add(w, e, component.PhysicsResetRequestComponent.Kind(), &component.PhysicsResetRequest{X: x, Y: y}); err != nil {
			return err
		}
	}
	log.Info().Str("entity", NameOf(w, e)).Float64("x", x).Float64("y", y).Msg("planet repositioned")
	return nil
}
