package system

import (
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/ecs/entity"
	"github.com/rs/zerolog"
)

// SetupSystem runs the planet and bowl setup once per scene load and serves
// planet reset requests.
type SetupSystem struct {
	log zerolog.Logger
}

func NewSetupSystem(log zerolog.Logger) *SetupSystem {
	return &SetupSystem{log: log}
}

func (s *SetupSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	if ecs.Count(w, component.SceneLoadedComponent.Kind()) > 0 {
		ecs.ForEach(w, component.PlanetBowlSetupComponent.Kind(), func(_ ecs.Entity, setup *component.PlanetBowlSetup) {
			if !setup.AutoSetupOnStart || setup.Done {
				return
			}
			setup.Done = true
			if _, err := entity.SetupPlanetAndBowl(w, entity.SetupOptionsFrom(setup), s.log); err != nil {
				s.log.Debug().Err(err).Msg("auto setup skipped")
			}
		})
	}

	ecs.ForEach(w, component.PlanetResetRequestComponent.Kind(), func(e ecs.Entity, req *component.PlanetResetRequest) {
		opts := s.options(w)
		var err error
		switch req.Mode {
		case component.ResetTestDrop:
			err = entity.TestCollision(w, opts, s.log)
		default:
			err = entity.ResetPlanetPosition(w, opts, s.log)
		}
		if err != nil {
			s.log.Debug().Err(err).Msg("planet reset skipped")
		}
		ecs.DestroyEntity(w, e)
	})
}

func (s *SetupSystem) options(w *ecs.World) entity.SetupOptions {
	e, ok := ecs.First(w, component.PlanetBowlSetupComponent.Kind())
	if !ok {
		return entity.DefaultSetupOptions()
	}
	setup, _ := ecs.Get(w, e, component.PlanetBowlSetupComponent.Kind())
	return entity.SetupOptionsFrom(setup)
}
