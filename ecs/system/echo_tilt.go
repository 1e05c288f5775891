package system

import (
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/ecs/entity"
	"github.com/milk9111/planetbowl/sound"
	"github.com/rs/zerolog"
)

// EchoTiltSystem drives the music echo from bowl tilt. Parameter names are
// resolved once per echo_tilt entity, the first time it is seen.
type EchoTiltSystem struct {
	host    sound.ParamHost
	mappers map[ecs.Entity]*sound.TiltMapper
	missing map[ecs.Entity]bool
	log     zerolog.Logger
}

func NewEchoTiltSystem(host sound.ParamHost, log zerolog.Logger) *EchoTiltSystem {
	return &EchoTiltSystem{
		host:    host,
		mappers: make(map[ecs.Entity]*sound.TiltMapper),
		missing: make(map[ecs.Entity]bool),
		log:     log,
	}
}

func (s *EchoTiltSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for e := range s.mappers {
		if !ecs.Has(w, e, component.EchoTiltComponent.Kind()) {
			delete(s.mappers, e)
			delete(s.missing, e)
		}
	}

	ecs.ForEach(w, component.EchoTiltComponent.Kind(), func(e ecs.Entity, echo *component.EchoTilt) {
		tilt, ok := s.findTilt(w, echo.BowlName)
		if !ok {
			if !s.missing[e] {
				s.missing[e] = true
				s.log.Error().Str("bowl", echo.BowlName).Msg("echo tilt has no bowl to follow")
			}
			return
		}
		delete(s.missing, e)

		mapper := s.mappers[e]
		if mapper == nil {
			mapper = sound.NewTiltMapper(s.host, sound.TiltMapperConfig{
				RateCeiling:     echo.EchoRateAtMaxTilt,
				FeedbackCeiling: echo.FeedbackAtMaxTilt,
				ReverbCeiling:   echo.ReverbAtMaxTilt,
				RateParam:       echo.RateParam,
				FeedbackParam:   echo.FeedbackParam,
				FeedbackAlias:   echo.FeedbackParamAlias,
				ReverbParam:     echo.ReverbParam,
			}, s.log)
			s.mappers[e] = mapper
		}
		echo.Amount = mapper.Apply(tilt.Current, tilt.MaxTiltAngle)
	})
}

// findTilt returns the named bowl's tilt, or the first tilt in the world when
// no name is set.
func (s *EchoTiltSystem) findTilt(w *ecs.World, bowlName string) (*component.BowlTilt, bool) {
	if bowlName != "" {
		bowl, ok := entity.FindByName(w, bowlName)
		if !ok {
			return nil, false
		}
		return ecs.Get(w, bowl, component.BowlTiltComponent.Kind())
	}
	bowl, ok := ecs.First(w, component.BowlTiltComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, bowl, component.BowlTiltComponent.Kind())
}
