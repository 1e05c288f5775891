package system

import (
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/ecs/entity"
	"github.com/milk9111/planetbowl/sound"
	"github.com/rs/zerolog"
)

// CollisionSoundSystem plays a planet's collision clip when physics reports a
// contact with another sounding planet. Each side of a contact checks its own
// gate, so both planets may sound for the same hit.
type CollisionSoundSystem struct {
	player sound.OneShotPlayer
	clips  *sound.ClipLoader
	failed map[string]bool
	log    zerolog.Logger
}

func NewCollisionSoundSystem(player sound.OneShotPlayer, clips *sound.ClipLoader, log zerolog.Logger) *CollisionSoundSystem {
	return &CollisionSoundSystem{
		player: player,
		clips:  clips,
		failed: make(map[string]bool),
		log:    log,
	}
}

func (s *CollisionSoundSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	now := w.Time().Elapsed
	w.Events().Each(ecs.EventPlanetCollision, func(evt ecs.Event) {
		hit, ok := evt.Data.(ecs.CollisionEvent)
		if !ok {
			return
		}
		speed := sound.Speed(hit.RelVX, hit.RelVY)
		s.trigger(w, hit.A, hit.B, now, speed)
		s.trigger(w, hit.B, hit.A, now, speed)
	})
}

func (s *CollisionSoundSystem) trigger(w *ecs.World, self, other ecs.Entity, now, speed float64) {
	cs, ok := ecs.Get(w, self, component.CollisionSoundComponent.Kind())
	if !ok {
		return
	}
	compatible := ecs.Has(w, other, component.CollisionSoundComponent.Kind())
	if !cs.Gate.Allow(now, compatible, speed) {
		return
	}

	clip := s.resolveClip(w, self, cs)
	if clip == nil || s.player == nil {
		return
	}

	s.player.PlayOneShot(clip, cs.Volume)
	cs.Gate.Record(now)
	s.log.Debug().
		Str("planet", entity.NameOf(w, self)).
		Str("other", entity.NameOf(w, other)).
		Float64("speed", speed).
		Msg("collision sound")
}

func (s *CollisionSoundSystem) resolveClip(w *ecs.World, e ecs.Entity, cs *component.CollisionSound) *sound.Clip {
	if cs.Clip != nil || cs.ClipRef == "" || s.clips == nil || s.failed[cs.ClipRef] {
		return cs.Clip
	}
	clip, err := s.clips.Load(cs.ClipRef)
	if err != nil {
		s.failed[cs.ClipRef] = true
		s.log.Error().Err(err).Str("planet", entity.NameOf(w, e)).Str("clip", cs.ClipRef).Msg("load collision clip")
		return nil
	}
	cs.Clip = clip
	return clip
}
