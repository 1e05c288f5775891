package system

import (
	"errors"

	"github.com/milk9111/planetbowl/common"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/sound"
	"github.com/rs/zerolog"
)

// MusicOptions are user overrides applied on top of the music_player prefab.
type MusicOptions struct {
	// VolumeScale multiplies the configured master volume. Zero means 1.
	VolumeScale float64
	Mute        bool
	// CrossfadeDuration replaces the configured duration when positive.
	CrossfadeDuration float64
}

// MusicSystem connects music_player entities to the long-lived music
// service. The first player claims the service and starts playback; later
// players are destroyed.
type MusicSystem struct {
	svc   *sound.MusicService
	clips *sound.ClipLoader
	opts  MusicOptions
	log   zerolog.Logger
}

func NewMusicSystem(svc *sound.MusicService, clips *sound.ClipLoader, opts MusicOptions, log zerolog.Logger) *MusicSystem {
	return &MusicSystem{svc: svc, clips: clips, opts: opts, log: log}
}

func (m *MusicSystem) Update(w *ecs.World) {
	if m == nil || w == nil || m.svc == nil {
		return
	}

	latest, requestEntities := m.consumeLatestRequest(w)
	for _, ent := range requestEntities {
		ecs.DestroyEntity(w, ent)
	}

	m.claimPlayers(w)

	if !m.svc.Started() {
		ecs.ForEach(w, component.MusicPlayerComponent.Kind(), func(_ ecs.Entity, player *component.MusicPlayer) {
			if m.svc.Started() || !player.Claimed {
				return
			}
			m.svc.Start(m.musicConfig(player))
		})
	}

	if latest != nil && m.svc.Started() {
		m.svc.Advance(latest.FadeInOnly)
	}

	m.svc.Update(w.Time().Unscaled)
}

func (m *MusicSystem) consumeLatestRequest(w *ecs.World) (*component.MusicRequest, []ecs.Entity) {
	var latest *component.MusicRequest
	requestEntities := make([]ecs.Entity, 0)

	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(ent ecs.Entity, req *component.MusicRequest) {
		requestEntities = append(requestEntities, ent)
		if req == nil {
			return
		}
		copy := *req
		latest = &copy
	})

	return latest, requestEntities
}

func (m *MusicSystem) claimPlayers(w *ecs.World) {
	ecs.ForEach(w, component.MusicPlayerComponent.Kind(), func(ent ecs.Entity, player *component.MusicPlayer) {
		if player.Claimed {
			return
		}
		err := m.svc.Claim(player.InstanceID)
		switch {
		case errors.Is(err, sound.ErrAlreadyClaimed):
			m.log.Info().Str("instance", player.InstanceID.String()).Msg("duplicate music player discarded")
			ecs.DestroyEntity(w, ent)
		case err != nil:
			m.log.Error().Err(err).Msg("claim music service")
		default:
			player.Claimed = true
		}
	})
}

func (m *MusicSystem) musicConfig(player *component.MusicPlayer) sound.MusicConfig {
	volume := player.Volume
	if m.opts.VolumeScale > 0 {
		volume *= m.opts.VolumeScale
	}
	if m.opts.Mute {
		volume = 0
	}
	crossfade := player.CrossfadeDuration
	if m.opts.CrossfadeDuration > 0 {
		crossfade = m.opts.CrossfadeDuration
	}

	cfg := sound.MusicConfig{
		Volume:            common.Clamp01(volume),
		TrackVolumes:      player.TrackVolumes,
		CrossfadeDuration: crossfade,
	}
	if m.clips == nil {
		return cfg
	}
	cfg.Tracks = m.clips.LoadAll(player.Tracks)
	if player.AmbientClip != "" {
		clip, err := m.clips.Load(player.AmbientClip)
		if err != nil {
			m.log.Error().Err(err).Str("clip", player.AmbientClip).Msg("load ambient clip")
		}
		cfg.AmbientClip = clip
	}
	return cfg
}
