package sound

import (
	"errors"

	"github.com/google/uuid"
	"github.com/milk9111/planetbowl/common"
	"github.com/rs/zerolog"
)

// ErrAlreadyClaimed is returned when a second owner tries to claim the music
// service. The caller discards its duplicate.
var ErrAlreadyClaimed = errors.New("sound: music service already claimed")

// MusicConfig is the music player configuration with clips already loaded.
type MusicConfig struct {
	AmbientClip       *Clip
	Volume            float64
	Tracks            []*Clip
	TrackVolumes      []float64
	CrossfadeDuration float64
}

// MusicService is the single long-lived music owner. It is built once per
// application and outlives every scene.
type MusicService struct {
	log      zerolog.Logger
	fader    *Crossfader
	playlist Playlist
	fallback *Clip
	master   float64

	owner   uuid.UUID
	claimed bool
	started bool
}

func NewMusicService(a, b Channel, log zerolog.Logger) *MusicService {
	return &MusicService{
		log:      log,
		fader:    NewCrossfader(a, b, 0),
		playlist: NewPlaylist(nil, nil),
	}
}

// Claim makes owner the single live instance. Any later claim fails with
// ErrAlreadyClaimed and leaves the service untouched.
func (m *MusicService) Claim(owner uuid.UUID) error {
	if m.claimed {
		if owner == m.owner {
			return nil
		}
		return ErrAlreadyClaimed
	}
	m.owner = owner
	m.claimed = true
	m.log.Debug().Str("owner", owner.String()).Msg("music service claimed")
	return nil
}

func (m *MusicService) Owner() (uuid.UUID, bool) {
	return m.owner, m.claimed
}

// Start applies cfg and begins playback: the first playlist track, else the
// ambient clip, else silence. Start runs once; later calls are ignored.
func (m *MusicService) Start(cfg MusicConfig) {
	if m.started {
		return
	}
	m.started = true
	m.master = common.Clamp01(cfg.Volume)
	m.fallback = cfg.AmbientClip
	m.playlist = NewPlaylist(cfg.Tracks, cfg.TrackVolumes)
	m.fader.SetDuration(cfg.CrossfadeDuration)

	switch {
	case !m.playlist.Empty():
		m.Advance(true)
	case m.fallback != nil:
		m.log.Info().Str("clip", m.fallback.Name).Msg("playing ambient clip")
		m.fader.TransitionTo(m.fallback, m.master, true)
	default:
		m.log.Info().Msg("no music configured")
	}
}

func (m *MusicService) Started() bool {
	return m.started
}

// Advance moves to the next playlist track and crossfades into it.
func (m *MusicService) Advance(fadeInOnly bool) {
	if _, ok := m.playlist.Next(); !ok {
		return
	}
	m.PlayCurrent(fadeInOnly)
}

// PlayCurrent re-requests the track under the cursor without moving it.
func (m *MusicService) PlayCurrent(fadeInOnly bool) {
	track, ok := m.playlist.Current()
	if !ok || track.Clip == nil {
		return
	}
	gain := track.Gain(m.master)
	m.log.Info().
		Int("track", m.playlist.Cursor()).
		Str("clip", track.Clip.Name).
		Float64("gain", gain).
		Bool("fade_in_only", fadeInOnly).
		Msg("music transition")
	m.fader.TransitionTo(track.Clip, gain, fadeInOnly)
}

// Update advances any running fade by unscaled seconds.
func (m *MusicService) Update(dt float64) FadeState {
	return m.fader.Advance(dt)
}

// OnSceneLoaded resumes music that a scene change stopped. Nothing happens
// while a transition is running, since its incoming channel is already playing.
func (m *MusicService) OnSceneLoaded(sequence uint64) {
	if !m.started || m.fader.Fading() {
		return
	}
	active := m.fader.Active()
	if active.IsPlaying() {
		return
	}

	switch {
	case !m.playlist.Empty():
		m.log.Info().Uint64("scene", sequence).Msg("resuming playlist after scene load")
		m.PlayCurrent(false)
	case m.fallback != nil:
		m.log.Info().Uint64("scene", sequence).Msg("restarting ambient clip after scene load")
		active.SetClip(m.fallback)
		active.SetVolume(m.master)
		active.Play()
	}
}

func (m *MusicService) Cursor() int {
	return m.playlist.Cursor()
}

func (m *MusicService) TrackCount() int {
	return m.playlist.Len()
}

// NowPlaying names the clip on the active channel, or on the incoming one
// while a transition runs.
func (m *MusicService) NowPlaying() string {
	if in := m.fader.Incoming(); in != nil {
		return clipName(in.Clip())
	}
	return clipName(m.fader.Active().Clip())
}

func (m *MusicService) Crossfader() *Crossfader {
	return m.fader
}
