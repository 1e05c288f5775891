package sound

import (
	"bytes"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog"
)

// Device plays clips through ebiten's audio context. Only one Device may
// exist per process because ebiten allows a single audio context.
type Device struct {
	ctx  *audio.Context
	echo *SpaceEcho
	log  zerolog.Logger

	effectsVolume float64
}

// NewDevice opens the audio context. Music channels are routed through echo
// when it is non-nil; one-shots are always dry.
func NewDevice(echo *SpaceEcho, log zerolog.Logger) *Device {
	return &Device{
		ctx:           audio.NewContext(SampleRate),
		echo:          echo,
		log:           log,
		effectsVolume: 1,
	}
}

// SetEffectsVolume scales every one-shot.
func (d *Device) SetEffectsVolume(v float64) {
	d.effectsVolume = max(0, min(1, v))
}

func (d *Device) NewChannel(name string) *PlayerChannel {
	return &PlayerChannel{device: d, name: name}
}

func (d *Device) PlayOneShot(clip *Clip, volume float64) {
	if clip == nil || len(clip.PCM) == 0 {
		return
	}
	p := d.ctx.NewPlayerFromBytes(clip.PCM)
	p.SetVolume(max(0, min(1, volume*d.effectsVolume)))
	p.Play()
}

// PlayerChannel is a looping music channel backed by an ebiten player.
type PlayerChannel struct {
	device *Device
	name   string
	player *audio.Player
	clip   *Clip
	volume float64
}

func (c *PlayerChannel) SetClip(clip *Clip) {
	c.release()
	c.clip = clip
}

func (c *PlayerChannel) Clip() *Clip {
	return c.clip
}

func (c *PlayerChannel) Play() {
	if c.clip == nil || len(c.clip.PCM) == 0 {
		return
	}
	if c.player == nil {
		loop := audio.NewInfiniteLoop(bytes.NewReader(c.clip.PCM), int64(len(c.clip.PCM)))
		var src io.Reader = loop
		if c.device.echo != nil {
			src = c.device.echo.Wrap(loop)
		}
		p, err := c.device.ctx.NewPlayer(src)
		if err != nil {
			c.device.log.Error().Err(err).Str("channel", c.name).Str("clip", c.clip.Name).Msg("create player")
			return
		}
		c.player = p
	}
	c.player.SetVolume(c.volume)
	c.player.Play()
}

// Stop halts playback; the next Play starts the clip from the beginning.
func (c *PlayerChannel) Stop() {
	c.release()
}

func (c *PlayerChannel) IsPlaying() bool {
	return c.player != nil && c.player.IsPlaying()
}

func (c *PlayerChannel) SetVolume(v float64) {
	c.volume = max(0, min(1, v))
	if c.player != nil {
		c.player.SetVolume(c.volume)
	}
}

func (c *PlayerChannel) Volume() float64 {
	return c.volume
}

func (c *PlayerChannel) release() {
	if c.player == nil {
		return
	}
	c.player.Pause()
	if err := c.player.Close(); err != nil {
		c.device.log.Debug().Err(err).Str("channel", c.name).Msg("close player")
	}
	c.player = nil
}
