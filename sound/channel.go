// Package sound holds the game's audio behaviour: the two-channel crossfade
// player, the playlist, the long-lived music service, the collision sound
// gate, the tilt driven echo mapping and the ebiten backed playback device.
package sound

// SampleRate is the rate every clip is decoded or synthesised at.
const SampleRate = 44100

// bytesPerFrame is one 16-bit little-endian stereo frame.
const bytesPerFrame = 4

// Clip is decoded 16-bit little-endian stereo PCM at SampleRate.
type Clip struct {
	Name string
	PCM  []byte
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c == nil {
		return 0
	}
	return float64(len(c.PCM)/bytesPerFrame) / SampleRate
}

func clipName(c *Clip) string {
	if c == nil {
		return ""
	}
	return c.Name
}

// Channel is one looping music output. Assigning a clip stops whatever the
// channel was playing; Play starts the assigned clip from the beginning.
type Channel interface {
	SetClip(clip *Clip)
	Clip() *Clip
	Play()
	Stop()
	IsPlaying() bool
	SetVolume(v float64)
	Volume() float64
}

// OneShotPlayer fires a clip once without interrupting earlier shots.
type OneShotPlayer interface {
	PlayOneShot(clip *Clip, volume float64)
}
