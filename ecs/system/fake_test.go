package system

import (
	"github.com/milk9111/planetbowl/sound"
	"github.com/rs/zerolog"
)

type fakeChannel struct {
	clip    *sound.Clip
	volume  float64
	playing bool
}

func (f *fakeChannel) SetClip(clip *sound.Clip) {
	f.playing = false
	f.clip = clip
}

func (f *fakeChannel) Clip() *sound.Clip { return f.clip }

func (f *fakeChannel) Play() {
	if f.clip != nil {
		f.playing = true
	}
}

func (f *fakeChannel) Stop()               { f.playing = false }
func (f *fakeChannel) IsPlaying() bool     { return f.playing }
func (f *fakeChannel) SetVolume(v float64) { f.volume = v }
func (f *fakeChannel) Volume() float64     { return f.volume }

type oneShot struct {
	clip   string
	volume float64
}

type fakeOneShots struct {
	played []oneShot
}

func (f *fakeOneShots) PlayOneShot(clip *sound.Clip, volume float64) {
	f.played = append(f.played, oneShot{clip: clip.Name, volume: volume})
}

type fakeHost struct {
	names  []string
	values map[int]float64
}

func newFakeHost(names ...string) *fakeHost {
	return &fakeHost{names: names, values: make(map[int]float64)}
}

func (h *fakeHost) Params() []sound.ParamInfo {
	out := make([]sound.ParamInfo, len(h.names))
	for i, n := range h.names {
		out[i] = sound.ParamInfo{Index: i, Name: n}
	}
	return out
}

func (h *fakeHost) SetParamNormalized(index int, value float64) {
	h.values[index] = value
}

// rawClips loads every reference as a tiny raw PCM clip named after it.
func rawClips() *sound.ClipLoader {
	return sound.NewClipLoader(func(string) ([]byte, error) {
		return make([]byte, 16), nil
	}, zerolog.Nop())
}
