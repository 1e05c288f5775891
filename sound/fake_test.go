package sound

type fakeChannel struct {
	clip    *Clip
	volume  float64
	playing bool
	plays   int
	stops   int
}

func (f *fakeChannel) SetClip(clip *Clip) {
	f.playing = false
	f.clip = clip
}

func (f *fakeChannel) Clip() *Clip {
	return f.clip
}

func (f *fakeChannel) Play() {
	if f.clip == nil {
		return
	}
	f.playing = true
	f.plays++
}

func (f *fakeChannel) Stop() {
	f.playing = false
	f.stops++
}

func (f *fakeChannel) IsPlaying() bool {
	return f.playing
}

func (f *fakeChannel) SetVolume(v float64) {
	f.volume = v
}

func (f *fakeChannel) Volume() float64 {
	return f.volume
}

type fakeHost struct {
	names  []string
	values map[int]float64
	writes int
}

func newFakeHost(names ...string) *fakeHost {
	return &fakeHost{names: names, values: make(map[int]float64)}
}

func (h *fakeHost) Params() []ParamInfo {
	out := make([]ParamInfo, len(h.names))
	for i, n := range h.names {
		out[i] = ParamInfo{Index: i, Name: n}
	}
	return out
}

func (h *fakeHost) SetParamNormalized(index int, value float64) {
	h.values[index] = value
	h.writes++
}

func clip(name string) *Clip {
	return &Clip{Name: name, PCM: make([]byte, 16)}
}
