package sound

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const synthRate = beep.SampleRate(SampleRate)

type synthPreset func() (beep.Streamer, time.Duration, error)

// synthPresets are placeholder clips so the toy runs without audio assets.
// Clip references of the form "synth:<name>" resolve here.
var synthPresets = map[string]synthPreset{
	"drone": func() (beep.Streamer, time.Duration, error) {
		return chord(8*time.Second, -0.75, 55, 82.5, 110)
	},
	"pad": func() (beep.Streamer, time.Duration, error) {
		return chord(8*time.Second, -0.75, 220, 277.18, 329.63)
	},
	"glass": func() (beep.Streamer, time.Duration, error) {
		return arpeggio(500*time.Millisecond, 523.25, 659.25, 783.99, 987.77, 783.99, 659.25, 523.25, 392.0)
	},
	"clink": func() (beep.Streamer, time.Duration, error) {
		d := 250 * time.Millisecond
		tone, err := generators.SineTone(synthRate, 1318.5)
		if err != nil {
			return nil, 0, err
		}
		return decay(tone, d, 18), d, nil
	},
	"thud": func() (beep.Streamer, time.Duration, error) {
		d := 180 * time.Millisecond
		tone, err := generators.SineTone(synthRate, 96)
		if err != nil {
			return nil, 0, err
		}
		return decay(tone, d, 24), d, nil
	},
}

// SynthPresets lists the known "synth:" clip names.
func SynthPresets() []string {
	names := make([]string, 0, len(synthPresets))
	for name := range synthPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Synthesize renders a preset into a clip.
func Synthesize(name string) (*Clip, error) {
	preset, ok := synthPresets[name]
	if !ok {
		return nil, fmt.Errorf("synth: unknown preset %q", name)
	}
	streamer, length, err := preset()
	if err != nil {
		return nil, fmt.Errorf("synth: %s: %w", name, err)
	}
	return &Clip{Name: "synth:" + name, PCM: render(streamer, synthRate.N(length))}, nil
}

func chord(length time.Duration, gain float64, freqs ...float64) (beep.Streamer, time.Duration, error) {
	voices := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		tone, err := generators.SineTone(synthRate, f)
		if err != nil {
			return nil, 0, err
		}
		voices = append(voices, tone)
	}
	mixed := &effects.Gain{Streamer: beep.Mix(voices...), Gain: gain}
	return beep.Take(synthRate.N(length), mixed), length, nil
}

func arpeggio(step time.Duration, freqs ...float64) (beep.Streamer, time.Duration, error) {
	notes := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		tone, err := generators.SineTone(synthRate, f)
		if err != nil {
			return nil, 0, err
		}
		notes = append(notes, &effects.Gain{Streamer: decay(tone, step, 4), Gain: -0.7})
	}
	return beep.Seq(notes...), step * time.Duration(len(freqs)), nil
}

// decay shapes s with an exponential envelope over length.
func decay(s beep.Streamer, length time.Duration, k float64) beep.Streamer {
	total := synthRate.N(length)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		if remaining := total - pos; len(samples) > remaining {
			samples = samples[:remaining]
		}
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			env := math.Exp(-k * float64(pos+i) / float64(total))
			samples[i][0] *= env
			samples[i][1] *= env
		}
		pos += n
		return n, ok
	})
}

// render drains up to frames samples from s as 16-bit little-endian stereo.
func render(s beep.Streamer, frames int) []byte {
	out := make([]byte, 0, frames*bytesPerFrame)
	buf := make([][2]float64, 512)
	for frames > 0 {
		chunk := buf
		if len(chunk) > frames {
			chunk = chunk[:frames]
		}
		n, ok := s.Stream(chunk)
		for i := 0; i < n; i++ {
			out = binary.LittleEndian.AppendUint16(out, uint16(toPCM16(float32(chunk[i][0]))))
			out = binary.LittleEndian.AppendUint16(out, uint16(toPCM16(float32(chunk[i][1]))))
		}
		frames -= n
		if !ok || n == 0 {
			break
		}
	}
	return out
}
