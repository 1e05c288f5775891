package sound

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/rs/zerolog"
)

const synthPrefix = "synth:"

// ReadFunc returns the raw bytes of an asset path.
type ReadFunc func(path string) ([]byte, error)

// ClipLoader resolves clip references to decoded clips and caches them.
// A reference is either "synth:<preset>" or an asset path ending in .wav,
// .ogg or .mp3; anything else is taken as raw PCM.
type ClipLoader struct {
	read  ReadFunc
	cache map[string]*Clip
	log   zerolog.Logger
}

func NewClipLoader(read ReadFunc, log zerolog.Logger) *ClipLoader {
	return &ClipLoader{read: read, cache: make(map[string]*Clip), log: log}
}

// Load returns nil, nil for an empty reference.
func (l *ClipLoader) Load(ref string) (*Clip, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	if clip, ok := l.cache[ref]; ok {
		return clip, nil
	}

	var (
		clip *Clip
		err  error
	)
	if name, ok := strings.CutPrefix(ref, synthPrefix); ok {
		clip, err = Synthesize(name)
	} else {
		clip, err = l.loadFile(ref)
	}
	if err != nil {
		return nil, err
	}
	l.cache[ref] = clip
	l.log.Debug().Str("clip", ref).Float64("seconds", clip.Duration()).Msg("clip loaded")
	return clip, nil
}

// LoadAll loads refs in order, keeping a nil entry for each reference that is
// empty or fails to load so indices stay aligned. Failures are logged.
func (l *ClipLoader) LoadAll(refs []string) []*Clip {
	out := make([]*Clip, len(refs))
	for i, ref := range refs {
		clip, err := l.Load(ref)
		if err != nil {
			l.log.Error().Err(err).Int("index", i).Str("clip", ref).Msg("load clip")
			continue
		}
		out[i] = clip
	}
	return out
}

func (l *ClipLoader) loadFile(path string) (*Clip, error) {
	if l.read == nil {
		return nil, fmt.Errorf("clip %q: no asset reader", path)
	}
	b, err := l.read(path)
	if err != nil {
		return nil, fmt.Errorf("clip %q: %w", path, err)
	}
	pcm, err := decode(path, b)
	if err != nil {
		return nil, fmt.Errorf("clip %q: %w", path, err)
	}
	return &Clip{Name: path, PCM: pcm}, nil
}

func decode(path string, b []byte) ([]byte, error) {
	src := bytes.NewReader(b)
	var (
		stream io.Reader
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(SampleRate, src)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(SampleRate, src)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(SampleRate, src)
	default:
		// already-decoded PCM in the playback format
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read decoded stream: %w", err)
	}
	return pcm, nil
}
