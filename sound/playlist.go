package sound

import "github.com/milk9111/planetbowl/common"

// Track is one playlist entry. A nil Clip is kept so indices line up with the
// configured volumes; selecting it produces no transition.
type Track struct {
	Clip   *Clip
	Volume float64
}

// Playlist is an ordered track list with a circular cursor. The cursor is -1
// until the first Next call and always a valid index afterwards.
type Playlist struct {
	tracks []Track
	cursor int
}

// NewPlaylist pairs clips with volumes by index; a missing volume means 1.
func NewPlaylist(clips []*Clip, volumes []float64) Playlist {
	tracks := make([]Track, len(clips))
	for i, clip := range clips {
		vol := 1.0
		if i < len(volumes) {
			vol = volumes[i]
		}
		tracks[i] = Track{Clip: clip, Volume: vol}
	}
	return Playlist{tracks: tracks, cursor: -1}
}

func (p *Playlist) Len() int {
	return len(p.tracks)
}

func (p *Playlist) Empty() bool {
	return len(p.tracks) == 0
}

func (p *Playlist) Cursor() int {
	return p.cursor
}

// Next moves the cursor forward, wrapping at the end.
func (p *Playlist) Next() (Track, bool) {
	if p.Empty() {
		return Track{}, false
	}
	p.cursor = (p.cursor + 1) % len(p.tracks)
	return p.tracks[p.cursor], true
}

// Current returns the track under the cursor.
func (p *Playlist) Current() (Track, bool) {
	if p.cursor < 0 || p.cursor >= len(p.tracks) {
		return Track{}, false
	}
	return p.tracks[p.cursor], true
}

// Gain resolves the playback gain of a track under a master volume.
func (t Track) Gain(master float64) float64 {
	return common.Clamp01(master) * common.Clamp01(t.Volume)
}
