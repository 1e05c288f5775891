package component

import "github.com/google/uuid"

// MusicPlayer configures the single long-lived music service. The first
// entity carrying it claims the service; later ones are duplicates.
type MusicPlayer struct {
	AmbientClip       string
	Volume            float64
	Tracks            []string
	TrackVolumes      []float64
	CrossfadeDuration float64

	InstanceID uuid.UUID
	Claimed    bool
}

var MusicPlayerComponent = NewComponent[MusicPlayer]()
