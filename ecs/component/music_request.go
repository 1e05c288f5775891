package component

// MusicRequest is a one-shot request to move to the next playlist track.
// FadeInOnly skips fading out the outgoing track.
type MusicRequest struct {
	FadeInOnly bool
}

var MusicRequestComponent = NewComponent[MusicRequest]()
