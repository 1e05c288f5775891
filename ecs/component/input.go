package component

// Input stores per-frame input state. TiltX and TiltZ are in -1..1.
type Input struct {
	TiltX float64
	TiltZ float64

	NextTrack     bool
	TogglePause   bool
	Reload        bool
	ResetPlanet   bool
	TestCollision bool
	ToggleDebug   bool
}

var InputComponent = NewComponent[Input]()
