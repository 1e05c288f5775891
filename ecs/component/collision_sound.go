package component

import "github.com/milk9111/planetbowl/sound"

// CollisionSound plays Clip when this planet hits another planet that also
// carries a CollisionSound.
type CollisionSound struct {
	ClipRef           string
	Clip              *sound.Clip
	Volume            float64
	MinCollisionSpeed float64
	Cooldown          float64

	Gate sound.CollisionGate
}

var CollisionSoundComponent = NewComponent[CollisionSound]()
