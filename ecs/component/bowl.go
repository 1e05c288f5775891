package component

import "github.com/milk9111/planetbowl/common"

// BowlMesh describes the bowl's cross-section: an arc of Segments pieces
// spanning Span radians, opening upward, Radius units from the center.
type BowlMesh struct {
	Radius    float64
	Segments  int
	Span      float64
	Thickness float64
}

var BowlMeshComponent = NewComponent[BowlMesh]()

// BowlTilt is the tilt state of a bowl in degrees. Target follows the input,
// Current eases toward it at TiltSpeed degrees per second.
type BowlTilt struct {
	Current      common.Vec3
	Target       common.Vec3
	MaxTiltAngle float64
	TiltSpeed    float64
}

var BowlTiltComponent = NewComponent[BowlTilt]()

// BowlTether ties a planet to its bowl. A planet falling further than
// FallDistance below the bowl is put back inside.
type BowlTether struct {
	BowlName     string
	FallDistance float64
}

var BowlTetherComponent = NewComponent[BowlTether]()
