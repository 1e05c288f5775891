package component

// PlanetBowlSetup wires physics onto a named planet and bowl when the scene
// starts.
type PlanetBowlSetup struct {
	PlanetName string
	BowlName   string

	AutoSetupOnStart bool
	Done             bool

	PlanetMass        float64
	PlanetDrag        float64
	PlanetAngularDrag float64
	MakeBowlStatic    bool
}

var PlanetBowlSetupComponent = NewComponent[PlanetBowlSetup]()

type PlanetResetMode int

const (
	// ResetInBowl drops the planet just above the bowl.
	ResetInBowl PlanetResetMode = iota
	// ResetTestDrop drops it from high above to provoke a collision.
	ResetTestDrop
)

// PlanetResetRequest is a one-shot request handled by the setup system.
type PlanetResetRequest struct {
	Mode PlanetResetMode
}

var PlanetResetRequestComponent = NewComponent[PlanetResetRequest]()
