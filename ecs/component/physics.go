package component

import "github.com/jakecoffman/cp"

type BodyMode int

const (
	BodyDynamic BodyMode = iota
	BodyKinematic
	BodyStatic
)

func (m BodyMode) String() string {
	switch m {
	case BodyKinematic:
		return "kinematic"
	case BodyStatic:
		return "static"
	default:
		return "dynamic"
	}
}

type ColliderKind int

const (
	ColliderNone ColliderKind = iota
	ColliderCircle
	// ColliderArc builds segment shapes from the entity's BowlMesh.
	ColliderArc
)

func (k ColliderKind) String() string {
	switch k {
	case ColliderCircle:
		return "circle"
	case ColliderArc:
		return "arc"
	default:
		return "none"
	}
}

// PhysicsBody stores Chipmunk2D runtime data and body configuration.
// Drag and AngularDrag are per-second damping rates. Setting Body to nil makes
// the physics system rebuild the body from the configuration.
type PhysicsBody struct {
	Body   *cp.Body
	Shapes []*cp.Shape

	Mode        BodyMode
	Mass        float64
	Drag        float64
	AngularDrag float64
	UseGravity  bool
	Friction    float64
	Elasticity  float64

	Collider ColliderKind
	Radius   float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// PhysicsResetRequest is added to a body's entity to teleport it to X, Y
// with zero linear and angular velocity on the next physics step.
type PhysicsResetRequest struct {
	X float64
	Y float64
}

var PhysicsResetRequestComponent = NewComponent[PhysicsResetRequest]()
