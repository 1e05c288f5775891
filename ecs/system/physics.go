package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/planetbowl/common"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/ecs/entity"
	"github.com/rs/zerolog"
)

const (
	collisionTypePlanet cp.CollisionType = iota + 1
	collisionTypeSolid
)

const (
	physicsStep         = 1.0 / 120.0
	maxStepsPerFrame    = 8
	fallbackBowlRadius  = 2.0
	tetherRespawnHeight = 2.0
)

type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool
	world         *ecs.World
	accum         float64

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
	log      zerolog.Logger
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	mode   component.BodyMode
}

func NewPhysicsSystem(log zerolog.Logger) *PhysicsSystem {
	ps := &PhysicsSystem{log: log}
	ps.Reset()
	return ps
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Reset drops every body and starts an empty space. The persistence system
// calls it before a scene reload.
func (ps *PhysicsSystem) Reset() {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	ps.space = space
	ps.handlersReady = false
	ps.accum = 0
	ps.entities = make(map[ecs.Entity]*bodyInfo)
	ps.shapes = make(map[*cp.Shape]ecs.Entity)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.Reset()
	}
	ps.world = w

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.applyResets(w)

	ps.accum += w.Time().Delta
	steps := int(ps.accum / physicsStep)
	if steps == 0 {
		return
	}
	if steps > maxStepsPerFrame {
		steps = maxStepsPerFrame
		ps.accum = 0
	} else {
		ps.accum -= float64(steps) * physicsStep
	}
	frameDt := float64(steps) * physicsStep

	ps.driveBowls(w, frameDt)
	for i := 0; i < steps; i++ {
		ps.space.Step(physicsStep)
	}

	ps.syncTransforms(w)
	ps.enforceTethers(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	handler := ps.space.NewCollisionHandler(collisionTypePlanet, collisionTypePlanet)
	handler.UserData = ps
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil || sys.world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		a, okA := sys.shapes[shapeA]
		b, okB := sys.shapes[shapeB]
		if !okA || !okB || a == b {
			return true
		}
		bodyA, bodyB := arb.Bodies()
		rel := bodyA.Velocity().Sub(bodyB.Velocity())
		sys.world.Events().Push(ecs.Event{
			Type: ecs.EventPlanetCollision,
			Data: ecs.CollisionEvent{A: a, B: b, RelVX: rel.X, RelVY: rel.Y},
		})
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info := ps.entities[e]; info != nil {
			return
		}
		info := ps.createBodyInfo(w, e, transform, bodyComp)
		if info == nil {
			return
		}
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shapes = info.shapes
		ps.log.Debug().
			Str("entity", entity.NameOf(w, e)).
			Stringer("mode", bodyComp.Mode).
			Stringer("collider", bodyComp.Collider).
			Msg("physics body created")
	})
}

func (ps *PhysicsSystem) createBodyInfo(w *ecs.World, e ecs.Entity, transform *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	if ps.space == nil || bodyComp.Collider == component.ColliderNone {
		return nil
	}

	var mesh *component.BowlMesh
	collider := bodyComp.Collider
	radius := bodyComp.Radius
	if collider == component.ColliderArc {
		if m, ok := ecs.Get(w, e, component.BowlMeshComponent.Kind()); ok {
			mesh = m
		} else {
			ps.log.Warn().Str("entity", entity.NameOf(w, e)).Msg("arc collider without a bowl mesh; using a circle")
			collider = component.ColliderCircle
			radius = fallbackBowlRadius
		}
	}
	if collider == component.ColliderCircle && radius <= 0 {
		radius = fallbackBowlRadius
	}

	var body *cp.Body
	switch bodyComp.Mode {
	case component.BodyStatic:
		body = cp.NewStaticBody()
	case component.BodyKinematic:
		body = cp.NewKinematicBody()
	default:
		mass := bodyComp.Mass
		if mass <= 0 {
			mass = 1
		}
		var moment float64
		if mesh != nil {
			moment = arcMoment(mass, mesh)
		} else {
			moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
		}
		body = cp.NewBody(mass, moment)
		body.SetVelocityUpdateFunc(dampedVelocityFunc(bodyComp.UseGravity, bodyComp.Drag, bodyComp.AngularDrag))
	}
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(transform.Rotation)
	ps.space.AddBody(body)

	var shapes []*cp.Shape
	if mesh != nil {
		pts := arcPoints(mesh)
		for i := 1; i < len(pts); i++ {
			shapes = append(shapes, cp.NewSegment(body, pts[i-1], pts[i], mesh.Thickness/2))
		}
	} else {
		shapes = append(shapes, cp.NewCircle(body, radius, cp.Vector{}))
	}

	collisionType := collisionTypeSolid
	if ecs.Has(w, e, component.PlanetTagComponent.Kind()) {
		collisionType = collisionTypePlanet
	}
	for _, shape := range shapes {
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionType)
		ps.space.AddShape(shape)
		ps.shapes[shape] = e
	}

	return &bodyInfo{body: body, shapes: shapes, mode: bodyComp.Mode}
}

// dampedVelocityFunc integrates gravity (when enabled) and then applies the
// body's linear and angular drag.
func dampedVelocityFunc(useGravity bool, drag, angularDrag float64) cp.BodyVelocityFunc {
	return func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		if !useGravity {
			gravity = cp.Vector{}
		}
		cp.BodyUpdateVelocity(body, gravity, damping, dt)
		if drag > 0 {
			body.SetVelocityVector(body.Velocity().Mult(1 / (1 + drag*dt)))
		}
		if angularDrag > 0 {
			body.SetAngularVelocity(body.AngularVelocity() / (1 + angularDrag*dt))
		}
	}
}

// arcPoints returns the bowl outline in body space. The arc opens upward, so
// its middle point sits Radius below the center (Y grows down).
func arcPoints(mesh *component.BowlMesh) []cp.Vector {
	n := max(1, mesh.Segments)
	pts := make([]cp.Vector, 0, n+1)
	for i := 0; i <= n; i++ {
		theta := -mesh.Span/2 + mesh.Span*float64(i)/float64(n)
		pts = append(pts, cp.Vector{X: mesh.Radius * math.Sin(theta), Y: mesh.Radius * math.Cos(theta)})
	}
	return pts
}

func arcMoment(mass float64, mesh *component.BowlMesh) float64 {
	pts := arcPoints(mesh)
	per := mass / float64(len(pts)-1)
	moment := 0.0
	for i := 1; i < len(pts); i++ {
		moment += cp.MomentForSegment(per, pts[i-1], pts[i], mesh.Thickness/2)
	}
	return moment
}

func (ps *PhysicsSystem) applyResets(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsResetRequestComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, req *component.PhysicsResetRequest, bodyComp *component.PhysicsBody) {
		if body := bodyComp.Body; body != nil {
			body.SetPosition(cp.Vector{X: req.X, Y: req.Y})
			body.SetVelocity(0, 0)
			body.SetAngularVelocity(0)
		}
		ecs.Remove(w, e, component.PhysicsResetRequestComponent.Kind())
	})
}

// driveBowls turns kinematic bowls toward their tilt over the coming steps so
// contacts see a moving surface rather than a teleport.
func (ps *PhysicsSystem) driveBowls(w *ecs.World, frameDt float64) {
	ecs.ForEach2(w, component.BowlTiltComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, tilt *component.BowlTilt, bodyComp *component.PhysicsBody) {
		body := bodyComp.Body
		if body == nil {
			return
		}
		target := common.DegToRad(tilt.Current.X)
		switch bodyComp.Mode {
		case component.BodyKinematic:
			body.SetAngularVelocity((target - body.Angle()) / frameDt)
		case component.BodyStatic:
			if body.Angle() == target {
				return
			}
			body.SetAngle(target)
			// Static shapes keep their cached bounds until re-added.
			if info, ok := ps.entities[e]; ok {
				for _, shape := range info.shapes {
					ps.space.RemoveShape(shape)
					ps.space.AddShape(shape)
				}
			}
		}
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Mode == component.BodyStatic {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
	})
}

// enforceTethers puts planets that fell out of their bowl back inside.
func (ps *PhysicsSystem) enforceTethers(w *ecs.World) {
	ecs.ForEach2(w, component.BowlTetherComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tether *component.BowlTether, transform *component.Transform) {
		bowl, ok := entity.FindByName(w, tether.BowlName)
		if !ok {
			return
		}
		bowlTf, ok := ecs.Get(w, bowl, component.TransformComponent.Kind())
		if !ok || transform.Y-bowlTf.Y <= tether.FallDistance {
			return
		}
		if err := entity.PlaceAbove(w, e, *bowlTf, tetherRespawnHeight, ps.log); err != nil {
			ps.log.Error().Err(err).Msg("tether respawn")
		}
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) {
			if bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && bodyComp.Body == info.body {
				continue
			}
		}
		ps.removeInfo(info)
		delete(ps.entities, e)
	}
}

func (ps *PhysicsSystem) removeInfo(info *bodyInfo) {
	for _, shape := range info.shapes {
		if shape == nil {
			continue
		}
		ps.space.RemoveShape(shape)
		delete(ps.shapes, shape)
	}
	if info.body != nil {
		ps.space.RemoveBody(info.body)
	}
}
