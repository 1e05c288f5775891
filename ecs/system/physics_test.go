package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/planetbowl/common"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/scenes"
	"github.com/rs/zerolog"
)

func addBody(t *testing.T, w *ecs.World, x, y float64, body *component.PhysicsBody, planet bool) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		t.Fatalf("add body: %v", err)
	}
	if planet {
		if err := ecs.Add(w, e, component.PlanetTagComponent.Kind(), &component.PlanetTag{}); err != nil {
			t.Fatalf("add tag: %v", err)
		}
	}
	return e
}

func ball(gravity bool) *component.PhysicsBody {
	return &component.PhysicsBody{
		Mode:       component.BodyDynamic,
		Mass:       1,
		UseGravity: gravity,
		Collider:   component.ColliderCircle,
		Radius:     0.5,
	}
}

func countShapes(ps *PhysicsSystem) int {
	n := 0
	ps.Space().EachShape(func(*cp.Shape) { n++ })
	return n
}

func stepPhysics(w *ecs.World, ps *PhysicsSystem, dt float64) {
	w.Time().Advance(dt)
	ps.Update(w)
}

func TestPhysicsGravity(t *testing.T) {
	tests := []struct {
		name    string
		gravity bool
		falls   bool
	}{
		{"gravity", true, true},
		{"no_gravity", false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := addBody(t, w, 0, 0, ball(tc.gravity), true)
			ps := NewPhysicsSystem(zerolog.Nop())

			for i := 0; i < 30; i++ {
				stepPhysics(w, ps, 1.0/60)
			}

			body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
			if body.Body == nil || len(body.Shapes) != 1 {
				t.Fatalf("expected a body with one shape")
			}
			tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			if got := tf.Y > 0.5; got != tc.falls {
				t.Fatalf("falls=%v, y=%v", got, tf.Y)
			}
		})
	}
}

func TestPhysicsDragSlowsBodies(t *testing.T) {
	w := ecs.NewWorld()
	free := addBody(t, w, 0, 0, ball(false), false)
	damped := ball(false)
	damped.Drag = 2
	slow := addBody(t, w, 0, 10, damped, false)
	ps := NewPhysicsSystem(zerolog.Nop())
	stepPhysics(w, ps, 0)

	for _, e := range []ecs.Entity{free, slow} {
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		body.Body.SetVelocity(4, 0)
	}
	for i := 0; i < 30; i++ {
		stepPhysics(w, ps, 1.0/60)
	}

	freeBody, _ := ecs.Get(w, free, component.PhysicsBodyComponent.Kind())
	slowBody, _ := ecs.Get(w, slow, component.PhysicsBodyComponent.Kind())
	if math.Abs(freeBody.Body.Velocity().X-4) > 1e-9 {
		t.Fatalf("undamped body changed speed: %v", freeBody.Body.Velocity().X)
	}
	if v := slowBody.Body.Velocity().X; v >= 4 || v <= 0 {
		t.Fatalf("expected drag to slow the body, got %v", v)
	}
}

func TestPhysicsPlanetCollisionEvent(t *testing.T) {
	w := ecs.NewWorld()
	a := addBody(t, w, 0, 0, ball(false), true)
	b := addBody(t, w, 1.2, 0, ball(false), true)
	ps := NewPhysicsSystem(zerolog.Nop())
	stepPhysics(w, ps, 0)

	bodyA, _ := ecs.Get(w, a, component.PhysicsBodyComponent.Kind())
	bodyB, _ := ecs.Get(w, b, component.PhysicsBodyComponent.Kind())
	bodyA.Body.SetVelocity(5, 0)
	bodyB.Body.SetVelocity(-5, 0)

	stepPhysics(w, ps, 0.05)

	var hits []ecs.CollisionEvent
	w.Events().Each(ecs.EventPlanetCollision, func(evt ecs.Event) {
		hits = append(hits, evt.Data.(ecs.CollisionEvent))
	})
	if len(hits) != 1 {
		t.Fatalf("expected one collision event, got %d", len(hits))
	}
	hit := hits[0]
	if !((hit.A == a && hit.B == b) || (hit.A == b && hit.B == a)) {
		t.Fatalf("event names the wrong entities: %+v", hit)
	}
	if speed := math.Hypot(hit.RelVX, hit.RelVY); math.Abs(speed-10) > 1e-6 {
		t.Fatalf("expected impact speed 10, got %v", speed)
	}
}

func TestPhysicsNoEventForNonPlanets(t *testing.T) {
	w := ecs.NewWorld()
	a := addBody(t, w, 0, 0, ball(false), true)
	b := addBody(t, w, 1.2, 0, ball(false), false)
	ps := NewPhysicsSystem(zerolog.Nop())
	stepPhysics(w, ps, 0)

	bodyA, _ := ecs.Get(w, a, component.PhysicsBodyComponent.Kind())
	bodyB, _ := ecs.Get(w, b, component.PhysicsBodyComponent.Kind())
	bodyA.Body.SetVelocity(5, 0)
	bodyB.Body.SetVelocity(-5, 0)
	stepPhysics(w, ps, 0.05)

	if n := w.Events().Len(); n != 0 {
		t.Fatalf("expected no planet collision events, got %d", n)
	}
}

func TestPhysicsResetRequest(t *testing.T) {
	w := ecs.NewWorld()
	e := addBody(t, w, 0, 0, ball(true), true)
	ps := NewPhysicsSystem(zerolog.Nop())
	stepPhysics(w, ps, 0)

	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	body.Body.SetVelocity(3, 3)
	if err := ecs.Add(w, e, component.PhysicsResetRequestComponent.Kind(), &component.PhysicsResetRequest{X: 3, Y: -4}); err != nil {
		t.Fatalf("add reset: %v", err)
	}
	stepPhysics(w, ps, 0)

	pos := body.Body.Position()
	if pos.X != 3 || pos.Y != -4 || body.Body.Velocity().Length() != 0 {
		t.Fatalf("expected a body at rest at (3, -4), got %v moving %v", pos, body.Body.Velocity())
	}
	if ecs.Has(w, e, component.PhysicsResetRequestComponent.Kind()) {
		t.Fatalf("reset request should be consumed")
	}
}

func TestPhysicsRebuildsClearedBody(t *testing.T) {
	w := ecs.NewWorld()
	e := addBody(t, w, 0, 0, ball(false), true)
	ps := NewPhysicsSystem(zerolog.Nop())
	stepPhysics(w, ps, 0)

	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	old := body.Body
	body.Body = nil
	body.Radius = 0.25
	stepPhysics(w, ps, 0)

	if body.Body == nil || body.Body == old {
		t.Fatalf("expected a fresh body")
	}
	if countShapes(ps) != 1 {
		t.Fatalf("the old shape should leave the space")
	}
}

func TestPhysicsKinematicBowlFollowsTilt(t *testing.T) {
	w := ecs.NewWorld()
	bowl := addBody(t, w, 0, 0, &component.PhysicsBody{Mode: component.BodyKinematic, Collider: component.ColliderArc}, false)
	mesh := &component.BowlMesh{Radius: 4, Segments: 8, Span: common.DegToRad(150), Thickness: 0.2}
	if err := ecs.Add(w, bowl, component.BowlMeshComponent.Kind(), mesh); err != nil {
		t.Fatalf("add mesh: %v", err)
	}
	tilt := &component.BowlTilt{Current: common.Vec3{X: 10}, MaxTiltAngle: 20}
	if err := ecs.Add(w, bowl, component.BowlTiltComponent.Kind(), tilt); err != nil {
		t.Fatalf("add tilt: %v", err)
	}
	ps := NewPhysicsSystem(zerolog.Nop())

	stepPhysics(w, ps, 1.0/60)

	body, _ := ecs.Get(w, bowl, component.PhysicsBodyComponent.Kind())
	if len(body.Shapes) != mesh.Segments {
		t.Fatalf("expected %d segments, got %d", mesh.Segments, len(body.Shapes))
	}
	want := common.DegToRad(10)
	if math.Abs(body.Body.Angle()-want) > 1e-6 {
		t.Fatalf("expected angle %v, got %v", want, body.Body.Angle())
	}
	tf, _ := ecs.Get(w, bowl, component.TransformComponent.Kind())
	if math.Abs(tf.Rotation-want) > 1e-6 {
		t.Fatalf("transform rotation not synced: %v", tf.Rotation)
	}
}

func TestPhysicsStaticBowlFollowsTilt(t *testing.T) {
	w := ecs.NewWorld()
	bowl := addBody(t, w, 0, 0, &component.PhysicsBody{Mode: component.BodyStatic, Collider: component.ColliderArc}, false)
	mesh := &component.BowlMesh{Radius: 4, Segments: 6, Span: common.DegToRad(150), Thickness: 0.2}
	if err := ecs.Add(w, bowl, component.BowlMeshComponent.Kind(), mesh); err != nil {
		t.Fatalf("add mesh: %v", err)
	}
	tilt := &component.BowlTilt{Current: common.Vec3{X: -5}, MaxTiltAngle: 20}
	if err := ecs.Add(w, bowl, component.BowlTiltComponent.Kind(), tilt); err != nil {
		t.Fatalf("add tilt: %v", err)
	}
	ps := NewPhysicsSystem(zerolog.Nop())

	for i, deg := range []float64{-5, 12, 12} {
		tilt.Current.X = deg
		stepPhysics(w, ps, 1.0/60)

		body, _ := ecs.Get(w, bowl, component.PhysicsBodyComponent.Kind())
		if got, want := body.Body.Angle(), common.DegToRad(deg); math.Abs(got-want) > 1e-9 {
			t.Fatalf("frame %d: expected angle %v, got %v", i, want, got)
		}
		if n := countShapes(ps); n != mesh.Segments {
			t.Fatalf("frame %d: expected %d shapes in the space, got %d", i, mesh.Segments, n)
		}
	}
}

func TestPhysicsTetherReturnsFallenPlanet(t *testing.T) {
	w := ecs.NewWorld()
	bowl := addBody(t, w, 0, 0, &component.PhysicsBody{Mode: component.BodyKinematic, Collider: component.ColliderCircle, Radius: 0.1}, false)
	if err := ecs.Add(w, bowl, component.NameComponent.Kind(), &component.Name{Value: "bowl_03"}); err != nil {
		t.Fatalf("add name: %v", err)
	}
	planet := addBody(t, w, 0, 10, ball(false), true)
	if err := ecs.Add(w, planet, component.BowlTetherComponent.Kind(), &component.BowlTether{BowlName: "bowl_03", FallDistance: 6}); err != nil {
		t.Fatalf("add tether: %v", err)
	}
	ps := NewPhysicsSystem(zerolog.Nop())

	stepPhysics(w, ps, 1.0/60)
	tf, _ := ecs.Get(w, planet, component.TransformComponent.Kind())
	if tf.Y != -2 {
		t.Fatalf("expected the planet above the bowl, got y=%v", tf.Y)
	}

	stepPhysics(w, ps, 0)
	body, _ := ecs.Get(w, planet, component.PhysicsBodyComponent.Kind())
	if body.Body.Position().Y != -2 {
		t.Fatalf("body not moved back: %v", body.Body.Position())
	}
}

func TestPhysicsResetClearsSpace(t *testing.T) {
	w := ecs.NewWorld()
	addBody(t, w, 0, 0, ball(false), true)
	ps := NewPhysicsSystem(zerolog.Nop())
	stepPhysics(w, ps, 0)

	ps.Reset()

	if countShapes(ps) != 0 {
		t.Fatalf("expected an empty space after reset")
	}
}

func TestScenePipelineBuildsBodies(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(zerolog.Nop())
	persistence := NewPersistenceSystem(scenes.DefaultScene, ps.Reset, zerolog.Nop())
	sched := ecs.NewScheduler(
		NewSetupSystem(zerolog.Nop()),
		NewTiltSystem(),
		ps,
		persistence,
	)

	for i := 0; i < 30; i++ {
		sched.Update(w, 1.0/60)
	}
	if err := persistence.Err(); err != nil {
		t.Fatalf("load scene: %v", err)
	}

	ecs.ForEach2(w, component.PlanetTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.PlanetTag, tf *component.Transform) {
		body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || body.Body == nil {
			t.Fatalf("planet %v has no body", e)
		}
		if tf.Y <= 2.5 {
			t.Fatalf("planet %v did not fall: y=%v", e, tf.Y)
		}
	})
}
