package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/planetbowl/common"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/ecs/entity"
)

const debugDotSize = 0.06

// DrawPhysicsDebug outlines every shape in the space and marks contact points.
func DrawPhysicsDebug(space *cp.Space, screen *ebiten.Image) {
	if space == nil || screen == nil {
		return
	}
	cp.DrawSpace(space, &physicsDebugDrawer{screen: screen, scale: common.PixelsPerUnit})
}

// DrawPlanetDebug prints each planet's position, speed and collision gate.
func DrawPlanetDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	y := 120
	ecs.ForEach2(w, component.PlanetTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.PlanetTag, tf *component.Transform) {
		speed := 0.0
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
			speed = body.Body.Velocity().Length()
		}
		last := "never"
		if cs, ok := ecs.Get(w, e, component.CollisionSoundComponent.Kind()); ok && !math.IsInf(cs.Gate.LastTrigger(), -1) {
			last = fmt.Sprintf("%.2fs", cs.Gate.LastTrigger())
		}
		text := fmt.Sprintf("%s  pos (%.2f, %.2f)  speed %.2f  last clink %s", entity.NameOf(w, e), tf.X, tf.Y, speed, last)
		ebitenutil.DebugPrintAt(screen, text, 10, y)
		y += 16
	})
}

// physicsDebugDrawer renders chipmunk's debug callbacks in screen pixels.
// Bowl segments are drawn at their collision thickness so gaps in the arc
// show up.
type physicsDebugDrawer struct {
	screen *ebiten.Image
	scale  float64
}

var (
	debugOutline   = cp.FColor{R: 0.45, G: 0.9, B: 1, A: 0.9}
	debugShapeFill = cp.FColor{R: 0.2, G: 0.5, B: 0.7, A: 0.4}
	debugContact   = cp.FColor{R: 1, G: 0.35, B: 0.2, A: 1}
)

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	x, y := d.toScreen(pos)
	vector.StrokeCircle(d.screen, x, y, float32(radius*d.scale), 1, toNRGBA(outline), true)
	d.line(pos, pos.Add(cp.ForAngle(angle).Mult(radius)), 1, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, 1, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	width := float32(2 * radius * d.scale)
	if width < 1 {
		width = 1
	}
	d.line(a, b, width, fill)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], 1, outline)
	}
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	x, y := d.toScreen(pos)
	vector.FillCircle(d.screen, x, y, float32(size*d.scale/2)+1, toNRGBA(fill), true)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor { return debugOutline }
func (d *physicsDebugDrawer) ShapeColor(*cp.Shape, interface{}) cp.FColor { return debugShapeFill }
func (d *physicsDebugDrawer) ConstraintColor() cp.FColor { return debugOutline }
func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor { return debugContact }
func (d *physicsDebugDrawer) Data() interface{} { return nil }

func (d *physicsDebugDrawer) line(a, b cp.Vector, width float32, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, width, toNRGBA(c), true)
}

func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float32, float32) {
	return float32(v.X * d.scale), float32(v.Y * d.scale)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	channel := func(v float32) uint8 {
		return uint8(common.Clamp01(float64(v)) * 255)
	}
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}
