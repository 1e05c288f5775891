package system

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/planetbowl/common"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/sound"
	"golang.org/x/image/colornames"
)

const defaultDrawRadius = 0.5

type RenderSystem struct {
	Background color.Color
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{Background: colornames.Midnightblue}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	if r.Background != nil {
		screen.Fill(r.Background)
	}

	entities := make([]ecs.Entity, 0)
	ecs.ForEach2(w, component.RenderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Render, _ *component.Transform) {
		entities = append(entities, e)
	})
	sort.SliceStable(entities, func(i, j int) bool {
		ri, _ := ecs.Get(w, entities[i], component.RenderComponent.Kind())
		rj, _ := ecs.Get(w, entities[j], component.RenderComponent.Kind())
		if ri.Layer != rj.Layer {
			return ri.Layer < rj.Layer
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		rc, _ := ecs.Get(w, e, component.RenderComponent.Kind())
		clr := rc.Color
		if clr == nil {
			clr = color.White
		}

		if mesh, ok := ecs.Get(w, e, component.BowlMeshComponent.Kind()); ok {
			drawBowl(screen, t, mesh, clr)
			continue
		}
		radius := defaultDrawRadius
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Collider == component.ColliderCircle && body.Radius > 0 {
			radius = body.Radius
		}
		drawPlanet(screen, t, radius, clr)
	}
}

func drawBowl(screen *ebiten.Image, t *component.Transform, mesh *component.BowlMesh, clr color.Color) {
	pts := arcPoints(mesh)
	width := float32(max(1, mesh.Thickness*common.PixelsPerUnit))
	sin, cos := math.Sincos(t.Rotation)
	toScreen := func(x, y float64) (float32, float32) {
		wx := t.X + x*cos - y*sin
		wy := t.Y + x*sin + y*cos
		return float32(wx * common.PixelsPerUnit), float32(wy * common.PixelsPerUnit)
	}
	for i := 1; i < len(pts); i++ {
		x0, y0 := toScreen(pts[i-1].X, pts[i-1].Y)
		x1, y1 := toScreen(pts[i].X, pts[i].Y)
		vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
	}
}

func drawPlanet(screen *ebiten.Image, t *component.Transform, radius float64, clr color.Color) {
	cx := float32(t.X * common.PixelsPerUnit)
	cy := float32(t.Y * common.PixelsPerUnit)
	r := float32(radius * common.PixelsPerUnit)
	vector.FillCircle(screen, cx, cy, r, clr, true)

	// Spoke so rolling is visible.
	sin, cos := math.Sincos(t.Rotation)
	ex := cx + float32(cos)*r*0.8
	ey := cy + float32(sin)*r*0.8
	vector.StrokeLine(screen, cx, cy, ex, ey, 2, colornames.Whitesmoke, true)
}

// DrawHUD prints the current track, the bowl tilt and the echo amount.
func DrawHUD(w *ecs.World, screen *ebiten.Image, music *sound.MusicService, paused bool) {
	if w == nil || screen == nil {
		return
	}

	nowPlaying := "silence"
	track := ""
	if music != nil {
		if name := music.NowPlaying(); name != "" {
			nowPlaying = name
		}
		if n := music.TrackCount(); n > 0 {
			track = fmt.Sprintf(" (%d/%d)", music.Cursor()+1, n)
		}
	}

	tiltText := "tilt: -"
	if e, ok := ecs.First(w, component.BowlTiltComponent.Kind()); ok {
		tilt, _ := ecs.Get(w, e, component.BowlTiltComponent.Kind())
		tiltText = fmt.Sprintf("tilt: x %.1f° z %.1f° (max %.0f°)", tilt.Current.X, tilt.Current.Z, tilt.MaxTiltAngle)
	}

	echoText := "echo: -"
	if e, ok := ecs.First(w, component.EchoTiltComponent.Kind()); ok {
		echo, _ := ecs.Get(w, e, component.EchoTiltComponent.Kind())
		echoText = fmt.Sprintf("echo: %.0f%%", echo.Amount*100)
	}

	text := fmt.Sprintf("music: %s%s\n%s\n%s", nowPlaying, track, tiltText, echoText)
	if paused {
		text += "\npaused"
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}
