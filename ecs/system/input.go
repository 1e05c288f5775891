package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
)

// InputState is one frame of polled input.
type InputState struct {
	TiltX float64
	TiltZ float64

	NextTrack     bool
	TogglePause   bool
	Reload        bool
	ResetPlanet   bool
	TestCollision bool
	ToggleDebug   bool
}

type InputSystem struct {
	poll func() InputState
}

func NewInputSystem() *InputSystem {
	return &InputSystem{poll: PollInput}
}

// NewInputSystemWithSource polls input from fn instead of the keyboard.
func NewInputSystemWithSource(fn func() InputState) *InputSystem {
	return &InputSystem{poll: fn}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil || i.poll == nil {
		return
	}

	state := i.poll()
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		input.TiltX = state.TiltX
		input.TiltZ = state.TiltZ
		input.NextTrack = state.NextTrack
		input.TogglePause = state.TogglePause
		input.ToggleDebug = state.ToggleDebug
		input.Reload = state.Reload
		input.ResetPlanet = state.ResetPlanet
		input.TestCollision = state.TestCollision
	})

	if state.NextTrack {
		RequestNextTrack(w)
	}
	if state.Reload {
		RequestReload(w)
	}
	if state.ResetPlanet {
		RequestPlanetReset(w, component.ResetInBowl)
	}
	if state.TestCollision {
		RequestPlanetReset(w, component.ResetTestDrop)
	}
}

// PollInput reads the keyboard and the first gamepad.
func PollInput() InputState {
	const stickDeadzone = 0.2

	var s InputState
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		s.TiltX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		s.TiltX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		s.TiltZ += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		s.TiltZ -= 1
	}
	s.NextTrack = inpututil.IsKeyJustPressed(ebiten.KeyQ)
	s.TogglePause = inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	s.ToggleDebug = inpututil.IsKeyJustPressed(ebiten.KeyF3)
	s.Reload = inpututil.IsKeyJustPressed(ebiten.KeyR)
	s.ResetPlanet = inpututil.IsKeyJustPressed(ebiten.KeyF5)
	s.TestCollision = inpututil.IsKeyJustPressed(ebiten.KeyF6)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			s.TiltX = lx
			s.TiltZ = -ly
		}
		s.NextTrack = s.NextTrack || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
		s.ResetPlanet = s.ResetPlanet || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		s.TogglePause = s.TogglePause || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}
	return s
}
