package system

import (
	"github.com/milk9111/planetbowl/common"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
)

// TiltSystem turns input into bowl tilt. The target follows the input scaled
// to the bowl's maximum angle; the current tilt eases toward it.
type TiltSystem struct{}

func NewTiltSystem() *TiltSystem {
	return &TiltSystem{}
}

func (t *TiltSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var tiltX, tiltZ float64
	if e, ok := ecs.First(w, component.InputComponent.Kind()); ok {
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		tiltX = common.Clamp(input.TiltX, -1, 1)
		tiltZ = common.Clamp(input.TiltZ, -1, 1)
	}

	dt := w.Time().Delta
	ecs.ForEach(w, component.BowlTiltComponent.Kind(), func(_ ecs.Entity, tilt *component.BowlTilt) {
		maxAngle := tilt.MaxTiltAngle
		tilt.Target.X = tiltX * maxAngle
		tilt.Target.Z = tiltZ * maxAngle

		step := tilt.TiltSpeed * dt
		tilt.Current.X = common.MoveTowards(tilt.Current.X, tilt.Target.X, step)
		tilt.Current.Z = common.MoveTowards(tilt.Current.Z, tilt.Target.Z, step)
	})
}
