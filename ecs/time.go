package ecs

import "time"

// Time is the world frame clock, in seconds.
//
// Unscaled is real elapsed time since the previous frame and keeps running
// while the game is paused. Delta is Unscaled multiplied by Scale and drives
// gameplay (physics, tilt, collision cooldowns).
type Time struct {
	Unscaled float64
	Delta    float64
	Scale    float64
	Elapsed  float64
	Frame    uint64
}

// Advance starts a new frame with the given real elapsed time.
func (t *Time) Advance(unscaled float64) {
	if t == nil {
		return
	}
	if unscaled < 0 {
		unscaled = 0
	}
	if t.Scale < 0 {
		t.Scale = 0
	}
	t.Unscaled = unscaled
	t.Delta = unscaled * t.Scale
	t.Elapsed += t.Delta
	t.Frame++
}

// WallClock measures real time between frames. The first Tick, and any gap
// longer than MaxStep (a stalled window, a debugger), report Fallback.
type WallClock struct {
	Fallback float64
	MaxStep  float64
	Now      func() time.Time

	last time.Time
}

func NewWallClock(fallback, maxStep float64) *WallClock {
	return &WallClock{Fallback: fallback, MaxStep: maxStep, Now: time.Now}
}

// Tick returns the seconds elapsed since the previous Tick.
func (c *WallClock) Tick() float64 {
	now := c.Now()
	last := c.last
	c.last = now
	if last.IsZero() {
		return c.Fallback
	}
	dt := now.Sub(last).Seconds()
	if dt < 0 || (c.MaxStep > 0 && dt > c.MaxStep) {
		return c.Fallback
	}
	return dt
}
