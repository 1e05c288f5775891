package sound

import "math"

// CollisionGate decides whether a collision is loud and rare enough to be
// heard. Times are seconds on a monotonic clock.
type CollisionGate struct {
	Cooldown float64
	MinSpeed float64
	last     float64
}

func NewCollisionGate(cooldown, minSpeed float64) CollisionGate {
	return CollisionGate{Cooldown: cooldown, MinSpeed: minSpeed, last: math.Inf(-1)}
}

// Allow reports whether a collision at now should sound. It does not record
// anything; call Record once the sound actually played.
func (g *CollisionGate) Allow(now float64, otherCompatible bool, speed float64) bool {
	if !otherCompatible {
		return false
	}
	if now-g.last < g.Cooldown {
		return false
	}
	return speed >= g.MinSpeed
}

func (g *CollisionGate) Record(now float64) {
	g.last = now
}

// LastTrigger returns the last recorded time, -Inf when never triggered.
func (g *CollisionGate) LastTrigger() float64 {
	return g.last
}

// Speed is the magnitude of a relative velocity.
func Speed(vx, vy float64) float64 {
	return math.Hypot(vx, vy)
}
