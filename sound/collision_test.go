package sound

import (
	"math"
	"testing"
)

func TestCollisionGateScenario(t *testing.T) {
	g := NewCollisionGate(0.15, 0.5)
	if !math.IsInf(g.LastTrigger(), -1) {
		t.Fatalf("a fresh gate has never triggered")
	}

	tests := []struct {
		name       string
		now        float64
		speed      float64
		compatible bool
		want       bool
	}{
		{"first_fires", 0, 1.0, true, true},
		{"cooldown_suppresses", 0.1, 1.0, true, false},
		{"too_slow", 0.2, 0.3, true, false},
		{"incompatible", 0.2, 5, false, false},
		{"fires_again", 0.2, 0.6, true, true},
		{"exact_min_speed", 0.4, 0.5, true, true},
	}
	for _, tc := range tests {
		got := g.Allow(tc.now, tc.compatible, tc.speed)
		if got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
		if got {
			g.Record(tc.now)
		}
	}
}

func TestCollisionGateNeverFiresFasterThanCooldown(t *testing.T) {
	g := NewCollisionGate(0.15, 0)
	var fired []float64
	for i := 0; i <= 100; i++ {
		now := float64(i) * 0.01
		if g.Allow(now, true, 1) {
			g.Record(now)
			fired = append(fired, now)
		}
	}
	for i := 1; i < len(fired); i++ {
		if fired[i]-fired[i-1] < 0.15-1e-9 {
			t.Fatalf("fired %v then %v, closer than the cooldown", fired[i-1], fired[i])
		}
	}
	if len(fired) < 2 {
		t.Fatalf("expected repeated triggers, got %v", fired)
	}
}

func TestSpeed(t *testing.T) {
	if got := Speed(3, 4); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}
