package system

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/sound"
	"github.com/rs/zerolog"
)

func addMusicPlayer(t *testing.T, w *ecs.World, tracks ...string) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	player := &component.MusicPlayer{
		AmbientClip:       "ambient.raw",
		Volume:            0.6,
		Tracks:            tracks,
		TrackVolumes:      []float64{1, 0.5},
		CrossfadeDuration: 2,
		InstanceID:        uuid.New(),
	}
	if err := ecs.Add(w, e, component.MusicPlayerComponent.Kind(), player); err != nil {
		t.Fatalf("add music player: %v", err)
	}
	return e
}

func newTestMusic() (*sound.MusicService, *fakeChannel, *fakeChannel) {
	a, b := &fakeChannel{}, &fakeChannel{}
	return sound.NewMusicService(a, b, zerolog.Nop()), a, b
}

func TestMusicSystemClaimsFirstPlayer(t *testing.T) {
	w := ecs.NewWorld()
	first := addMusicPlayer(t, w, "a.raw", "b.raw")
	dup := addMusicPlayer(t, w, "c.raw")
	svc, _, _ := newTestMusic()
	sys := NewMusicSystem(svc, rawClips(), MusicOptions{}, zerolog.Nop())

	w.Time().Advance(0.1)
	sys.Update(w)

	if !ecs.IsAlive(w, first) || ecs.IsAlive(w, dup) {
		t.Fatalf("expected the first player to survive and the duplicate to be destroyed")
	}
	player, _ := ecs.Get(w, first, component.MusicPlayerComponent.Kind())
	owner, claimed := svc.Owner()
	if !claimed || owner != player.InstanceID || !player.Claimed {
		t.Fatalf("service not claimed by the first player")
	}
	if !svc.Started() || svc.NowPlaying() != "a.raw" || svc.Cursor() != 0 {
		t.Fatalf("expected the first track to start, got %q at %d", svc.NowPlaying(), svc.Cursor())
	}
}

func TestMusicSystemAdvancesOnRequest(t *testing.T) {
	w := ecs.NewWorld()
	addMusicPlayer(t, w, "a.raw", "b.raw")
	svc, a, b := newTestMusic()
	sched := ecs.NewScheduler(NewMusicSystem(svc, rawClips(), MusicOptions{}, zerolog.Nop()))

	sched.Update(w, 0.5)
	sched.Update(w, 0.5)
	RequestNextTrack(w)
	sched.Update(w, 1)

	if svc.Cursor() != 1 || svc.NowPlaying() != "b.raw" {
		t.Fatalf("expected track b, got %q at %d", svc.NowPlaying(), svc.Cursor())
	}
	if n := ecs.Count(w, component.MusicRequestComponent.Kind()); n != 0 {
		t.Fatalf("music requests should be consumed, %d left", n)
	}

	// The first track plays on b. Half way through a 2s crossfade: b 0.6 -> 0.3,
	// a 0 -> 0.15.
	if math.Abs(b.volume-0.3) > 1e-9 || math.Abs(a.volume-0.15) > 1e-9 {
		t.Fatalf("unexpected mid-fade volumes a=%v b=%v", a.volume, b.volume)
	}

	sched.Update(w, 1)
	if b.playing || !a.playing || math.Abs(a.volume-0.3) > 1e-9 {
		t.Fatalf("crossfade did not settle: a=%+v b=%+v", a, b)
	}
}

func TestMusicSystemFadesWhilePaused(t *testing.T) {
	w := ecs.NewWorld()
	addMusicPlayer(t, w, "a.raw")
	svc, _, b := newTestMusic()
	sched := ecs.NewScheduler(NewMusicSystem(svc, rawClips(), MusicOptions{CrossfadeDuration: 1}, zerolog.Nop()))

	w.Time().Scale = 0
	sched.Update(w, 0.5)
	if math.Abs(b.volume-0.3) > 1e-9 {
		t.Fatalf("fade-in should run on unscaled time, volume %v", b.volume)
	}
	sched.Update(w, 0.5)
	if math.Abs(b.volume-0.6) > 1e-9 {
		t.Fatalf("fade-in should complete while paused, volume %v", b.volume)
	}
}

func TestMusicSystemOptions(t *testing.T) {
	tests := []struct {
		name string
		opts MusicOptions
		want float64
	}{
		{"defaults", MusicOptions{}, 0.6},
		{"scaled", MusicOptions{VolumeScale: 0.5}, 0.3},
		{"muted", MusicOptions{Mute: true}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			addMusicPlayer(t, w, "a.raw")
			svc, _, b := newTestMusic()
			sched := ecs.NewScheduler(NewMusicSystem(svc, rawClips(), tc.opts, zerolog.Nop()))

			sched.Update(w, 5)

			if math.Abs(b.volume-tc.want) > 1e-9 {
				t.Fatalf("expected volume %v, got %v", tc.want, b.volume)
			}
		})
	}
}

func TestMusicSystemAmbientFallback(t *testing.T) {
	w := ecs.NewWorld()
	addMusicPlayer(t, w)
	svc, _, b := newTestMusic()
	sched := ecs.NewScheduler(NewMusicSystem(svc, rawClips(), MusicOptions{}, zerolog.Nop()))

	sched.Update(w, 5)
	RequestNextTrack(w)
	sched.Update(w, 5)

	if svc.NowPlaying() != "ambient.raw" || !b.playing || math.Abs(b.volume-0.6) > 1e-9 {
		t.Fatalf("expected the ambient clip at master volume, got %q %+v", svc.NowPlaying(), b)
	}
}
