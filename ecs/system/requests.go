package system

import (
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
)

// RequestNextTrack asks the music system to crossfade into the next track.
func RequestNextTrack(w *ecs.World) {
	RequestMusicWithOptions(w, &component.MusicRequest{})
}

func RequestMusicWithOptions(w *ecs.World, req *component.MusicRequest) {
	if w == nil || req == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.MusicRequestComponent.Kind(), req)
}

// RequestReload asks the persistence system to reload the current scene.
func RequestReload(w *ecs.World) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{})
}

func RequestPlanetReset(w *ecs.World, mode component.PlanetResetMode) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.PlanetResetRequestComponent.Kind(), &component.PlanetResetRequest{Mode: mode})
}
