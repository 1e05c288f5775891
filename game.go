package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/planetbowl/assets"
	"github.com/milk9111/planetbowl/common"
	"github.com/milk9111/planetbowl/config"
	"github.com/milk9111/planetbowl/ecs"
	"github.com/milk9111/planetbowl/ecs/component"
	"github.com/milk9111/planetbowl/ecs/system"
	"github.com/milk9111/planetbowl/logging"
	"github.com/milk9111/planetbowl/prefabs"
	"github.com/milk9111/planetbowl/sound"
	"github.com/rs/zerolog"
)

// maxFrameStep bounds the measured frame time so a stalled window does not
// finish a fade or tunnel a planet in one step.
const maxFrameStep = 0.25

type Game struct {
	world       *ecs.World
	scheduler   *ecs.Scheduler
	clock       *ecs.WallClock
	physics     *system.PhysicsSystem
	persistence *system.PersistenceSystem
	render      *system.RenderSystem
	music       *sound.MusicService
	watcher     *prefabs.Watcher
	pauseUI     *ebitenui.UI
	log         zerolog.Logger

	paused bool
	debug  bool
	loaded bool
}

func NewGame(cfg *config.Config, log zerolog.Logger) *Game {
	echo := sound.NewSpaceEcho()
	device := sound.NewDevice(echo, logging.Component(log, "audio"))
	device.SetEffectsVolume(cfg.Audio.EffectsVolume)
	clips := sound.NewClipLoader(assets.LoadFile, logging.Component(log, "clips"))

	music := sound.NewMusicService(device.NewChannel("music_a"), device.NewChannel("music_b"), logging.Component(log, "music"))

	g := &Game{
		world:  ecs.NewWorld(),
		clock:  ecs.NewWallClock(1/float64(ebiten.TPS()), maxFrameStep),
		render: system.NewRenderSystem(),
		music:  music,
		log:    log,
		debug:  cfg.Game.Debug,
	}

	g.physics = system.NewPhysicsSystem(logging.Component(log, "physics"))
	g.persistence = system.NewPersistenceSystem(cfg.Game.Scene, g.physics.Reset, logging.Component(log, "scene"))
	g.persistence.AddSceneLoadListener(music.OnSceneLoaded)
	g.persistence.AddSceneLoadListener(func(uint64) { g.loaded = true })

	musicOpts := system.MusicOptions{
		VolumeScale:       cfg.Audio.MasterVolume,
		Mute:              cfg.Audio.Mute,
		CrossfadeDuration: cfg.Audio.CrossfadeDuration,
	}
	g.scheduler = ecs.NewScheduler(
		system.NewInputSystem(),
		system.NewSetupSystem(logging.Component(log, "setup")),
		system.NewTiltSystem(),
		g.physics,
		system.NewCollisionSoundSystem(device, clips, logging.Component(log, "collision")),
		system.NewEchoTiltSystem(echo, logging.Component(log, "echo")),
		system.NewMusicSystem(music, clips, musicOpts, logging.Component(log, "music")),
		g.persistence,
	)

	if cfg.Game.Watch {
		w, err := prefabs.NewWatcher("prefabs", "scenes")
		if err != nil {
			log.Warn().Err(err).Msg("hot reload disabled")
		} else {
			g.watcher = w
		}
	}

	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	if g.watcher != nil {
		for _, path := range g.watcher.Drain() {
			if prefabs.IsSpecFile(path) {
				g.log.Info().Str("path", path).Msg("scene data changed, reloading")
				system.RequestReload(g.world)
				break
			}
		}
	}

	scale := 1.0
	if g.paused {
		scale = 0
	}
	g.world.Time().Scale = scale
	g.scheduler.Update(g.world, g.clock.Tick())

	if !g.loaded {
		if err := g.persistence.Err(); err != nil {
			return fmt.Errorf("initial scene load: %w", err)
		}
	}

	if e, ok := ecs.First(g.world, component.InputComponent.Kind()); ok {
		input, _ := ecs.Get(g.world, e, component.InputComponent.Kind())
		if input.TogglePause {
			g.paused = !g.paused
		}
		if input.ToggleDebug {
			g.debug = !g.debug
		}
	}

	if g.paused {
		g.pauseUI.Update()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
	if g.debug {
		system.DrawPhysicsDebug(g.physics.Space(), screen)
		system.DrawPlanetDebug(g.world, screen)
	}
	system.DrawHUD(g.world, screen, g.music, g.paused)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
