package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/planetbowl/common"
	"github.com/milk9111/planetbowl/config"
	"github.com/milk9111/planetbowl/logging"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	sceneName := flag.String("scene", "", "scene name in scenes/ (basename, .yaml optional)")
	watch := flag.Bool("watch", false, "reload the scene when prefabs or scenes change on disk")
	configPath := flag.String("config", "", "settings file (default: ./settings.toml or ~/.config/planetbowl/settings.toml)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		bootLog := logging.New(*debug)
		bootLog.Fatal().Err(err).Msg("load settings")
	}
	cfg.Game.Debug = cfg.Game.Debug || *debug
	cfg.Game.Watch = cfg.Game.Watch || *watch
	if *sceneName != "" {
		cfg.Game.Scene = *sceneName
	}

	logger := logging.New(cfg.Game.Debug)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("planetbowl")

	game := NewGame(cfg, logger)
	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		logger.Warn().Err(err).Msg("close watcher")
	}
	if runErr != nil {
		logger.Fatal().Err(runErr).Msg("game stopped")
	}
}
