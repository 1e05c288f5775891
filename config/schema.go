package config

// Config is the user settings file.
type Config struct {
	Audio AudioConfig `toml:"audio"`
	Game  GameConfig  `toml:"game"`
}

// AudioConfig scales and overrides the music_player prefab.
type AudioConfig struct {
	// MasterVolume multiplies the music player's volume.
	MasterVolume  float64 `toml:"master_volume"`
	EffectsVolume float64 `toml:"effects_volume"`
	Mute          bool    `toml:"mute"`
	// CrossfadeDuration replaces the prefab's duration when positive.
	CrossfadeDuration float64 `toml:"crossfade_duration"`
}

type GameConfig struct {
	Scene string `toml:"scene"`
	Debug bool   `toml:"debug"`
	Watch bool   `toml:"watch"`
}
