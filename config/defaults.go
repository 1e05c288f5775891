package config

// Default returns a Config populated with the built-in settings.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			MasterVolume:  1,
			EffectsVolume: 1,
		},
		Game: GameConfig{
			Scene: "bowl.yaml",
		},
	}
}

// ApplyDefaults fills settings that have no meaningful zero value.
func (c *Config) ApplyDefaults() {
	if c.Game.Scene == "" {
		c.Game.Scene = Default().Game.Scene
	}
}
