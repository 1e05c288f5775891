package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Audio.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}

	return errors.Join(errs...)
}

func (c *AudioConfig) Validate() error {
	var errs []error
	if c.MasterVolume < 0 || c.MasterVolume > 1 {
		errs = append(errs, errors.New("master_volume must be between 0 and 1"))
	}
	if c.EffectsVolume < 0 || c.EffectsVolume > 1 {
		errs = append(errs, errors.New("effects_volume must be between 0 and 1"))
	}
	if c.CrossfadeDuration < 0 {
		errs = append(errs, errors.New("crossfade_duration must be non-negative"))
	}
	return errors.Join(errs...)
}
