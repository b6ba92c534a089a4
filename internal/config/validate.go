package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Crossing quality bounds are
// not an error; the engine corrects them at decision time.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateABR(); err != nil {
		return err
	}
	if err := c.validateAsset(); err != nil {
		return err
	}
	if err := c.validateRetry(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateABR() error {
	if c.ABR.CycleTimeoutMS < 0 {
		return errors.New("abr.cycle_timeout_ms must be >= 0")
	}
	for name, cat := range c.ABR.Categories {
		if name == "" {
			return errors.New("abr.categories: empty category name")
		}
		if cat.MinBandwidth != nil && *cat.MinBandwidth < 0 {
			return fmt.Errorf("abr.categories.%s.min_bandwidth must be >= 0", name)
		}
		if cat.MaxBandwidth != nil && *cat.MaxBandwidth < 0 {
			return fmt.Errorf("abr.categories.%s.max_bandwidth must be >= 0", name)
		}
	}
	return nil
}

func (c *Config) validateAsset() error {
	if c.Asset.AudioSampleBatch < 1 {
		return errors.New("asset.audio_sample_batch must be >= 1")
	}
	if c.Asset.VideoSampleBatch < 1 {
		return errors.New("asset.video_sample_batch must be >= 1")
	}
	return nil
}

func (c *Config) validateRetry() error {
	if c.Retry.MaxAttempts < 1 {
		return errors.New("retry.max_attempts must be >= 1")
	}
	if c.Retry.InitialIntervalMS <= 0 {
		return errors.New("retry.initial_interval_ms must be > 0")
	}
	if c.Retry.MaxIntervalMS < c.Retry.InitialIntervalMS {
		return errors.New("retry.max_interval_ms must be >= retry.initial_interval_ms")
	}
	return nil
}
