package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeRecorder(); err != nil {
		return err
	}
	c.normalizeCategories()
	c.normalizeLogging()
	c.normalizeAsset()
	return nil
}

func (c *Config) normalizeRecorder() error {
	var err error
	c.Recorder.SQLitePath = strings.TrimSpace(c.Recorder.SQLitePath)
	if c.Recorder.SQLitePath, err = ExpandPath(c.Recorder.SQLitePath); err != nil {
		return fmt.Errorf("recorder.sqlite_path: %w", err)
	}
	c.Recorder.MetricsAddr = strings.TrimSpace(c.Recorder.MetricsAddr)
	if c.Recorder.MetricsAddr == "" {
		c.Recorder.MetricsAddr = defaultMetricsAddr
	}
	return nil
}

func (c *Config) normalizeCategories() {
	if len(c.ABR.Categories) == 0 {
		c.ABR.Categories = map[string]Category{}
		return
	}
	normalized := make(map[string]Category, len(c.ABR.Categories))
	for name, cat := range c.ABR.Categories {
		normalized[strings.ToLower(strings.TrimSpace(name))] = cat
	}
	c.ABR.Categories = normalized
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" || c.Logging.Format == "console" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeAsset() {
	if c.Asset.AudioSampleBatch == 0 {
		c.Asset.AudioSampleBatch = defaultAudioSampleBatch
	}
	if c.Asset.VideoSampleBatch == 0 {
		c.Asset.VideoSampleBatch = defaultVideoSampleBatch
	}
}
