package config

const (
	defaultConfigPath       = "~/.config/moqabr/config.toml"
	defaultLogFormat        = "text"
	defaultLogLevel         = "info"
	defaultAutoSwitch       = true
	defaultAudioSampleBatch = 1
	defaultVideoSampleBatch = 1
	defaultMetricsAddr      = "127.0.0.1:9464"
	defaultRetryMaxAttempts = 5
	defaultRetryInitialMS   = 100
	defaultRetryMaxInterval = 2000
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		ABR: ABR{
			AutoSwitch: defaultAutoSwitch,
			Categories: map[string]Category{},
		},
		Asset: Asset{
			AudioSampleBatch: defaultAudioSampleBatch,
			VideoSampleBatch: defaultVideoSampleBatch,
		},
		Recorder: Recorder{
			MetricsAddr: defaultMetricsAddr,
		},
		Retry: Retry{
			MaxAttempts:       defaultRetryMaxAttempts,
			InitialIntervalMS: defaultRetryInitialMS,
			MaxIntervalMS:     defaultRetryMaxInterval,
		},
	}
}
