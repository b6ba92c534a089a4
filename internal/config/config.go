package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/Eyevinn/moqabr/internal/abr"
)

//go:embed sample_config.toml
var sampleConfig string

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Category holds the decision policy of one category. Unset bounds are unbounded.
type Category struct {
	MinQuality            *int     `toml:"min_quality"`
	MaxQuality            *int     `toml:"max_quality"`
	MinBandwidth          *float64 `toml:"min_bandwidth"`
	MaxBandwidth          *float64 `toml:"max_bandwidth"`
	SwitchUpIncrementally bool     `toml:"switch_up_incrementally"`
}

// ABR contains engine settings.
type ABR struct {
	AutoSwitch     bool                `toml:"auto_switch"`
	CycleTimeoutMS int                 `toml:"cycle_timeout_ms"`
	Categories     map[string]Category `toml:"categories"`
}

// Asset contains settings for reading fragmented MP4 ladders.
type Asset struct {
	AudioSampleBatch int `toml:"audio_sample_batch"`
	VideoSampleBatch int `toml:"video_sample_batch"`
}

// Recorder contains configuration for boundary and switch recording.
type Recorder struct {
	SQLitePath  string `toml:"sqlite_path"`
	Prometheus  bool   `toml:"prometheus"`
	MetricsAddr string `toml:"metrics_addr"`
}

// Retry contains the backoff policy used when the catalog is unavailable.
type Retry struct {
	MaxAttempts       int `toml:"max_attempts"`
	InitialIntervalMS int `toml:"initial_interval_ms"`
	MaxIntervalMS     int `toml:"max_interval_ms"`
}

// Config encapsulates all configuration values for moqabr.
type Config struct {
	Logging  Logging  `toml:"logging"`
	ABR      ABR      `toml:"abr"`
	Asset    Asset    `toml:"asset"`
	Recorder Recorder `toml:"recorder"`
	Retry    Retry    `toml:"retry"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and category names normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := ExpandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("moqabr.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ParamsFor returns the configured policy of category.
func (c *Config) ParamsFor(category abr.Category) abr.CategoryParams {
	cat, ok := c.ABR.Categories[string(category)]
	if !ok {
		return abr.CategoryParams{}
	}
	return abr.CategoryParams{
		MinQuality:            cat.MinQuality,
		MaxQuality:            cat.MaxQuality,
		MinBandwidth:          cat.MinBandwidth,
		MaxBandwidth:          cat.MaxBandwidth,
		SwitchUpIncrementally: cat.SwitchUpIncrementally,
	}
}

// CycleTimeout returns the per-call Decide timeout, or 0 for none.
func (c *Config) CycleTimeout() time.Duration {
	return time.Duration(c.ABR.CycleTimeoutMS) * time.Millisecond
}

// ExpandPath expands a leading ~ and returns the absolute form of pathValue.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
