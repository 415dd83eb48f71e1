// Package config loads the viewer configuration from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dcmview/domain/metadata"
	"dcmview/domain/privatetag"
	"dcmview/infrastructure/logging"

	"github.com/suyashkumar/dicom/pkg/tag"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "DCMVIEW_CONFIG"

// Config is the resolved viewer configuration.
type Config struct {
	Window      WindowConfig
	Metadata    metadata.Options
	PrivateTags privatetag.Location
	Logging     *logging.Config
}

// WindowConfig holds the initial window geometry.
type WindowConfig struct {
	Width  float32
	Height float32
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1200,
			Height: 800,
		},
		Metadata:    metadata.DefaultOptions(),
		PrivateTags: privatetag.DefaultLocation(),
		Logging:     logging.DefaultConfig(),
	}
}

// DefaultPath returns the config file location: $DCMVIEW_CONFIG if set,
// otherwise dcmview/config.yaml under os.UserConfigDir.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dcmview", "config.yaml")
}

// yamlConfig is the on-disk layout. Pointer fields distinguish unset
// keys from zero values.
type yamlConfig struct {
	Window     yamlWindow     `yaml:"window"`
	Metadata   yamlMetadata   `yaml:"metadata"`
	PrivateTag yamlPrivateTag `yaml:"private_tag"`
	Log        yamlLog        `yaml:"log"`
}

type yamlWindow struct {
	Width  *float32 `yaml:"width"`
	Height *float32 `yaml:"height"`
}

type yamlMetadata struct {
	ShortenLongValues *bool `yaml:"shorten_long_values"`
	MaxValueLength    *int  `yaml:"max_value_length"`
}

type yamlPrivateTag struct {
	PerFrameSequence string `yaml:"per_frame_sequence"`
	NestedSequence   string `yaml:"nested_sequence"`
	Leaf             string `yaml:"leaf"`
}

type yamlLog struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Dir       string `yaml:"dir"`
	FileName  string `yaml:"file_name"`
	AddSource *bool  `yaml:"add_source"`
}

// Load reads the config file at path on top of DefaultConfig.
// A missing file or an empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse applies YAML data onto cfg. Keys absent from data keep their
// current values.
func Parse(data []byte, cfg *Config) error {
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return err
	}

	if yc.Window.Width != nil {
		cfg.Window.Width = *yc.Window.Width
	}
	if yc.Window.Height != nil {
		cfg.Window.Height = *yc.Window.Height
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %vx%v", cfg.Window.Width, cfg.Window.Height)
	}

	if yc.Metadata.ShortenLongValues != nil {
		cfg.Metadata.ShortenLongValues = *yc.Metadata.ShortenLongValues
	}
	if yc.Metadata.MaxValueLength != nil {
		cfg.Metadata.MaxValueLength = *yc.Metadata.MaxValueLength
	}
	if cfg.Metadata.ShortenLongValues && cfg.Metadata.MaxValueLength <= 0 {
		return fmt.Errorf("max_value_length must be positive when shortening, got %d", cfg.Metadata.MaxValueLength)
	}

	for _, t := range []struct {
		value string
		dst   *tag.Tag
	}{
		{yc.PrivateTag.PerFrameSequence, &cfg.PrivateTags.PerFrameSequence},
		{yc.PrivateTag.NestedSequence, &cfg.PrivateTags.NestedSequence},
		{yc.PrivateTag.Leaf, &cfg.PrivateTags.Leaf},
	} {
		if t.value == "" {
			continue
		}
		parsed, err := privatetag.ParseTag(t.value)
		if err != nil {
			return err
		}
		*t.dst = parsed
	}

	if cfg.Logging == nil {
		cfg.Logging = logging.DefaultConfig()
	}
	if yc.Log.Level != "" {
		level, err := logging.ParseLevel(yc.Log.Level)
		if err != nil {
			return err
		}
		cfg.Logging.Level = level
	}
	if yc.Log.Format != "" {
		format, err := logging.ParseFormat(yc.Log.Format)
		if err != nil {
			return err
		}
		cfg.Logging.Format = format
	}
	if yc.Log.Dir != "" {
		cfg.Logging.Dir = yc.Log.Dir
	}
	if yc.Log.FileName != "" {
		cfg.Logging.FileName = yc.Log.FileName
	}
	if yc.Log.AddSource != nil {
		cfg.Logging.AddSource = *yc.Log.AddSource
	}

	return nil
}
