package glgpu

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultMaxSetsPerPool is the uniform set capacity of one descriptor pool.
const DefaultMaxSetsPerPool = 65535

// Config is the file form of CreateInfo plus the logging and frame pacing settings
// read by applications. The zero value of a field keeps its default.
type Config struct {
	AppName          string   `toml:"app_name" yaml:"app_name"`
	EngineName       string   `toml:"engine_name" yaml:"engine_name"`
	Validation       bool     `toml:"validation" yaml:"validation"`
	ValidationLayers []string `toml:"validation_layers" yaml:"validation_layers"`
	RequiredFeatures []string `toml:"required_features" yaml:"required_features"`

	MaxSetsPerPool uint32 `toml:"max_sets_per_pool" yaml:"max_sets_per_pool"`
	// SmallAllocationMaxSize rounds up CPU buffers smaller than it so small uploads
	// share allocation sizes.
	SmallAllocationMaxSize uint64 `toml:"small_allocation_max_size" yaml:"small_allocation_max_size"`

	LogLevel string `toml:"log_level" yaml:"log_level"`
	LogFile  string `toml:"log_file" yaml:"log_file"`

	VSync          bool `toml:"vsync" yaml:"vsync"`
	FramesInFlight int  `toml:"frames_in_flight" yaml:"frames_in_flight"`
}

func DefaultConfig() Config {
	return Config{
		AppName:                "Glitch Application",
		EngineName:             "Glitch Engine",
		Validation:             true,
		ValidationLayers:       []string{"VK_LAYER_KHRONOS_validation"},
		RequiredFeatures:       []string{"swapchain", "ensure_surface_support"},
		MaxSetsPerPool:         DefaultMaxSetsPerPool,
		SmallAllocationMaxSize: 4096,
		LogLevel:               "info",
		VSync:                  true,
		FramesInFlight:         2,
	}
}

// LoadConfig reads a .toml, .yaml or .yml file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := DecodeConfig(bytes.NewReader(data), filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("glgpu: config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes r in the format named by ext (".toml", ".yaml" or ".yml").
func DecodeConfig(r io.Reader, ext string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
			return Config{}, err
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if _, err := ParseFeatures(c.RequiredFeatures); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.FramesInFlight < 0 {
		return fmt.Errorf("frames_in_flight must not be negative, got %d", c.FramesInFlight)
	}
	return nil
}

// CreateInfo converts the config for Create. The window handles are left for the caller.
func (c Config) CreateInfo() (CreateInfo, error) {
	features, err := ParseFeatures(c.RequiredFeatures)
	if err != nil {
		return CreateInfo{}, err
	}
	return CreateInfo{
		API:              APIVulkan,
		RequiredFeatures: features,
		AppName:          c.AppName,
		EngineName:       c.EngineName,
		Validation:       c.Validation,
		ValidationLayers: c.ValidationLayers,
		MaxSetsPerPool:   c.MaxSetsPerPool,

		SmallAllocationMaxSize: c.SmallAllocationMaxSize,
	}, nil
}

// SetupLogging installs the package logger described by LogLevel and LogFile. The
// returned closer must be closed on exit; it is a no-op when logging to stderr.
func (c Config) SetupLogging() (io.Closer, error) {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if c.LogFile == "" {
		SetLogger(NewLogger(os.Stderr, level))
		return io.NopCloser(nil), nil
	}
	l, f, err := OpenLogFile(c.LogFile, level)
	if err != nil {
		return nil, err
	}
	SetLogger(l)
	return f, nil
}
