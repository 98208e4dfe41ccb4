package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the demo's startup configuration.
type Config struct {
	Window WindowConfig `toml:"window" yaml:"window"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Camera CameraConfig `toml:"camera" yaml:"camera"`
	Assets AssetsConfig `toml:"assets" yaml:"assets"`
}

type WindowConfig struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Title  string `toml:"title" yaml:"title"`
	VSync  bool   `toml:"vsync" yaml:"vsync"`
}

type RenderConfig struct {
	FPSLimit int    `toml:"fps_limit" yaml:"fps_limit"`
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

type CameraConfig struct {
	TravelSpeed      float32 `toml:"travel_speed" yaml:"travel_speed"`
	MouseSensitivity float32 `toml:"mouse_sensitivity" yaml:"mouse_sensitivity"`
}

// AssetsConfig holds asset locations. A leading ~ is expanded to the home
// directory; relative paths are resolved against the config file's directory.
type AssetsConfig struct {
	ShaderDir   string `toml:"shader_dir" yaml:"shader_dir"`
	ModelDir    string `toml:"model_dir" yaml:"model_dir"`
	Scene       string `toml:"scene" yaml:"scene"`
	CubeTexture string `toml:"cube_texture" yaml:"cube_texture"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{Width: 800, Height: 600, Title: "mini-render"},
		Render: RenderConfig{FPSLimit: 0, LogLevel: "info"},
		Camera: CameraConfig{TravelSpeed: 10, MouseSensitivity: 0.1},
		Assets: AssetsConfig{
			ModelDir:    "assets",
			Scene:       "assets/scenes/demo.json",
			CubeTexture: "assets/textures/seafloor.png",
		},
	}
}

// Load reads the file at path over Default. Files ending in .yaml or .yml are
// read as YAML, anything else as TOML. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	path, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	if err := decode(path, data, &cfg); err != nil {
		return cfg, err
	}
	// A second pass over an empty Config tells which asset paths the file
	// set. Defaults stay relative to the working directory.
	var set Config
	if err := decode(path, data, &set); err != nil {
		return cfg, err
	}
	if err := cfg.Assets.resolve(set.Assets, filepath.Dir(path)); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return nil
}

// resolve expands and re-roots on base the paths that are non-empty in set.
func (a *AssetsConfig) resolve(set AssetsConfig, base string) error {
	fields := []struct {
		set string
		p   *string
	}{
		{set.ShaderDir, &a.ShaderDir},
		{set.ModelDir, &a.ModelDir},
		{set.Scene, &a.Scene},
		{set.CubeTexture, &a.CubeTexture},
	}
	for _, f := range fields {
		if f.set == "" {
			continue
		}
		expanded, err := homedir.Expand(*f.p)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(base, expanded)
		}
		*f.p = expanded
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Render.FPSLimit < 0 || c.Render.FPSLimit > MaxFPSLimit {
		return fmt.Errorf("config: fps_limit %d out of range [0, %d]", c.Render.FPSLimit, MaxFPSLimit)
	}
	if c.Camera.TravelSpeed < 0 || c.Camera.MouseSensitivity < 0 {
		return errors.New("config: camera speeds must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Render.LogLevel. An empty level is info.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Render.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Render.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}
