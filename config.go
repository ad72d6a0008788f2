package potion

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"
)

// Config is the engine configuration, usually loaded from a TOML file.
type Config struct {
	Game     GameConfig     `toml:"game"`
	Engine   EngineConfig   `toml:"engine"`
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Logging  LoggingConfig  `toml:"logging"`
}

type GameConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type EngineConfig struct {
	Framerate       int           `toml:"framerate"`
	Debug           bool          `toml:"debug"`
	Metrics         bool          `toml:"metrics"`
	LogMetrics      bool          `toml:"log_metrics"`
	MetricsInterval time.Duration `toml:"metrics_interval"`
	ScreenshotDir   string        `toml:"screenshot_dir"` // empty = "screenshots"
}

type WindowConfig struct {
	Title     string `toml:"title"` // empty = "<name> <version>"
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

// RendererConfig is the logical resolution the game renders at.
type RendererConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// LoadConfig reads a TOML file over DefaultConfig and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Game: GameConfig{
			Name:    "Potion",
			Version: "0.1.0",
		},
		Engine: EngineConfig{
			Framerate:       60,
			Metrics:         true,
			LogMetrics:      true,
			MetricsInterval: 3 * time.Second,
		},
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Renderer: RendererConfig{
			Width:  320,
			Height: 180,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	c.Game.Name = strings.TrimSpace(c.Game.Name)
	c.Game.Version = strings.TrimSpace(c.Game.Version)
	switch {
	case c.Game.Name == "":
		return errors.New("game name cannot be empty")
	case c.CleanName() == "":
		return errors.New("game name must contain letters or digits")
	case c.Game.Version == "":
		return errors.New("game version cannot be empty")
	case c.Engine.Framerate < 1:
		return fmt.Errorf("framerate must be at least 1, got %d", c.Engine.Framerate)
	case c.Window.Width < 1 || c.Window.Height < 1:
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Renderer.Width < 1 || c.Renderer.Height < 1:
		return fmt.Errorf("renderer resolution must be positive, got %dx%d", c.Renderer.Width, c.Renderer.Height)
	}
	return nil
}

// CleanName is the game name with everything but letters and digits
// removed, for use in file and folder names.
func (c *Config) CleanName() string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, c.Game.Name)
}

// WindowTitle returns the configured title, or "<name> <version>".
func (c *Config) WindowTitle() string {
	if c.Window.Title != "" {
		return c.Window.Title
	}
	return c.Game.Name + " " + c.Game.Version
}
