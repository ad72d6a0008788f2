package potion

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[game]
name = "Cave Story!"
version = "1.2"

[engine]
framerate = 30
debug = true
metrics_interval = "5s"

[renderer]
width = 256
height = 224

[logging]
format = "json"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Game.Name != "Cave Story!" || cfg.Engine.Framerate != 30 || !cfg.Engine.Debug {
		t.Errorf("parsed config = %+v", cfg)
	}
	if cfg.Engine.MetricsInterval != 5*time.Second {
		t.Errorf("MetricsInterval = %v, want 5s", cfg.Engine.MetricsInterval)
	}
	if cfg.Renderer.Width != 256 || cfg.Renderer.Height != 224 {
		t.Errorf("Renderer = %+v", cfg.Renderer)
	}
	// Unset keys keep their defaults.
	if cfg.Window.Width != 1280 || cfg.Logging.Level != "info" || !cfg.Engine.Metrics {
		t.Errorf("defaults lost: window %d level %q metrics %v",
			cfg.Window.Width, cfg.Logging.Level, cfg.Engine.Metrics)
	}
	if got := cfg.CleanName(); got != "CaveStory" {
		t.Errorf("CleanName = %q, want CaveStory", got)
	}
	if got := cfg.WindowTitle(); got != "Cave Story! 1.2" {
		t.Errorf("WindowTitle = %q", got)
	}
	cfg.Window.Title = "Custom"
	if got := cfg.WindowTitle(); got != "Custom" {
		t.Errorf("WindowTitle = %q, want Custom", got)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadConfig(missing) = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[game\nname=", "parse config"},
		{"empty name", "[game]\nname = \"  \"", "game name cannot be empty"},
		{"symbol name", "[game]\nname = \"!!!\"", "letters or digits"},
		{"empty version", "[game]\nversion = \"\"", "game version cannot be empty"},
		{"framerate", "[engine]\nframerate = 0", "framerate must be at least 1"},
		{"window", "[window]\nwidth = -1", "window size must be positive"},
		{"renderer", "[renderer]\nheight = 0", "renderer resolution must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []LoggingConfig{
		{Level: "debug", Format: "console"},
		{Level: "warn", Format: "json"},
		{Level: "bogus", Format: ""},
	}
	for _, cfg := range tests {
		log, err := NewLogger(cfg)
		if err != nil {
			t.Errorf("NewLogger(%+v) = %v", cfg, err)
			continue
		}
		want := cfg.Level
		if want == "bogus" {
			want = "info"
		}
		if got := log.Level().String(); got != want {
			t.Errorf("NewLogger(%+v) level = %q, want %q", cfg, got, want)
		}
	}
}

func TestNewPaths(t *testing.T) {
	p := Paths{Root: filepath.Join("home", ".Game")}
	if got := p.Saves(); got != filepath.Join("home", ".Game", "Saves") {
		t.Errorf("Saves = %q", got)
	}
	if got := p.CrashLogs(); got != filepath.Join("home", ".Game", "CrashLogs") {
		t.Errorf("CrashLogs = %q", got)
	}
	if got := NewPaths("Game").Root; filepath.Base(got) != "Game" && filepath.Base(got) != ".Game" {
		t.Errorf("NewPaths root = %q", got)
	}
}
