package canopy

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("size = %vx%v, want 1280x720", cfg.Width, cfg.Height)
	}
	if cfg.BoundsMargin != defaultBoundsMargin || !cfg.OffscreenCache || cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseConfigOverridesDefaults(t *testing.T) {
	data := `
width = 800
height = 600
offscreen_cache = false
log_level = "debug"
`
	cfg, err := ParseConfig([]byte(data))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 600 || cfg.OffscreenCache {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.BoundsMargin != defaultBoundsMargin {
		t.Errorf("BoundsMargin = %v, want default %v", cfg.BoundsMargin, defaultBoundsMargin)
	}
	lvl, err := cfg.Level()
	if err != nil || lvl != log.DebugLevel {
		t.Errorf("Level = %v, %v", lvl, err)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "width = ", "parse config"},
		{"unknown key", "colour = 1", `unknown config key "colour"`},
		{"zero width", "width = 0", "invalid viewport"},
		{"negative margin", "bounds_margin = -1", "invalid bounds_margin"},
		{"bad level", `log_level = "loud"`, "invalid log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestConfigLevelEmptyIsInfo(t *testing.T) {
	lvl, err := Config{}.Level()
	if err != nil || lvl != log.InfoLevel {
		t.Errorf("Level = %v, %v", lvl, err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "canopy.toml")
	if err := os.WriteFile(path, []byte("width = 320\nheight = 240\ndebug = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 240 || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file err = %v, want fs.ErrNotExist", err)
	}
}
