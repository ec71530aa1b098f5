package island

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("window = %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if len(cfg.Camera.StaticViews) != 3 {
		t.Errorf("static views = %d, want 3", len(cfg.Camera.StaticViews))
	}
	if cfg.Camera.Limits != DefaultLimits() {
		t.Errorf("limits = %+v, want %+v", cfg.Camera.Limits, DefaultLimits())
	}
	if cfg.Lighting.Presets.Campfire.IsPoint() != true || cfg.Lighting.Presets.Day.IsPoint() {
		t.Error("campfire should be a point light and day a directional one")
	}
	if len(cfg.Keys.Forward) != 1 || cfg.Keys.Forward[0] != ebiten.KeyW {
		t.Errorf("forward keys = %v", cfg.Keys.Forward)
	}
	if cfg.Keys.Quit[0] != ebiten.KeyEscape {
		t.Errorf("quit keys = %v", cfg.Keys.Quit)
	}
}

func TestDefaultConfigIsFresh(t *testing.T) {
	a := DefaultConfig()
	a.Window.Width = 1
	a.Camera.FlightPath[0] = mgl64.Vec3{}
	b := DefaultConfig()
	if b.Window.Width != 1280 || b.Camera.FlightPath[0] == (mgl64.Vec3{}) {
		t.Error("DefaultConfig shares state between calls")
	}
}

func TestParseConfigOverlay(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[window]
title = "Test Island"

[camera]
pan_angle = 5.0

[keys]
forward = ["ArrowUp", "W"]
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Window.Title != "Test Island" || cfg.Window.Width != 1280 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Camera.PanAngle != 5 || cfg.Camera.TiltAngle != 2 {
		t.Errorf("pan/tilt = %v/%v", cfg.Camera.PanAngle, cfg.Camera.TiltAngle)
	}
	want := []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}
	if len(cfg.Keys.Forward) != 2 || cfg.Keys.Forward[0] != want[0] || cfg.Keys.Forward[1] != want[1] {
		t.Errorf("forward = %v, want %v", cfg.Keys.Forward, want)
	}
	if len(cfg.Keys.Backward) != 1 {
		t.Errorf("untouched bindings changed: %v", cfg.Keys.Backward)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"syntax", "[window\nwidth = 3", "parse config"},
		{"bad key", "[keys]\nforward = [\"NoSuchKey\"]", "parse config"},
		{"window", "[window]\nwidth = 0", "window size"},
		{"near far", "[projection]\nnear = 10.0\nfar = 1.0", "projection"},
		{"flight", "[camera]\nflight_path = [[0.0, 0.0, 0.0]]", "flight_path"},
		{"static", "[[camera.static_views]]\nposition = [0.0, 0.0, 0.0]", "static_views"},
		{"fish", "[[scene.fish]]\npath = []", "scene.fish"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.toml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Width = 0
	cfg.Scene.Ship.Path = nil
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"window size", "scene.ship.path"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "island.toml")
	if err := os.WriteFile(path, []byte("debug = true\n[log]\nlevel = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Debug || cfg.Log.Level != "debug" {
		t.Errorf("Debug = %v, level = %q", cfg.Debug, cfg.Log.Level)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Title != "Island" {
		t.Errorf("Title = %q, want default", cfg.Window.Title)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestSizeAndDirectionFallbacks(t *testing.T) {
	if sizeOr(mgl64.Vec3{}) != (mgl64.Vec3{1, 1, 1}) {
		t.Error("zero size should fall back to (1,1,1)")
	}
	if sizeOr(mgl64.Vec3{2, 3, 4}) != (mgl64.Vec3{2, 3, 4}) {
		t.Error("non-zero size should pass through")
	}
	if directionOr(mgl64.Vec3{}) != (mgl64.Vec3{0, 0, -1}) {
		t.Error("zero direction should fall back to -z")
	}
}
