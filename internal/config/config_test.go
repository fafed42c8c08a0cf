package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/art
brush_library = ~/brushes.toml

[canvas]
width = 800
height = 600
background = transparent

[brush]
default = charcoal
color = crimson
size = 12.5

[grid]
visible = true
size = 25
color = #336699

[history]
limit = 10

[notify]
export = true
copy = false
import = true

[theme.my_custom_theme]
Backdrop = #111111
HUDText: #FFFFFF
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/art" {
		t.Errorf("Expected save_dir '/tmp/art', got '%s'", cfg.SaveDir)
	}
	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 600 {
		t.Errorf("canvas size = %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Canvas.Background.A != 0 {
		t.Errorf("expected a transparent background, got %v", cfg.Canvas.Background)
	}
	if cfg.Brush.Default != "charcoal" || cfg.Brush.Size != 12.5 {
		t.Errorf("brush = %+v", cfg.Brush)
	}
	if cfg.Brush.Color != (color.RGBA{0xdc, 0x14, 0x3c, 0xff}) {
		t.Errorf("brush color = %v", cfg.Brush.Color)
	}
	if !cfg.Grid.Visible || cfg.Grid.Size != 25 || cfg.Grid.Color != (color.RGBA{0x33, 0x66, 0x99, 0xff}) {
		t.Errorf("grid = %+v", cfg.Grid)
	}
	if cfg.History.Limit != 10 {
		t.Errorf("history limit = %d", cfg.History.Limit)
	}
	if !cfg.Notify.Export || cfg.Notify.Copy || !cfg.Notify.Import {
		t.Errorf("notify = %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Backdrop != (color.RGBA{0x11, 0x11, 0x11, 0xff}) {
		t.Errorf("Unexpected Backdrop color: %+v", th.Backdrop)
	}
	got, err := cfg.ResolveTheme(nil)
	if err != nil || got != th {
		t.Errorf("ResolveTheme = %v, %v", got, err)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"[canvas]\nwidth = wide\n",
		"[brush]\nsize = 0\n",
		"[grid]\ncolor = #zzzzzz\n",
		"[notify]\nexport = maybe\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse(%q) succeeded", input)
		}
	}
}

func TestDefaults(t *testing.T) {
	cfg := New()
	if cfg.Canvas.Width != 1024 || cfg.Canvas.Height != 768 {
		t.Errorf("default canvas = %+v", cfg.Canvas)
	}
	if cfg.Brush.Default != "round" || cfg.Brush.Size != 20 {
		t.Errorf("default brush = %+v", cfg.Brush)
	}
	if cfg.History.Limit != 30 {
		t.Errorf("default history = %d", cfg.History.Limit)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/art

[canvas]
background = #fafafa

[grid]
visible = true

[notify]
export = true
copy = true
import = false

[theme.custom]
Name = custom
Backdrop = #000000
HUDPanel = #00000080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Canvas != cfg2.Canvas || cfg.Grid != cfg2.Grid || cfg.Brush != cfg2.Brush {
		t.Errorf("section mismatch:\n%+v\n%+v", cfg, cfg2)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "art.rc")
	if err := os.WriteFile(path, []byte("[history]\nlimit = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader("v1.0.0", path)
	if got := l.GetConfigPath(); got != path {
		t.Errorf("GetConfigPath = %q", got)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.History.Limit != 5 {
		t.Errorf("limit = %d", cfg.History.Limit)
	}
	if l.DefaultPath() != path {
		t.Errorf("DefaultPath = %q", l.DefaultPath())
	}
}

func TestSavePath(t *testing.T) {
	cfg := New()
	if got := cfg.SavePath("a.png"); got != "a.png" {
		t.Errorf("no save dir: %q", got)
	}
	cfg.SaveDir = "/srv/art"
	if got := cfg.SavePath("a.png"); got != filepath.Join("/srv/art", "a.png") {
		t.Errorf("SavePath = %q", got)
	}
}
