package main

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/darrow/internal/brush"
	"github.com/example/darrow/internal/config"
	"github.com/example/darrow/internal/imageio"
	"github.com/example/darrow/internal/notify"
)

func testRoot(t *testing.T) *root {
	t.Helper()
	cfg := config.New()
	cfg.BrushLibrary = filepath.Join(t.TempDir(), "brushes.toml")
	cfg.Canvas.Width = 100
	cfg.Canvas.Height = 100
	return newRootWith(cfg, notify.New(notify.DefaultPreferences()))
}

// darkPixels counts pixels noticeably darker than white.
func darkPixels(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, a := img.At(x, y).RGBA()
			if a > 0 && r < 0xc000 {
				n++
			}
		}
	}
	return n
}

func TestParseStrokes(t *testing.T) {
	strokes, err := parseStrokes([]string{"stroke", "1,2", "3,4,0.5", "stroke", "5,6"})
	if err != nil {
		t.Fatalf("parseStrokes: %v", err)
	}
	if len(strokes) != 2 {
		t.Fatalf("expected 2 strokes, got %d", len(strokes))
	}
	if len(strokes[0]) != 2 || len(strokes[1]) != 1 {
		t.Fatalf("unexpected stroke lengths %d and %d", len(strokes[0]), len(strokes[1]))
	}
	if p := strokes[0][0]; p.X != 1 || p.Y != 2 || p.Pen {
		t.Fatalf("unexpected first point %+v", p)
	}
	if p := strokes[0][1]; !p.Pen || p.Pressure != 0.5 {
		t.Fatalf("expected pen pressure 0.5, got %+v", p)
	}
}

func TestParseStrokesWithoutKeyword(t *testing.T) {
	strokes, err := parseStrokes([]string{"1,1", "9,9"})
	if err != nil {
		t.Fatalf("parseStrokes: %v", err)
	}
	if len(strokes) != 1 || len(strokes[0]) != 2 {
		t.Fatalf("expected one stroke of two points, got %v", strokes)
	}
}

func TestParseStrokesErrors(t *testing.T) {
	cases := [][]string{
		{"stroke", "stroke", "1,1"},
		{"stroke"},
		{"1"},
		{"a,b"},
		{"1,1,2"},
		{"1,1,1,1"},
	}
	for _, args := range cases {
		if _, err := parseStrokes(args); err == nil {
			t.Errorf("parseStrokes(%q): expected error", args)
		}
	}
	if _, err := parseStrokes([]string{"stroke"}); !errors.Is(err, errEmptyStroke) {
		t.Errorf("expected errEmptyStroke, got %v", err)
	}
}

func TestRenderRequiresOutput(t *testing.T) {
	_, err := parseRenderCmd([]string{"stroke", "1,1", "5,5"}, testRoot(t))
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRenderWritesPNG(t *testing.T) {
	r := testRoot(t)
	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseRenderCmd([]string{"-o", out, "-size", "10", "-color", "black", "stroke", "10,50", "50,50", "90,50"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img, err := imageio.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got := img.Bounds().Size(); got != (image.Point{100, 100}) {
		t.Fatalf("expected 100x100 image, got %v", got)
	}
	if darkPixels(img) == 0 {
		t.Fatalf("expected the stroke to leave ink")
	}
	r0, _, _, _ := img.At(50, 5).RGBA()
	if r0 != 0xffff {
		t.Fatalf("expected untouched background far from the stroke, got red %#x", r0)
	}
}

func TestRenderToStdout(t *testing.T) {
	r := testRoot(t)
	cmd, err := parseRenderCmd([]string{"-o", "-", "-width", "40", "-height", "30"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	cmd.stdout = &buf
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Size(); got != (image.Point{40, 30}) {
		t.Fatalf("expected 40x30, got %v", got)
	}
	if darkPixels(img) != 0 {
		t.Fatalf("expected a blank canvas")
	}
}

func TestRenderEraserOnTransparentCanvas(t *testing.T) {
	r := testRoot(t)
	out := filepath.Join(t.TempDir(), "erased.png")
	cmd, err := parseRenderCmd([]string{"-o", out, "-background", "transparent", "-eraser", "stroke", "10,10", "90,90"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img, err := imageio.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if _, _, _, a := img.At(50, 50).RGBA(); a != 0 {
		t.Fatalf("expected a transparent canvas, got alpha %#x", a)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	for _, args := range [][]string{
		{"-o", "x.png", "-color", "nope"},
		{"-o", "x.png", "-symmetry", "spiral"},
		{"-o", "x.png", "-brush", "missing"},
		{"-o", "x.png", "-background", "#zz"},
	} {
		cmd, err := parseRenderCmd(args, testRoot(t))
		if err != nil {
			t.Fatalf("parse %q: %v", args, err)
		}
		if err := cmd.Run(); err == nil {
			t.Errorf("%q: expected error", args)
		}
	}
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	err := testRoot(t).Run([]string{"bogus"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "Usage: darrow") {
		t.Fatalf("expected root help, got %q", uerr.Error())
	}
}

func TestHelpTopics(t *testing.T) {
	r := testRoot(t)
	for _, topic := range []string{"", "paint", "render", "brushes", "config", "version", "help"} {
		var args []string
		if topic != "" {
			args = []string{topic}
		}
		h, err := parseHelpCmd(args, r)
		if err != nil {
			t.Fatalf("parse help %q: %v", topic, err)
		}
		subject, err := h.subject()
		if err != nil {
			t.Fatalf("subject %q: %v", topic, err)
		}
		text, err := (&UsageError{of: subject}).renderHelp()
		if err != nil {
			t.Fatalf("render help %q: %v", topic, err)
		}
		if !strings.HasPrefix(text, "Usage: darrow") {
			t.Errorf("help %q: unexpected text %q", topic, text)
		}
	}
	h, err := parseHelpCmd([]string{"nope"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := h.subject(); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}

func TestRenderHelpListsFlags(t *testing.T) {
	text, err := (&UsageError{of: newRenderCmd(testRoot(t))}).renderHelp()
	if err != nil {
		t.Fatalf("render help: %v", err)
	}
	for _, want := range []string{"-brush", "-symmetry", "-seed", "stroke x,y"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected help to mention %q", want)
		}
	}
}

func TestBrushesAddListDelete(t *testing.T) {
	r := testRoot(t)
	preset := brush.PresetNames()[0]

	var out bytes.Buffer
	cmd, err := parseBrushesCmd([]string{"-add", preset, "-name", "Mine"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmd.out = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.HasPrefix(out.String(), "saved ") || !strings.Contains(out.String(), "(Mine)") {
		t.Fatalf("unexpected add output %q", out.String())
	}
	id := strings.Fields(out.String())[1]

	lib := brush.NewLibrary()
	if err := lib.LoadFile(r.config.BrushLibraryPath()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lib.Custom()) != 1 || lib.Custom()[0].Name != "Mine" {
		t.Fatalf("expected one saved brush named Mine, got %v", lib.Custom())
	}

	out.Reset()
	cmd, _ = parseBrushesCmd(nil, r)
	cmd.out = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), id) {
		t.Fatalf("expected list to include %s, got %q", id, out.String())
	}
	if !strings.Contains(out.String(), "* "+brush.DefaultID) {
		t.Fatalf("expected default brush to be marked, got %q", out.String())
	}

	out.Reset()
	cmd, _ = parseBrushesCmd([]string{"-delete", id}, r)
	cmd.out = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	lib = brush.NewLibrary()
	if err := lib.LoadFile(r.config.BrushLibraryPath()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(lib.Custom()) != 0 {
		t.Fatalf("expected no custom brushes, got %d", len(lib.Custom()))
	}
}

func TestBrushesRefusesBuiltinDelete(t *testing.T) {
	cmd, err := parseBrushesCmd([]string{"-delete", brush.DefaultID}, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); !errors.Is(err, brush.ErrBuiltin) {
		t.Fatalf("expected ErrBuiltin, got %v", err)
	}
}

func TestConfigPrintAndSave(t *testing.T) {
	r := testRoot(t)
	var out bytes.Buffer
	cmd, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmd.out = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out.String(), "[canvas]") {
		t.Fatalf("expected canvas section, got %q", out.String())
	}

	path := filepath.Join(t.TempDir(), "nested", "config.rc")
	cmd, err = parseConfigCmd([]string{"-file", path, "save"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open saved config: %v", err)
	}
	defer f.Close()
	cfg, err := config.Parse(f)
	if err != nil {
		t.Fatalf("parse saved config: %v", err)
	}
	if cfg.Canvas.Width != 100 {
		t.Fatalf("expected width 100 to round trip, got %d", cfg.Canvas.Width)
	}
}

func TestConfigNeedsSubcommand(t *testing.T) {
	_, err := parseConfigCmd(nil, testRoot(t))
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}
