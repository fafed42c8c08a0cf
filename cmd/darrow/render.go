package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/example/darrow/internal/clipboard"
	"github.com/example/darrow/internal/document"
	"github.com/example/darrow/internal/imageio"
	"github.com/example/darrow/internal/paint"
	"github.com/example/darrow/internal/texture"
	"github.com/example/darrow/internal/theme"
	"github.com/example/darrow/internal/viewport"
)

// renderCmd paints strokes onto a new canvas without opening a window.
type renderCmd struct {
	output      string
	width       int
	height      int
	background  string
	imports     stringList
	brushID     string
	colorSpec   string
	size        float64
	eraser      bool
	soft        bool
	format      string
	symmetry    string
	seed        uint64
	toClipboard bool
	strokes     [][]document.Pointer
	stdout      io.Writer
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func newRenderCmd(r *root) *renderCmd {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	c := &renderCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "o", "", "output file, or - for stdout")
	fs.IntVar(&c.width, "width", r.config.Canvas.Width, "canvas width in pixels")
	fs.IntVar(&c.height, "height", r.config.Canvas.Height, "canvas height in pixels")
	fs.StringVar(&c.background, "background", theme.Hex(r.config.Canvas.Background), "canvas background colour or \"transparent\"")
	fs.Var(&c.imports, "import", "image file or data: URL to add as a layer before painting (repeatable)")
	fs.StringVar(&c.brushID, "brush", r.config.Brush.Default, "brush id")
	fs.StringVar(&c.colorSpec, "color", theme.Hex(r.config.Brush.Color), "brush colour")
	fs.Float64Var(&c.size, "size", r.config.Brush.Size, "brush diameter in pixels")
	fs.BoolVar(&c.eraser, "eraser", false, "erase instead of painting")
	fs.BoolVar(&c.soft, "soft", false, "feather the eraser edge")
	fs.StringVar(&c.format, "format", "", "output format for stdout (png or pdf)")
	fs.StringVar(&c.symmetry, "symmetry", "none", "symmetry mode (none, vertical, horizontal, radial)")
	fs.Uint64Var(&c.seed, "seed", 1, "random seed for brush jitter")
	fs.BoolVar(&c.toClipboard, "clipboard", false, "copy the result to the clipboard as well")
	return c
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	c := newRenderCmd(r)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.output == "" && !c.toClipboard {
		return nil, &UsageError{of: c}
	}
	strokes, err := parseStrokes(c.fs.Args())
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	c.strokes = strokes
	return c, nil
}

func (c *renderCmd) Run() error {
	bg, err := parseBackground(c.background)
	if err != nil {
		return err
	}
	col, err := theme.ParseColor(c.colorSpec)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	mode, err := paint.ParseSymmetryMode(c.symmetry)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	doc, err := c.root.newDocument(c.width, c.height, bg,
		document.WithTextures(texture.NewCache(texture.Synchronous())),
		document.WithRand(rand.New(rand.NewPCG(c.seed, c.seed))),
	)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	for _, ref := range c.imports {
		if _, err := doc.ImportFile(ref); err != nil {
			return err
		}
	}
	if c.brushID != "" {
		if err := doc.SelectBrush(c.brushID); err != nil {
			return err
		}
	}
	if err := doc.Textures().Preload(context.Background(), doc.ActiveBrush().Shape.Texture); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	doc.SetColor(nrgba(col))
	doc.SetBrushSize(c.size)
	doc.SetSymmetry(mode, paint.DefaultSectors)
	if c.eraser {
		doc.SetTool(document.ToolEraser)
		if c.soft {
			doc.SetEraserKind(document.EraserSoft)
		}
	}

	// One screen pixel per canvas pixel.
	doc.SetContainerSize(c.width, c.height)
	doc.Viewport().SetZoom(1)
	doc.Viewport().SetPan(viewport.Point{})

	for _, s := range c.strokes {
		paintStroke(doc, s)
	}
	doc.Flush()
	return c.write(doc)
}

func (c *renderCmd) write(doc *document.Document) error {
	switch c.output {
	case "":
	case "-":
		f := imageio.Format(strings.ToLower(c.format))
		if f == "" {
			f = imageio.FormatPNG
		}
		if err := doc.Export(c.stdout, f); err != nil {
			return err
		}
	default:
		out, err := doc.SaveFile(c.root.config.SavePath(c.output))
		if err != nil {
			return err
		}
		c.root.notifier.Export(out)
	}
	if c.toClipboard {
		img := doc.Flatten()
		if err := clipboard.CopyImage(img); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		c.root.notifier.Copy("rendered canvas", img)
	}
	return nil
}

// paintStroke replays one stroke as a press, moves and a release.
func paintStroke(doc *document.Document, pts []document.Pointer) {
	if len(pts) == 0 {
		return
	}
	doc.PointerDown(pts[0])
	for _, p := range pts[1:] {
		doc.PointerMove(p)
	}
	doc.PointerUp(pts[len(pts)-1])
}

var errEmptyStroke = errors.New("stroke needs at least one point")

// parseStrokes reads "stroke x,y[,pressure] ..." groups. Points before the
// first "stroke" keyword form a stroke of their own.
func parseStrokes(args []string) ([][]document.Pointer, error) {
	var (
		strokes [][]document.Pointer
		cur     []document.Pointer
		open    bool
	)
	flush := func() error {
		if !open {
			return nil
		}
		if len(cur) == 0 {
			return errEmptyStroke
		}
		strokes = append(strokes, cur)
		cur = nil
		return nil
	}
	for _, arg := range args {
		if arg == "stroke" {
			if err := flush(); err != nil {
				return nil, err
			}
			open = true
			continue
		}
		p, err := parsePoint(arg)
		if err != nil {
			return nil, err
		}
		open = true
		cur = append(cur, p)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return strokes, nil
}

func parsePoint(s string) (document.Pointer, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return document.Pointer{}, fmt.Errorf("invalid point %q: want x,y or x,y,pressure", s)
	}
	var vals [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return document.Pointer{}, fmt.Errorf("invalid point %q: %w", s, err)
		}
		vals[i] = v
	}
	p := document.Pointer{X: vals[0], Y: vals[1], Button: document.ButtonLeft}
	if len(parts) == 3 {
		if vals[2] < 0 || vals[2] > 1 {
			return document.Pointer{}, fmt.Errorf("invalid point %q: pressure must be between 0 and 1", s)
		}
		p.Pressure = vals[2]
		p.Pen = true
	}
	return p, nil
}
