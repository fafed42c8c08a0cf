package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/example/darrow/internal/appstate"
	"github.com/example/darrow/internal/imageio"
	"github.com/example/darrow/internal/texture"
	"github.com/example/darrow/internal/theme"
)

// paintCmd opens the painting window.
type paintCmd struct {
	width      int
	height     int
	background string
	imports    stringList
	output     string
	*root
	fs *flag.FlagSet
}

func (p *paintCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func newPaintCmd(r *root) *paintCmd {
	fs := flag.NewFlagSet("paint", flag.ContinueOnError)
	p := &paintCmd{root: r, fs: fs}
	fs.Usage = usageFunc(p)
	fs.IntVar(&p.width, "width", r.config.Canvas.Width, "canvas width in pixels")
	fs.IntVar(&p.height, "height", r.config.Canvas.Height, "canvas height in pixels")
	fs.StringVar(&p.background, "background", theme.Hex(r.config.Canvas.Background), "canvas background colour or \"transparent\"")
	fs.Var(&p.imports, "import", "image file or data: URL to add as a layer (repeatable)")
	fs.StringVar(&p.output, "output", imageio.DefaultExportName, "file written by ctrl+S (.png or .pdf)")
	return p
}

func parsePaintCmd(args []string, r *root) (*paintCmd, error) {
	p := newPaintCmd(r)
	if err := p.fs.Parse(args); err != nil {
		return nil, err
	}
	if p.fs.NArg() != 0 {
		return nil, &UsageError{of: p}
	}
	return p, nil
}

func (p *paintCmd) Run() error {
	bg, err := parseBackground(p.background)
	if err != nil {
		return err
	}
	doc, err := p.root.newDocument(p.width, p.height, bg)
	if err != nil {
		return fmt.Errorf("new canvas: %w", err)
	}
	for _, ref := range p.imports {
		l, err := doc.ImportFile(ref)
		if err != nil {
			return err
		}
		p.root.notifier.Import(l.Name)
	}
	doc.ZoomToFit()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := doc.Textures().Preload(ctx, texture.Builtins()...); err != nil && ctx.Err() == nil {
			log.Printf("preload textures: %v", err)
		}
		doc.RequestRedraw()
	}()

	st := appstate.New(doc,
		appstate.WithOutput(p.root.config.SavePath(p.output)),
		appstate.WithTheme(p.root.activeTheme),
		appstate.WithNotifier(p.root.notifier),
		appstate.WithLibraryPath(p.root.config.BrushLibraryPath()),
	)
	st.Run()
	return nil
}
