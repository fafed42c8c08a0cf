package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/example/darrow/internal/brush"
	"github.com/example/darrow/internal/config"
	"github.com/example/darrow/internal/document"
	"github.com/example/darrow/internal/notify"
	"github.com/example/darrow/internal/render"
	"github.com/example/darrow/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	verbose      bool
	exportAlerts bool
	copyAlerts   bool
	importAlerts bool
	themeName    string
	activeTheme  *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	return newRootWith(cfg, notify.New(prefs))
}

func newRootWith(cfg *config.Config, n *notify.Notifier) *root {
	r := &root{
		fs:       flag.NewFlagSet("darrow", flag.ContinueOnError),
		program:  "darrow",
		notifier: n,
		config:   cfg,
	}
	r.fs.BoolVar(&r.verbose, "v", false, "log document activity to stderr")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.importAlerts, "notify-import", cfg.Notify.Import, "show a desktop notification after importing an image")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "window theme ("+strings.Join(theme.BuiltinNames(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return &UsageError{of: r}
		}
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.verbose {
		document.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	r.notifier.Enable(notify.EventExport, r.exportAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	r.notifier.Enable(notify.EventImport, r.importAlerts)
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "paint":
		cmd, err = parsePaintCmd(subArgs, r)
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "brushes":
		cmd, err = parseBrushesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	case "help":
		cmd, err = parseHelpCmd(subArgs, r)
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("DARROW_THEME")
	}
	if name != "" {
		r.config.Theme = name
	}
	t, err := r.config.ResolveTheme(theme.NewLoader())
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// newDocument creates a document with the configured brush, colour, size,
// grid and history limit, and the custom brush library loaded.
func (r *root) newDocument(w, h int, background color.Color, opts ...document.Option) (*document.Document, error) {
	cfg := r.config
	lib := brush.NewLibrary()
	if path := cfg.BrushLibraryPath(); path != "" {
		if err := lib.LoadFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load brushes from %s: %v\n", path, err)
		}
	}
	opts = append([]document.Option{
		document.WithLibrary(lib),
		document.WithHistoryLimit(cfg.History.Limit),
	}, opts...)
	if r.activeTheme != nil {
		opts = append(opts, document.WithColors(r.activeTheme.Colors()))
	}
	doc, err := document.New(w, h, background, opts...)
	if err != nil {
		return nil, err
	}
	if err := doc.SelectBrush(cfg.Brush.Default); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v. using %s.\n", err, brush.DefaultID)
	}
	doc.SetColor(nrgba(cfg.Brush.Color))
	doc.SetBrushSize(cfg.Brush.Size)
	grid := render.Grid{Visible: cfg.Grid.Visible, Size: cfg.Grid.Size, Color: cfg.Grid.Color}
	if r.activeTheme != nil && cfg.Grid.Color == config.New().Grid.Color {
		grid.Color = r.activeTheme.Grid
	}
	doc.SetGrid(grid)
	doc.Flush()
	return doc, nil
}

// nrgba converts a premultiplied colour to the straight alpha form brushes
// use.
func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// parseBackground reads a -background flag. A fully transparent colour
// means no background.
func parseBackground(s string) (color.Color, error) {
	c, err := theme.ParseColor(s)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	if c.A == 0 {
		return nil, nil
	}
	return c, nil
}

// stringList collects a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
