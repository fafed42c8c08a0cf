package config

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/example/darrow/internal/theme"
)

// Canvas holds the new-canvas defaults.
type Canvas struct {
	Width  int
	Height int
	// Background is the canvas colour; a zero alpha means transparent.
	Background color.RGBA
}

// Brush holds the initial tool settings.
type Brush struct {
	Default string
	Color   color.RGBA
	Size    float64
}

// Grid holds the grid overlay settings.
type Grid struct {
	Visible bool
	Size    int
	Color   color.RGBA
}

// History holds undo settings.
type History struct {
	Limit int
}

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
	Import bool
}

// Config holds the application configuration.
type Config struct {
	Theme        string
	SaveDir      string
	BrushLibrary string
	Canvas       Canvas
	Brush        Brush
	Grid         Grid
	History      History
	Notify       Notify
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Canvas: Canvas{
			Width:      1024,
			Height:     768,
			Background: color.RGBA{0xff, 0xff, 0xff, 0xff},
		},
		Brush: Brush{
			Default: "round",
			Color:   color.RGBA{A: 0xff},
			Size:    20,
		},
		Grid: Grid{
			Size:  50,
			Color: color.RGBA{0xcc, 0xcc, 0xcc, 0xff},
		},
		History: History{Limit: 30},
		Themes:  make(map[string]*theme.Theme),
	}
}

// ResolveTheme returns the selected theme: a [theme.<name>] section of this
// file first, then anything the theme loader finds, then the default.
func (c *Config) ResolveTheme(l *theme.Loader) (*theme.Theme, error) {
	if t, ok := c.Themes[c.Theme]; ok {
		return t, nil
	}
	if l == nil {
		l = theme.NewLoader()
	}
	return l.Load(c.Theme)
}

// SavePath joins name onto the configured save directory, expanding a
// leading ~. Without a save directory name is returned unchanged.
func (c *Config) SavePath(name string) string {
	if c.SaveDir == "" || filepath.IsAbs(name) {
		return name
	}
	dir, err := homedir.Expand(c.SaveDir)
	if err != nil {
		return name
	}
	return filepath.Join(dir, name)
}

// BrushLibraryPath returns the custom brush file, defaulting to
// ~/.config/darrow/brushes.toml.
func (c *Config) BrushLibraryPath() string {
	if c.BrushLibrary != "" {
		if p, err := homedir.Expand(c.BrushLibrary); err == nil {
			return p
		}
		return c.BrushLibrary
	}
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "darrow", "brushes.toml")
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.BrushLibrary != "" {
		fmt.Fprintf(&sb, "brush_library = %s\n", c.BrushLibrary)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "background = %s\n", theme.Hex(c.Canvas.Background))
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "default = %s\n", c.Brush.Default)
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(c.Brush.Color))
	fmt.Fprintf(&sb, "size = %g\n", c.Brush.Size)
	sb.WriteString("\n")

	sb.WriteString("[grid]\n")
	fmt.Fprintf(&sb, "visible = %v\n", c.Grid.Visible)
	fmt.Fprintf(&sb, "size = %d\n", c.Grid.Size)
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(c.Grid.Color))
	sb.WriteString("\n")

	sb.WriteString("[history]\n")
	fmt.Fprintf(&sb, "limit = %d\n", c.History.Limit)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "import = %v\n", c.Notify.Import)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
