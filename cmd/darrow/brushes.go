package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/darrow/internal/brush"
)

// brushesCmd lists and edits the custom brush library.
type brushesCmd struct {
	presets bool
	add     string
	name    string
	dup     string
	del     string
	out     io.Writer
	*root
	fs *flag.FlagSet
}

func (b *brushesCmd) FlagSet() *flag.FlagSet {
	return b.fs
}

func newBrushesCmd(r *root) *brushesCmd {
	fs := flag.NewFlagSet("brushes", flag.ContinueOnError)
	b := &brushesCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(b)
	fs.BoolVar(&b.presets, "presets", false, "list the studio presets")
	fs.StringVar(&b.add, "add", "", "save a custom brush made from the named preset")
	fs.StringVar(&b.name, "name", "", "name for the brush created by -add or -duplicate")
	fs.StringVar(&b.dup, "duplicate", "", "save a copy of the brush with this id")
	fs.StringVar(&b.del, "delete", "", "delete the custom brush with this id")
	return b
}

func parseBrushesCmd(args []string, r *root) (*brushesCmd, error) {
	b := newBrushesCmd(r)
	if err := b.fs.Parse(args); err != nil {
		return nil, err
	}
	if b.fs.NArg() != 0 {
		return nil, &UsageError{of: b}
	}
	return b, nil
}

func (b *brushesCmd) Run() error {
	if b.presets {
		for _, name := range brush.PresetNames() {
			fmt.Fprintln(b.out, name)
		}
		return nil
	}

	path := b.root.config.BrushLibraryPath()
	lib := brush.NewLibrary()
	if path != "" {
		if err := lib.LoadFile(path); err != nil {
			return err
		}
	}

	var (
		changed bool
		created *brush.Brush
	)
	switch {
	case b.add != "":
		nb, err := lib.FromPreset(b.add)
		if err != nil {
			return err
		}
		if err := lib.Save(nb); err != nil {
			return err
		}
		created, changed = nb, true
	case b.dup != "":
		nb, err := lib.Duplicate(b.dup)
		if err != nil {
			return err
		}
		created, changed = nb, true
	case b.del != "":
		if err := lib.Delete(b.del); err != nil {
			return err
		}
		changed = true
	}
	if created != nil && b.name != "" {
		created.Name = b.name
		if err := lib.Save(created); err != nil {
			return err
		}
	}
	if changed {
		if path == "" {
			return fmt.Errorf("no brush library path: set brush_library in the config")
		}
		if err := lib.SaveFile(path); err != nil {
			return err
		}
	}
	if created != nil {
		fmt.Fprintf(b.out, "saved %s (%s)\n", created.ID, created.Name)
		return nil
	}
	if b.del != "" {
		fmt.Fprintf(b.out, "deleted %s\n", b.del)
		return nil
	}
	return b.list(lib)
}

func (b *brushesCmd) list(lib *brush.Library) error {
	def := b.root.config.Brush.Default
	for _, br := range lib.All() {
		mark := " "
		if br.ID == def {
			mark = "*"
		}
		kind := "builtin"
		if br.Custom {
			kind = "custom"
		}
		fmt.Fprintf(b.out, "%s %-24s %-8s %s\n", mark, br.ID, kind, strings.TrimSpace(br.Name))
	}
	return nil
}
