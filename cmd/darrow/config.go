package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/darrow/internal/config"
)

type configCmd struct {
	*root
	fs   *flag.FlagSet
	file string
	out  io.Writer
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func newConfigCmd(r *root) *configCmd {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	c := &configCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "file written by save (default: the loaded config or ~/.config/darrow/config.rc)")
	return c
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	c := newConfigCmd(r)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	switch sub := c.fs.Arg(0); sub {
	case "print":
		_, err := fmt.Fprint(c.out, c.root.config.String())
		return err
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", sub)
	}
}

func (c *configCmd) runSave() error {
	path := c.file
	if path == "" {
		loader := config.NewLoader(version, configPathOverride)
		if path = loader.GetConfigPath(); path == "" {
			path = loader.DefaultPath()
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(c.root.config.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
