package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/example/darrow/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(strings.ToLower(currentSection), "theme.") {
				themeName := currentSection[len("theme."):]
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value. Colours start with '#', so '=' wins.
		var key, value string
		if k, v, ok := strings.Cut(line, "="); ok {
			key, value = k, v
		} else if k, v, ok := strings.Cut(line, ":"); ok {
			key, value = k, v
		} else {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		if currentTheme != nil {
			err = theme.SetField(currentTheme, key, value)
		} else {
			switch strings.ToLower(currentSection) {
			case "":
				setRootField(cfg, key, value)
			case "canvas":
				err = setCanvasField(&cfg.Canvas, key, value)
			case "brush":
				err = setBrushField(&cfg.Brush, key, value)
			case "grid":
				err = setGridField(&cfg.Grid, key, value)
			case "history":
				err = setHistoryField(&cfg.History, key, value)
			case "notify":
				err = setNotifyField(&cfg.Notify, key, value)
			}
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "brush_library":
		cfg.BrushLibrary = value
	}
}

func setCanvasField(c *Canvas, key, value string) (err error) {
	switch strings.ToLower(key) {
	case "width":
		c.Width, err = parseInt(key, value)
	case "height":
		c.Height, err = parseInt(key, value)
	case "background":
		c.Background, err = parseColor(key, value)
	}
	return err
}

func setBrushField(b *Brush, key, value string) (err error) {
	switch strings.ToLower(key) {
	case "default":
		b.Default = value
	case "color":
		b.Color, err = parseColor(key, value)
	case "size":
		size, perr := strconv.ParseFloat(value, 64)
		switch {
		case perr != nil:
			err = fmt.Errorf("invalid number for key %s: %w", key, perr)
		case !(size > 0):
			err = fmt.Errorf("size must be positive, got %s", value)
		default:
			b.Size = size
		}
	}
	return err
}

func setGridField(g *Grid, key, value string) (err error) {
	switch strings.ToLower(key) {
	case "visible":
		g.Visible, err = parseBool(key, value)
	case "size":
		g.Size, err = parseInt(key, value)
	case "color":
		g.Color, err = parseColor(key, value)
	}
	return err
}

func setHistoryField(h *History, key, value string) (err error) {
	if strings.EqualFold(key, "limit") {
		h.Limit, err = parseInt(key, value)
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	case "import":
		n.Import = b
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	return n, nil
}

func parseColor(key, value string) (color.RGBA, error) {
	c, err := theme.ParseColor(value)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	return c, nil
}
