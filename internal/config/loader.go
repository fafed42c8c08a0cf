package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time or with -config
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil // No config file found, return defaults
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		p, err := homedir.Expand(l.OverridePath)
		if err == nil {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".darrowrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.rc", "darrow.rc"} {
		p := filepath.Join(home, ".config", "darrow", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// DefaultPath is where "config save" writes when no file is given.
func (l *Loader) DefaultPath() string {
	if l.OverridePath != "" {
		if p, err := homedir.Expand(l.OverridePath); err == nil {
			return p
		}
	}
	home, err := homedir.Dir()
	if err != nil {
		return ".darrowrc"
	}
	return filepath.Join(home, ".config", "darrow", "config.rc")
}
