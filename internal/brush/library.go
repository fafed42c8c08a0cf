package brush

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Library holds the built-in brushes plus user-defined ones.
type Library struct {
	custom []*Brush
	newID  func() string
}

// NewLibrary returns a library with no custom brushes.
func NewLibrary() *Library {
	return &Library{newID: func() string { return "custom-" + uuid.NewString() }}
}

// All returns copies of every brush, built-ins first.
func (l *Library) All() []*Brush {
	out := Builtins()
	for _, b := range l.custom {
		out = append(out, b.Clone())
	}
	return out
}

// Custom returns copies of the user-defined brushes.
func (l *Library) Custom() []*Brush {
	out := make([]*Brush, 0, len(l.custom))
	for _, b := range l.custom {
		out = append(out, b.Clone())
	}
	return out
}

// Get returns a copy of the brush with the given id.
func (l *Library) Get(id string) (*Brush, error) {
	if b, ok := Builtin(id); ok {
		return b, nil
	}
	if i := l.index(id); i >= 0 {
		return l.custom[i].Clone(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// New returns an unsaved custom brush with default settings and a fresh id.
func (l *Library) New(name string) *Brush {
	b := CustomDefaults()
	b.ID = l.newID()
	b.Name = name
	if b.Name == "" {
		b.Name = "New Brush"
	}
	return &b
}

// FromPreset returns an unsaved custom brush initialised from a studio
// preset.
func (l *Library) FromPreset(name string) (*Brush, error) {
	b, ok := Preset(name)
	if !ok {
		return nil, fmt.Errorf("%w: preset %q", ErrNotFound, name)
	}
	b.ID = l.newID()
	return b, nil
}

// Save inserts b or replaces the custom brush with the same id.
func (l *Library) Save(b *Brush) error {
	if _, ok := Builtin(b.ID); ok {
		return fmt.Errorf("%w: %q", ErrBuiltin, b.ID)
	}
	if err := b.Validate(); err != nil {
		return err
	}
	c := b.Clone()
	c.Custom = true
	if c.ID == "" {
		c.ID = l.newID()
		b.ID = c.ID
	}
	if i := l.index(c.ID); i >= 0 {
		l.custom[i] = c
		return nil
	}
	l.custom = append(l.custom, c)
	return nil
}

// Duplicate saves a copy of the brush under a new id and returns it.
func (l *Library) Duplicate(id string) (*Brush, error) {
	src, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	dup := src.Clone()
	dup.ID = l.newID()
	dup.Name = src.Name + " Copy"
	dup.Custom = true
	if !src.Custom {
		base := CustomDefaults()
		dup.Taper = base.Taper
		dup.Stabilization = base.Stabilization
	}
	l.custom = append(l.custom, dup)
	return dup.Clone(), nil
}

// Delete removes a custom brush.
func (l *Library) Delete(id string) error {
	if _, ok := Builtin(id); ok {
		return fmt.Errorf("%w: %q", ErrBuiltin, id)
	}
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	l.custom = append(l.custom[:i], l.custom[i+1:]...)
	return nil
}

func (l *Library) index(id string) int {
	for i, b := range l.custom {
		if b.ID == id {
			return i
		}
	}
	return -1
}

type libraryFile struct {
	Brushes []*Brush `toml:"brush"`
}

// Read replaces the custom brushes with those decoded from r.
func (l *Library) Read(r io.Reader) error {
	var file libraryFile
	if err := toml.NewDecoder(r).Decode(&file); err != nil {
		return fmt.Errorf("brush library: %w", err)
	}
	custom := make([]*Brush, 0, len(file.Brushes))
	for _, b := range file.Brushes {
		if b == nil {
			continue
		}
		if _, ok := Builtin(b.ID); ok || b.ID == "" {
			b.ID = l.newID()
		}
		b.Custom = true
		b.Normalize()
		custom = append(custom, b)
	}
	l.custom = custom
	return nil
}

// Write encodes the custom brushes to w.
func (l *Library) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(libraryFile{Brushes: l.custom})
}

// LoadFile reads the library from path. A missing file leaves the library
// empty.
func (l *Library) LoadFile(path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	f, err := os.Open(expanded)
	if os.IsNotExist(err) {
		l.custom = nil
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return l.Read(f)
}

// SaveFile writes the library to path, creating parent directories.
func (l *Library) SaveFile(path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return err
	}
	f, err := os.Create(expanded)
	if err != nil {
		return err
	}
	if err := l.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
