// Package texture loads brush stamp bitmaps and memoizes colour tinted
// variants of them.
//
// Sources are decoded at most once per reference. Until a source has been
// decoded, lookups return nil and start a background load; callers skip the
// dab and retry naturally on the next one.
package texture

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/example/darrow/internal/imageio"
)

// Ref identifies a stamp bitmap. Built-in stamps use the "builtin:" scheme;
// anything else is a file path or a data: URL.
type Ref string

const builtinPrefix = "builtin:"

// Built-in stamps.
const (
	HardRound   Ref = builtinPrefix + "hardRound"
	SoftRound   Ref = builtinPrefix + "softRound"
	Calligraphy Ref = builtinPrefix + "calligraphy"
	Charcoal    Ref = builtinPrefix + "charcoal"
	Splatter    Ref = builtinPrefix + "splatter"
	GrassBlade  Ref = builtinPrefix + "grassBlade"
)

// Builtins lists every built-in stamp.
func Builtins() []Ref {
	return []Ref{HardRound, SoftRound, Calligraphy, Charcoal, Splatter, GrassBlade}
}

// Builtin reports whether r names a procedurally generated stamp.
func (r Ref) Builtin() bool {
	return strings.HasPrefix(string(r), builtinPrefix)
}

// Loader produces the source bitmap for a reference.
type Loader func(ctx context.Context, ref Ref) (image.Image, error)

// DefaultLoader generates built-in stamps and decodes everything else from
// disk or a data URL.
func DefaultLoader(_ context.Context, ref Ref) (image.Image, error) {
	if ref.Builtin() {
		return Generate(ref)
	}
	return imageio.Load(string(ref))
}

type tintKey struct {
	ref Ref
	col color.NRGBA
}

// Cache memoizes decoded sources and tinted stamps. Tinted stamps are never
// mutated after creation and may be shared freely.
type Cache struct {
	load    Loader
	onReady func(Ref)
	sync    bool
	logger  func() *slog.Logger

	group singleflight.Group

	mu      sync.Mutex
	sources map[Ref]*image.Alpha
	tints   map[tintKey]*image.RGBA
	pending map[Ref]bool
	failed  map[Ref]error
	decodes map[Ref]int
}

// Option configures a Cache.
type Option func(*Cache)

// WithLoader replaces DefaultLoader.
func WithLoader(l Loader) Option {
	return func(c *Cache) { c.load = l }
}

// WithOnReady registers a callback run after a background load completes.
// It runs on the loading goroutine.
func WithOnReady(f func(Ref)) Option {
	return func(c *Cache) { c.onReady = f }
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = func() *slog.Logger { return l } }
}

// WithLoggerFunc looks the logger up through f each time a diagnostic is
// logged, so a logger installed after the cache was built still applies.
func WithLoggerFunc(f func() *slog.Logger) Option {
	return func(c *Cache) { c.logger = f }
}

// Synchronous makes a cache miss decode inline instead of in the background.
func Synchronous() Option {
	return func(c *Cache) { c.sync = true }
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		load:    DefaultLoader,
		logger:  func() *slog.Logger { return slog.New(slog.DiscardHandler) },
		sources: make(map[Ref]*image.Alpha),
		tints:   make(map[tintKey]*image.RGBA),
		pending: make(map[Ref]bool),
		failed:  make(map[Ref]error),
		decodes: make(map[Ref]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source returns the decoded coverage of ref, or nil when it is not ready.
func (c *Cache) Source(ref Ref) *image.Alpha {
	c.mu.Lock()
	if src, ok := c.sources[ref]; ok {
		c.mu.Unlock()
		return src
	}
	if c.failed[ref] != nil {
		c.mu.Unlock()
		return nil
	}
	if c.sync {
		c.mu.Unlock()
		src, _ := c.fetch(context.Background(), ref)
		return src
	}
	if !c.pending[ref] {
		c.pending[ref] = true
		go c.background(ref)
	}
	c.mu.Unlock()
	return nil
}

// Tint returns a stamp whose alpha equals the source's alpha and whose colour
// is col. The same instance is returned for repeated (ref, col) pairs. It
// returns nil when the source is not decoded yet.
func (c *Cache) Tint(ref Ref, col color.NRGBA) *image.RGBA {
	src := c.Source(ref)
	if src == nil {
		return nil
	}
	key := tintKey{ref: ref, col: col}
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tints[key]; ok {
		return t
	}
	t := tint(src, col)
	c.tints[key] = t
	return t
}

// Ready reports whether ref has been decoded.
func (c *Cache) Ready(ref Ref) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sources[ref]
	return ok
}

// Err returns the load error recorded for ref, if any.
func (c *Cache) Err(ref Ref) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed[ref]
}

// Forget drops a failed load so the next lookup tries again.
func (c *Cache) Forget(ref Ref) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.failed, ref)
}

// Decodes returns how many times the source of ref has been decoded.
func (c *Cache) Decodes(ref Ref) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decodes[ref]
}

// Preload decodes refs concurrently and waits for all of them.
func (c *Cache) Preload(ctx context.Context, refs ...Ref) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, ref := range refs {
		g.Go(func() error {
			_, err := c.fetch(ctx, ref)
			return err
		})
	}
	return g.Wait()
}

func (c *Cache) background(ref Ref) {
	if _, err := c.fetch(context.Background(), ref); err != nil {
		return
	}
	if c.onReady != nil {
		c.onReady(ref)
	}
}

func (c *Cache) fetch(ctx context.Context, ref Ref) (*image.Alpha, error) {
	v, err, _ := c.group.Do(string(ref), func() (any, error) {
		c.mu.Lock()
		if src, ok := c.sources[ref]; ok {
			c.mu.Unlock()
			return src, nil
		}
		c.mu.Unlock()

		img, err := c.load(ctx, ref)

		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.pending, ref)
		if err != nil {
			err = fmt.Errorf("texture %s: %w", ref, err)
			c.failed[ref] = err
			c.logger().Warn("texture load failed", "ref", string(ref), "err", err)
			return nil, err
		}
		src := alphaOf(img)
		c.sources[ref] = src
		c.decodes[ref]++
		c.logger().Debug("texture decoded", "ref", string(ref), "size", src.Rect.Size())
		return src, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*image.Alpha), nil
}

func alphaOf(img image.Image) *image.Alpha {
	if a, ok := img.(*image.Alpha); ok && a.Rect.Min == (image.Point{}) {
		return a
	}
	b := img.Bounds()
	out := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out
}

func tint(src *image.Alpha, col color.NRGBA) *image.RGBA {
	out := image.NewRGBA(src.Rect)
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		si := src.PixOffset(src.Rect.Min.X, y)
		di := out.PixOffset(src.Rect.Min.X, y)
		for x := src.Rect.Min.X; x < src.Rect.Max.X; x, si, di = x+1, si+1, di+4 {
			a := uint32(src.Pix[si]) * uint32(col.A) / 0xff
			if a == 0 {
				continue
			}
			out.Pix[di+0] = uint8(uint32(col.R) * a / 0xff)
			out.Pix[di+1] = uint8(uint32(col.G) * a / 0xff)
			out.Pix[di+2] = uint8(uint32(col.B) * a / 0xff)
			out.Pix[di+3] = uint8(a)
		}
	}
	return out
}
