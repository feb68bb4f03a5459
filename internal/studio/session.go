// Package studio ties catalog, selection, resolver, image cache and
// compositor into one session. Every piece of state lives on the Session;
// independent sessions share nothing.
package studio

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"mell-studio/internal/catalog"
	"mell-studio/internal/compose"
	"mell-studio/internal/imagecache"
	"mell-studio/internal/manifest"
	"mell-studio/internal/resolve"
	"mell-studio/internal/selection"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/image/draw"
)

// Options configures a session.
type Options struct {
	FS           billy.Filesystem // asset root
	ManifestPath string
	Frame        string
	Background   string
	Geometry     compose.Geometry
	PixelRatio   float64

	Workers      int
	PreloadBatch int
	PreloadPause time.Duration
	Debounce     time.Duration

	// OnRender is called after every scheduled render of the target.
	OnRender func(selection.State, error)
	Rand     *rand.Rand
	Logger   *slog.Logger
}

// Session is one user's studio: the catalog, the current selection and the
// caches and renderers bound to them.
type Session struct {
	opts     Options
	log      *slog.Logger
	manifest *manifest.Manifest
	catalog  *catalog.Catalog
	cache    *imagecache.Cache
	comp     *compose.Compositor
	sched    *Scheduler
	degraded error

	mu     sync.Mutex
	state  selection.State
	rng    *rand.Rand
	target draw.Image

	bgCancel context.CancelFunc
	bgDone   chan struct{}
	bgStats  imagecache.Stats
}

// Open loads the manifest and builds the catalog. A manifest that cannot be
// read or parsed does not fail Open: the session starts degraded with an
// empty catalog and Degraded reports why. Only invalid options are errors.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.FS == nil {
		return nil, errors.New("studio: no asset file system")
	}
	if err := opts.Geometry.Validate(); err != nil {
		return nil, err
	}
	if opts.ManifestPath == "" {
		opts.ManifestPath = manifest.FileName
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.PreloadBatch <= 0 {
		opts.PreloadBatch = 10
	}
	if opts.PreloadPause <= 0 {
		opts.PreloadPause = 50 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	src := imagecache.NewFSSource(opts.FS)
	if idx, err := imagecache.BuildIndex(opts.FS); err != nil {
		logger.Warn("asset index unavailable", "err", err)
	} else {
		src.WithIndex(idx)
	}
	cache := imagecache.New(src, logger)

	s := &Session{
		opts:  opts,
		log:   logger,
		cache: cache,
		rng:   rng,
		comp: &compose.Compositor{
			Loader:         cache,
			Geometry:       opts.Geometry,
			BackgroundPath: opts.Background,
			FramePath:      opts.Frame,
			PixelRatio:     opts.PixelRatio,
			Logger:         logger,
		},
	}

	m, err := manifest.LoadFS(opts.FS, opts.ManifestPath)
	if err != nil {
		logger.Warn("manifest unavailable, starting empty", "path", opts.ManifestPath, "err", err)
		s.degraded = err
		s.manifest = &manifest.Manifest{}
		s.catalog = catalog.New(nil)
	} else {
		s.manifest = m
		s.catalog = catalog.Build(m)
	}
	s.state = selection.Default(s.catalog)
	s.sched = NewScheduler(opts.Debounce, s.renderScheduled)

	logger.Debug("session open", "parts", len(s.manifest.Parts), "degraded", s.degraded != nil)
	return s, nil
}

// Degraded returns the manifest error the session started with, or nil.
func (s *Session) Degraded() error { return s.degraded }

// Catalog returns the session's option lists.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Cache returns the session's image cache.
func (s *Session) Cache() *imagecache.Cache { return s.cache }

// State returns the current selection.
func (s *Session) State() selection.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) update(fn func(selection.State) (selection.State, error)) error {
	s.mu.Lock()
	next, err := fn(s.state)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.mu.Unlock()

	s.sched.Schedule(next)
	return nil
}

// Select changes one category and schedules a render.
func (s *Session) Select(cat catalog.Category, ch selection.Choice) error {
	return s.update(func(st selection.State) (selection.State, error) {
		return st.Select(s.catalog, cat, ch)
	})
}

// Reset restores one category to its default and schedules a render.
func (s *Session) Reset(cat catalog.Category) {
	_ = s.update(func(st selection.State) (selection.State, error) {
		return st.Reset(s.catalog, cat), nil
	})
}

// Randomize picks a random valid selection and schedules a render.
func (s *Session) Randomize() selection.State {
	var out selection.State
	_ = s.update(func(selection.State) (selection.State, error) {
		out = selection.Randomize(s.catalog, s.rng)
		return out, nil
	})
	return out
}

// Layers resolves the current selection.
func (s *Session) Layers() []string {
	return resolve.Resolve(s.State(), s.catalog)
}

// SetTarget replaces the image scheduled renders draw into, for instance
// after the viewport was resized, and schedules a render.
func (s *Session) SetTarget(dst draw.Image) {
	s.mu.Lock()
	s.target = dst
	st := s.state
	s.mu.Unlock()
	s.sched.Schedule(st)
}

// Flush runs a pending scheduled render now.
func (s *Session) Flush() { s.sched.Flush() }

func (s *Session) renderScheduled(st selection.State) {
	s.mu.Lock()
	dst := s.target
	s.mu.Unlock()

	var err error
	if dst != nil {
		err = s.comp.Render(context.Background(), dst, resolve.Resolve(st, s.catalog))
	}
	if s.opts.OnRender != nil {
		s.opts.OnRender(st, err)
	}
}

// Render draws the current selection into dst.
func (s *Session) Render(ctx context.Context, dst draw.Image) error {
	return s.comp.Render(ctx, dst, s.Layers())
}

// Snapshot renders the current selection into a new w x h image.
func (s *Session) Snapshot(ctx context.Context, w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("studio: invalid canvas size %dx%d", w, h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if err := s.Render(ctx, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// Save encodes a w x h canvas render of the current selection.
func (s *Session) Save(ctx context.Context, out io.Writer, f compose.Format, w, h int) error {
	img, err := s.Snapshot(ctx, w, h)
	if err != nil {
		return err
	}
	return compose.Encode(out, img, f)
}

// ExportFrame encodes the frame region at the frame's native resolution.
// A positive maxSize shrinks the result to fit within maxSize x maxSize.
func (s *Session) ExportFrame(ctx context.Context, out io.Writer, f compose.Format, maxSize int) error {
	img, err := s.comp.RenderFrame(ctx, s.Layers())
	if err != nil {
		return err
	}
	if maxSize > 0 {
		img = compose.Downsample(img, maxSize, maxSize)
	}
	return compose.Encode(out, img, f)
}

// Close stops background loading and scheduled renders.
func (s *Session) Close() {
	s.sched.Close()
	s.mu.Lock()
	cancel, done := s.bgCancel, s.bgDone
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}
