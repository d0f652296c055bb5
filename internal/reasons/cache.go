package reasons

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/JakeFAU/notfound-service/internal/clock/system"
)

// Load outcomes reported to the observer.
const (
	OutcomeLoaded      = "loaded"
	OutcomePlaceholder = "placeholder"
	OutcomeEmpty       = "empty"
	OutcomeError       = "error"
)

const (
	defaultLoadTimeout = 10 * time.Second
	flightKey          = "catalog"
)

// Clock supplies the times a Cache stamps and ages snapshots with.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// Status summarizes what the cache currently holds.
type Status struct {
	Loaded      bool      `json:"loaded"`
	LoadedAt    time.Time `json:"loaded_at,omitzero"`
	AgeSeconds  int64     `json:"age_seconds"`
	Size        int       `json:"size"`
	Placeholder bool      `json:"placeholder"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Source      string    `json:"source"`
}

type snapshot struct {
	catalog  Catalog
	loadedAt time.Time
}

// Cache memoizes the catalog read from a Source.
type Cache struct {
	source   Source
	timeout  time.Duration
	clock    Clock
	logger   *zap.Logger
	observer func(outcome string, size int)

	current    atomic.Pointer[snapshot]
	generation atomic.Uint64
	group      singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTimeout bounds a single fetch from the source.
func WithTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock overrides the wall clock used for LoadedAt and AgeSeconds.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers a callback invoked after every fetch with its outcome and catalog size.
func WithObserver(fn func(outcome string, size int)) Option {
	return func(c *Cache) {
		c.observer = fn
	}
}

// NewCache creates a Cache over source. Nothing is fetched until the first Load.
func NewCache(source Source, opts ...Option) *Cache {
	c := &Cache{
		source:  source,
		timeout: defaultLoadTimeout,
		clock:   system.New(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the memoized catalog, fetching it from the source when nothing is cached.
// Concurrent callers that miss the cache share a single fetch.
func (c *Cache) Load(ctx context.Context) (Catalog, error) {
	if snap := c.current.Load(); snap != nil {
		return snap.catalog, nil
	}
	v, err, _ := c.group.Do(flightKey, func() (any, error) {
		if snap := c.current.Load(); snap != nil {
			return snap, nil
		}
		gen := c.generation.Load()
		snap, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		// An Invalidate or Reload that raced this fetch wins; the caller still gets what was read.
		if c.generation.Load() == gen {
			c.current.CompareAndSwap(nil, snap)
		}
		return snap, nil
	})
	if err != nil {
		return Catalog{}, err
	}
	return snapshotCatalog(v)
}

// Invalidate drops the memoized catalog so the next Load fetches again.
// Catalog values already handed out are unaffected.
func (c *Cache) Invalidate() {
	c.generation.Add(1)
	c.current.Store(nil)
	c.group.Forget(flightKey)
}

// Reload fetches the catalog again and swaps it in whole. When the fetch fails the previously
// loaded catalog stays in place and the error is returned.
func (c *Cache) Reload(ctx context.Context) (Catalog, error) {
	snap, err := c.fetch(ctx)
	if err != nil {
		if c.current.Load() != nil {
			c.logger.Warn("catalog reload failed, keeping current catalog", zap.Error(err))
		}
		return Catalog{}, err
	}
	c.generation.Add(1)
	c.current.Store(snap)
	return snap.catalog, nil
}

// Status reports the cached catalog without triggering a fetch.
func (c *Cache) Status() Status {
	st := Status{Source: c.source.Location()}
	snap := c.current.Load()
	if snap == nil {
		return st
	}
	st.Loaded = true
	st.LoadedAt = snap.loadedAt
	st.AgeSeconds = int64(c.clock.Since(snap.loadedAt) / time.Second)
	st.Size = snap.catalog.Len()
	st.Placeholder = snap.catalog.IsPlaceholder()
	st.Fingerprint = snap.catalog.Fingerprint()
	return st
}

func (c *Cache) fetch(ctx context.Context) (*snapshot, error) {
	// Shared by every caller waiting on this flight, so one caller's cancellation must not
	// fail the others.
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	location := c.source.Location()
	entries, err := c.source.Fetch(fetchCtx)
	switch {
	case errors.Is(err, ErrSourceNotFound):
		c.logger.Warn("catalog source not found, serving placeholder", zap.String("source", location))
		return c.record(PlaceholderCatalog(), OutcomePlaceholder), nil
	case err != nil:
		c.observe(OutcomeError, 0)
		return nil, fmt.Errorf("load catalog from %s: %w", location, err)
	case len(entries) == 0:
		c.logger.Warn("catalog source has no entries, serving placeholder", zap.String("source", location))
		return c.record(PlaceholderCatalog(), OutcomeEmpty), nil
	}
	if err := validate(entries); err != nil {
		c.observe(OutcomeError, 0)
		return nil, fmt.Errorf("load catalog from %s: %w", location, err)
	}
	c.logger.Info("catalog loaded", zap.String("source", location), zap.Int("entries", len(entries)))
	return c.record(NewCatalog(entries), OutcomeLoaded), nil
}

func (c *Cache) record(catalog Catalog, outcome string) *snapshot {
	c.observe(outcome, catalog.Len())
	return &snapshot{catalog: catalog, loadedAt: c.clock.Now()}
}

func (c *Cache) observe(outcome string, size int) {
	if c.observer != nil {
		c.observer(outcome, size)
	}
}

func snapshotCatalog(v any) (Catalog, error) {
	snap, ok := v.(*snapshot)
	if !ok {
		return Catalog{}, fmt.Errorf("unexpected cache value %T", v)
	}
	return snap.catalog, nil
}
