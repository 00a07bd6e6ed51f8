// Package inmemory implements the catalog.Engine that filters a fully
// materialized working set.
//
// The engine starts Empty. Load fetches the whole catalog through
// DataSource.FetchAll and swaps it in; from then on every ApplyAndPaginate
// call filters, searches and slices the working set locally without
// touching the data source.
//
// Example:
//
//	engine := inmemory.New(source, inmemory.WithLogger(logger))
//	if err := engine.Load(ctx); err != nil {
//	    return err
//	}
//	page, err := engine.ApplyAndPaginate(ctx, catalog.NewQueryState(10))
package inmemory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/pagination"
	"github.com/nrfta/go-catalog/predicate"
)

// StrategyName is reported in catalog.Metadata.Strategy.
const StrategyName = "inmemory"

// Engine filters and paginates an in-process copy of the catalog.
type Engine struct {
	source     catalog.DataSource
	logger     zerolog.Logger
	pageConfig *catalog.PageConfig
	evaluator  *predicate.Evaluator

	loads singleflight.Group

	mu       sync.RWMutex
	products []catalog.Product
	loaded   bool
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	logger     zerolog.Logger
	pageConfig *catalog.PageConfig
}

// WithLogger sets the logger for load events and malformed filters.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithPageConfig sets the page limits enforced by ApplyAndPaginate.
func WithPageConfig(pageConfig *catalog.PageConfig) Option {
	return func(c *config) {
		c.pageConfig = pageConfig
	}
}

// New creates an Empty engine reading from source.
func New(source catalog.DataSource, opts ...Option) *Engine {
	cfg := &config{
		logger:     zerolog.Nop(),
		pageConfig: catalog.NewPageConfig(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.pageConfig == nil {
		cfg.pageConfig = catalog.NewPageConfig()
	}

	logger := cfg.logger.With().Str("strategy", StrategyName).Logger()

	return &Engine{
		source:     source,
		logger:     logger,
		pageConfig: cfg.pageConfig,
		evaluator:  predicate.New(logger),
	}
}

// Load fetches the whole catalog and makes it the working set. Concurrent
// calls share one fetch. On failure the previous working set, or the Empty
// state, is kept and the error wraps catalog.ErrDataSourceUnavailable.
//
// The shared fetch ignores cancellation of any single caller's ctx. A caller
// whose ctx is done stops waiting and gets ctx.Err(), while the fetch keeps
// running for the others.
func (e *Engine) Load(ctx context.Context) error {
	ch := e.loads.DoChan("load", func() (any, error) {
		return nil, e.load(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) load(ctx context.Context) error {
	start := time.Now()

	products, err := e.source.FetchAll(ctx)
	if err != nil {
		e.logger.Error().Err(err).Msg("working set load failed")
		return fmt.Errorf("%w: fetch all: %w", catalog.ErrDataSourceUnavailable, err)
	}

	sorted := slices.Clone(products)
	catalog.SortByID(sorted)

	e.mu.Lock()
	e.products = sorted
	e.loaded = true
	e.mu.Unlock()

	e.logger.Info().
		Int("products", len(sorted)).
		Dur("duration", time.Since(start)).
		Msg("working set loaded")

	return nil
}

// Loaded reports whether a load has succeeded.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// Products returns a copy of the working set, or nil when Empty.
func (e *Engine) Products() []catalog.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.loaded {
		return nil
	}
	return slices.Clone(e.products)
}

// ApplyAndPaginate applies the non-vacuous filters of state (ANDed across
// keys), then the search term, then returns the requested page.
func (e *Engine) ApplyAndPaginate(ctx context.Context, state catalog.QueryState) (*catalog.PageResult, error) {
	start := time.Now()

	if err := e.pageConfig.Validate(state); err != nil {
		return nil, err
	}

	e.mu.RLock()
	products, loaded := e.products, e.loaded
	e.mu.RUnlock()

	if !loaded {
		return nil, catalog.ErrNotLoaded
	}

	matched := e.evaluator.Filter(products, state.ActiveFilters(), state.SearchTerm)
	items := slices.Clone(pagination.Slice(matched, state.PageNumber, state.PageSize))
	if items == nil {
		items = []catalog.Product{}
	}

	return &catalog.PageResult{
		Items:      items,
		TotalItems: len(matched),
		PageNumber: state.PageNumber,
		PageSize:   state.PageSize,
		Metadata: catalog.Metadata{
			Strategy:      StrategyName,
			QueryTimeMs:   time.Since(start).Milliseconds(),
			ItemsExamined: len(products),
		},
	}, nil
}

var _ catalog.Engine = (*Engine)(nil)
