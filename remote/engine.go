// Package remote implements the catalog.Engine that delegates filtering,
// search and pagination to the data source.
//
// The engine never materializes the catalog. Each call serializes the
// QueryState into a catalog.QueryPayload, sends it through
// DataSource.Query and returns exactly what the source reports.
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/rs/zerolog"

	"github.com/nrfta/go-catalog"
)

// StrategyName is reported in catalog.Metadata.Strategy.
const StrategyName = "remote"

// Engine sends every query to the data source.
type Engine struct {
	source     catalog.DataSource
	logger     zerolog.Logger
	pageConfig *catalog.PageConfig
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	logger     zerolog.Logger
	pageConfig *catalog.PageConfig
}

// WithLogger sets the logger for failed round trips.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithPageConfig sets the page limits checked before a query is sent.
func WithPageConfig(pageConfig *catalog.PageConfig) Option {
	return func(c *config) {
		c.pageConfig = pageConfig
	}
}

// New creates an Engine querying source.
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

	return &Engine{
		source:     source,
		logger:     cfg.logger.With().Str("strategy", StrategyName).Logger(),
		pageConfig: cfg.pageConfig,
	}
}

// ApplyAndPaginate validates state, sends it as a payload and returns the
// source's page unchanged. A failed round trip is an error wrapping
// catalog.ErrRemoteQueryFailed, never an empty page.
func (e *Engine) ApplyAndPaginate(ctx context.Context, state catalog.QueryState) (*catalog.PageResult, error) {
	start := time.Now()

	if err := e.pageConfig.Validate(state); err != nil {
		return nil, err
	}

	payload := BuildPayload(state)

	res, err := e.source.Query(ctx, payload)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("search", payload.SearchTerm).
			Int("filters", len(payload.Filters)).
			Int("page", payload.CurrentPage).
			Msg("remote query failed")
		return nil, fmt.Errorf("%w: query: %w", catalog.ErrRemoteQueryFailed, err)
	}
	if res == nil {
		return nil, errors.Wrap(catalog.ErrRemoteQueryFailed, "query returned no result")
	}

	return &catalog.PageResult{
		Items:      res.Items,
		TotalItems: res.TotalItems,
		PageNumber: state.PageNumber,
		PageSize:   state.PageSize,
		Metadata: catalog.Metadata{
			Strategy:    StrategyName,
			QueryTimeMs: time.Since(start).Milliseconds(),
		},
	}, nil
}

var _ catalog.Engine = (*Engine)(nil)
