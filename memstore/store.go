// Package memstore provides an in-process catalog.DataSource backed by a
// product slice.
//
// Its Query method evaluates payloads with the same predicate evaluator and
// page arithmetic the in-memory engine uses, which makes it the reference
// remote side for fixtures, demos and tests.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/pagination"
	"github.com/nrfta/go-catalog/predicate"
)

// Store is a read-only DataSource over a fixed product set.
type Store struct {
	mu       sync.RWMutex
	products []catalog.Product

	logger     zerolog.Logger
	pageConfig *catalog.PageConfig
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report malformed payload filters.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithPageConfig sets the page limits enforced by Query.
func WithPageConfig(config *catalog.PageConfig) Option {
	return func(s *Store) {
		if config != nil {
			s.pageConfig = config
		}
	}
}

// New creates a Store holding a copy of products in catalog order.
func New(products []catalog.Product, opts ...Option) *Store {
	s := &Store{
		logger:     zerolog.Nop(),
		pageConfig: catalog.NewPageConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Replace(products)
	return s
}

// Replace swaps the stored products for a sorted copy of products.
func (s *Store) Replace(products []catalog.Product) {
	sorted := slices.Clone(products)
	catalog.SortByID(sorted)

	s.mu.Lock()
	s.products = sorted
	s.mu.Unlock()
}

// FetchAll returns a copy of every product.
func (s *Store) FetchAll(ctx context.Context) ([]catalog.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products), nil
}

// Count returns the number of stored products.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

// Query filters, searches and paginates in process.
func (s *Store) Query(ctx context.Context, payload catalog.QueryPayload) (*catalog.QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := payload.QueryState()
	if err := s.pageConfig.Validate(state); err != nil {
		return nil, err
	}

	s.mu.RLock()
	products := s.products
	s.mu.RUnlock()

	matched := predicate.New(s.logger).Filter(products, state.Filters, state.SearchTerm)
	page := pagination.Slice(matched, state.PageNumber, state.PageSize)

	return &catalog.QueryResult{
		Items:      slices.Clone(page),
		TotalItems: len(matched),
	}, nil
}
