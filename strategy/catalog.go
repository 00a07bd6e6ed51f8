package strategy

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/nrfta/go-catalog"
)

// Catalog is the caller facing view of one catalog session. It keeps the
// current QueryState and page, and routes every request through a Selector.
//
// Requests may overlap. Each takes a sequence number when it starts, and its
// result only becomes the current view if no newer request was issued in the
// meantime; otherwise the caller gets catalog.ErrSuperseded. Current never
// waits for a request in flight.
type Catalog struct {
	selector *Selector
	seq      atomic.Uint64

	mu    sync.RWMutex
	state catalog.QueryState
	page  *catalog.PageResult
}

// NewCatalog creates a Catalog whose initial state is page 1 of pageSize.
func NewCatalog(selector *Selector, pageSize int) *Catalog {
	return &Catalog{
		selector: selector,
		state:    catalog.NewQueryState(pageSize),
	}
}

// SwitchStrategy re-evaluates the catalog size and selects an engine. The
// current QueryState is not replayed against the new engine.
func (c *Catalog) SwitchStrategy(ctx context.Context) (int, error) {
	return c.selector.EvaluateAndSelect(ctx)
}

// GetProducts returns the working set under InMemory and the current page's
// items under Remote.
func (c *Catalog) GetProducts(ctx context.Context) []catalog.Product {
	if c.selector.Active() == InMemory {
		return c.selector.InMemory().Products()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.page == nil {
		return nil
	}
	return slices.Clone(c.page.Items)
}

// GetProductsCount returns the unfiltered count used by the last selection.
func (c *Catalog) GetProductsCount() int {
	return c.selector.Count()
}

// ApplyFiltersAndSearch replaces the search term and filters and fetches
// pageNumber of the result.
func (c *Catalog) ApplyFiltersAndSearch(
	ctx context.Context,
	searchTerm string,
	filters []catalog.FieldFilter,
	pageNumber, pageSize int,
) (*catalog.PageResult, error) {
	state := catalog.NewQueryState(pageSize).
		WithSearchTerm(searchTerm).
		WithFilters(filters...).
		WithPage(pageNumber)

	return c.run(ctx, state)
}

// Paginate moves within the current search and filters. A page size change
// goes back to page 1 unless pageNumber is positive, in which case the
// explicit page wins. A non-positive pageNumber keeps the current page.
func (c *Catalog) Paginate(ctx context.Context, pageNumber, pageSize int) ([]catalog.Product, error) {
	state, _ := c.Current()

	if pageSize != state.PageSize {
		state = state.WithPageSize(pageSize)
	}
	if pageNumber > 0 {
		state = state.WithPage(pageNumber)
	}

	res, err := c.run(ctx, state)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Current returns the last committed state and page. The page is nil until
// a request succeeds.
func (c *Catalog) Current() (catalog.QueryState, *catalog.PageResult) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.page
}

func (c *Catalog) run(ctx context.Context, state catalog.QueryState) (*catalog.PageResult, error) {
	seq := c.seq.Add(1)

	res, err := c.selector.ApplyAndPaginate(ctx, state)
	if err != nil {
		return nil, err
	}
	res.Metadata.Sequence = seq

	c.mu.Lock()
	defer c.mu.Unlock()

	if latest := c.seq.Load(); seq != latest {
		c.selector.logger.Debug().
			Uint64("sequence", seq).
			Uint64("latest", latest).
			Msg("discarding superseded result")
		c.selector.recorder.Superseded()
		return nil, catalog.ErrSuperseded
	}

	c.state = state
	c.page = res
	return res, nil
}
