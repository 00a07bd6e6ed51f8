// Package sqlstore provides a Postgres catalog.DataSource built on SQLBoiler
// query mods.
//
// Query compiles a catalog.QueryPayload into WHERE mods (one per filter,
// ANDed, plus the free text search) and page mods (ORDER BY id, LIMIT,
// OFFSET), and runs the count with the same WHERE mods, so totals always
// describe the filtered collection.
//
// Example usage:
//
//	db, _ := sql.Open("postgres", dsn)
//	if err := sqlstore.Migrate(ctx, db); err != nil {
//	    return err
//	}
//	store := sqlstore.New(db, sqlstore.WithLogger(logger))
//	engine := remote.New(store)
package sqlstore

import (
	"context"
	"time"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/drivers"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/aarondl/strmangle"
	"github.com/friendsofgo/errors"
	"github.com/rs/zerolog"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/pagination"
)

// TableName is the table products are read from.
const TableName = "products"

var dialect = drivers.Dialect{
	LQ: '"',
	RQ: '"',

	UseIndexPlaceholders: true,
	UseDefaultKeyword:    true,
}

// QueryFunc executes a products query built from mods.
type QueryFunc func(ctx context.Context, mods ...qm.QueryMod) ([]catalog.Product, error)

// CountFunc executes a products count built from mods.
type CountFunc func(ctx context.Context, mods ...qm.QueryMod) (int64, error)

// Store reads products from Postgres.
type Store struct {
	queryFunc  QueryFunc
	countFunc  CountFunc
	logger     zerolog.Logger
	pageConfig *catalog.PageConfig
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for query timings and failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithPageConfig sets the page limits Query enforces.
func WithPageConfig(pageConfig *catalog.PageConfig) Option {
	return func(s *Store) {
		if pageConfig != nil {
			s.pageConfig = pageConfig
		}
	}
}

// New creates a Store reading through exec.
func New(exec boil.ContextExecutor, opts ...Option) *Store {
	return NewWithFuncs(
		func(ctx context.Context, mods ...qm.QueryMod) ([]catalog.Product, error) {
			var out []catalog.Product
			if err := Products(mods...).Bind(ctx, exec, &out); err != nil {
				return nil, err
			}
			return out, nil
		},
		func(ctx context.Context, mods ...qm.QueryMod) (int64, error) {
			q := Products(mods...)
			queries.SetSelect(q, nil)
			queries.SetCount(q)

			var count int64
			err := q.QueryRowContext(ctx, exec).Scan(&count)
			return count, err
		},
		opts...,
	)
}

// NewWithFuncs creates a Store from query and count functions. It lets
// callers route queries through their own executor or instrumentation.
func NewWithFuncs(queryFunc QueryFunc, countFunc CountFunc, opts ...Option) *Store {
	s := &Store{
		queryFunc:  queryFunc,
		countFunc:  countFunc,
		logger:     zerolog.Nop(),
		pageConfig: catalog.NewPageConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Products starts a query against the products table.
func Products(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	queries.SetFrom(q, quoteIdent(TableName))
	if len(queries.GetSelect(q)) == 0 {
		queries.SetSelect(q, []string{quoteIdent(TableName) + ".*"})
	}
	return q
}

// FetchAll returns every product in catalog order.
func (s *Store) FetchAll(ctx context.Context) ([]catalog.Product, error) {
	products, err := s.queryFunc(ctx, qm.OrderBy(columns[catalog.FieldID].quoted))
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: fetch products")
	}
	return products, nil
}

// Count returns the number of products.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.countFunc(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "sqlstore: count products")
	}
	return int(n), nil
}

// Query runs payload against the table and returns one page plus the
// filtered total.
func (s *Store) Query(ctx context.Context, payload catalog.QueryPayload) (*catalog.QueryResult, error) {
	if err := s.pageConfig.Validate(payload.QueryState()); err != nil {
		return nil, err
	}

	start := time.Now()
	where := WhereMods(payload)

	total, err := s.countFunc(ctx, where...)
	if err != nil {
		s.logger.Error().Err(err).Msg("filtered count failed")
		return nil, errors.Wrap(err, "sqlstore: count filtered products")
	}

	items := []catalog.Product{}
	if !pagination.PastEnd(payload.CurrentPage, payload.PageSize, int(total)) {
		items, err = s.queryFunc(ctx, PayloadToQueryMods(payload)...)
		if err != nil {
			s.logger.Error().Err(err).Msg("page query failed")
			return nil, errors.Wrap(err, "sqlstore: query products")
		}
		if items == nil {
			items = []catalog.Product{}
		}
	}

	s.logger.Debug().
		Int("filters", len(payload.Filters)).
		Int("page", payload.CurrentPage).
		Int64("total", total).
		Dur("duration", time.Since(start)).
		Msg("products queried")

	return &catalog.QueryResult{
		Items:      items,
		TotalItems: int(total),
	}, nil
}

func quoteIdent(name string) string {
	return strmangle.IdentQuote(dialect.LQ, dialect.RQ, name)
}
