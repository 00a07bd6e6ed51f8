package catalog

import "context"

// Engine is the core interface for all filtering strategies.
// Implementations include the in-memory engine, which filters a fully
// materialized working set, and the remote engine, which delegates to
// DataSource.Query.
//
// Both implementations must return the same PageResult for the same
// QueryState over the same dataset. Strategy choice is an optimization,
// never an observable behavior change.
//
// Example implementations:
//   - inmemory.Engine: load once, filter and slice locally
//   - remote.Engine: translate to a QueryPayload and trust the data source
type Engine interface {
	// ApplyAndPaginate applies filters and search, then returns the
	// requested page together with the filtered total.
	ApplyAndPaginate(ctx context.Context, state QueryState) (*PageResult, error)
}

// PageResult is a single page of filtered products.
type PageResult struct {
	// Items contains the products on this page, in catalog order.
	// len(Items) <= PageSize.
	Items []Product `json:"items"`

	// TotalItems is the size of the filtered collection before pagination.
	TotalItems int `json:"totalItems"`

	// PageNumber and PageSize echo the state the page was computed for.
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`

	// Metadata provides observability information about the execution.
	Metadata Metadata `json:"metadata"`
}

// Metadata provides observability and debugging information about how a
// page was produced.
type Metadata struct {
	// Strategy identifies which engine produced the page.
	// Values: "inmemory", "remote"
	Strategy string `json:"strategy"`

	// QueryTimeMs is the time spent producing the page, including any
	// data source round trip.
	QueryTimeMs int64 `json:"queryTimeMs"`

	// ItemsExamined is the number of products the engine evaluated locally.
	// It is 0 for the remote engine, which does not filter locally.
	ItemsExamined int `json:"itemsExamined"`

	// Sequence is the request sequence number assigned by the catalog
	// facade. It is 0 when an engine is called directly.
	Sequence uint64 `json:"sequence"`
}

// DataSource abstracts the product store. This interface allows the engines
// to work with Postgres, an in-process fixture, or a cache in front of
// either, without being coupled to any of them.
//
// All methods return products in ascending ID order.
type DataSource interface {
	// FetchAll returns the whole catalog. Used only by the in-memory engine.
	FetchAll(ctx context.Context) ([]Product, error)

	// Count returns the total number of products, unfiltered.
	Count(ctx context.Context) (int, error)

	// Query applies the payload's search, filters and pagination on the
	// store side. Used only by the remote engine.
	Query(ctx context.Context, payload QueryPayload) (*QueryResult, error)
}

// QueryResult is what DataSource.Query reports: one page plus the filtered
// total.
type QueryResult struct {
	Items      []Product `json:"items"`
	TotalItems int       `json:"totalItems"`
}

// Payload filter types. The first three are the canonical set; greater and
// smaller carry the single-threshold variants and never marks a filter that
// cannot match anything.
const (
	PayloadValue       = "value"
	PayloadRange       = "range"
	PayloadMultiselect = "multiselect"
	PayloadGreater     = "greater"
	PayloadSmaller     = "smaller"
	PayloadNever       = "never"
)

// Payload combine logic.
const (
	LogicAnd = "and"
	LogicOr  = "or"
)

// QueryPayload is the store-facing translation of a QueryState.
//
// Top level filters are always ANDed. Logic describes how a filter's own
// Values combine: "or" for multiselect alternatives, "and" otherwise.
//
// Example:
//
//	{
//	  "searchTerm": "phone",
//	  "filters": [
//	    {"key": "category", "values": ["Phones","Tablets"], "type": "multiselect", "logic": "or"},
//	    {"key": "price", "values": ["50", ""], "type": "range", "logic": "and"}
//	  ],
//	  "currentPage": 1,
//	  "pageSize": 10
//	}
type QueryPayload struct {
	SearchTerm  string          `json:"searchTerm"`
	Filters     []PayloadFilter `json:"filters"`
	CurrentPage int             `json:"currentPage"`
	PageSize    int             `json:"pageSize"`
}

// PayloadFilter is a single normalized filter in a QueryPayload.
// For range filters Values is always [min, max] with "" for an open bound.
type PayloadFilter struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
	Type   string   `json:"type"`
	Logic  string   `json:"logic"`
}
