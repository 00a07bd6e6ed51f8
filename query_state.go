package catalog

import "slices"

// QueryState is the full set of search, filter and pagination parameters
// for one catalog view.
//
// QueryState is a value: every With* method returns a new state and leaves
// the receiver untouched, so an engine always sees a consistent snapshot.
// Changing the search term, the filter set or the page size resets the page
// number to 1. Changing only the page number does not.
type QueryState struct {
	SearchTerm string        `json:"searchTerm"`
	Filters    []FieldFilter `json:"filters"`
	PageNumber int           `json:"pageNumber"`
	PageSize   int           `json:"pageSize"`
}

// NewQueryState returns a state on page 1 with no search term or filters.
func NewQueryState(pageSize int) QueryState {
	return QueryState{PageNumber: 1, PageSize: pageSize}
}

// WithSearchTerm replaces the search term and resets to page 1.
func (s QueryState) WithSearchTerm(term string) QueryState {
	out := s.clone()
	out.SearchTerm = term
	out.PageNumber = 1
	return out
}

// WithFilters replaces the whole filter set and resets to page 1.
func (s QueryState) WithFilters(filters ...FieldFilter) QueryState {
	out := s.clone()
	out.Filters = slices.Clone(filters)
	out.PageNumber = 1
	return out
}

// WithFilter sets the filter for key, replacing an existing filter on the
// same key in place or appending a new one, and resets to page 1.
func (s QueryState) WithFilter(key string, spec FilterSpec) QueryState {
	out := s.clone()
	out.PageNumber = 1

	for i, f := range out.Filters {
		if f.Key == key {
			out.Filters[i].Spec = spec
			return out
		}
	}
	out.Filters = append(out.Filters, FieldFilter{Key: key, Spec: spec})
	return out
}

// WithoutFilter removes the filter on key, if any, and resets to page 1.
func (s QueryState) WithoutFilter(key string) QueryState {
	out := s.clone()
	out.PageNumber = 1
	out.Filters = slices.DeleteFunc(out.Filters, func(f FieldFilter) bool {
		return f.Key == key
	})
	return out
}

// WithPageSize changes the page size and resets to page 1.
func (s QueryState) WithPageSize(size int) QueryState {
	out := s.clone()
	out.PageSize = size
	out.PageNumber = 1
	return out
}

// WithPage moves to another page without touching anything else.
func (s QueryState) WithPage(page int) QueryState {
	out := s.clone()
	out.PageNumber = page
	return out
}

// ActiveFilters returns the filters that restrict the result, in order.
func (s QueryState) ActiveFilters() []FieldFilter {
	out := make([]FieldFilter, 0, len(s.Filters))
	for _, f := range s.Filters {
		if !f.Spec.IsVacuous() {
			out = append(out, f)
		}
	}
	return out
}

func (s QueryState) clone() QueryState {
	out := s
	if s.Filters != nil {
		out.Filters = make([]FieldFilter, len(s.Filters))
		for i, f := range s.Filters {
			f.Spec.Options = slices.Clone(f.Spec.Options)
			out.Filters[i] = f
		}
	}
	return out
}
