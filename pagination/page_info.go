package pagination

// PageInfo contains metadata about one page of a paginated result set.
type PageInfo struct {
	TotalCount      int     `json:"totalCount"`
	TotalPages      int     `json:"totalPages"`
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
	NextCursor      *string `json:"nextCursor,omitempty"`
	PreviousCursor  *string `json:"previousCursor,omitempty"`
}

// NewPageInfo returns a PageInfo for pageNumber of a collection of
// totalCount items split into pages of pageSize.
//
// EndCursor points at the last non-empty page. For an empty collection both
// StartCursor and EndCursor point at page 1.
func NewPageInfo(pageNumber, pageSize, totalCount int) PageInfo {
	pages := TotalPages(totalCount, pageSize)

	last := pages
	if last < 1 {
		last = 1
	}

	info := PageInfo{
		TotalCount:      totalCount,
		TotalPages:      pages,
		HasNextPage:     pageNumber < pages,
		HasPreviousPage: pageNumber > 1,
		StartCursor:     EncodeCursor(1),
		EndCursor:       EncodeCursor(last),
	}

	if info.HasNextPage {
		info.NextCursor = EncodeCursor(pageNumber + 1)
	}
	if info.HasPreviousPage {
		info.PreviousCursor = EncodeCursor(min(pageNumber-1, last))
	}

	return info
}

// NewEmptyPageInfo returns an empty instance of PageInfo, for views that have not been queried yet.
func NewEmptyPageInfo() PageInfo {
	return PageInfo{
		StartCursor: EncodeCursor(1),
		EndCursor:   EncodeCursor(1),
	}
}
