package catalog

import (
	"fmt"

	"github.com/friendsofgo/errors"
)

var (
	// ErrDataSourceUnavailable is returned when fetching or counting products
	// fails. The operation may be retried.
	ErrDataSourceUnavailable = errors.New("catalog: data source unavailable")

	// ErrRemoteQueryFailed is returned when a remote query round trip fails.
	// It is never reported as an empty page.
	ErrRemoteQueryFailed = errors.New("catalog: remote query failed")

	// ErrInvalidPageSize is returned for a page size below 1 or above the
	// configured maximum.
	ErrInvalidPageSize = errors.New("catalog: invalid page size")

	// ErrInvalidPageNumber is returned for a page number below 1.
	ErrInvalidPageNumber = errors.New("catalog: invalid page number")

	// ErrNotLoaded is returned by the in-memory engine before a successful load.
	ErrNotLoaded = errors.New("catalog: working set not loaded")

	// ErrNoStrategySelected is returned by the selector before the first
	// EvaluateAndSelect.
	ErrNoStrategySelected = errors.New("catalog: no strategy selected")

	// ErrSuperseded is returned when a newer request committed its result
	// while this one was in flight. The stale result is discarded.
	ErrSuperseded = errors.New("catalog: request superseded by a newer one")
)

// PageSizeError is returned when the requested page size exceeds the maximum allowed.
type PageSizeError struct {
	Requested int
	Maximum   int
}

func (e *PageSizeError) Error() string {
	return fmt.Sprintf("requested page size %d exceeds maximum allowed page size of %d",
		e.Requested, e.Maximum)
}

// Is makes errors.Is(err, ErrInvalidPageSize) true for a PageSizeError.
func (e *PageSizeError) Is(target error) bool {
	return target == ErrInvalidPageSize
}

// Retryable reports whether err comes from a data source or remote query
// failure, which a caller may retry. Input errors are never retryable.
func Retryable(err error) bool {
	return errors.Is(err, ErrDataSourceUnavailable) || errors.Is(err, ErrRemoteQueryFailed)
}
