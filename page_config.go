package catalog

import "github.com/friendsofgo/errors"

const (
	// DefaultPageSize is the page size used when a caller does not specify one.
	DefaultPageSize = 12

	// DefaultMaxPageSize is the default maximum page size allowed.
	// This protects against resource exhaustion from unreasonably large page requests.
	DefaultMaxPageSize = 1000
)

// PageConfig holds pagination limits shared by both engines.
// Use NewPageConfig() to create a config with sensible defaults,
// then customize using the With* methods.
//
// Example:
//
//	config := catalog.NewPageConfig().WithMaxSize(100)
//	if err := config.Validate(state); err != nil {
//	    return nil, err
//	}
type PageConfig struct {
	// DefaultSize is the page size used by EffectiveSize for a zero request.
	DefaultSize int

	// MaxSize is the maximum allowed page size. Larger requests are rejected
	// with a PageSizeError.
	MaxSize int
}

// NewPageConfig creates a PageConfig with sensible defaults:
// - DefaultSize: 12
// - MaxSize: 1000
func NewPageConfig() *PageConfig {
	return &PageConfig{
		DefaultSize: DefaultPageSize,
		MaxSize:     DefaultMaxPageSize,
	}
}

// WithDefaultSize sets the default page size and returns the config for chaining.
func (c *PageConfig) WithDefaultSize(size int) *PageConfig {
	if size > 0 {
		c.DefaultSize = size
	}
	return c
}

// WithMaxSize sets the maximum page size and returns the config for chaining.
func (c *PageConfig) WithMaxSize(size int) *PageConfig {
	if size > 0 {
		c.MaxSize = size
	}
	return c
}

// EffectiveSize returns size, or DefaultSize when size is not positive.
// It is meant for transports that allow omitting the page size; engines
// never default silently and use Validate instead.
func (c *PageConfig) EffectiveSize(size int) int {
	if c == nil {
		c = NewPageConfig()
	}
	if size > 0 {
		return size
	}
	if c.DefaultSize > 0 {
		return c.DefaultSize
	}
	return DefaultPageSize
}

// Validate rejects a state whose page size or page number cannot be served.
// It runs before any data source call.
func (c *PageConfig) Validate(state QueryState) error {
	if c == nil {
		c = NewPageConfig()
	}

	if state.PageSize < 1 {
		return errors.Wrapf(ErrInvalidPageSize, "page size %d", state.PageSize)
	}

	maxSize := c.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}
	if state.PageSize > maxSize {
		return &PageSizeError{
			Requested: state.PageSize,
			Maximum:   maxSize,
		}
	}

	if state.PageNumber < 1 {
		return errors.Wrapf(ErrInvalidPageNumber, "page number %d", state.PageNumber)
	}

	return nil
}
