package strategy

import (
	"github.com/rs/zerolog"

	"github.com/nrfta/go-catalog"
)

// DefaultThreshold is the catalog size up to which the in-memory engine is
// selected.
const DefaultThreshold = 100

// Option configures a Selector.
type Option func(*config)

type config struct {
	threshold  int
	logger     zerolog.Logger
	pageConfig *catalog.PageConfig
	recorder   Recorder
}

// WithThreshold sets the selection threshold. Catalogs with more products
// than n use the remote engine. Negative values are ignored.
func WithThreshold(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.threshold = n
		}
	}
}

// WithLogger sets the logger handed to both engines.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithPageConfig sets the page limits both engines enforce.
func WithPageConfig(pageConfig *catalog.PageConfig) Option {
	return func(c *config) {
		if pageConfig != nil {
			c.pageConfig = pageConfig
		}
	}
}

// WithRecorder attaches a Recorder.
func WithRecorder(r Recorder) Option {
	return func(c *config) {
		if r != nil {
			c.recorder = r
		}
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		threshold:  DefaultThreshold,
		logger:     zerolog.Nop(),
		pageConfig: catalog.NewPageConfig(),
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
