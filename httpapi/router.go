// Package httpapi exposes a catalog over JSON HTTP.
//
//	GET  /products          ?q=&page=&pageSize=&cursor=&filter[k]=&range[k]=min,max&gt[k]=&lt[k]=&in[k]=a,b
//	GET  /products/count
//	POST /strategy/switch
//	GET  /healthz
//	GET  /metrics
//
// Requests are stateless: every GET /products carries its full query, so
// concurrent clients never supersede each other.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/strategy"
)

// Catalog is what the API serves. *strategy.Selector implements it.
type Catalog interface {
	catalog.Engine
	EvaluateAndSelect(ctx context.Context) (int, error)
	Active() strategy.Kind
	Count() int
	Threshold() int
}

// Options configures NewRouter.
type Options struct {
	Logger     zerolog.Logger
	PageConfig *catalog.PageConfig

	// Gatherer backs GET /metrics. The route is not mounted when nil.
	Gatherer prometheus.Gatherer
}

type handler struct {
	catalog    Catalog
	logger     zerolog.Logger
	pageConfig *catalog.PageConfig
}

// NewRouter returns the API routes for c.
func NewRouter(c Catalog, opts Options) http.Handler {
	if opts.PageConfig == nil {
		opts.PageConfig = catalog.NewPageConfig()
	}

	h := &handler{
		catalog:    c,
		logger:     opts.Logger,
		pageConfig: opts.PageConfig,
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		RequestID(opts.Logger),
		Logging(opts.Logger),
		middleware.Recoverer,
	)

	r.Get("/healthz", h.health)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/count", h.countProducts)
	})

	r.Post("/strategy/switch", h.switchStrategy)

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
