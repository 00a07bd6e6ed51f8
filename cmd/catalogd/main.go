// Command catalogd serves a product catalog over HTTP, picking the
// in-memory or remote filtering strategy from the catalog size.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/friendsofgo/errors"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/cache"
	"github.com/nrfta/go-catalog/httpapi"
	"github.com/nrfta/go-catalog/internal/config"
	"github.com/nrfta/go-catalog/internal/logging"
	"github.com/nrfta/go-catalog/memstore"
	"github.com/nrfta/go-catalog/metrics"
	"github.com/nrfta/go-catalog/sqlstore"
	"github.com/nrfta/go-catalog/strategy"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file read before the environment")
	addr := pflag.String("addr", "", "listen address, overrides CATALOG_HTTP_ADDR")
	migrate := pflag.Bool("migrate", false, "apply database migrations on start")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("config")
	}
	if *addr != "" {
		cfg.HTTP.Addr = *addr
	}
	cfg.DB.Migrate = cfg.DB.Migrate || *migrate

	logger := logging.New(logging.Options{
		Service: "catalogd",
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("catalogd stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	pageConfig := cfg.Page.PageConfig()

	source, closeSource, err := openSource(ctx, cfg, logger, pageConfig)
	if err != nil {
		return err
	}
	defer closeSource()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := append(cfg.SelectorOptions(),
		strategy.WithLogger(logger),
		strategy.WithRecorder(metrics.NewRecorder(registry)),
	)
	selector := strategy.NewSelector(source, opts...)

	if _, err := selector.EvaluateAndSelect(ctx); err != nil {
		return errors.Wrap(err, "initial strategy selection")
	}

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(selector, httpapi.Options{
			Logger:     logger,
			PageConfig: pageConfig,
			Gatherer:   registry,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openSource returns the configured data source: Postgres when a DSN is
// set, the seed file otherwise, optionally behind a Redis cache.
func openSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger, pageConfig *catalog.PageConfig) (catalog.DataSource, func(), error) {
	var (
		source  catalog.DataSource
		closers []func() error
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn().Err(err).Msg("close")
			}
		}
	}

	if cfg.DB.DSN != "" {
		db, err := sql.Open("postgres", cfg.DB.DSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open database")
		}
		closers = append(closers, db.Close)

		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

		if err := db.PingContext(ctx); err != nil {
			closeAll()
			return nil, nil, errors.Wrap(err, "ping database")
		}
		if cfg.DB.Migrate {
			if err := sqlstore.Migrate(ctx, db); err != nil {
				closeAll()
				return nil, nil, err
			}
		}

		source = sqlstore.New(db, sqlstore.WithLogger(logger), sqlstore.WithPageConfig(pageConfig))
		logger.Info().Msg("serving products from postgres")
	} else {
		store, err := memstore.LoadFile(cfg.SeedFile, memstore.WithLogger(logger), memstore.WithPageConfig(pageConfig))
		if err != nil {
			return nil, nil, err
		}
		source = store
		logger.Info().Str("file", cfg.SeedFile).Msg("serving products from seed file")
	}

	if cfg.Redis.URL != "" {
		client, err := cache.Dial(ctx, cfg.Redis.URL)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, client.Close)

		source = cache.New(client, source,
			cache.WithTTL(cfg.Redis.TTL),
			cache.WithNamespace(cfg.Redis.Namespace),
			cache.WithLogger(logger),
		)
		logger.Info().Dur("ttl", cfg.Redis.TTL).Msg("caching data source in redis")
	}

	return source, closeAll, nil
}
