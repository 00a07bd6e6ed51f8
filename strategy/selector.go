package strategy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/inmemory"
	"github.com/nrfta/go-catalog/remote"
)

// Selector owns both engines and forwards queries to the active one.
type Selector struct {
	source    catalog.DataSource
	threshold int
	logger    zerolog.Logger
	recorder  Recorder

	inMemory *inmemory.Engine
	remote   *remote.Engine

	mu     sync.RWMutex
	active Kind
	count  int
}

// NewSelector creates a Selector over source. Nothing is selected until the
// first EvaluateAndSelect.
func NewSelector(source catalog.DataSource, opts ...Option) *Selector {
	cfg := newConfig(opts)

	return &Selector{
		source:    source,
		threshold: cfg.threshold,
		logger:    cfg.logger,
		recorder:  cfg.recorder,
		inMemory: inmemory.New(source,
			inmemory.WithLogger(cfg.logger),
			inmemory.WithPageConfig(cfg.pageConfig),
		),
		remote: remote.New(source,
			remote.WithLogger(cfg.logger),
			remote.WithPageConfig(cfg.pageConfig),
		),
	}
}

// EvaluateAndSelect counts the catalog and selects an engine. A count above
// the threshold selects Remote. Otherwise InMemory is selected and its
// working set is loaded, unless it is already the active, loaded engine.
//
// On failure the previous selection stays in place and the error wraps
// catalog.ErrDataSourceUnavailable.
func (s *Selector) EvaluateAndSelect(ctx context.Context) (int, error) {
	count, err := s.source.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("catalog count failed")
		return 0, fmt.Errorf("%w: count: %w", catalog.ErrDataSourceUnavailable, err)
	}

	kind := InMemory
	if count > s.threshold {
		kind = Remote
	}

	if kind == InMemory && (s.Active() != InMemory || !s.inMemory.Loaded()) {
		if err := s.inMemory.Load(ctx); err != nil {
			return count, err
		}
	}

	s.mu.Lock()
	previous := s.active
	s.active = kind
	s.count = count
	s.mu.Unlock()

	s.logger.Info().
		Int("count", count).
		Int("threshold", s.threshold).
		Stringer("strategy", kind).
		Stringer("previous", previous).
		Msg("strategy selected")
	s.recorder.Selected(kind, count)

	return count, nil
}

// ApplyAndPaginate forwards to the active engine.
func (s *Selector) ApplyAndPaginate(ctx context.Context, state catalog.QueryState) (*catalog.PageResult, error) {
	kind := s.Active()
	engine := s.engine(kind)
	if engine == nil {
		return nil, catalog.ErrNoStrategySelected
	}

	start := time.Now()
	res, err := engine.ApplyAndPaginate(ctx, state)
	s.recorder.Queried(kind, time.Since(start), err)

	return res, err
}

// Active returns the selected Kind, or None.
func (s *Selector) Active() Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Count returns the count used by the last successful selection.
func (s *Selector) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Threshold returns the selection threshold.
func (s *Selector) Threshold() int {
	return s.threshold
}

// InMemory returns the in-memory engine, selected or not.
func (s *Selector) InMemory() *inmemory.Engine {
	return s.inMemory
}

func (s *Selector) engine(kind Kind) catalog.Engine {
	switch kind {
	case InMemory:
		return s.inMemory
	case Remote:
		return s.remote
	default:
		return nil
	}
}

var _ catalog.Engine = (*Selector)(nil)
