package catalogtest

import (
	"context"
	"sync"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/memstore"
)

// Source is a catalog.DataSource fake wrapping an in-process store. It counts
// calls, records payloads, and can be told to fail or to pause.
type Source struct {
	inner catalog.DataSource

	mu       sync.Mutex
	fetchErr error
	countErr error
	queryErr error
	count    *int

	fetchCalls int
	countCalls int
	queryCalls int
	payloads   []catalog.QueryPayload

	// BeforeFetch and BeforeQuery run before the call is delegated. Tests use
	// them to hold a call open with a channel.
	BeforeFetch func(ctx context.Context)
	BeforeQuery func(ctx context.Context, payload catalog.QueryPayload)
}

// NewSource returns a Source over a memory store holding products.
func NewSource(products []catalog.Product) *Source {
	return Wrap(memstore.New(products))
}

// Wrap returns a Source delegating to inner.
func Wrap(inner catalog.DataSource) *Source {
	return &Source{inner: inner}
}

// FailFetch makes FetchAll return err. A nil err restores normal behavior.
func (s *Source) FailFetch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
}

// FailCount makes Count return err.
func (s *Source) FailCount(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countErr = err
}

// FailQuery makes Query return err.
func (s *Source) FailQuery(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryErr = err
}

// SetCount makes Count report n regardless of the stored products.
func (s *Source) SetCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = &n
}

func (s *Source) FetchAll(ctx context.Context) ([]catalog.Product, error) {
	s.mu.Lock()
	s.fetchCalls++
	err := s.fetchErr
	hook := s.BeforeFetch
	s.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
	if err != nil {
		return nil, err
	}
	return s.inner.FetchAll(ctx)
}

func (s *Source) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	s.countCalls++
	err := s.countErr
	override := s.count
	s.mu.Unlock()

	if err != nil {
		return 0, err
	}
	if override != nil {
		return *override, nil
	}
	return s.inner.Count(ctx)
}

func (s *Source) Query(ctx context.Context, payload catalog.QueryPayload) (*catalog.QueryResult, error) {
	s.mu.Lock()
	s.queryCalls++
	s.payloads = append(s.payloads, payload)
	err := s.queryErr
	hook := s.BeforeQuery
	s.mu.Unlock()

	if hook != nil {
		hook(ctx, payload)
	}
	if err != nil {
		return nil, err
	}
	return s.inner.Query(ctx, payload)
}

// FetchCalls returns how many times FetchAll was called.
func (s *Source) FetchCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCalls
}

// CountCalls returns how many times Count was called.
func (s *Source) CountCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countCalls
}

// QueryCalls returns how many times Query was called.
func (s *Source) QueryCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryCalls
}

// LastPayload returns the most recent Query payload.
func (s *Source) LastPayload() (catalog.QueryPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.payloads) == 0 {
		return catalog.QueryPayload{}, false
	}
	return s.payloads[len(s.payloads)-1], true
}
