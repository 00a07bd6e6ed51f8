package cache_test

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/friendsofgo/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/cache"
	"github.com/nrfta/go-catalog/internal/catalogtest"
)

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	down error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down != nil {
		return redis.NewStringResult("", f.down)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down != nil {
		return redis.NewStatusResult("", f.down)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.data))
	for k := range f.data {
		out = append(out, k)
	}
	return out
}

var _ = Describe("Source", func() {
	var (
		ctx    context.Context
		rdb    *fakeRedis
		source *catalogtest.Source
		cached *cache.Source
		logs   *bytes.Buffer
	)

	BeforeEach(func() {
		ctx = context.Background()
		rdb = newFakeRedis()
		source = catalogtest.NewSource(catalogtest.Products())
		logs = &bytes.Buffer{}
		cached = cache.New(rdb, source,
			cache.WithTTL(30*time.Second),
			cache.WithNamespace("test"),
			cache.WithLogger(zerolog.New(logs)),
		)
	})

	It("reads counts through", func() {
		for range 3 {
			n, err := cached.Count(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(10))
		}
		Expect(source.CountCalls()).To(Equal(1))
		Expect(rdb.ttls).To(HaveKeyWithValue("test:count", 30*time.Second))
	})

	It("reads the whole catalog through", func() {
		first, err := cached.FetchAll(ctx)
		Expect(err).ToNot(HaveOccurred())
		second, err := cached.FetchAll(ctx)
		Expect(err).ToNot(HaveOccurred())

		Expect(second).To(Equal(first))
		Expect(second[0].ImageURL.Valid).To(BeTrue())
		Expect(second[1].ImageURL.Valid).To(BeFalse())
		Expect(source.FetchCalls()).To(Equal(1))
	})

	It("caches queries per payload", func() {
		phone := catalog.NewQueryPayload(catalog.NewQueryState(5).WithSearchTerm("phone"))
		page2 := catalog.NewQueryPayload(catalog.NewQueryState(5).WithPage(2))

		for range 2 {
			res, err := cached.Query(ctx, phone)
			Expect(err).ToNot(HaveOccurred())
			Expect(catalogtest.Names(res.Items)).To(Equal([]string{"Phone"}))

			res, err = cached.Query(ctx, page2)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.TotalItems).To(Equal(10))
			Expect(res.Items).To(HaveLen(5))
		}

		Expect(source.QueryCalls()).To(Equal(2))
		Expect(rdb.keys()).To(ContainElement(HavePrefix("test:query:")))
	})

	It("does not cache failures", func() {
		source.FailQuery(errors.New("boom"))
		payload := catalog.NewQueryPayload(catalog.NewQueryState(5))

		_, err := cached.Query(ctx, payload)
		Expect(err).To(MatchError("boom"))

		source.FailQuery(nil)
		res, err := cached.Query(ctx, payload)
		Expect(err).ToNot(HaveOccurred())
		Expect(res.TotalItems).To(Equal(10))
	})

	It("falls through when redis is down", func() {
		rdb.down = errors.New("dial tcp 127.0.0.1:6379: connection refused")

		n, err := cached.Count(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(10))

		n, err = cached.Count(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(10))

		Expect(source.CountCalls()).To(Equal(2))
		Expect(logs.String()).To(ContainSubstring("cache read failed"))
		Expect(logs.String()).To(ContainSubstring("cache write failed"))
	})

	It("ignores undecodable entries", func() {
		rdb.data["test:count"] = "not json"

		n, err := cached.Count(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(10))
		Expect(logs.String()).To(ContainSubstring("cache entry undecodable"))
	})
})
