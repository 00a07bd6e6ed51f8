package memstore_test

import (
	"context"
	"math"
	"os"
	"path/filepath"

	"github.com/friendsofgo/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/internal/catalogtest"
	"github.com/nrfta/go-catalog/memstore"
)

var _ = Describe("Store", func() {
	var (
		ctx   context.Context
		store *memstore.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		products := catalogtest.Products()
		// Shuffle the input order; the store must hand back catalog order.
		products[0], products[9] = products[9], products[0]
		store = memstore.New(products)
	})

	It("returns every product in ID order", func() {
		all, err := store.FetchAll(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(all).To(HaveLen(10))
		for i, p := range all {
			Expect(p.ID).To(Equal(int64(i + 1)))
		}
	})

	It("hands out copies", func() {
		all, err := store.FetchAll(ctx)
		Expect(err).ToNot(HaveOccurred())
		all[0].Name = "Changed"

		again, err := store.FetchAll(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(again[0].Name).To(Equal("Phone"))
	})

	It("counts products", func() {
		n, err := store.Count(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(10))
	})

	It("honors a cancelled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.Count(cctx)
		Expect(err).To(MatchError(context.Canceled))
	})

	Describe("Query", func() {
		It("filters a multiselect with or logic and paginates", func() {
			res, err := store.Query(ctx, catalog.QueryPayload{
				Filters: []catalog.PayloadFilter{
					{Key: "category", Values: []string{"Accessories"}, Type: catalog.PayloadMultiselect, Logic: catalog.LogicOr},
				},
				CurrentPage: 2,
				PageSize:    2,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.TotalItems).To(Equal(5))
			Expect(catalogtest.Names(res.Items)).To(Equal([]string{"Case", "Keyboard"}))
		})

		It("applies an open ended range", func() {
			res, err := store.Query(ctx, catalog.QueryPayload{
				Filters: []catalog.PayloadFilter{
					{Key: "price", Values: []string{"300", ""}, Type: catalog.PayloadRange, Logic: catalog.LogicAnd},
				},
				CurrentPage: 1,
				PageSize:    10,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(catalogtest.Names(res.Items)).To(Equal([]string{"Phone", "Laptop", "Tablet"}))
		})

		It("searches", func() {
			res, err := store.Query(ctx, catalog.QueryPayload{SearchTerm: "phone", CurrentPage: 1, PageSize: 10})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.TotalItems).To(Equal(1))
			Expect(res.Items[0].Name).To(Equal("Phone"))
		})

		It("returns an empty page past the end with the total", func() {
			res, err := store.Query(ctx, catalog.QueryPayload{CurrentPage: 5, PageSize: 5})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Items).To(BeEmpty())
			Expect(res.TotalItems).To(Equal(10))
		})

		It("survives the largest page number", func() {
			res, err := store.Query(ctx, catalog.QueryPayload{CurrentPage: math.MaxInt, PageSize: 2})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Items).To(BeEmpty())
			Expect(res.TotalItems).To(Equal(10))
		})

		It("treats malformed filters as matching nothing", func() {
			res, err := store.Query(ctx, catalog.QueryPayload{
				Filters: []catalog.PayloadFilter{
					{Key: "price", Values: []string{"cheap", ""}, Type: catalog.PayloadRange},
				},
				CurrentPage: 1,
				PageSize:    10,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.TotalItems).To(BeZero())
		})

		It("rejects an invalid page size", func() {
			_, err := store.Query(ctx, catalog.QueryPayload{CurrentPage: 1, PageSize: 0})
			Expect(errors.Is(err, catalog.ErrInvalidPageSize)).To(BeTrue())
		})

		It("enforces a custom maximum page size", func() {
			s := memstore.New(catalogtest.Products(), memstore.WithPageConfig(catalog.NewPageConfig().WithMaxSize(5)))
			_, err := s.Query(ctx, catalog.QueryPayload{CurrentPage: 1, PageSize: 6})

			var sizeErr *catalog.PageSizeError
			Expect(errors.As(err, &sizeErr)).To(BeTrue())
			Expect(sizeErr.Maximum).To(Equal(5))
		})
	})

	It("replaces its products", func() {
		store.Replace(catalogtest.Generate(3))
		n, err := store.Count(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(3))
	})
})

var _ = Describe("LoadFile", func() {
	write := func(name, body string) string {
		path := filepath.Join(GinkgoT().TempDir(), name)
		Expect(os.WriteFile(path, []byte(body), 0o600)).To(Succeed())
		return path
	}

	It("reads YAML fixtures", func() {
		path := write("products.yaml", `
- id: 2
  name: Laptop
  category: Electronics
  price: 999
  description: Thin and light
- id: 1
  name: Phone
  category: Electronics
  price: 699.5
  description: Smart handset
  imageUrl: https://img.example.com/1.png
`)
		store, err := memstore.LoadFile(path)
		Expect(err).ToNot(HaveOccurred())

		all, err := store.FetchAll(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(catalogtest.Names(all)).To(Equal([]string{"Phone", "Laptop"}))
		Expect(all[0].Price).To(Equal(699.5))
		Expect(all[0].ImageURL.Valid).To(BeTrue())
		Expect(all[1].ImageURL.Valid).To(BeFalse())
	})

	It("reads JSON fixtures", func() {
		path := write("products.json", `[{"id": 1, "name": "Phone", "category": "Electronics", "price": 699, "description": "x", "imageUrl": null}]`)
		store, err := memstore.LoadFile(path)
		Expect(err).ToNot(HaveOccurred())

		n, err := store.Count(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(1))
	})

	It("rejects duplicate IDs", func() {
		path := write("dup.yaml", "- {id: 1, name: A}\n- {id: 1, name: B}\n")
		_, err := memstore.LoadFile(path)
		Expect(err).To(MatchError(ContainSubstring("duplicate product id 1")))
	})

	It("rejects negative prices", func() {
		_, err := memstore.ParseProducts([]byte("- {id: 1, price: -1}\n"))
		Expect(err).To(MatchError(ContainSubstring("negative price")))
	})

	It("reports a missing file", func() {
		_, err := memstore.LoadFile(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).To(HaveOccurred())
	})
})
