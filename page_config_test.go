package catalog_test

import (
	"github.com/friendsofgo/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/go-catalog"
)

var _ = Describe("PageConfig", func() {
	It("has sensible defaults", func() {
		config := catalog.NewPageConfig()
		Expect(config.DefaultSize).To(Equal(catalog.DefaultPageSize))
		Expect(config.MaxSize).To(Equal(catalog.DefaultMaxPageSize))
	})

	It("ignores non-positive sizes when chaining", func() {
		config := catalog.NewPageConfig().WithDefaultSize(0).WithMaxSize(-1)
		Expect(config.DefaultSize).To(Equal(catalog.DefaultPageSize))
		Expect(config.MaxSize).To(Equal(catalog.DefaultMaxPageSize))
	})

	Describe("EffectiveSize", func() {
		It("falls back to the default size", func() {
			config := catalog.NewPageConfig().WithDefaultSize(24)
			Expect(config.EffectiveSize(0)).To(Equal(24))
			Expect(config.EffectiveSize(-3)).To(Equal(24))
			Expect(config.EffectiveSize(7)).To(Equal(7))
		})

		It("works on a nil config", func() {
			var config *catalog.PageConfig
			Expect(config.EffectiveSize(0)).To(Equal(catalog.DefaultPageSize))
		})
	})

	Describe("Validate", func() {
		config := catalog.NewPageConfig().WithMaxSize(50)

		It("accepts a state inside the limits", func() {
			Expect(config.Validate(catalog.NewQueryState(50).WithPage(9))).To(Succeed())
		})

		It("rejects a page size of zero", func() {
			err := config.Validate(catalog.NewQueryState(0))
			Expect(errors.Is(err, catalog.ErrInvalidPageSize)).To(BeTrue())
		})

		It("rejects a page size above the maximum with a PageSizeError", func() {
			err := config.Validate(catalog.NewQueryState(51))
			Expect(errors.Is(err, catalog.ErrInvalidPageSize)).To(BeTrue())

			var sizeErr *catalog.PageSizeError
			Expect(errors.As(err, &sizeErr)).To(BeTrue())
			Expect(sizeErr.Requested).To(Equal(51))
			Expect(sizeErr.Maximum).To(Equal(50))
			Expect(err.Error()).To(ContainSubstring("exceeds maximum allowed page size of 50"))
		})

		It("rejects a page number below 1", func() {
			err := config.Validate(catalog.NewQueryState(10).WithPage(0))
			Expect(errors.Is(err, catalog.ErrInvalidPageNumber)).To(BeTrue())
		})

		It("uses the default maximum on a nil config", func() {
			var nilConfig *catalog.PageConfig
			Expect(nilConfig.Validate(catalog.NewQueryState(catalog.DefaultMaxPageSize))).To(Succeed())
			Expect(nilConfig.Validate(catalog.NewQueryState(catalog.DefaultMaxPageSize + 1))).ToNot(Succeed())
		})
	})
})

var _ = Describe("Retryable", func() {
	DescribeTable("classifies errors",
		func(err error, retryable bool) {
			Expect(catalog.Retryable(err)).To(Equal(retryable))
		},
		Entry("data source", errors.Wrap(catalog.ErrDataSourceUnavailable, "count"), true),
		Entry("remote query", errors.Wrap(catalog.ErrRemoteQueryFailed, "timeout"), true),
		Entry("page size", &catalog.PageSizeError{Requested: 2000, Maximum: 1000}, false),
		Entry("page number", catalog.ErrInvalidPageNumber, false),
		Entry("superseded", catalog.ErrSuperseded, false),
	)
})
