package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/go-catalog/internal/config"
)

var _ = Describe("Load", func() {
	setenv := func(key, value string) {
		GinkgoT().Setenv(key, value)
	}

	It("applies defaults", func() {
		setenv("CATALOG_SEED_FILE", "products.yaml")

		cfg, err := config.Load("")
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.HTTP.Addr).To(Equal(":8080"))
		Expect(cfg.HTTP.ShutdownTimeout).To(Equal(10 * time.Second))
		Expect(cfg.Strategy.Threshold).To(Equal(100))
		Expect(cfg.Page.DefaultSize).To(Equal(12))
		Expect(cfg.Page.MaxSize).To(Equal(1000))
		Expect(cfg.Redis.TTL).To(Equal(time.Minute))
		Expect(cfg.Log.Level).To(Equal("info"))
	})

	It("reads prefixed variables", func() {
		setenv("CATALOG_DB_DSN", "postgres://localhost/catalog")
		setenv("CATALOG_STRATEGY_THRESHOLD", "250")
		setenv("CATALOG_PAGE_MAX_SIZE", "50")
		setenv("CATALOG_REDIS_URL", "redis://localhost:6379/0")
		setenv("CATALOG_REDIS_TTL", "30s")

		cfg, err := config.Load("")
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.DB.DSN).To(Equal("postgres://localhost/catalog"))
		Expect(cfg.Strategy.Threshold).To(Equal(250))
		Expect(cfg.Page.PageConfig().MaxSize).To(Equal(50))
		Expect(cfg.Redis.TTL).To(Equal(30 * time.Second))
		Expect(cfg.SelectorOptions()).To(HaveLen(2))
	})

	It("loads a .env file without overriding the environment", func() {
		path := filepath.Join(GinkgoT().TempDir(), ".env")
		Expect(os.WriteFile(path, []byte("CATALOG_SEED_FILE=from-file.yaml\nCATALOG_LOG_LEVEL=debug\n"), 0o600)).To(Succeed())
		setenv("CATALOG_LOG_LEVEL", "warn")
		// Registers cleanup for the variable the file sets.
		setenv("CATALOG_SEED_FILE", "")
		Expect(os.Unsetenv("CATALOG_SEED_FILE")).To(Succeed())

		cfg, err := config.Load(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.SeedFile).To(Equal("from-file.yaml"))
		Expect(cfg.Log.Level).To(Equal("warn"))
	})

	It("tolerates a missing .env file", func() {
		setenv("CATALOG_SEED_FILE", "products.yaml")
		_, err := config.Load(filepath.Join(GinkgoT().TempDir(), "missing.env"))
		Expect(err).ToNot(HaveOccurred())
	})

	It("requires a data source", func() {
		setenv("CATALOG_DB_DSN", "")
		setenv("CATALOG_SEED_FILE", "")
		_, err := config.Load("")
		Expect(err).To(MatchError(ContainSubstring("CATALOG_DB_DSN")))
	})

	It("rejects inconsistent page sizes", func() {
		setenv("CATALOG_SEED_FILE", "products.yaml")
		setenv("CATALOG_PAGE_DEFAULT_SIZE", "20")
		setenv("CATALOG_PAGE_MAX_SIZE", "10")
		_, err := config.Load("")
		Expect(err).To(MatchError(ContainSubstring("page sizes")))
	})

	It("rejects malformed values", func() {
		setenv("CATALOG_SEED_FILE", "products.yaml")
		setenv("CATALOG_STRATEGY_THRESHOLD", "many")
		_, err := config.Load("")
		Expect(err).To(MatchError(ContainSubstring("parsing config")))
	})
})
