package metrics_test

import (
	"strings"
	"time"

	"github.com/friendsofgo/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/nrfta/go-catalog/metrics"
	"github.com/nrfta/go-catalog/strategy"
)

var _ = Describe("Recorder", func() {
	var (
		reg *prometheus.Registry
		rec *metrics.Recorder
	)

	BeforeEach(func() {
		reg = prometheus.NewRegistry()
		rec = metrics.NewRecorder(reg)
	})

	It("records selections and the active strategy", func() {
		rec.Selected(strategy.InMemory, 40)
		rec.Selected(strategy.Remote, 4000)

		Expect(testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP catalog_strategy_active 1 for the active strategy, 0 otherwise.
# TYPE catalog_strategy_active gauge
catalog_strategy_active{strategy="inmemory"} 0
catalog_strategy_active{strategy="remote"} 1
# HELP catalog_strategy_selections_total Strategy selections by chosen strategy.
# TYPE catalog_strategy_selections_total counter
catalog_strategy_selections_total{strategy="inmemory"} 1
catalog_strategy_selections_total{strategy="remote"} 1
# HELP catalog_products Product count seen by the last selection.
# TYPE catalog_products gauge
catalog_products 4000
`), "catalog_strategy_active", "catalog_strategy_selections_total", "catalog_products")).To(Succeed())
	})

	It("records query durations and failures", func() {
		rec.Queried(strategy.Remote, 250*time.Millisecond, nil)
		rec.Queried(strategy.Remote, time.Second, errors.New("timeout"))

		mfs, err := reg.Gather()
		Expect(err).ToNot(HaveOccurred())
		Expect(counterValue(mfs, "catalog_query_failures_total", "strategy", "remote")).To(Equal(1.0))

		hist := find(mfs, "catalog_query_duration_seconds")
		Expect(hist).ToNot(BeNil())
		Expect(hist.GetMetric()[0].GetHistogram().GetSampleCount()).To(Equal(uint64(2)))
		Expect(hist.GetMetric()[0].GetHistogram().GetSampleSum()).To(BeNumerically("~", 1.25, 0.001))
	})

	It("counts superseded results", func() {
		rec.Superseded()
		rec.Superseded()
		Expect(testutil.CollectAndCount(reg, "catalog_superseded_results_total")).To(Equal(1))

		mfs, err := reg.Gather()
		Expect(err).ToNot(HaveOccurred())
		Expect(find(mfs, "catalog_superseded_results_total").GetMetric()[0].GetCounter().GetValue()).To(Equal(2.0))
	})

	It("is a no-op without a registerer", func() {
		r := metrics.NewRecorder(nil)
		Expect(func() {
			r.Selected(strategy.InMemory, 1)
			r.Queried(strategy.InMemory, time.Millisecond, nil)
			r.Superseded()
		}).ToNot(Panic())
	})
})

func find(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func counterValue(mfs []*dto.MetricFamily, name, label, value string) float64 {
	mf := find(mfs, name)
	if mf == nil {
		return -1
	}
	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == label && l.GetValue() == value {
				return m.GetCounter().GetValue()
			}
		}
	}
	return -1
}
