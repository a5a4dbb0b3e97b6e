package prom

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, CreateWithRegisterer(reg, "test-host", "test", "ledger_test"))
	t.Cleanup(func() { MetricSystemEnabled = false })

	RecordMutation("sales_invoice", "create")
	RecordMutation("sales_invoice", "create")
	RecordRejection("payment", "delete", "not_found")
	SetDriftOwners("customer", 3)
	ObserveMutation("sales_invoice", "create", 20*time.Millisecond)
	ObserveMutation("sales_invoice", "create", 40*time.Millisecond)

	mutations := MetricCollectionCounterVec[SystemLedger+MetricMutationsTotal]
	assert.Equal(t, float64(2), testutil.ToFloat64(mutations.WithLabelValues("sales_invoice", "create")))

	rejections := MetricCollectionCounterVec[SystemLedger+MetricRejectionsTotal]
	assert.Equal(t, float64(1), testutil.ToFloat64(rejections.WithLabelValues("payment", "delete", "not_found")))

	drift := MetricCollectionGaugeVec[SystemLedger+MetricDriftOwners]
	assert.Equal(t, float64(3), testutil.ToFloat64(drift.WithLabelValues("customer")))

	latency := MetricCollectionHistogramVec[SystemLedger+MetricMutationSeconds]
	assert.Equal(t, 1, testutil.CollectAndCount(latency))
	h := &dto.Metric{}
	require.NoError(t, latency.WithLabelValues("sales_invoice", "create").(prometheus.Histogram).Write(h))
	assert.Equal(t, uint64(2), h.GetHistogram().GetSampleCount())
	assert.InDelta(t, 0.06, h.GetHistogram().GetSampleSum(), 1e-9)

	SetDriftOwners("customer", 0)
	assert.Equal(t, float64(0), testutil.ToFloat64(drift.WithLabelValues("customer")))
}

func TestMetricsDisabledIsNoop(t *testing.T) {
	MetricSystemEnabled = false
	assert.NotPanics(t, func() {
		RecordMutation("collection", "update")
		SetDriftOwners("supplier", 1)
		ObserveMutation("payment", "delete", time.Millisecond)
	})
}
