package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncLedger("deposit", "ok")
	m.IncLedger("deposit", "ok")
	m.IncLedger("withdraw", "insufficient_funds")
	m.IncOrderTransition("shipped")
	m.IncSettlement("")
	m.IncEmail("buyer_confirmation", "queued")
	m.ObserveHTTP("POST", "/api/v1/checkout", "200", 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ledgerOps.WithLabelValues("deposit", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerOps.WithLabelValues("withdraw", "insufficient_funds")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orderEvents.WithLabelValues("shipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.settlements.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emails.WithLabelValues("buyer_confirmation", "queued")))

	count, err := testutil.GatherAndCount(reg, "http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.IncLedger("deposit", "ok")
	m.IncOrderTransition("completed")
	m.IncSettlement("ok")
	m.IncEmail("artist_sale", "failed")
	m.ObserveHTTP("GET", "/health", "200", time.Millisecond)

	unregistered := New(nil)
	unregistered.IncLedger("transfer", "ok")
}
