package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementClaimsCreated()
	m.ObserveTransition("completed", true)
	m.ObserveTransition("completed", false)
	m.ObserveTransition("completed", false)
	m.IncrementExportsEnqueued("zip")
	m.ObserveRequest("GET", "/claims/{id}", 200, 15*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClaimsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("completed", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsEnqueued.WithLabelValues("zip")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestExportMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveExport("zip", "done", time.Second)
	m.ObserveExport("zip", "blocked", 0)
	m.IncrementExportRetries("claims.export.zip")
	m.IncrementExportDeadLettered("claims.export.zip")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportOutcomes.WithLabelValues("zip", "done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportOutcomes.WithLabelValues("zip", "blocked")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ExportDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportRetries.WithLabelValues("claims.export.zip")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportDeadLettered.WithLabelValues("claims.export.zip")))
}
