package telemetry

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	ocprometheus "contrib.go.opencensus.io/exporter/prometheus"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats/view"
)

func TestNewOCMetricsRecordsAgainstPrometheusExporter(t *testing.T) {
	exporter, err := ocprometheus.NewExporter(ocprometheus.Options{Namespace: "naming_test"})
	require.NoError(t, err)
	view.RegisterExporter(exporter)
	defer view.UnregisterExporter(exporter)

	handle, err := NewOCMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	handle.LockAcquireLatency(ctx, 5*time.Millisecond, "write")
	handle.LockAcquireCount(ctx, 1, "write")
	handle.LockStoppedCount(ctx, 1, "read")
	handle.ReplicationEnqueuedCount(ctx, 1)
	handle.ReplicationSucceededCount(ctx, 1)
	handle.ReplicationFailedCount(ctx, 1)
	handle.InvalidationRPCCount(ctx, 2)
	handle.RegistrySize(ctx, 3)

	// View recording is asynchronous; give the worker goroutine a turn
	// before scraping, the same wait the teacher's metrics tests used.
	time.Sleep(10 * time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	exporter.ServeHTTP(rec, req)

	require.Contains(t, rec.Body.String(), "naming_test_naming_registry_size")
}
