package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewOTelMetricsRegistersInstruments(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("naming_test")

	handle, err := NewOTelMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	handle.LockAcquireLatency(ctx, 5*time.Millisecond, "write")
	handle.LockAcquireCount(ctx, 1, "write")
	handle.LockStoppedCount(ctx, 1, "read")
	handle.ReplicationEnqueuedCount(ctx, 1)
	handle.ReplicationSucceededCount(ctx, 1)
	handle.ReplicationFailedCount(ctx, 1)
	handle.InvalidationRPCCount(ctx, 2)
	handle.RegistrySize(ctx, 1)
}

func TestNoopMetricsDoesNotPanic(t *testing.T) {
	handle := NewNoopMetrics()
	ctx := context.Background()
	handle.LockAcquireLatency(ctx, time.Millisecond, "read")
	handle.RegistrySize(ctx, -1)
}

func TestJoinShutdownFuncCallsEveryNonNilFunc(t *testing.T) {
	calls := 0
	fn := JoinShutdownFunc(
		func(context.Context) error { calls++; return nil },
		nil,
		func(context.Context) error { calls++; return nil },
	)
	require.NoError(t, fn(context.Background()))
	require.Equal(t, 2, calls)
}
