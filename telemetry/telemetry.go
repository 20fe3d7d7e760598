// Package telemetry records the naming server's operational metrics:
// lock-acquire latency by lock mode, replication task outcomes, and
// registry size. It mirrors the teacher's common.MetricHandle split
// between a composed interface, a no-op implementation used in tests, and
// an OpenTelemetry-backed implementation used in production (spec.md
// section "Observability" in SPEC_FULL.md).
package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ShutdownFn flushes and releases a metrics pipeline's resources.
type ShutdownFn func(ctx context.Context) error

// JoinShutdownFunc combines shutdownFns into a single function that
// invokes each of them and joins any errors.
func JoinShutdownFunc(shutdownFns ...ShutdownFn) ShutdownFn {
	return func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFns {
			if fn == nil {
				continue
			}
			err = errors.Join(err, fn(ctx))
		}
		return err
	}
}

// latencyBuckets are the explicit histogram boundaries, in milliseconds,
// used for every latency metric below.
var latencyBuckets = metric.WithExplicitBucketBoundaries(
	0.5, 1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096, 8192,
)

// LockMetricHandle records lock-acquire latency and outcome.
type LockMetricHandle interface {
	LockAcquireLatency(ctx context.Context, latency time.Duration, mode string)
	LockAcquireCount(ctx context.Context, inc int64, mode string)
	LockStoppedCount(ctx context.Context, inc int64, mode string)
}

// ReplicationMetricHandle records replication-task outcomes (spec.md
// section 4.5).
type ReplicationMetricHandle interface {
	ReplicationEnqueuedCount(ctx context.Context, inc int64)
	ReplicationSucceededCount(ctx context.Context, inc int64)
	ReplicationFailedCount(ctx context.Context, inc int64)
	InvalidationRPCCount(ctx context.Context, inc int64)
}

// RegistryMetricHandle records the size of the storage registry.
type RegistryMetricHandle interface {
	RegistrySize(ctx context.Context, size int64)
}

// MetricHandle is the full set of naming-server metrics.
type MetricHandle interface {
	LockMetricHandle
	ReplicationMetricHandle
	RegistryMetricHandle
}
