package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const modeKey = "lock_mode"

// otelMetrics is the OpenTelemetry-backed MetricHandle. Per-mode
// attribute sets are cached the same way the teacher's common package
// caches its fs-op attribute sets, avoiding an allocation on every
// recorded measurement.
type otelMetrics struct {
	lockAcquireLatency metric.Float64Histogram
	lockAcquireCount   metric.Int64Counter
	lockStoppedCount   metric.Int64Counter

	replicationEnqueued  metric.Int64Counter
	replicationSucceeded metric.Int64Counter
	replicationFailed    metric.Int64Counter
	invalidationRPCs     metric.Int64Counter

	registrySize metric.Int64UpDownCounter

	modeAttrs sync.Map // string -> metric.MeasurementOption
}

// NewOTelMetrics builds a MetricHandle backed by meter. The caller owns
// meter's lifecycle (flushing, shutdown) via the MeterProvider it came
// from.
func NewOTelMetrics(meter metric.Meter) (MetricHandle, error) {
	m := &otelMetrics{}

	var err error
	if m.lockAcquireLatency, err = meter.Float64Histogram(
		"naming.lock.acquire_latency_ms",
		metric.WithDescription("Time spent blocked in AcquireRead/AcquireWrite."),
		latencyBuckets,
	); err != nil {
		return nil, err
	}
	if m.lockAcquireCount, err = meter.Int64Counter(
		"naming.lock.acquire_count",
		metric.WithDescription("Successful lock acquisitions, by mode."),
	); err != nil {
		return nil, err
	}
	if m.lockStoppedCount, err = meter.Int64Counter(
		"naming.lock.stopped_count",
		metric.WithDescription("Acquires that failed because the lock was stopped."),
	); err != nil {
		return nil, err
	}
	if m.replicationEnqueued, err = meter.Int64Counter(
		"naming.replication.enqueued_count",
		metric.WithDescription("Replication tasks enqueued by hot-read detection."),
	); err != nil {
		return nil, err
	}
	if m.replicationSucceeded, err = meter.Int64Counter(
		"naming.replication.succeeded_count",
	); err != nil {
		return nil, err
	}
	if m.replicationFailed, err = meter.Int64Counter(
		"naming.replication.failed_count",
	); err != nil {
		return nil, err
	}
	if m.invalidationRPCs, err = meter.Int64Counter(
		"naming.invalidation.rpc_count",
		metric.WithDescription("Command.delete RPCs issued by the exclusive-lock invalidation pass."),
	); err != nil {
		return nil, err
	}
	if m.registrySize, err = meter.Int64UpDownCounter(
		"naming.registry.size",
		metric.WithDescription("Number of storage servers currently registered."),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *otelMetrics) modeAttrOption(mode string) metric.MeasurementOption {
	if v, ok := m.modeAttrs.Load(mode); ok {
		return v.(metric.MeasurementOption)
	}
	opt := metric.WithAttributeSet(attribute.NewSet(attribute.String(modeKey, mode)))
	v, _ := m.modeAttrs.LoadOrStore(mode, opt)
	return v.(metric.MeasurementOption)
}

func (m *otelMetrics) LockAcquireLatency(ctx context.Context, latency time.Duration, mode string) {
	m.lockAcquireLatency.Record(ctx, float64(latency.Microseconds())/1000.0, m.modeAttrOption(mode))
}

func (m *otelMetrics) LockAcquireCount(ctx context.Context, inc int64, mode string) {
	m.lockAcquireCount.Add(ctx, inc, m.modeAttrOption(mode))
}

func (m *otelMetrics) LockStoppedCount(ctx context.Context, inc int64, mode string) {
	m.lockStoppedCount.Add(ctx, inc, m.modeAttrOption(mode))
}

func (m *otelMetrics) ReplicationEnqueuedCount(ctx context.Context, inc int64) {
	m.replicationEnqueued.Add(ctx, inc)
}

func (m *otelMetrics) ReplicationSucceededCount(ctx context.Context, inc int64) {
	m.replicationSucceeded.Add(ctx, inc)
}

func (m *otelMetrics) ReplicationFailedCount(ctx context.Context, inc int64) {
	m.replicationFailed.Add(ctx, inc)
}

func (m *otelMetrics) InvalidationRPCCount(ctx context.Context, inc int64) {
	m.invalidationRPCs.Add(ctx, inc)
}

func (m *otelMetrics) RegistrySize(ctx context.Context, size int64) {
	m.registrySize.Add(ctx, size)
}
