package telemetry

import (
	"context"
	"time"
)

// NewNoopMetrics returns a MetricHandle whose methods do nothing, for use
// in tests and in configurations that disable metrics.
func NewNoopMetrics() MetricHandle {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) LockAcquireLatency(context.Context, time.Duration, string) {}
func (noopMetrics) LockAcquireCount(context.Context, int64, string)           {}
func (noopMetrics) LockStoppedCount(context.Context, int64, string)           {}

func (noopMetrics) ReplicationEnqueuedCount(context.Context, int64)  {}
func (noopMetrics) ReplicationSucceededCount(context.Context, int64) {}
func (noopMetrics) ReplicationFailedCount(context.Context, int64)    {}
func (noopMetrics) InvalidationRPCCount(context.Context, int64)      {}

func (noopMetrics) RegistrySize(context.Context, int64) {}
