// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// ocMetrics is the OpenCensus-backed MetricHandle, grounded in the
// teacher's common.ocMetrics: one stats.Measure per counter/latency,
// aggregated by view.View and exported by whatever view.Exporter the
// caller has registered (e.g. contrib.go.opencensus.io/exporter/prometheus).
// Kept alongside the OpenTelemetry implementation in otel.go as an
// alternate backend, the same dual-stack shape the teacher carried.
type ocMetrics struct {
	lockAcquireLatency *stats.Float64Measure
	lockAcquireCount   *stats.Int64Measure
	lockStoppedCount   *stats.Int64Measure

	replicationEnqueued  *stats.Int64Measure
	replicationSucceeded *stats.Int64Measure
	replicationFailed    *stats.Int64Measure
	invalidationRPCs     *stats.Int64Measure

	registrySize *stats.Int64Measure
}

var modeTagKey = tag.MustNewKey(modeKey)

var (
	ocOnce      sync.Once
	ocMetric    *ocMetrics
	ocInitError error
)

// NewOCMetrics builds a MetricHandle backed by OpenCensus, registering a
// view.View per measure. The caller is responsible for registering a
// view.Exporter (e.g. the Prometheus exporter) before traffic arrives.
// view.Register is process-global, so, like the teacher's
// common.NewOCMetrics, the views are registered exactly once no matter
// how many times NewOCMetrics is called.
func NewOCMetrics() (MetricHandle, error) {
	ocOnce.Do(func() {
		ocMetric, ocInitError = newOCMetrics()
	})
	return ocMetric, ocInitError
}

func newOCMetrics() (*ocMetrics, error) {
	m := &ocMetrics{
		lockAcquireLatency:   stats.Float64("naming/lock/acquire_latency_ms", "Time spent blocked in AcquireRead/AcquireWrite.", "ms"),
		lockAcquireCount:     stats.Int64("naming/lock/acquire_count", "Successful lock acquisitions, by mode.", stats.UnitDimensionless),
		lockStoppedCount:     stats.Int64("naming/lock/stopped_count", "Acquires that failed because the lock was stopped.", stats.UnitDimensionless),
		replicationEnqueued:  stats.Int64("naming/replication/enqueued_count", "Replication tasks enqueued by hot-read detection.", stats.UnitDimensionless),
		replicationSucceeded: stats.Int64("naming/replication/succeeded_count", "Replication tasks that completed successfully.", stats.UnitDimensionless),
		replicationFailed:    stats.Int64("naming/replication/failed_count", "Replication tasks that failed.", stats.UnitDimensionless),
		invalidationRPCs:     stats.Int64("naming/invalidation/rpc_count", "Command.delete RPCs issued by the exclusive-lock invalidation pass.", stats.UnitDimensionless),
		registrySize:         stats.Int64("naming/registry/size", "Number of storage servers currently registered.", stats.UnitDimensionless),
	}

	if err := view.Register(
		&view.View{Name: "naming/lock/acquire_latency_ms", Measure: m.lockAcquireLatency, Aggregation: view.Distribution(0.5, 1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096, 8192), TagKeys: []tag.Key{modeTagKey}},
		&view.View{Name: "naming/lock/acquire_count", Measure: m.lockAcquireCount, Aggregation: view.Sum(), TagKeys: []tag.Key{modeTagKey}},
		&view.View{Name: "naming/lock/stopped_count", Measure: m.lockStoppedCount, Aggregation: view.Sum(), TagKeys: []tag.Key{modeTagKey}},
		&view.View{Name: "naming/replication/enqueued_count", Measure: m.replicationEnqueued, Aggregation: view.Sum()},
		&view.View{Name: "naming/replication/succeeded_count", Measure: m.replicationSucceeded, Aggregation: view.Sum()},
		&view.View{Name: "naming/replication/failed_count", Measure: m.replicationFailed, Aggregation: view.Sum()},
		&view.View{Name: "naming/invalidation/rpc_count", Measure: m.invalidationRPCs, Aggregation: view.Sum()},
		&view.View{Name: "naming/registry/size", Measure: m.registrySize, Aggregation: view.LastValue()},
	); err != nil {
		return nil, fmt.Errorf("registering OpenCensus views: %w", err)
	}

	return m, nil
}

func recordWithMode(ctx context.Context, m stats.Measurement, mode string) {
	// Errors here mean a malformed tag set, which cannot happen with a
	// single well-known key; recording is best-effort like the rest of
	// the metrics pipeline.
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(modeTagKey, mode)}, m)
}

func (m *ocMetrics) LockAcquireLatency(ctx context.Context, latency time.Duration, mode string) {
	recordWithMode(ctx, m.lockAcquireLatency.M(float64(latency.Microseconds())/1000.0), mode)
}

func (m *ocMetrics) LockAcquireCount(ctx context.Context, inc int64, mode string) {
	recordWithMode(ctx, m.lockAcquireCount.M(inc), mode)
}

func (m *ocMetrics) LockStoppedCount(ctx context.Context, inc int64, mode string) {
	recordWithMode(ctx, m.lockStoppedCount.M(inc), mode)
}

func (m *ocMetrics) ReplicationEnqueuedCount(ctx context.Context, inc int64) {
	stats.Record(ctx, m.replicationEnqueued.M(inc))
}

func (m *ocMetrics) ReplicationSucceededCount(ctx context.Context, inc int64) {
	stats.Record(ctx, m.replicationSucceeded.M(inc))
}

func (m *ocMetrics) ReplicationFailedCount(ctx context.Context, inc int64) {
	stats.Record(ctx, m.replicationFailed.M(inc))
}

func (m *ocMetrics) InvalidationRPCCount(ctx context.Context, inc int64) {
	stats.Record(ctx, m.invalidationRPCs.M(inc))
}

func (m *ocMetrics) RegistrySize(ctx context.Context, size int64) {
	stats.Record(ctx, m.registrySize.M(size))
}
