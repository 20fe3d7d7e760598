package naming

import (
	"context"
	"sync"

	"github.com/distfs/naming/pathname"
	"github.com/distfs/naming/queue"
	"github.com/distfs/naming/telemetry"
)

// replicationTask carries everything a replication worker needs: the
// file path, the chosen target, a storage stub to copy from, and a
// callback to reset the path lock's read-grant counter on success
// (spec.md section 4.5).
type replicationTask struct {
	path    pathname.Path
	target  StorageStub
	source  StorageStub
	onReset func()
}

// replicationDriver is the bounded background task pool from spec.md
// section 4.5. It is deliberately a fixed-size worker pool reading off a
// shared queue (grounded in the teacher's common.Queue) rather than a
// goroutine-per-task fan-out, so replication pressure stays observable
// and bounded via Config.ReplicationWorkers (SPEC_FULL.md section 4.10).
type replicationDriver struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   queue.Queue[replicationTask]
	closed  bool
	wg      sync.WaitGroup
	dialer  CommandDialer
	reg     *registry
	idx     *index
	metrics telemetry.MetricHandle
}

func newReplicationDriver(workers int, dialer CommandDialer, reg *registry, idx *index, metrics telemetry.MetricHandle) *replicationDriver {
	d := &replicationDriver{
		tasks:   queue.New[replicationTask](),
		dialer:  dialer,
		reg:     reg,
		idx:     idx,
		metrics: metrics,
	}
	d.cond = sync.NewCond(&d.mu)

	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// enqueue adds a task to the pool. Per spec.md section 4.5's rationale,
// this is constant-time and lock-free against the directory index: it
// only touches the driver's own queue.
func (d *replicationDriver) enqueue(t replicationTask) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.tasks.Push(t)
	d.cond.Signal()
}

// stop rejects further enqueues, lets the workers finish every task
// already queued or in flight, then returns once every worker has exited.
func (d *replicationDriver) stop() {
	d.mu.Lock()
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *replicationDriver) work() {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		for d.tasks.IsEmpty() && !d.closed {
			d.cond.Wait()
		}
		if d.tasks.IsEmpty() && d.closed {
			d.mu.Unlock()
			return
		}
		t := d.tasks.Pop()
		d.mu.Unlock()

		d.run(t)
	}
}

// run executes one replication task: copy the file from an existing
// replica onto the target, and on success grow files[path] and reset the
// hot-read counter. Any failure is swallowed per spec.md section 4.5 —
// the file remains under-replicated and a later read will retry.
func (d *replicationDriver) run(t replicationTask) {
	ctx := context.Background()

	cmdStub, ok := d.reg.commandFor(t.target)
	if !ok {
		d.metrics.ReplicationFailedCount(ctx, 1)
		return
	}
	cmd := d.dialer(cmdStub)

	ok, err := cmd.Copy(ctx, t.path, t.source)
	if err != nil || !ok {
		d.metrics.ReplicationFailedCount(ctx, 1)
		return
	}

	d.idx.mu.Lock()
	if replicas := d.idx.replicas(t.path); replicas != nil {
		replicas[t.target] = struct{}{}
	}
	d.idx.mu.Unlock()

	if t.onReset != nil {
		t.onReset()
	}
	d.metrics.ReplicationSucceededCount(ctx, 1)
}
