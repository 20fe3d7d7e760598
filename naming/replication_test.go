package naming

import (
	"testing"
	"time"

	"github.com/distfs/naming/pathname"
	"github.com/distfs/naming/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplicationDriverRunCopiesAndGrowsReplicaSet(t *testing.T) {
	idx := newIndex()
	reg := newRegistry()
	source := StorageStub{Address: "source"}
	target := StorageStub{Address: "target"}
	sourceCmd := CommandStub{Address: "source-cmd"}
	targetCmd := CommandStub{Address: "target-cmd"}
	reg.register(source, sourceCmd)
	reg.register(target, targetCmd)

	p := pathname.MustNew("/hot")
	idx.mu.Lock()
	idx.files[p] = map[StorageStub]struct{}{source: {}}
	idx.ensureLocksForChain(p)
	idx.mu.Unlock()

	fakeReg := newFakeCommandRegistry()
	fakeReg.create(sourceCmd, p)

	var resetCalled bool
	d := newReplicationDriver(2, fakeReg.dialer(), reg, idx, telemetry.NewNoopMetrics())
	defer d.stop()

	d.enqueue(replicationTask{
		path:    p,
		target:  target,
		source:  source,
		onReset: func() { resetCalled = true },
	})

	require.Eventually(t, func() bool {
		return fakeReg.has(targetCmd, p)
	}, time.Second, 5*time.Millisecond)

	idx.mu.Lock()
	_, has := idx.files[p][target]
	idx.mu.Unlock()
	assert.True(t, has)
	assert.True(t, resetCalled)
}

func TestReplicationDriverSwallowsCopyFailure(t *testing.T) {
	idx := newIndex()
	reg := newRegistry()
	target := StorageStub{Address: "target"}
	targetCmd := CommandStub{Address: "target-cmd"}
	reg.register(target, targetCmd)

	p := pathname.MustNew("/hot")
	idx.mu.Lock()
	idx.files[p] = map[StorageStub]struct{}{{Address: "source"}: {}}
	idx.ensureLocksForChain(p)
	idx.mu.Unlock()

	fakeReg := newFakeCommandRegistry()
	fakeReg.failCopy[targetCmd] = true

	d := newReplicationDriver(1, fakeReg.dialer(), reg, idx, telemetry.NewNoopMetrics())
	defer d.stop()

	done := make(chan struct{})
	d.enqueue(replicationTask{
		path:    p,
		target:  target,
		source:  StorageStub{Address: "source"},
		onReset: func() { close(done) },
	})

	select {
	case <-done:
		t.Fatal("onReset should not run on a failed copy")
	case <-time.After(50 * time.Millisecond):
	}

	idx.mu.Lock()
	_, has := idx.files[p][target]
	idx.mu.Unlock()
	assert.False(t, has)
}

func TestReplicationDriverEnqueueAfterStopIsNoop(t *testing.T) {
	idx := newIndex()
	reg := newRegistry()
	d := newReplicationDriver(1, (&fakeCommandRegistry{}).dialer(), reg, idx, telemetry.NewNoopMetrics())

	d.stop()

	// enqueue after stop is a no-op, not a panic.
	d.enqueue(replicationTask{path: pathname.MustNew("/x")})
}
