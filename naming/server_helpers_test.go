package naming

import (
	"context"
	"sync"
	"time"

	"github.com/distfs/naming/clock"
	"github.com/distfs/naming/errs"
	"github.com/distfs/naming/pathname"
	"github.com/distfs/naming/telemetry"
)

// fakeCommand is an in-memory naming.Command double, keyed by the
// CommandStub it was dialed with, so tests can assert which storage
// server a create/delete/copy RPC landed on.
type fakeCommand struct {
	stub CommandStub
	reg  *fakeCommandRegistry
}

func (c *fakeCommand) Create(ctx context.Context, p pathname.Path) (bool, error) {
	return c.reg.create(c.stub, p)
}

func (c *fakeCommand) Delete(ctx context.Context, p pathname.Path) (bool, error) {
	return c.reg.delete(c.stub, p)
}

func (c *fakeCommand) Copy(ctx context.Context, p pathname.Path, source StorageStub) (bool, error) {
	return c.reg.copy(c.stub, p, source)
}

// fakeCommandRegistry is the shared backing store dialed fakeCommands
// read and write, plus knobs tests use to inject failures.
type fakeCommandRegistry struct {
	mu sync.Mutex

	// files maps CommandStub -> set of paths that storage server holds.
	files map[CommandStub]map[pathname.Path]struct{}

	failCreate map[CommandStub]bool
	failDelete map[CommandStub]bool
	failCopy   map[CommandStub]bool

	copies int
}

func newFakeCommandRegistry() *fakeCommandRegistry {
	return &fakeCommandRegistry{
		files:      make(map[CommandStub]map[pathname.Path]struct{}),
		failCreate: make(map[CommandStub]bool),
		failDelete: make(map[CommandStub]bool),
		failCopy:   make(map[CommandStub]bool),
	}
}

func (f *fakeCommandRegistry) dialer() CommandDialer {
	return func(stub CommandStub) Command {
		return &fakeCommand{stub: stub, reg: f}
	}
}

func (f *fakeCommandRegistry) create(stub CommandStub, p pathname.Path) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate[stub] {
		return false, &errs.Internal{Msg: "injected create failure"}
	}
	set, ok := f.files[stub]
	if !ok {
		set = make(map[pathname.Path]struct{})
		f.files[stub] = set
	}
	if _, exists := set[p]; exists {
		return false, nil
	}
	set[p] = struct{}{}
	return true, nil
}

func (f *fakeCommandRegistry) delete(stub CommandStub, p pathname.Path) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete[stub] {
		return false, &errs.Internal{Msg: "injected delete failure"}
	}
	// Like a storage server deleting a directory, this removes p and every
	// path below it.
	removed := false
	for q := range f.files[stub] {
		if q.IsSubpath(p) {
			delete(f.files[stub], q)
			removed = true
		}
	}
	return removed, nil
}

func (f *fakeCommandRegistry) copy(stub CommandStub, p pathname.Path, source StorageStub) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copies++
	if f.failCopy[stub] {
		return false, nil
	}
	set, ok := f.files[stub]
	if !ok {
		set = make(map[pathname.Path]struct{})
		f.files[stub] = set
	}
	set[p] = struct{}{}
	return true, nil
}

func (f *fakeCommandRegistry) has(stub CommandStub, p pathname.Path) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[stub][p]
	return ok
}

func (f *fakeCommandRegistry) copyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copies
}

// newTestServer builds a Server wired to a fresh fakeCommandRegistry,
// no-op metrics, and a real clock, ready for facade calls in tests.
func newTestServer(cfg Config) (*Server, *fakeCommandRegistry) {
	reg := newFakeCommandRegistry()
	srv := NewServer(cfg, reg.dialer(), clock.RealClock{}, telemetry.NewNoopMetrics())
	return srv, reg
}

// registerStorage registers a storage/command stub pair with paths
// already announced, mirroring what a storage server does at startup
// (spec.md section 4.6).
func registerStorage(srv *Server, storage StorageStub, command CommandStub, paths ...pathname.Path) error {
	_, err := srv.Register(storage, command, paths)
	return err
}

// stepClock is a clock.Clock test double that returns each of times in
// turn on successive Now() calls, letting a test pin the exact duration
// Lock reports to telemetry.MetricHandle.
type stepClock struct {
	times []time.Time
	next  int
}

func (c *stepClock) Now() time.Time {
	t := c.times[c.next]
	if c.next < len(c.times)-1 {
		c.next++
	}
	return t
}

// fakeMetrics is a telemetry.MetricHandle double recording the last
// latency/mode LockAcquireLatency was called with; every other method is
// a no-op, inherited by embedding telemetry.NewNoopMetrics().
type fakeMetrics struct {
	telemetry.MetricHandle
	lastLatency time.Duration
	lastMode    string
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{MetricHandle: telemetry.NewNoopMetrics()}
}

func (m *fakeMetrics) LockAcquireLatency(ctx context.Context, latency time.Duration, mode string) {
	m.lastLatency = latency
	m.lastMode = mode
}

// newTestServerWithClockAndMetrics is newTestServer, but with an
// injectable clock and metrics handle for tests that need to observe
// what Lock records.
func newTestServerWithClockAndMetrics(cfg Config, clk clock.Clock, metrics telemetry.MetricHandle) (*Server, *fakeCommandRegistry) {
	reg := newFakeCommandRegistry()
	srv := NewServer(cfg, reg.dialer(), clk, metrics)
	return srv, reg
}
