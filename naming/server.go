package naming

import (
	"context"
	"sync"

	"github.com/distfs/naming/clock"
	"github.com/distfs/naming/telemetry"
)

// Server is the naming server's in-process core: the directory index, the
// storage registry, the replication driver, and the dependencies the
// facades in service.go, registration.go, and lock.go need to talk to
// storage servers and record metrics. Package rpc wraps a *Server with the
// remote-call transport; tests talk to it directly.
type Server struct {
	idx    *index
	reg    *registry
	repl   *replicationDriver
	dialer CommandDialer
	clk    clock.Clock

	metrics telemetry.MetricHandle
	cfg     Config

	stopOnce sync.Once
	stopped  chan struct{}
	cause    error
}

// NewServer constructs a Server ready to accept facade calls. dialer
// resolves a storage server's command stub to a live Command client;
// package rpc supplies the production dialer, tests supply fakes.
func NewServer(cfg Config, dialer CommandDialer, clk clock.Clock, metrics telemetry.MetricHandle) *Server {
	idx := newIndex()
	reg := newRegistry()
	s := &Server{
		idx:     idx,
		reg:     reg,
		dialer:  dialer,
		clk:     clk,
		metrics: metrics,
		cfg:     cfg,
		stopped: make(chan struct{}),
	}
	s.repl = newReplicationDriver(cfg.ReplicationWorkers, dialer, reg, idx, metrics)
	return s
}

// Stopped returns a channel closed once Stop has run to completion.
func (s *Server) Stopped() <-chan struct{} {
	return s.stopped
}

// Cause returns the root cause passed to Stop, or nil for a clean
// shutdown (spec.md section 4.7's "stopped(cause)" hook).
func (s *Server) Cause() error {
	return s.cause
}

// Stop implements spec.md section 4.7: it stops the replication driver
// from accepting new work, interrupts every path lock so in-flight
// lock/unlock calls unblock with *errs.Stopped, and invokes the
// stopped(cause) hook exactly once. cause is nil for a clean shutdown.
// Stop does not itself close transport listeners; cmd.Execute's shutdown
// sequence is expected to stop accepting new calls before calling Stop.
func (s *Server) Stop(ctx context.Context, cause error) {
	s.stopOnce.Do(func() {
		s.repl.stop()

		s.idx.mu.Lock()
		for _, l := range s.idx.locks {
			l.Interrupt()
		}
		s.idx.mu.Unlock()

		s.cause = cause
		close(s.stopped)
	})
}
