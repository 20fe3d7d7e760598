// Package rwlock implements the writer-preferring read/write lock from
// spec.md section 4.2: a per-path synchronization primitive with a reader
// counter, a writer flag, a waiting-writer counter, a cumulative
// read-grant counter, and a "stopped" escape hatch used for shutdown.
//
// Writer preference means a waiting writer is served before any reader
// that arrives after it, which prevents writer starvation under
// read-heavy traffic (spec.md section 4.2's rationale). The "stopped"
// flag is the uniform cancellation signal spec.md section 4.7 calls for:
// once interrupt() is called, every blocked and every future acquire
// fails immediately with errs.Stopped.
package rwlock

import (
	"sync"

	"github.com/distfs/naming/errs"
)

// Lock is a writer-preferring RWMutex with cooperative cancellation. The
// zero value is a valid, unlocked, unstopped Lock.
type Lock struct {
	mu   sync.Mutex
	cond *sync.Cond

	readers        int // GUARDED_BY(mu)
	writerHeld     bool // GUARDED_BY(mu)
	writersWaiting int // GUARDED_BY(mu)
	readsGranted   int // GUARDED_BY(mu)
	stopped        bool // GUARDED_BY(mu)
}

// New returns a ready-to-use Lock.
func New() *Lock {
	l := &Lock{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *Lock) ensureCond() {
	if l.cond == nil {
		l.cond = sync.NewCond(&l.mu)
	}
}

// AcquireRead blocks while the lock is held by a writer or has a waiting
// writer (that last clause is what makes this writer-preferring). Once the
// lock is stopped it fails with *errs.Stopped instead of blocking. On
// success it increments both the reader count and the cumulative
// read-grant counter.
func (l *Lock) AcquireRead() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureCond()

	for !l.stopped && (l.writerHeld || l.writersWaiting > 0) {
		l.cond.Wait()
	}
	if l.stopped {
		return &errs.Stopped{}
	}

	l.readers++
	l.readsGranted++
	return nil
}

// ReleaseRead releases a read grant previously obtained from AcquireRead.
func (l *Lock) ReleaseRead() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureCond()

	l.readers--
	l.cond.Broadcast()
}

// AcquireWrite blocks while the lock has any readers or is already held by
// a writer, and fails with *errs.Stopped once the lock is stopped. It
// registers itself as a waiting writer before blocking so that readers
// arriving afterward queue up behind it.
func (l *Lock) AcquireWrite() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureCond()

	l.writersWaiting++
	for !l.stopped && (l.readers > 0 || l.writerHeld) {
		l.cond.Wait()
	}
	l.writersWaiting--
	if l.stopped {
		l.cond.Broadcast()
		return &errs.Stopped{}
	}

	l.writerHeld = true
	return nil
}

// ReleaseWrite releases a write grant previously obtained from
// AcquireWrite.
func (l *Lock) ReleaseWrite() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureCond()

	l.writerHeld = false
	l.cond.Broadcast()
}

// Interrupt puts the lock into the stopped state: every waiter (and every
// future acquire) unblocks immediately with errs.Stopped. Existing holders
// may still call ReleaseRead/ReleaseWrite normally.
func (l *Lock) Interrupt() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureCond()

	l.stopped = true
	l.cond.Broadcast()
}

// ReadsGrantedEver returns the cumulative number of successful
// AcquireRead calls since the lock was created or last reset. This is an
// advisory counter consumed only by the replication policy (spec.md
// section 4.3, step 3).
func (l *Lock) ReadsGrantedEver() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readsGranted
}

// ResetReadCount zeroes the cumulative read-grant counter. Called by the
// replication driver after a successful replication task (spec.md section
// 4.5), restoring the invariant that a file is retargeted for replication
// only after another run of hot reads.
func (l *Lock) ResetReadCount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readsGranted = 0
}
