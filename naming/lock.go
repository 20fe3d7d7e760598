package naming

import (
	"context"
	"math/rand/v2"

	"github.com/distfs/naming/errs"
	"github.com/distfs/naming/pathname"
	"github.com/distfs/naming/rwlock"
)

const (
	modeRead  = "read"
	modeWrite = "write"
)

// Lock acquires p for shared or exclusive access, per spec.md section 4.3.
// It walks p's subpath chain locking every ancestor for read, and locks p
// itself for read (exclusive=false) or write (exclusive=true). A
// read-mode final acquire on a hot file may enqueue a replication task; a
// write-mode final acquire on a file with more than one replica runs the
// synchronous invalidation pass. A failure while acquiring the chain rolls
// back locks already acquired in this call before returning; a failed
// invalidation pass returns its error with the write lock still held.
func (s *Server) Lock(ctx context.Context, p pathname.Path, exclusive bool) error {
	start := s.clk.Now()
	mode := modeRead
	if exclusive {
		mode = modeWrite
	}

	s.idx.mu.Lock()
	if s.idx.classify(p) == kindUnknown {
		s.idx.mu.Unlock()
		return &errs.NotFound{Msg: p.String()}
	}
	chain := p.Subpaths()
	locks := make([]*rwlock.Lock, len(chain))
	for i, anc := range chain {
		locks[i] = s.idx.lockFor(anc)
	}
	s.idx.mu.Unlock()

	acquired := 0
	rollback := func() {
		for i := acquired - 1; i >= 0; i-- {
			if i == len(locks)-1 && exclusive {
				locks[i].ReleaseWrite()
			} else {
				locks[i].ReleaseRead()
			}
		}
	}

	for i, l := range locks {
		last := i == len(locks)-1
		var err error
		if last && exclusive {
			err = l.AcquireWrite()
		} else {
			err = l.AcquireRead()
		}
		if err != nil {
			rollback()
			s.metrics.LockStoppedCount(ctx, 1, mode)
			return err
		}
		acquired++
	}

	s.metrics.LockAcquireLatency(ctx, s.clk.Now().Sub(start), mode)
	s.metrics.LockAcquireCount(ctx, 1, mode)

	if !exclusive {
		s.maybeEnqueueReplication(ctx, p, locks[len(locks)-1])
		return nil
	}

	if err := s.invalidateStaleReplicas(ctx, p); err != nil {
		// The lock is already held; per spec.md section 7 an RPC
		// failure during invalidation is surfaced as errs.Internal, but
		// the write lock itself was legitimately granted, so we do not
		// roll it back — the caller is expected to Unlock as usual.
		return err
	}
	return nil
}

// Unlock releases p, walking the same subpath chain Lock used, in the
// same direction, with the same final mode (spec.md section 4.3).
func (s *Server) Unlock(p pathname.Path, exclusive bool) error {
	s.idx.mu.Lock()
	if s.idx.classify(p) == kindUnknown {
		s.idx.mu.Unlock()
		return &errs.NotFound{Msg: p.String()}
	}
	chain := p.Subpaths()
	locks := make([]*rwlock.Lock, len(chain))
	for i, anc := range chain {
		locks[i] = s.idx.lockFor(anc)
	}
	s.idx.mu.Unlock()

	for i, l := range locks {
		if i == len(locks)-1 && exclusive {
			l.ReleaseWrite()
		} else {
			l.ReleaseRead()
		}
	}
	return nil
}

// maybeEnqueueReplication implements spec.md section 4.3 step 3: if p is
// a file that has been read at least ReadHotThreshold times since its
// last replication, and some registered storage server does not already
// hold a copy, seed a background replication task targeting it.
func (s *Server) maybeEnqueueReplication(ctx context.Context, p pathname.Path, pathLock *rwlock.Lock) {
	s.idx.mu.Lock()
	replicas := s.idx.replicas(p)
	isFile := replicas != nil
	s.idx.mu.Unlock()

	if !isFile {
		return
	}
	if pathLock.ReadsGrantedEver() < s.cfg.ReadHotThreshold {
		return
	}

	exclude := make(map[StorageStub]struct{}, len(replicas))
	s.idx.mu.Lock()
	for st := range s.idx.replicas(p) {
		exclude[st] = struct{}{}
	}
	s.idx.mu.Unlock()

	target, ok := s.reg.anyNotIn(exclude)
	if !ok {
		return
	}
	source := pickRandom(keysOf(exclude))
	s.repl.enqueue(replicationTask{
		path:    p,
		target:  target,
		source:  source,
		onReset: pathLock.ResetReadCount,
	})
	s.metrics.ReplicationEnqueuedCount(ctx, 1)
}

// invalidateStaleReplicas implements spec.md section 4.3 step 4: when a
// file with more than one replica is write-locked, keep one replica and
// synchronously delete every other, shrinking files[p] to size 1.
func (s *Server) invalidateStaleReplicas(ctx context.Context, p pathname.Path) error {
	if p.IsRoot() {
		return nil
	}

	s.idx.mu.Lock()
	replicas := s.idx.replicas(p)
	if replicas == nil || len(replicas) <= 1 {
		s.idx.mu.Unlock()
		return nil
	}
	keep := pickFirst(replicas)
	stale := make([]StorageStub, 0, len(replicas)-1)
	for st := range replicas {
		if st != keep {
			stale = append(stale, st)
		}
	}
	s.idx.mu.Unlock()

	for _, st := range stale {
		cmdStub, ok := s.reg.commandFor(st)
		if !ok {
			continue
		}
		cmd := s.dialer(cmdStub)
		_, err := cmd.Delete(ctx, p)
		s.metrics.InvalidationRPCCount(ctx, 1)
		if err != nil {
			return &errs.Internal{Msg: "invalidation delete failed: " + err.Error()}
		}

		s.idx.mu.Lock()
		if r := s.idx.replicas(p); r != nil {
			delete(r, st)
		}
		s.idx.mu.Unlock()
	}
	return nil
}

func keysOf(m map[StorageStub]struct{}) []StorageStub {
	out := make([]StorageStub, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func pickFirst(m map[StorageStub]struct{}) StorageStub {
	for k := range m {
		return k
	}
	return StorageStub{}
}

func pickRandom(stubs []StorageStub) StorageStub {
	if len(stubs) == 0 {
		return StorageStub{}
	}
	return stubs[rand.IntN(len(stubs))]
}
