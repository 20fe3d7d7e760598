package naming

import (
	"context"
	"math/rand/v2"

	"github.com/distfs/naming/errs"
	"github.com/distfs/naming/pathname"
)

// IsDirectory reports whether p names a directory (spec.md section 4.4).
// Fails with *errs.NotFound if p is neither a file nor a directory.
func (s *Server) IsDirectory(p pathname.Path) (bool, error) {
	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	switch s.idx.classify(p) {
	case kindDir:
		return true, nil
	case kindFile:
		return false, nil
	default:
		return false, &errs.NotFound{Msg: p.String()}
	}
}

// List returns the last-component name of each of p's immediate children.
// p must be a directory; ordering is unspecified (spec.md section 4.4).
func (s *Server) List(p pathname.Path) ([]string, error) {
	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	children, ok := s.idx.dirs[p]
	if !ok {
		return nil, &errs.NotFound{Msg: p.String()}
	}
	out := make([]string, 0, len(children))
	for child := range children {
		name, err := child.Last()
		if err != nil {
			return nil, &errs.Internal{Msg: "directory child has no last component: " + err.Error()}
		}
		out = append(out, name)
	}
	return out, nil
}

// CreateFile creates a new, empty, single-replica file at p (spec.md
// section 4.4). Fails *errs.NotFound if parent(p) is not a directory,
// *errs.IllegalState if no storage server is registered. Returns false
// (no error) if p already exists.
func (s *Server) CreateFile(ctx context.Context, p pathname.Path) (bool, error) {
	parent, perr := p.Parent()
	if perr != nil {
		return false, &errs.NotFound{Msg: p.String()}
	}

	s.idx.mu.Lock()
	if s.idx.classify(parent) != kindDir {
		s.idx.mu.Unlock()
		return false, &errs.NotFound{Msg: parent.String()}
	}
	if s.idx.classify(p) != kindUnknown {
		s.idx.mu.Unlock()
		return false, nil
	}
	storages := s.reg.all()
	s.idx.mu.Unlock()

	if len(storages) == 0 {
		return false, &errs.IllegalState{Msg: "no storage server registered"}
	}
	chosen := storages[rand.IntN(len(storages))]

	cmdStub, ok := s.reg.commandFor(chosen)
	if !ok {
		return false, &errs.IllegalState{Msg: "registered storage has no command stub: " + chosen.Address}
	}
	cmd := s.dialer(cmdStub)
	created, err := cmd.Create(ctx, p)
	if err != nil {
		return false, &errs.TransportFailure{Op: "create", Err: err}
	}
	if !created {
		return false, nil
	}

	s.idx.mu.Lock()
	s.idx.files[p] = map[StorageStub]struct{}{chosen: {}}
	s.idx.addChild(parent, p)
	s.idx.ensureLocksForChain(p)
	s.idx.mu.Unlock()

	return true, nil
}

// CreateDirectory inserts an empty directory at p (spec.md section 4.4).
// Fails *errs.NotFound if parent(p) is not a directory. Returns false (no
// error) if p already exists.
func (s *Server) CreateDirectory(p pathname.Path) (bool, error) {
	parent, perr := p.Parent()
	if perr != nil {
		return false, &errs.NotFound{Msg: p.String()}
	}

	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	if s.idx.classify(parent) != kindDir {
		return false, &errs.NotFound{Msg: parent.String()}
	}
	if s.idx.classify(p) != kindUnknown {
		return false, nil
	}

	s.idx.dirs[p] = make(map[pathname.Path]struct{})
	s.idx.addChild(parent, p)
	s.idx.ensureLocksForChain(p)
	return true, nil
}

// Delete removes p (and, if p is a directory, every descendant) from the
// index and from every storage server that held a copy (spec.md section
// 4.4). Returns false without error for root. The return value is the
// logical OR of the per-command delete RPC results.
func (s *Server) Delete(ctx context.Context, p pathname.Path) (bool, error) {
	if p.IsRoot() {
		return false, nil
	}

	parent, perr := p.Parent()
	if perr != nil {
		return false, &errs.NotFound{Msg: p.String()}
	}

	s.idx.mu.Lock()
	if s.idx.classify(p) == kindUnknown || s.idx.classify(parent) != kindDir {
		s.idx.mu.Unlock()
		return false, &errs.NotFound{Msg: p.String()}
	}
	targets := make(map[StorageStub]struct{})
	s.collectCommandTargets(p, targets)
	s.idx.mu.Unlock()

	result := false
	for st := range targets {
		cmdStub, ok := s.reg.commandFor(st)
		if !ok {
			continue
		}
		cmd := s.dialer(cmdStub)
		ok2, err := cmd.Delete(ctx, p)
		if err != nil {
			return result, &errs.TransportFailure{Op: "delete", Err: err}
		}
		result = result || ok2
	}

	s.idx.mu.Lock()
	s.removeSubtree(p)
	s.idx.removeChild(parent, p)
	s.idx.mu.Unlock()

	return result, nil
}

// collectCommandTargets gathers the distinct storage stubs holding a copy
// of p or of any of p's descendants. Callers must hold s.idx.mu.
func (s *Server) collectCommandTargets(p pathname.Path, out map[StorageStub]struct{}) {
	switch s.idx.classify(p) {
	case kindFile:
		for st := range s.idx.files[p] {
			out[st] = struct{}{}
		}
	case kindDir:
		for child := range s.idx.dirs[p] {
			s.collectCommandTargets(child, out)
		}
	}
}

// removeSubtree deletes p and, recursively, every descendant from files,
// dirs, and locks. Callers must hold s.idx.mu.
func (s *Server) removeSubtree(p pathname.Path) {
	switch s.idx.classify(p) {
	case kindFile:
		delete(s.idx.files, p)
	case kindDir:
		for child := range s.idx.dirs[p] {
			s.removeSubtree(child)
		}
		delete(s.idx.dirs, p)
	}
	delete(s.idx.locks, p)
}

// GetStorage returns a storage stub holding a copy of file p, chosen
// uniformly at random from its replica set (spec.md section 4.4). Fails
// *errs.NotFound if p is not a known file.
func (s *Server) GetStorage(p pathname.Path) (StorageStub, error) {
	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	replicas, ok := s.idx.files[p]
	if !ok || len(replicas) == 0 {
		return StorageStub{}, &errs.NotFound{Msg: p.String()}
	}
	return pickRandom(keysOf(replicas)), nil
}
