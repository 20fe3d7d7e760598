package naming

import (
	"github.com/distfs/naming/errs"
	"github.com/distfs/naming/pathname"
)

// Register implements the Registration Facade (spec.md section 4.6). It
// records the storage/command stub pair and grafts every announced path
// that isn't already known into the directory index, synthesizing any
// missing ancestor directories along the way. Paths already known are
// returned as duplicates for the storage server to reconcile locally.
func (s *Server) Register(storage StorageStub, command CommandStub, paths []pathname.Path) ([]pathname.Path, error) {
	if storage.Address == "" {
		return nil, &errs.BadArg{Msg: "nil storage stub"}
	}
	if command.Address == "" {
		return nil, &errs.BadArg{Msg: "nil command stub"}
	}
	if s.reg.registered(storage) {
		return nil, &errs.IllegalState{Msg: "storage already registered: " + storage.Address}
	}

	s.reg.register(storage, command)

	s.idx.mu.Lock()
	root := s.idx.lockFor(pathname.Root)
	s.idx.mu.Unlock()
	if err := root.AcquireWrite(); err != nil {
		return nil, err
	}
	defer root.ReleaseWrite()

	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	var duplicates []pathname.Path
	for _, p := range paths {
		if p.IsRoot() {
			continue
		}
		if s.idx.classify(p) != kindUnknown {
			duplicates = append(duplicates, p)
			continue
		}

		s.idx.files[p] = map[StorageStub]struct{}{storage: {}}
		s.idx.ensureLocksForChain(p)
		s.graftAncestors(p)
	}
	return duplicates, nil
}

// graftAncestors ensures every ancestor of p (other than p itself) has a
// dirs entry and that each is spliced into its parent's children, creating
// entries as needed. Callers must hold s.idx.mu and the root write lock.
func (s *Server) graftAncestors(p pathname.Path) {
	chain := p.Subpaths() // root, ..., parent(p), p
	for i := 0; i < len(chain)-1; i++ {
		dir := chain[i]
		if _, ok := s.idx.dirs[dir]; !ok {
			s.idx.dirs[dir] = make(map[pathname.Path]struct{})
		}
		child := chain[i+1]
		s.idx.addChild(dir, child)
	}
}
