package naming

import (
	"fmt"

	"github.com/distfs/naming/pathname"
	"github.com/distfs/naming/rwlock"
	"github.com/jacobsa/syncutil"
)

// index is the Directory Index from spec.md section 3: the two content
// mappings (files, dirs) plus the lock mapping, encapsulated so that no
// caller outside this package ever sees a raw map (spec.md section 9,
// "Global mutable state"). Structural mutation of the three maps is
// serialized by mu; logical read/write access to a path's content is
// separately serialized by that path's rwlock.Lock, acquired by the
// caller before index methods are invoked (package lock.go does that).
type index struct {
	mu syncutil.InvariantMutex

	// files maps a file path to its current replica set. A path is a key
	// here or in dirs, never both, except root which is dirs-only.
	//
	// INVARIANT: no key of files is also a key of dirs
	// INVARIANT: every value is non-empty
	// INVARIANT: for every key p, locks contains p and every ancestor of p
	//
	// GUARDED_BY(mu)
	files map[pathname.Path]map[StorageStub]struct{}

	// dirs maps a directory path to its immediate children. Root is
	// always present.
	//
	// INVARIANT: dirs contains pathname.Root
	// INVARIANT: for every key p other than root, locks contains p and
	//            every ancestor of p
	// INVARIANT: for every non-root key p, parent(p) is a key of dirs and
	//            p is one of parent(p)'s children
	//
	// GUARDED_BY(mu)
	dirs map[pathname.Path]map[pathname.Path]struct{}

	// locks maps every known path (file or directory) to its lock. Root
	// is always present.
	//
	// GUARDED_BY(mu)
	locks map[pathname.Path]*rwlock.Lock
}

func newIndex() *index {
	idx := &index{
		files: make(map[pathname.Path]map[StorageStub]struct{}),
		dirs:  make(map[pathname.Path]map[pathname.Path]struct{}),
		locks: make(map[pathname.Path]*rwlock.Lock),
	}
	idx.dirs[pathname.Root] = make(map[pathname.Path]struct{})
	idx.locks[pathname.Root] = rwlock.New()
	idx.mu = syncutil.NewInvariantMutex(idx.checkInvariants)
	return idx
}

// checkInvariants panics if the index's cross-map invariants (spec.md
// section 3) do not hold. mu runs it on every Lock and Unlock only while
// syncutil's invariant checking is enabled; otherwise it runs only when
// called directly.
func (idx *index) checkInvariants() {
	if _, ok := idx.dirs[pathname.Root]; !ok {
		panic("index: root missing from dirs")
	}

	for p := range idx.files {
		if _, ok := idx.dirs[p]; ok {
			panic(fmt.Sprintf("index: %s is both a file and a directory", p))
		}
		if len(idx.files[p]) == 0 {
			panic(fmt.Sprintf("index: %s has an empty replica set", p))
		}
		idx.checkAncestorsLocked(p)
	}

	for p, children := range idx.dirs {
		if p.IsRoot() {
			continue
		}
		idx.checkAncestorsLocked(p)

		parent, err := p.Parent()
		if err != nil {
			panic(fmt.Sprintf("index: %s has no parent: %v", p, err))
		}
		siblings, ok := idx.dirs[parent]
		if !ok {
			panic(fmt.Sprintf("index: parent %s of %s missing from dirs", parent, p))
		}
		if _, ok := siblings[p]; !ok {
			panic(fmt.Sprintf("index: %s missing from parent %s's children", p, parent))
		}
		_ = children
	}
}

// checkAncestorsLocked panics unless every element of p's subpath chain
// has a lock entry.
func (idx *index) checkAncestorsLocked(p pathname.Path) {
	for _, ancestor := range p.Subpaths() {
		if _, ok := idx.locks[ancestor]; !ok {
			panic(fmt.Sprintf("index: %s has no lock entry (needed for %s)", ancestor, p))
		}
	}
}

// kind classifies a known path.
type kind int

const (
	kindUnknown kind = iota
	kindFile
	kindDir
)

// classify returns the kind of p without acquiring mu; callers must hold
// it.
func (idx *index) classify(p pathname.Path) kind {
	if p.IsRoot() {
		return kindDir
	}
	if _, ok := idx.files[p]; ok {
		return kindFile
	}
	if _, ok := idx.dirs[p]; ok {
		return kindDir
	}
	return kindUnknown
}

// lockFor returns p's lock, creating it if necessary. Ancestors' locks are
// not created here; ensureLocksForChain does that. Callers must hold mu.
func (idx *index) lockFor(p pathname.Path) *rwlock.Lock {
	if l, ok := idx.locks[p]; ok {
		return l
	}
	l := rwlock.New()
	idx.locks[p] = l
	return l
}

// ensureLocksForChain creates lock entries for every path in p's subpath
// chain that doesn't already have one. Callers must hold mu.
func (idx *index) ensureLocksForChain(p pathname.Path) {
	for _, ancestor := range p.Subpaths() {
		idx.lockFor(ancestor)
	}
}

// addChild splices child into parent's children, creating parent's dirs
// entry if it is missing (used by registration's ancestor synthesis).
// Callers must hold mu.
func (idx *index) addChild(parent, child pathname.Path) {
	children, ok := idx.dirs[parent]
	if !ok {
		children = make(map[pathname.Path]struct{})
		idx.dirs[parent] = children
	}
	children[child] = struct{}{}
}

// removeChild removes child from parent's children. Callers must hold mu.
func (idx *index) removeChild(parent, child pathname.Path) {
	if children, ok := idx.dirs[parent]; ok {
		delete(children, child)
	}
}

// replicas returns the current replica set for a file path, or nil if p
// is not a file. Callers must hold mu.
func (idx *index) replicas(p pathname.Path) map[StorageStub]struct{} {
	return idx.files[p]
}
