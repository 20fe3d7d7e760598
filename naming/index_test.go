package naming

import (
	"testing"

	"github.com/distfs/naming/pathname"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexStartsWithRootOnly(t *testing.T) {
	idx := newIndex()
	idx.mu.Lock()
	defer idx.mu.Unlock()

	assert.Equal(t, kindDir, idx.classify(pathname.Root))
	_, ok := idx.locks[pathname.Root]
	assert.True(t, ok)
}

func TestIndexAddChildAndRemoveChild(t *testing.T) {
	idx := newIndex()
	dir := pathname.MustNew("/a")

	idx.mu.Lock()
	idx.dirs[dir] = make(map[pathname.Path]struct{})
	idx.ensureLocksForChain(dir)
	idx.addChild(pathname.Root, dir)
	idx.mu.Unlock()

	idx.mu.Lock()
	children := idx.dirs[pathname.Root]
	_, present := children[dir]
	idx.mu.Unlock()
	require.True(t, present)

	idx.mu.Lock()
	idx.removeChild(pathname.Root, dir)
	_, present = idx.dirs[pathname.Root][dir]
	idx.mu.Unlock()
	assert.False(t, present)
}

func TestIndexLockForCreatesAndReuses(t *testing.T) {
	idx := newIndex()
	p := pathname.MustNew("/a/b")

	idx.mu.Lock()
	l1 := idx.lockFor(p)
	l2 := idx.lockFor(p)
	idx.mu.Unlock()

	assert.Same(t, l1, l2)
}

func TestIndexEnsureLocksForChainCoversAncestors(t *testing.T) {
	idx := newIndex()
	p := pathname.MustNew("/a/b/c")

	idx.mu.Lock()
	idx.ensureLocksForChain(p)
	for _, anc := range p.Subpaths() {
		_, ok := idx.locks[anc]
		assert.True(t, ok, "missing lock for %s", anc)
	}
	idx.mu.Unlock()
}

func TestIndexClassifyUnknownPath(t *testing.T) {
	idx := newIndex()
	idx.mu.Lock()
	defer idx.mu.Unlock()
	assert.Equal(t, kindUnknown, idx.classify(pathname.MustNew("/never/registered")))
}

func TestIndexReplicasReturnsNilForNonFile(t *testing.T) {
	idx := newIndex()
	idx.mu.Lock()
	defer idx.mu.Unlock()
	assert.Nil(t, idx.replicas(pathname.Root))
}

func TestIndexInvariantsHoldAfterFileInsertion(t *testing.T) {
	idx := newIndex()
	p := pathname.MustNew("/dir/file")
	dir := pathname.MustNew("/dir")

	idx.mu.Lock()
	idx.dirs[dir] = make(map[pathname.Path]struct{})
	idx.addChild(pathname.Root, dir)
	idx.ensureLocksForChain(p)
	idx.files[p] = map[StorageStub]struct{}{{Address: "s1"}: {}}
	idx.addChild(dir, p)
	assert.NotPanics(t, idx.checkInvariants)
	idx.mu.Unlock()
}
