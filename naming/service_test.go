package naming

import (
	"context"
	"testing"

	"github.com/distfs/naming/errs"
	"github.com/distfs/naming/pathname"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFileFailsWithoutRegisteredStorage(t *testing.T) {
	srv, _ := newTestServer(DefaultConfig())
	_, err := srv.CreateFile(context.Background(), pathname.MustNew("/a"))
	require.Error(t, err)
	var illegal *errs.IllegalState
	assert.ErrorAs(t, err, &illegal)
}

func TestCreateFileFailsWhenParentMissing(t *testing.T) {
	srv, reg := newTestServer(DefaultConfig())
	require.NoError(t, registerStorage(srv, StorageStub{Address: "s1"}, CommandStub{Address: "c1"}))
	_ = reg

	_, err := srv.CreateFile(context.Background(), pathname.MustNew("/nope/file"))
	require.Error(t, err)
	var nf *errs.NotFound
	assert.ErrorAs(t, err, &nf)
}

func TestCreateFileCreatesOnChosenStorageAndIsIdempotent(t *testing.T) {
	srv, reg := newTestServer(DefaultConfig())
	storage := StorageStub{Address: "s1"}
	command := CommandStub{Address: "c1"}
	require.NoError(t, registerStorage(srv, storage, command))

	p := pathname.MustNew("/file")
	created, err := srv.CreateFile(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, reg.has(command, p))

	created, err = srv.CreateFile(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, created)
}

// TestCreateFileAtTopLevelIsListableAndDeletable locks in that
// CreateFile's addChild(p.Parent(), p) targets the same root bucket
// Register/List use, not a second "/" key.
func TestCreateFileAtTopLevelIsListableAndDeletable(t *testing.T) {
	srv, reg := newTestServer(DefaultConfig())
	command := CommandStub{Address: "c1"}
	require.NoError(t, registerStorage(srv, StorageStub{Address: "s1"}, command))

	p := pathname.MustNew("/top.txt")
	created, err := srv.CreateFile(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, created)

	children, err := srv.List(pathname.Root)
	require.NoError(t, err)
	assert.Equal(t, []string{"top.txt"}, children)

	ok, err := srv.Delete(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, reg.has(command, p))

	children, err = srv.List(pathname.Root)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestCreateDirectoryAndList(t *testing.T) {
	srv, _ := newTestServer(DefaultConfig())

	created, err := srv.CreateDirectory(pathname.MustNew("/dir"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = srv.CreateDirectory(pathname.MustNew("/dir"))
	require.NoError(t, err)
	assert.False(t, created)

	children, err := srv.List(pathname.Root)
	require.NoError(t, err)
	assert.Equal(t, []string{"dir"}, children)

	_, err = srv.CreateDirectory(pathname.MustNew("/missing/dir"))
	require.Error(t, err)
}

func TestDeleteFileRemovesFromIndexAndStorage(t *testing.T) {
	srv, reg := newTestServer(DefaultConfig())
	storage := StorageStub{Address: "s1"}
	command := CommandStub{Address: "c1"}
	require.NoError(t, registerStorage(srv, storage, command))

	p := pathname.MustNew("/file")
	_, err := srv.CreateFile(context.Background(), p)
	require.NoError(t, err)
	require.True(t, reg.has(command, p))

	ok, err := srv.Delete(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, reg.has(command, p))

	_, err = srv.IsDirectory(p)
	var nf *errs.NotFound
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteDirectoryRemovesDescendantsRecursively(t *testing.T) {
	srv, reg := newTestServer(DefaultConfig())
	storage := StorageStub{Address: "s1"}
	command := CommandStub{Address: "c1"}
	require.NoError(t, registerStorage(srv, storage, command,
		pathname.MustNew("/dir/a"), pathname.MustNew("/dir/b")))
	// Register only records the announced files; put them on the fake
	// storage server too, as the real one would already hold them.
	reg.create(command, pathname.MustNew("/dir/a"))
	reg.create(command, pathname.MustNew("/dir/b"))

	ok, err := srv.Delete(context.Background(), pathname.MustNew("/dir"))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.False(t, reg.has(command, pathname.MustNew("/dir/a")))
	assert.False(t, reg.has(command, pathname.MustNew("/dir/b")))

	_, err = srv.IsDirectory(pathname.MustNew("/dir"))
	var nf *errs.NotFound
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteRootIsNoop(t *testing.T) {
	srv, _ := newTestServer(DefaultConfig())
	ok, err := srv.Delete(context.Background(), pathname.Root)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetStorageReturnsReplicaOwner(t *testing.T) {
	srv, _ := newTestServer(DefaultConfig())
	storage := StorageStub{Address: "s1"}
	require.NoError(t, registerStorage(srv, storage, CommandStub{Address: "c1"}))

	p := pathname.MustNew("/file")
	_, err := srv.CreateFile(context.Background(), p)
	require.NoError(t, err)

	got, err := srv.GetStorage(p)
	require.NoError(t, err)
	assert.Equal(t, storage, got)
}

func TestGetStorageUnknownFile(t *testing.T) {
	srv, _ := newTestServer(DefaultConfig())
	_, err := srv.GetStorage(pathname.MustNew("/nope"))
	var nf *errs.NotFound
	assert.ErrorAs(t, err, &nf)
}
