package localstore

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/distfs/naming/common"
	"github.com/distfs/naming/errs"
	"github.com/distfs/naming/naming"
	"github.com/distfs/naming/pathname"
)

// Storage is the client-to-storage-server data contract (spec.md section
// 6, "Client -> Storage (Storage)"). Specified here, not in package
// naming, because the naming server never calls it directly — getStorage
// only returns the stub a client dials (SPEC_FULL.md section D).
type Storage interface {
	Size(ctx context.Context, p pathname.Path) (int64, error)
	Read(ctx context.Context, p pathname.Path, offset, length int64) ([]byte, error)
	Write(ctx context.Context, p pathname.Path, offset int64, data []byte) error
}

// StorageDialer resolves a naming.StorageStub to a live Storage client,
// the same dependency-injection shape as naming.CommandDialer. Server
// uses it during Copy to pull bytes from the chosen source replica.
type StorageDialer func(naming.StorageStub) Storage

const copyChunkSize = 1 << 20 // 1 MiB, bounds a single Storage.Read RPC.

// Server implements both naming.Command and Storage over files rooted at
// Dir. It is the one component the spec itself excludes from "use as many
// third-party deps as possible" (SPEC_FULL.md section D): local
// filesystem I/O is the whole point of a storage server.
type Server struct {
	Dir           string
	StorageDialer StorageDialer
}

func (s *Server) localPath(p pathname.Path) string {
	return filepath.Join(s.Dir, filepath.FromSlash(p.String()))
}

// Create implements naming.Command.Create: creates an empty file at p,
// including any missing parent directories. Returns false if p already
// exists.
func (s *Server) Create(_ context.Context, p pathname.Path) (bool, error) {
	local := s.localPath(p)
	if _, err := os.Stat(local); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(local, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, f.Close()
}

// Delete implements naming.Command.Delete: removes the file at p. Returns
// false if p did not exist.
func (s *Server) Delete(_ context.Context, p pathname.Path) (bool, error) {
	err := os.Remove(s.localPath(p))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Copy implements naming.Command.Copy: pulls the full contents of p from
// source's Storage endpoint and writes them locally. Grounded in the
// teacher's common.CopyWhole, and resolves spec.md section 9's Open
// Question about the buggy `% Integer.MAX_VALUE` cast: remoteReader below
// bounds every Storage.Read call to min(bytesLeft, copyChunkSize), never a
// modulus.
func (s *Server) Copy(ctx context.Context, p pathname.Path, source naming.StorageStub) (bool, error) {
	remote := s.StorageDialer(source)

	size, err := remote.Size(ctx, p)
	if err != nil {
		return false, err
	}

	local := s.localPath(p)
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(local, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	reader := &remoteReader{ctx: ctx, storage: remote, path: p, remaining: size}
	if _, err := common.CopyWhole(f, reader, size); err != nil {
		return false, err
	}
	return true, nil
}

// remoteReader adapts repeated Storage.Read calls to an io.Reader,
// requesting at most min(remaining, copyChunkSize) bytes per call.
type remoteReader struct {
	ctx       context.Context
	storage   Storage
	path      pathname.Path
	offset    int64
	remaining int64
}

func (r *remoteReader) Read(buf []byte) (int, error) {
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	want := int64(len(buf))
	if want > r.remaining {
		want = r.remaining
	}
	if want > copyChunkSize {
		want = copyChunkSize
	}

	data, err := r.storage.Read(r.ctx, r.path, r.offset, want)
	if err != nil {
		return 0, err
	}
	n := copy(buf, data)
	r.offset += int64(n)
	r.remaining -= int64(n)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Size implements Storage.Size.
func (s *Server) Size(_ context.Context, p pathname.Path) (int64, error) {
	info, err := os.Stat(s.localPath(p))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, &errs.NotFound{Msg: p.String()}
		}
		return 0, err
	}
	return info.Size(), nil
}

// Read implements Storage.Read.
func (s *Server) Read(_ context.Context, p pathname.Path, offset, length int64) ([]byte, error) {
	f, err := os.Open(s.localPath(p))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.NotFound{Msg: p.String()}
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if offset > info.Size() {
		return nil, &errs.OutOfRange{Msg: "offset beyond end of file"}
	}

	buf := make([]byte, length)
	n, err := f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// Write implements Storage.Write, resolving spec.md section 9's Open
// Question about the two conflicting write variants: it fails
// *errs.OutOfRange if offset is beyond the current end of file, and
// otherwise extends the file as needed (offset == size is the ordinary
// append case).
func (s *Server) Write(_ context.Context, p pathname.Path, offset int64, data []byte) error {
	f, err := os.OpenFile(s.localPath(p), os.O_RDWR, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return &errs.NotFound{Msg: p.String()}
		}
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if offset > info.Size() {
		return &errs.OutOfRange{Msg: "offset beyond end of file"}
	}

	_, err = f.WriteAt(data, offset)
	return err
}
