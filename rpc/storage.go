package rpc

import (
	"context"
	"net/http"

	"github.com/distfs/naming/localstore"
	"github.com/distfs/naming/naming"
	"github.com/distfs/naming/pathname"
	"github.com/distfs/naming/rpcwire"
)

// StorageInterface is the Request.Interface tag for a storage server's
// data endpoint (spec.md section 6, "Client -> Storage (Storage)").
const StorageInterface = "Storage"

const (
	MethodSize  = "Size"
	MethodRead  = "Read"
	MethodWrite = "Write"
)

type sizeArgs struct {
	Path pathname.Path
}

type sizeResult struct {
	Size int64
}

type readArgs struct {
	Path   pathname.Path
	Offset int64
	Length int64
}

type readResult struct {
	Data []byte
}

type writeArgs struct {
	Path   pathname.Path
	Offset int64
	Data   []byte
}

// NewStorageDispatcher builds the Dispatcher a storage server serves on
// its data port, binding the Storage contract to impl.
func NewStorageDispatcher(impl localstore.Storage) *Dispatcher[localstore.Storage] {
	d := NewDispatcher[localstore.Storage](StorageInterface, impl)

	d.Register(MethodSize, func(ctx context.Context, st localstore.Storage, req rpcwire.Request) rpcwire.Reply {
		var a sizeArgs
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		v, err := st.Size(ctx, a.Path)
		return rpcwire.ReplyFor(sizeResult{Size: v}, err)
	})

	d.Register(MethodRead, func(ctx context.Context, st localstore.Storage, req rpcwire.Request) rpcwire.Reply {
		var a readArgs
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		data, err := st.Read(ctx, a.Path, a.Offset, a.Length)
		return rpcwire.ReplyFor(readResult{Data: data}, err)
	})

	d.Register(MethodWrite, func(ctx context.Context, st localstore.Storage, req rpcwire.Request) rpcwire.Reply {
		var a writeArgs
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		err := st.Write(ctx, a.Path, a.Offset, a.Data)
		return rpcwire.ReplyFor(empty{}, err)
	})

	return d
}

// storageClient implements localstore.Storage over rpcwire.
type storageClient struct {
	stub Stub[localstore.Storage]
}

func (c *storageClient) Size(ctx context.Context, p pathname.Path) (int64, error) {
	r, err := Call[localstore.Storage, sizeArgs, sizeResult](ctx, c.stub, MethodSize, sizeArgs{Path: p})
	return r.Size, err
}

func (c *storageClient) Read(ctx context.Context, p pathname.Path, offset, length int64) ([]byte, error) {
	r, err := Call[localstore.Storage, readArgs, readResult](ctx, c.stub, MethodRead, readArgs{Path: p, Offset: offset, Length: length})
	return r.Data, err
}

func (c *storageClient) Write(ctx context.Context, p pathname.Path, offset int64, data []byte) error {
	_, err := Call[localstore.Storage, writeArgs, empty](ctx, c.stub, MethodWrite, writeArgs{Path: p, Offset: offset, Data: data})
	return err
}

// NewStorageDialer returns the production localstore.StorageDialer: every
// naming.StorageStub's Address is the URL of its storage server's "/rpc"
// endpoint (SPEC_FULL.md section 4.11).
func NewStorageDialer(client *http.Client) localstore.StorageDialer {
	return func(stub naming.StorageStub) localstore.Storage {
		return &storageClient{stub: NewStub[localstore.Storage](client, stub.Address, StorageInterface)}
	}
}
