package rpc

import (
	"context"
	"net/http"

	"github.com/distfs/naming/naming"
	"github.com/distfs/naming/pathname"
	"github.com/distfs/naming/rpcwire"
)

// CommandInterface is the Request.Interface tag for a storage server's
// command endpoint (spec.md section 6, "Naming -> Storage (Command)").
const CommandInterface = "Command"

const (
	MethodCreate = "Create"
	MethodDelete = "Delete"
	MethodCopy   = "Copy"
)

type createArgs struct {
	Path pathname.Path
}

type deleteArgs struct {
	Path pathname.Path
}

type copyArgs struct {
	Path   pathname.Path
	Source naming.StorageStub
}

// NewCommandDispatcher builds the Dispatcher a storage server serves on
// its command port, binding the naming.Command contract to impl (the
// storage server's own implementation, e.g. localstore.Server).
func NewCommandDispatcher(impl naming.Command) *Dispatcher[naming.Command] {
	d := NewDispatcher[naming.Command](CommandInterface, impl)

	d.Register(MethodCreate, func(ctx context.Context, c naming.Command, req rpcwire.Request) rpcwire.Reply {
		var a createArgs
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		v, err := c.Create(ctx, a.Path)
		return rpcwire.ReplyFor(boolResult{Value: v}, err)
	})

	d.Register(MethodDelete, func(ctx context.Context, c naming.Command, req rpcwire.Request) rpcwire.Reply {
		var a deleteArgs
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		v, err := c.Delete(ctx, a.Path)
		return rpcwire.ReplyFor(boolResult{Value: v}, err)
	})

	d.Register(MethodCopy, func(ctx context.Context, c naming.Command, req rpcwire.Request) rpcwire.Reply {
		var a copyArgs
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		v, err := c.Copy(ctx, a.Path, a.Source)
		return rpcwire.ReplyFor(boolResult{Value: v}, err)
	})

	return d
}

// commandClient implements naming.Command over rpcwire, so package naming
// can treat a remote storage server's command endpoint exactly like a
// local one. NewCommandDialer below is the production naming.CommandDialer.
type commandClient struct {
	stub Stub[naming.Command]
}

func (c *commandClient) Create(ctx context.Context, p pathname.Path) (bool, error) {
	r, err := Call[naming.Command, createArgs, boolResult](ctx, c.stub, MethodCreate, createArgs{Path: p})
	return r.Value, err
}

func (c *commandClient) Delete(ctx context.Context, p pathname.Path) (bool, error) {
	r, err := Call[naming.Command, deleteArgs, boolResult](ctx, c.stub, MethodDelete, deleteArgs{Path: p})
	return r.Value, err
}

func (c *commandClient) Copy(ctx context.Context, p pathname.Path, source naming.StorageStub) (bool, error) {
	r, err := Call[naming.Command, copyArgs, boolResult](ctx, c.stub, MethodCopy, copyArgs{Path: p, Source: source})
	return r.Value, err
}

// NewCommandDialer returns the production naming.CommandDialer: every
// CommandStub's Address is the URL of its storage server's "/rpc"
// endpoint (SPEC_FULL.md section 4.11).
func NewCommandDialer(client *http.Client) naming.CommandDialer {
	return func(stub naming.CommandStub) naming.Command {
		return &commandClient{stub: NewStub[naming.Command](client, stub.Address, CommandInterface)}
	}
}
