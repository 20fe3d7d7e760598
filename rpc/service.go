package rpc

import (
	"context"
	"net/http"

	"github.com/distfs/naming/naming"
	"github.com/distfs/naming/pathname"
	"github.com/distfs/naming/rpcwire"
)

// ServiceInterface is the Request.Interface tag for the client-facing
// Service facade (spec.md section 6, "Client -> Naming (Service)").
const ServiceInterface = "Service"

const (
	MethodLock            = "Lock"
	MethodUnlock          = "Unlock"
	MethodIsDirectory     = "IsDirectory"
	MethodList            = "List"
	MethodCreateFile      = "CreateFile"
	MethodCreateDirectory = "CreateDirectory"
	MethodDelete          = "Delete"
	MethodGetStorage      = "GetStorage"
)

type lockArgs struct {
	Path      pathname.Path
	Exclusive bool
}

type pathArg struct {
	Path pathname.Path
}

type boolResult struct {
	Value bool
}

type namesResult struct {
	Names []string
}

type storageResult struct {
	Storage naming.StorageStub
}

type empty struct{}

// NewServiceDispatcher builds the Dispatcher a listener on
// Config.ServicePort serves, binding every spec.md section 6 Service
// method to srv.
func NewServiceDispatcher(srv *naming.Server) *Dispatcher[*naming.Server] {
	d := NewDispatcher[*naming.Server](ServiceInterface, srv)

	d.Register(MethodLock, func(ctx context.Context, s *naming.Server, req rpcwire.Request) rpcwire.Reply {
		var a lockArgs
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		err := s.Lock(ctx, a.Path, a.Exclusive)
		return rpcwire.ReplyFor(empty{}, err)
	})

	d.Register(MethodUnlock, func(_ context.Context, s *naming.Server, req rpcwire.Request) rpcwire.Reply {
		var a lockArgs
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		err := s.Unlock(a.Path, a.Exclusive)
		return rpcwire.ReplyFor(empty{}, err)
	})

	d.Register(MethodIsDirectory, func(_ context.Context, s *naming.Server, req rpcwire.Request) rpcwire.Reply {
		var a pathArg
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		v, err := s.IsDirectory(a.Path)
		return rpcwire.ReplyFor(boolResult{Value: v}, err)
	})

	d.Register(MethodList, func(_ context.Context, s *naming.Server, req rpcwire.Request) rpcwire.Reply {
		var a pathArg
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		names, err := s.List(a.Path)
		return rpcwire.ReplyFor(namesResult{Names: names}, err)
	})

	d.Register(MethodCreateFile, func(ctx context.Context, s *naming.Server, req rpcwire.Request) rpcwire.Reply {
		var a pathArg
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		v, err := s.CreateFile(ctx, a.Path)
		return rpcwire.ReplyFor(boolResult{Value: v}, err)
	})

	d.Register(MethodCreateDirectory, func(_ context.Context, s *naming.Server, req rpcwire.Request) rpcwire.Reply {
		var a pathArg
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		v, err := s.CreateDirectory(a.Path)
		return rpcwire.ReplyFor(boolResult{Value: v}, err)
	})

	d.Register(MethodDelete, func(ctx context.Context, s *naming.Server, req rpcwire.Request) rpcwire.Reply {
		var a pathArg
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		v, err := s.Delete(ctx, a.Path)
		return rpcwire.ReplyFor(boolResult{Value: v}, err)
	})

	d.Register(MethodGetStorage, func(_ context.Context, s *naming.Server, req rpcwire.Request) rpcwire.Reply {
		var a pathArg
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		st, err := s.GetStorage(a.Path)
		return rpcwire.ReplyFor(storageResult{Storage: st}, err)
	})

	return d
}

// ServiceClient is the Service-facing stub a distfs client dials.
type ServiceClient struct {
	stub Stub[*naming.Server]
}

// NewServiceClient addresses the Service endpoint at url.
func NewServiceClient(client *http.Client, url string) *ServiceClient {
	return &ServiceClient{stub: NewStub[*naming.Server](client, url, ServiceInterface)}
}

func (c *ServiceClient) Lock(ctx context.Context, p pathname.Path, exclusive bool) error {
	_, err := Call[*naming.Server, lockArgs, empty](ctx, c.stub, MethodLock, lockArgs{Path: p, Exclusive: exclusive})
	return err
}

func (c *ServiceClient) Unlock(ctx context.Context, p pathname.Path, exclusive bool) error {
	_, err := Call[*naming.Server, lockArgs, empty](ctx, c.stub, MethodUnlock, lockArgs{Path: p, Exclusive: exclusive})
	return err
}

func (c *ServiceClient) IsDirectory(ctx context.Context, p pathname.Path) (bool, error) {
	r, err := Call[*naming.Server, pathArg, boolResult](ctx, c.stub, MethodIsDirectory, pathArg{Path: p})
	return r.Value, err
}

func (c *ServiceClient) List(ctx context.Context, p pathname.Path) ([]string, error) {
	r, err := Call[*naming.Server, pathArg, namesResult](ctx, c.stub, MethodList, pathArg{Path: p})
	return r.Names, err
}

func (c *ServiceClient) CreateFile(ctx context.Context, p pathname.Path) (bool, error) {
	r, err := Call[*naming.Server, pathArg, boolResult](ctx, c.stub, MethodCreateFile, pathArg{Path: p})
	return r.Value, err
}

func (c *ServiceClient) CreateDirectory(ctx context.Context, p pathname.Path) (bool, error) {
	r, err := Call[*naming.Server, pathArg, boolResult](ctx, c.stub, MethodCreateDirectory, pathArg{Path: p})
	return r.Value, err
}

func (c *ServiceClient) Delete(ctx context.Context, p pathname.Path) (bool, error) {
	r, err := Call[*naming.Server, pathArg, boolResult](ctx, c.stub, MethodDelete, pathArg{Path: p})
	return r.Value, err
}

func (c *ServiceClient) GetStorage(ctx context.Context, p pathname.Path) (naming.StorageStub, error) {
	r, err := Call[*naming.Server, pathArg, storageResult](ctx, c.stub, MethodGetStorage, pathArg{Path: p})
	return r.Storage, err
}
