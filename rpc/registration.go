package rpc

import (
	"context"
	"net/http"

	"github.com/distfs/naming/naming"
	"github.com/distfs/naming/pathname"
	"github.com/distfs/naming/rpcwire"
)

// RegistrationInterface is the Request.Interface tag for the
// storage-server-facing Registration facade (spec.md section 6,
// "Storage -> Naming (Registration)").
const RegistrationInterface = "Registration"

const MethodRegister = "Register"

type registerArgs struct {
	Storage naming.StorageStub
	Command naming.CommandStub
	Paths   []pathname.Path
}

type registerResult struct {
	Duplicates []pathname.Path
}

// NewRegistrationDispatcher builds the Dispatcher a listener on
// Config.RegistrationPort serves.
func NewRegistrationDispatcher(srv *naming.Server) *Dispatcher[*naming.Server] {
	d := NewDispatcher[*naming.Server](RegistrationInterface, srv)

	d.Register(MethodRegister, func(_ context.Context, s *naming.Server, req rpcwire.Request) rpcwire.Reply {
		var a registerArgs
		if err := rpcwire.DecodeArgs(req.Args, &a); err != nil {
			return rpcwire.ReplyFor(nil, err)
		}
		dups, err := s.Register(a.Storage, a.Command, a.Paths)
		return rpcwire.ReplyFor(registerResult{Duplicates: dups}, err)
	})

	return d
}

// RegistrationClient is the stub a storage server dials at startup.
type RegistrationClient struct {
	stub Stub[*naming.Server]
}

// NewRegistrationClient addresses the Registration endpoint at url.
func NewRegistrationClient(client *http.Client, url string) *RegistrationClient {
	return &RegistrationClient{stub: NewStub[*naming.Server](client, url, RegistrationInterface)}
}

func (c *RegistrationClient) Register(ctx context.Context, storage naming.StorageStub, command naming.CommandStub, paths []pathname.Path) ([]pathname.Path, error) {
	r, err := Call[*naming.Server, registerArgs, registerResult](ctx, c.stub, MethodRegister, registerArgs{
		Storage: storage,
		Command: command,
		Paths:   paths,
	})
	return r.Duplicates, err
}
