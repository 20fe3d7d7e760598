package rpc

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/distfs/naming/errs"
	"github.com/distfs/naming/rpcwire"
)

// Stub is the client-side handle for one remote interface at one address
// (spec.md section 9's "storage-stub"/"command-stub" concept, generalized
// to any dispatched interface). Construct one per storage-stub/
// command-stub value and reuse it; Stub holds no per-call state.
type Stub[T any] struct {
	Client        *http.Client
	URL           string
	InterfaceName string
}

// NewStub returns a Stub addressing interfaceName at url (a listener's
// "/rpc" endpoint), using client for transport.
func NewStub[T any](client *http.Client, url string, interfaceName string) Stub[T] {
	if client == nil {
		client = http.DefaultClient
	}
	return Stub[T]{Client: client, URL: url, InterfaceName: interfaceName}
}

// Call marshals args, issues the remote call described by method against
// stub, and unmarshals the typed result. Transport-level failures (the
// call never reached a handler) are wrapped as *errs.TransportFailure;
// failures the remote handler reported are returned as the typed error
// rpcwire.Reply.Err reconstructs.
func Call[T any, Args any, Result any](ctx context.Context, stub Stub[T], method string, args Args) (Result, error) {
	var zero Result

	payload, err := rpcwire.EncodeArgs(args)
	if err != nil {
		return zero, &errs.Internal{Msg: "rpc: encode args: " + err.Error()}
	}

	req := rpcwire.Request{
		CallID:    uuid.NewString(),
		Interface: stub.InterfaceName,
		Method:    method,
		Args:      payload,
	}

	reply, err := rpcwire.Post(stub.Client, stub.URL, req)
	if err != nil {
		return zero, &errs.TransportFailure{Op: method, Err: err}
	}
	if callErr := reply.Err(); callErr != nil {
		return zero, callErr
	}

	var result Result
	if err := rpcwire.DecodeArgs(reply.Result, &result); err != nil {
		return zero, &errs.Internal{Msg: "rpc: decode result: " + err.Error()}
	}
	return result, nil
}
