// Package rpc supplies the "dispatch table per interface" and typed
// client stub spec.md section 9 calls for in place of reflective dynamic
// proxies: Dispatcher[T] maps method-tag strings to typed handlers bound
// to a receiver of type T, and Call marshals a typed argument struct into
// an rpcwire.Request, posts it, and unmarshals the typed result.
package rpc

import (
	"context"

	"github.com/distfs/naming/rpcwire"
)

// Handler is a dispatch-table entry: it decodes args from the wire,
// invokes recv's method, and encodes the reply.
type Handler[T any] func(ctx context.Context, recv T, req rpcwire.Request) rpcwire.Reply

// Dispatcher routes a Request to the Handler registered for its Method,
// against a single bound receiver of type T (a *naming.Server, a
// localstore.Server, and so on).
type Dispatcher[T any] struct {
	interfaceName string
	recv          T
	handlers      map[string]Handler[T]
}

// NewDispatcher returns a Dispatcher for interfaceName (matched against
// Request.Interface) bound to recv.
func NewDispatcher[T any](interfaceName string, recv T) *Dispatcher[T] {
	return &Dispatcher[T]{
		interfaceName: interfaceName,
		recv:          recv,
		handlers:      make(map[string]Handler[T]),
	}
}

// Register adds a method-tag -> handler entry.
func (d *Dispatcher[T]) Register(method string, h Handler[T]) {
	d.handlers[method] = h
}

// Handle implements rpcwire.Handler, dispatched as the per-listener "/rpc"
// endpoint body (SPEC_FULL.md section 4.11).
func (d *Dispatcher[T]) Handle(ctx context.Context, req rpcwire.Request) rpcwire.Reply {
	if req.Interface != d.interfaceName {
		return rpcwire.Reply{Kind: "BAD_ARG", Msg: "wrong interface: " + req.Interface}
	}
	h, ok := d.handlers[req.Method]
	if !ok {
		return rpcwire.Reply{Kind: "BAD_ARG", Msg: "unknown method: " + req.Method}
	}
	return h(ctx, d.recv, req)
}

// AsRPCWireHandler adapts d to rpcwire.Handler, using context.Background
// for handlers that don't need request-scoped cancellation propagated
// from the transport (the naming server's facade methods accept ctx
// directly; this wrapper exists for wiring HTTPHandler).
func (d *Dispatcher[T]) AsRPCWireHandler() rpcwire.Handler {
	return func(req rpcwire.Request) rpcwire.Reply {
		return d.Handle(context.Background(), req)
	}
}
