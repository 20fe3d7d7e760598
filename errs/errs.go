// Package errs defines the error kinds raised by the naming server, as
// specified in spec.md section 7. Each kind is a distinct type so that a
// caller can recover it with errors.As, and so that the rpcwire envelope can
// carry the kind tag across the network and reconstruct the same type on
// the client side.
package errs

import "fmt"

// BadPath indicates a malformed path string or path component, detected
// before any state is touched (spec.md section 7).
type BadPath struct {
	Path string
	Err  error
}

func (e *BadPath) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("bad path %q", e.Path)
	}
	return fmt.Sprintf("bad path %q: %v", e.Path, e.Err)
}

func (e *BadPath) Unwrap() error { return e.Err }

// BadArg indicates an invalid argument other than a path (nil path, nil
// storage stub, and so on).
type BadArg struct {
	Msg string
}

func (e *BadArg) Error() string { return "bad argument: " + e.Msg }

// NotFound indicates that a path, storage stub, or other referenced
// identity is unknown to the naming server.
type NotFound struct {
	Msg string
}

func (e *NotFound) Error() string { return "not found: " + e.Msg }

// IllegalState indicates that an operation cannot proceed given the
// server's current state (for example, createFile with no registered
// storage server).
type IllegalState struct {
	Msg string
}

func (e *IllegalState) Error() string { return "illegal state: " + e.Msg }

// OutOfRange indicates a storage-server read/write offset outside the
// bounds permitted by spec.md section 9's resolved Open Question.
type OutOfRange struct {
	Msg string
}

func (e *OutOfRange) Error() string { return "out of range: " + e.Msg }

// Stopped indicates that the call raced a path lock's interrupt() and
// unblocked because the server is shutting down (spec.md section 4.2).
type Stopped struct {
	Path string
}

func (e *Stopped) Error() string { return fmt.Sprintf("lock on %q stopped", e.Path) }

// TransportFailure wraps a failure from a downstream RPC to a storage
// server, surfaced to the caller per spec.md section 7.
type TransportFailure struct {
	Op  string
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportFailure) Unwrap() error { return e.Err }

// Internal indicates an invariant violation caught at runtime. It is a bug
// indicator, never a retry signal (spec.md section 7).
type Internal struct {
	Msg string
}

func (e *Internal) Error() string { return "internal error: " + e.Msg }

// Kind identifies one of the error kinds above, independent of the
// underlying cause, for serialization across rpcwire (see rpcwire.Reply).
type Kind string

const (
	KindNone             Kind = ""
	KindBadPath          Kind = "BAD_PATH"
	KindBadArg           Kind = "BAD_ARG"
	KindNotFound         Kind = "NOT_FOUND"
	KindIllegalState     Kind = "ILLEGAL_STATE"
	KindOutOfRange       Kind = "OUT_OF_RANGE"
	KindStopped          Kind = "STOPPED"
	KindTransportFailure Kind = "TRANSPORT_FAILURE"
	KindInternal         Kind = "INTERNAL"
)

// KindOf classifies err into one of the Kind constants, or KindNone if it
// isn't one of the typed errors in this package.
func KindOf(err error) Kind {
	switch err.(type) {
	case *BadPath:
		return KindBadPath
	case *BadArg:
		return KindBadArg
	case *NotFound:
		return KindNotFound
	case *IllegalState:
		return KindIllegalState
	case *OutOfRange:
		return KindOutOfRange
	case *Stopped:
		return KindStopped
	case *TransportFailure:
		return KindTransportFailure
	case *Internal:
		return KindInternal
	default:
		return KindNone
	}
}

// FromKind reconstructs a representative error for kind, carrying msg as
// its message. Used by the rpcwire client to recreate a typed error from a
// reply that crossed the network as a (kind, message) pair.
func FromKind(kind Kind, msg string) error {
	switch kind {
	case KindBadPath:
		return &BadPath{Path: msg}
	case KindBadArg:
		return &BadArg{Msg: msg}
	case KindNotFound:
		return &NotFound{Msg: msg}
	case KindIllegalState:
		return &IllegalState{Msg: msg}
	case KindOutOfRange:
		return &OutOfRange{Msg: msg}
	case KindStopped:
		return &Stopped{Path: msg}
	case KindTransportFailure:
		return &TransportFailure{Op: msg, Err: fmt.Errorf("%s", msg)}
	case KindInternal:
		return &Internal{Msg: msg}
	default:
		if msg == "" {
			return nil
		}
		return fmt.Errorf("%s", msg)
	}
}
