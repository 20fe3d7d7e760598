// Package rpcwire implements the wire-level request/reply envelope for the
// naming server's remote calls (spec.md section 9's redesign away from
// reflective dynamic proxies, detailed in SPEC_FULL.md section 4.11): a
// request carries an interface tag, a method tag, and a gob-encoded
// argument payload; a reply carries a gob-encoded result payload or an
// error kind tag plus message. Package rpc builds the generic dispatch
// table and typed stubs on top of this envelope.
package rpcwire

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"net/http"

	"github.com/distfs/naming/errs"
)

// Request is one remote call, addressed by interface and method tag
// (spec.md section 9: "a request carries an interface tag, a method tag,
// and a decoded argument tuple").
type Request struct {
	CallID    string
	Interface string
	Method    string
	Args      []byte // gob-encoded, method-specific argument struct
}

// Reply is the result of dispatching a Request. When the call failed,
// Result is empty, Msg holds the error text, and Kind names its errs kind
// (errs.KindNone for an error outside package errs); otherwise Kind is
// errs.KindNone, Msg is empty, and Result holds the gob-encoded,
// method-specific result struct.
type Reply struct {
	Result []byte
	Kind   errs.Kind
	Msg    string
}

// EncodeArgs gob-encodes v for use as a Request.Args or Reply.Result
// payload.
func EncodeArgs(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("rpcwire: encode args: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeArgs gob-decodes payload into v, which must be a pointer.
func DecodeArgs(payload []byte, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(v); err != nil {
		return fmt.Errorf("rpcwire: decode args: %w", err)
	}
	return nil
}

// ReplyFor builds a Reply from a handler's (result, error) pair,
// classifying err via errs.KindOf so the client can reconstruct the same
// typed error (spec.md section 7).
func ReplyFor(result any, err error) Reply {
	if err != nil {
		return Reply{Kind: errs.KindOf(err), Msg: err.Error()}
	}
	payload, encErr := EncodeArgs(result)
	if encErr != nil {
		return Reply{Kind: errs.KindInternal, Msg: encErr.Error()}
	}
	return Reply{Result: payload}
}

// Err reconstructs the typed error a Reply carries, or nil if the call
// succeeded.
func (r Reply) Err() error {
	return errs.FromKind(r.Kind, r.Msg)
}

// Post sends req as a gob-encoded HTTP POST body to url and decodes the
// gob-encoded Reply body. Transport-level failures (dial, timeout,
// malformed response) are reported directly; the caller is expected to
// wrap them as errs.TransportFailure.
func Post(client *http.Client, url string, req Request) (Reply, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(req); err != nil {
		return Reply{}, fmt.Errorf("rpcwire: encode request: %w", err)
	}

	httpResp, err := client.Post(url, "application/gob", &buf)
	if err != nil {
		return Reply{}, fmt.Errorf("rpcwire: post: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return Reply{}, fmt.Errorf("rpcwire: unexpected status %d: %s", httpResp.StatusCode, body)
	}

	var reply Reply
	if err := gob.NewDecoder(httpResp.Body).Decode(&reply); err != nil {
		return Reply{}, fmt.Errorf("rpcwire: decode reply: %w", err)
	}
	return reply, nil
}

// Handler processes a decoded Request and produces a Reply. It is the
// shape an http.Handler built on top of a single endpoint delegates to;
// package rpc's Dispatcher implements it.
type Handler func(req Request) Reply

// HTTPHandler adapts a Handler to net/http, decoding the gob request body
// and encoding the gob reply body, per SPEC_FULL.md section 4.11's single
// "/rpc" endpoint per listener.
func HTTPHandler(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := gob.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "rpcwire: malformed request: "+err.Error(), http.StatusBadRequest)
			return
		}
		reply := h(req)
		w.Header().Set("Content-Type", "application/gob")
		if err := gob.NewEncoder(w).Encode(reply); err != nil {
			http.Error(w, "rpcwire: encode reply: "+err.Error(), http.StatusInternalServerError)
		}
	}
}
