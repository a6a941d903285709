package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RPCError mirrors the JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCHandler produces the result (or error) for one JSON-RPC method call.
type RPCHandler func(params []json.RawMessage) (any, *RPCError)

// RPCNode is an in-process JSON-RPC node stub for tests. It records every
// request so assertions can inspect exactly what went over the wire.
type RPCNode struct {
	srv *httptest.Server

	mu       sync.Mutex
	handlers map[string]RPCHandler
	calls    map[string][][]json.RawMessage
}

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// StartRPCNode starts a stub node that answers eth_chainId with the given id.
// Additional methods are wired up via Handle. The node is shut down with the
// test.
func StartRPCNode(t *testing.T, chainID int64) *RPCNode {
	t.Helper()

	n := &RPCNode{
		handlers: make(map[string]RPCHandler),
		calls:    make(map[string][][]json.RawMessage),
	}
	n.Handle("eth_chainId", StaticResult(fmt.Sprintf("0x%x", chainID)))

	n.srv = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.srv.Close)
	return n
}

// URL returns the node's HTTP endpoint.
func (n *RPCNode) URL() string {
	return n.srv.URL
}

// Handle registers (or replaces) the handler for a JSON-RPC method.
func (n *RPCNode) Handle(method string, handler RPCHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = handler
}

// StaticResult returns a handler that always yields the same result.
func StaticResult(result any) RPCHandler {
	return func(_ []json.RawMessage) (any, *RPCError) {
		return result, nil
	}
}

// NullResult returns a handler that yields JSON null, the node's way of
// saying "not found" for block and transaction lookups.
func NullResult() RPCHandler {
	return StaticResult(nil)
}

// StaticError returns a handler that always fails with a JSON-RPC error.
func StaticError(code int, message string) RPCHandler {
	return func(_ []json.RawMessage) (any, *RPCError) {
		return nil, &RPCError{Code: code, Message: message}
	}
}

// Calls returns the recorded parameter lists for every invocation of method.
func (n *RPCNode) Calls(method string) [][]json.RawMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([][]json.RawMessage(nil), n.calls[method]...)
}

func (n *RPCNode) serve(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method] = append(n.calls[req.Method], req.Params)
	handler, ok := n.handlers[req.Method]
	n.mu.Unlock()

	// The response is built as a map so a nil result still serializes as an
	// explicit "result": null, which is what real nodes send for lookups that
	// find nothing.
	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = &RPCError{Code: -32601, Message: fmt.Sprintf("the method %s does not exist", req.Method)}
	} else {
		result, rpcErr := handler(req.Params)
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
