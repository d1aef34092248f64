// Package transport maintains the persistent websocket channel to the
// controller: JSON-RPC 2.0 framing, request/response correlation and a
// fixed-delay reconnect loop. It knows nothing about printer semantics;
// everything observed is forwarded to a Handler.
package transport

import (
	"encoding/json"
	"errors"
)

// Handler receives connection lifecycle events and inbound controller
// traffic. Implementations must not block: the read pump calls these inline.
type Handler interface {
	OnOpen()
	OnClose()
	OnConnecting(isReconnect bool)
	OnError(code int, message string)
	OnResponse(method string, result json.RawMessage)
	OnNotification(method string, params []json.RawMessage)
}

// ErrNotConnected is returned by Request while no connection is established.
var ErrNotConnected = errors.New("transport: not connected")

// rpcRequest is an outbound JSON-RPC 2.0 call.
type rpcRequest struct {
	Version string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      string `json:"id"`
}

// rpcError is the error member of a response frame.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcFrame is any inbound frame: a response (id set) or a server-pushed
// notification (method set, no id).
type rpcFrame struct {
	ID     string            `json:"id,omitempty"`
	Method string            `json:"method,omitempty"`
	Result json.RawMessage   `json:"result,omitempty"`
	Error  *rpcError         `json:"error,omitempty"`
	Params []json.RawMessage `json:"params,omitempty"`
}
