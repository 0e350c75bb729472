package mcp

import (
	"encoding/json"

	"github.com/hishamalhadi/chitchats-mcp/internal/tools"
	"github.com/hishamalhadi/chitchats-mcp/internal/version"
)

const (
	jsonRPCVersion  = "2.0"
	protocolVersion = "2024-11-05"
)

// JSON-RPC 2.0 error codes used on this surface.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// request is an incoming JSON-RPC message. The id is kept raw so the
// response echoes it byte for byte, whatever JSON type the client used.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// isNotification reports whether no response is owed. A null id counts
// the same as a missing one.
func (r *request) isNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func resultResponse(id json.RawMessage, result any) *response {
	return &response{JSONRPC: jsonRPCVersion, ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *response {
	return &response{JSONRPC: jsonRPCVersion, ID: id, Error: &rpcError{Code: code, Message: message}}
}

func initializeResult() map[string]any {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    "chitchats-mcp",
			"version": version.Version,
		},
	}
}

// callParams is the payload of a tools/call request.
type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// callResult renders a dispatch outcome in the shape tool callers expect:
// one text content block plus the error flag.
func callResult(out tools.Outcome) map[string]any {
	return map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": out.Text},
		},
		"isError": out.IsError,
	}
}

type toolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

func describeTools(list []*tools.Tool) []toolDescriptor {
	descriptors := make([]toolDescriptor, 0, len(list))
	for _, t := range list {
		descriptors = append(descriptors, toolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.Schema.JSON(),
			Annotations: toolAnnotations(t.Access),
		})
	}
	return descriptors
}

// toolAnnotations maps an access kind onto the standard behavior hints.
// destructiveHint defaults to true in the protocol, so a plain mutating
// tool states false explicitly.
func toolAnnotations(access tools.AccessKind) map[string]any {
	switch access {
	case tools.ReadOnly:
		return map[string]any{"readOnlyHint": true, "idempotentHint": true}
	case tools.Destructive:
		return map[string]any{"destructiveHint": true}
	default:
		return map[string]any{"destructiveHint": false}
	}
}
