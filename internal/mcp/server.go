package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hishamalhadi/chitchats-mcp/internal/tools"
)

// maxFrameBytes bounds a single newline-delimited message in either
// direction.
const maxFrameBytes = 4 * 1024 * 1024

// Dispatcher is the tool surface the server exposes. *tools.Registry
// satisfies it.
type Dispatcher interface {
	List() []*tools.Tool
	Dispatch(ctx context.Context, name string, args map[string]any) tools.Outcome
}

// Server answers the JSON-RPC side of the protocol: initialize, ping,
// tools/list and tools/call. It holds no per-session state, so one Server
// can back several transports at once.
type Server struct {
	dispatcher Dispatcher
}

func NewServer(d Dispatcher) *Server {
	return &Server{dispatcher: d}
}

// Handle processes one raw JSON-RPC message and returns the serialized
// response, or nil when none is owed (notifications).
func (s *Server) Handle(ctx context.Context, raw []byte) []byte {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return marshalResponse(errorResponse(nil, codeParseError, "parse error"))
	}

	// Notifications are accepted and never answered, known or not.
	if strings.HasPrefix(req.Method, "notifications/") {
		return nil
	}
	if strings.TrimSpace(req.Method) == "" {
		if req.isNotification() {
			return nil
		}
		return marshalResponse(errorResponse(req.ID, codeInvalidRequest, "invalid request"))
	}

	resp := s.route(ctx, &req)
	if req.isNotification() {
		return nil
	}
	return marshalResponse(resp)
}

func (s *Server) route(ctx context.Context, req *request) *response {
	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, initializeResult())

	case "ping":
		return resultResponse(req.ID, map[string]any{})

	case "tools/list":
		return resultResponse(req.ID, map[string]any{
			"tools": describeTools(s.dispatcher.List()),
		})

	case "tools/call":
		var p callParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &p); err != nil {
				return errorResponse(req.ID, codeInvalidParams, "invalid tools/call parameters")
			}
		}
		if strings.TrimSpace(p.Name) == "" {
			return errorResponse(req.ID, codeInvalidParams, "tools/call requires a tool name")
		}
		slog.Debug("tool call", "tool", p.Name)
		out := s.dispatcher.Dispatch(ctx, p.Name, p.Arguments)
		return resultResponse(req.ID, callResult(out))

	default:
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func marshalResponse(resp *response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("encode json-rpc response", "error", err)
		return []byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"internal error"}}`)
	}
	return data
}

// ServeStdio reads newline-delimited JSON-RPC messages from r and writes
// responses to w until EOF or context cancellation. Blank lines are
// skipped.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxFrameBytes)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		resp := s.Handle(ctx, line)
		if resp == nil {
			continue
		}
		if _, err := w.Write(append(resp, '\n')); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}
