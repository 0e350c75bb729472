package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hishamalhadi/chitchats-mcp/internal/tools"
)

type rpcEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  map[string]any  `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg := tools.NewRegistry()
	err := reg.Register(&tools.Tool{
		Name:        "echo_text",
		Description: "Echo the text parameter",
		Access:      tools.ReadOnly,
		Schema:      tools.Schema{{Name: "text", Type: tools.TypeString, Required: true}},
		Run: func(ctx context.Context, params map[string]any) (string, error) {
			return params["text"].(string), nil
		},
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	return NewServer(reg)
}

func handle(t *testing.T, s *Server, raw string) *rpcEnvelope {
	t.Helper()
	resp := s.Handle(context.Background(), []byte(raw))
	if resp == nil {
		t.Fatalf("no response for %s", raw)
	}
	var env rpcEnvelope
	if err := json.Unmarshal(resp, &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %q", env.JSONRPC)
	}
	return &env
}

func TestServer_Initialize(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`)
	if env.Error != nil {
		t.Fatalf("unexpected error: %+v", env.Error)
	}
	if string(env.ID) != "1" {
		t.Errorf("id = %s", env.ID)
	}
	if env.Result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion = %v", env.Result["protocolVersion"])
	}
	info, ok := env.Result["serverInfo"].(map[string]any)
	if !ok {
		t.Fatalf("serverInfo = %T", env.Result["serverInfo"])
	}
	if info["name"] != "chitchats-mcp" {
		t.Errorf("serverInfo.name = %v", info["name"])
	}
	caps, ok := env.Result["capabilities"].(map[string]any)
	if !ok {
		t.Fatalf("capabilities = %T", env.Result["capabilities"])
	}
	if _, ok := caps["tools"]; !ok {
		t.Error("capabilities missing tools")
	}
}

func TestServer_InitializedNotificationIsSilent(t *testing.T) {
	s := newTestServer(t)

	if resp := s.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)); resp != nil {
		t.Errorf("notification got a response: %s", resp)
	}
	if resp := s.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","method":"notifications/cancelled","params":{"requestId":3}}`)); resp != nil {
		t.Errorf("unknown notification got a response: %s", resp)
	}
}

func TestServer_Ping(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{"jsonrpc":"2.0","id":7,"method":"ping"}`)
	if env.Error != nil {
		t.Fatalf("unexpected error: %+v", env.Error)
	}
	if string(env.ID) != "7" {
		t.Errorf("id = %s", env.ID)
	}
	if env.Result == nil {
		t.Fatal("ping result missing")
	}
	if len(env.Result) != 0 {
		t.Errorf("ping result = %v, want empty object", env.Result)
	}
}

func TestServer_ToolsList(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	if env.Error != nil {
		t.Fatalf("unexpected error: %+v", env.Error)
	}
	items, ok := env.Result["tools"].([]any)
	if !ok {
		t.Fatalf("tools = %T", env.Result["tools"])
	}
	if len(items) != 1 {
		t.Fatalf("tools count = %d", len(items))
	}
	tool := items[0].(map[string]any)
	if tool["name"] != "echo_text" {
		t.Errorf("name = %v", tool["name"])
	}
	schema, ok := tool["inputSchema"].(map[string]any)
	if !ok {
		t.Fatalf("inputSchema = %T", tool["inputSchema"])
	}
	if schema["type"] != "object" {
		t.Errorf("inputSchema.type = %v", schema["type"])
	}
	ann, ok := tool["annotations"].(map[string]any)
	if !ok {
		t.Fatalf("annotations = %T", tool["annotations"])
	}
	if ann["readOnlyHint"] != true {
		t.Errorf("readOnlyHint = %v", ann["readOnlyHint"])
	}
	if ann["idempotentHint"] != true {
		t.Errorf("idempotentHint = %v", ann["idempotentHint"])
	}
}

func TestServer_ToolsCall(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo_text","arguments":{"text":"hello"}}}`)
	if env.Error != nil {
		t.Fatalf("unexpected error: %+v", env.Error)
	}
	content, ok := env.Result["content"].([]any)
	if !ok || len(content) != 1 {
		t.Fatalf("content = %v", env.Result["content"])
	}
	block := content[0].(map[string]any)
	if block["type"] != "text" || block["text"] != "hello" {
		t.Errorf("content block = %v", block)
	}
	if env.Result["isError"] != false {
		t.Errorf("isError = %v", env.Result["isError"])
	}
}

func TestServer_ToolsCallUnknownToolIsToolResult(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"nope","arguments":{}}}`)
	if env.Error != nil {
		t.Fatalf("unknown tool produced a protocol error: %+v", env.Error)
	}
	if env.Result["isError"] != true {
		t.Errorf("isError = %v", env.Result["isError"])
	}
	content := env.Result["content"].([]any)
	block := content[0].(map[string]any)
	if block["text"] != "Unknown tool: nope" {
		t.Errorf("text = %v", block["text"])
	}
}

func TestServer_ToolsCallValidationFailureIsToolResult(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"echo_text","arguments":{}}}`)
	if env.Error != nil {
		t.Fatalf("validation failure produced a protocol error: %+v", env.Error)
	}
	if env.Result["isError"] != true {
		t.Errorf("isError = %v", env.Result["isError"])
	}
	content := env.Result["content"].([]any)
	block := content[0].(map[string]any)
	if block["text"] != "missing required parameter: text" {
		t.Errorf("text = %v", block["text"])
	}
}

func TestServer_ToolsCallWithoutName(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{}}`)
	if env.Error == nil {
		t.Fatal("expected a protocol error")
	}
	if env.Error.Code != codeInvalidParams {
		t.Errorf("code = %d", env.Error.Code)
	}
	if env.Error.Message != "tools/call requires a tool name" {
		t.Errorf("message = %q", env.Error.Message)
	}
}

func TestServer_ToolsCallMalformedParams(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":[1,2]}`)
	if env.Error == nil {
		t.Fatal("expected a protocol error")
	}
	if env.Error.Code != codeInvalidParams {
		t.Errorf("code = %d", env.Error.Code)
	}
}

func TestServer_MethodNotFound(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{"jsonrpc":"2.0","id":9,"method":"resources/list"}`)
	if env.Error == nil {
		t.Fatal("expected a protocol error")
	}
	if env.Error.Code != codeMethodNotFound {
		t.Errorf("code = %d", env.Error.Code)
	}
	if env.Error.Message != "Method not found: resources/list" {
		t.Errorf("message = %q", env.Error.Message)
	}
}

func TestServer_UnknownMethodAsNotificationIsSilent(t *testing.T) {
	s := newTestServer(t)

	if resp := s.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","method":"resources/list"}`)); resp != nil {
		t.Errorf("notification got a response: %s", resp)
	}
	if resp := s.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","id":null,"method":"resources/list"}`)); resp != nil {
		t.Errorf("null-id request got a response: %s", resp)
	}
}

func TestServer_ParseError(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{not json`)
	if env.Error == nil {
		t.Fatal("expected a protocol error")
	}
	if env.Error.Code != codeParseError {
		t.Errorf("code = %d", env.Error.Code)
	}
	if string(env.ID) != "null" {
		t.Errorf("id = %s, want null", env.ID)
	}
}

func TestServer_EmptyMethod(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{"jsonrpc":"2.0","id":11}`)
	if env.Error == nil {
		t.Fatal("expected a protocol error")
	}
	if env.Error.Code != codeInvalidRequest {
		t.Errorf("code = %d", env.Error.Code)
	}
}

func TestServer_StringIDEchoedVerbatim(t *testing.T) {
	s := newTestServer(t)

	env := handle(t, s, `{"jsonrpc":"2.0","id":"req-abc","method":"ping"}`)
	if string(env.ID) != `"req-abc"` {
		t.Errorf("id = %s", env.ID)
	}
}

func TestServeStdio_RoundTrip(t *testing.T) {
	s := newTestServer(t)

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo_text","arguments":{"text":"hi"}}}`,
	}, "\n") + "\n"

	var out strings.Builder
	if err := s.ServeStdio(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("ServeStdio() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d response lines, want 2:\n%s", len(lines), out.String())
	}

	var first rpcEnvelope
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode first response: %v", err)
	}
	if string(first.ID) != "1" || first.Result["protocolVersion"] != "2024-11-05" {
		t.Errorf("first response = %s", lines[0])
	}

	var second rpcEnvelope
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode second response: %v", err)
	}
	if string(second.ID) != "2" {
		t.Errorf("second response id = %s", second.ID)
	}
	content := second.Result["content"].([]any)
	block := content[0].(map[string]any)
	if block["text"] != "hi" {
		t.Errorf("text = %v", block["text"])
	}
}

func TestServeStdio_StopsOnEOF(t *testing.T) {
	s := newTestServer(t)

	var out strings.Builder
	if err := s.ServeStdio(context.Background(), strings.NewReader(""), &out); err != nil {
		t.Fatalf("ServeStdio() error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output: %s", out.String())
	}
}
