package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hishamalhadi/chitchats-mcp/internal/chitchats"
)

// AccessKind classifies a tool's side effects on the remote account.
type AccessKind string

const (
	ReadOnly    AccessKind = "read-only"
	Mutating    AccessKind = "mutating"
	Destructive AccessKind = "destructive"
)

// Tool is one registered operation: its catalog entry plus its handler.
// Handlers receive parameters that already passed schema validation and
// must render every remote outcome, including failures, to text. An error
// return is reserved for genuinely unexpected faults.
type Tool struct {
	Name        string
	Description string
	Access      AccessKind
	Schema      Schema
	Run         func(ctx context.Context, params map[string]any) (string, error)
}

// Outcome is the only shape dispatch ever returns across the protocol
// boundary: rendered text plus an error flag.
type Outcome struct {
	Text    string
	IsError bool
}

// Registry maps tool names to descriptors. Registration happens once at
// startup; afterwards the registry is read-only and safe for concurrent
// dispatch.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
	order []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool to the registry
func (r *Registry) Register(t *Tool) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("tool missing name")
	}
	if t.Run == nil {
		return fmt.Errorf("tool %s missing handler", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool already registered: %s", t.Name)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools in registration order
func (r *Registry) List() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

// Dispatch routes one call: look up the tool, validate the arguments, run
// the handler. Unknown names and validation failures resolve here and
// never reach the network. Handler text is wrapped as a non-error outcome
// even when it describes a remote failure; only unknown tools, invalid
// parameters and unexpected handler faults flag the outcome as an error.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) Outcome {
	t, ok := r.Get(name)
	if !ok {
		return Outcome{Text: fmt.Sprintf("Unknown tool: %s", name), IsError: true}
	}

	params, ferr := t.Schema.Validate(args)
	if ferr != nil {
		return Outcome{Text: ferr.Message, IsError: true}
	}

	text, err := runTool(ctx, t, params)
	if err != nil {
		slog.Error("tool failed", "tool", name, "error", err)
		return Outcome{Text: fmt.Sprintf("Error: %s", err), IsError: true}
	}
	return Outcome{Text: text}
}

// runTool invokes the handler behind a recover so a bug in one tool
// degrades to an error outcome instead of killing the protocol session.
func runTool(ctx context.Context, t *Tool, params map[string]any) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	return t.Run(ctx, params)
}

// NewCatalog builds the full tool registry against one API client.
func NewCatalog(client *chitchats.Client) (*Registry, error) {
	r := NewRegistry()
	for _, group := range [][]*Tool{
		shipmentTools(client),
		batchTools(client),
		returnTools(client),
		trackingTools(client),
	} {
		for _, t := range group {
			if err := r.Register(t); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}
