package tool

import (
	"context"
	"time"

	"github.com/pronetheia/agenthub/internal/util"
)

// FuncToolOptions configures a FuncTool instance.
type FuncToolOptions struct {
	ID            string
	Category      string
	Description   string
	SecurityLevel SecurityLevel
	Timeout       time.Duration
	InputSchema   map[string]any
	OutputSchema  map[string]any
}

// FuncTool adapts a plain Go function to the Tool interface. It holds a JSON
// Schema parameter specification, validates supplied arguments before
// execution, and has no internal mutable state after construction, making it
// safe for concurrent use.
type FuncTool struct {
	name string
	opts FuncToolOptions
	fn   func(ctx context.Context, params map[string]any) (any, error)
}

// NewFuncTool constructs a FuncTool from a name, implementation and options.
//
// Example:
//
//	echo := tool.NewFuncTool("EchoMCP",
//	  func(_ context.Context, params map[string]any) (any, error) {
//	    return params["text"], nil
//	  },
//	  func(o *tool.FuncToolOptions) {
//	    o.Category = "testing"
//	    o.InputSchema = util.CreateSchema(echoArgs{})
//	  },
//	)
func NewFuncTool(
	name string,
	fn func(ctx context.Context, params map[string]any) (any, error),
	optFns ...func(o *FuncToolOptions),
) *FuncTool {
	opts := FuncToolOptions{
		ID:            name,
		Category:      "general",
		SecurityLevel: SecuritySafe,
		Timeout:       10 * time.Second,
		InputSchema:   map[string]any{"type": "object", "properties": map[string]any{}},
		OutputSchema:  map[string]any{"type": "object"},
	}
	for _, f := range optFns {
		f(&opts)
	}
	return &FuncTool{name: name, opts: opts, fn: fn}
}

// ID returns the stable tool identifier.
func (t *FuncTool) ID() string { return t.opts.ID }

// Name returns the unique registry key.
func (t *FuncTool) Name() string { return t.name }

// Category groups related tools.
func (t *FuncTool) Category() string { return t.opts.Category }

// Description is a human-readable summary of what the tool does.
func (t *FuncTool) Description() string { return t.opts.Description }

// SecurityLevel classifies the tool's blast radius.
func (t *FuncTool) SecurityLevel() SecurityLevel { return t.opts.SecurityLevel }

// ExecutionTimeout is the hard per-call deadline enforced by the registry.
func (t *FuncTool) ExecutionTimeout() time.Duration { return t.opts.Timeout }

// InputSchema returns the JSON schema describing accepted parameters.
func (t *FuncTool) InputSchema() map[string]any { return t.opts.InputSchema }

// OutputSchema returns the JSON schema describing the produced output.
func (t *FuncTool) OutputSchema() map[string]any { return t.opts.OutputSchema }

// ValidateParameters checks params against the input schema.
func (t *FuncTool) ValidateParameters(params map[string]any) error {
	return util.ValidateParameters(params, t.opts.InputSchema)
}

// Execute invokes the wrapped function.
func (t *FuncTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	return t.fn(ctx, params)
}
