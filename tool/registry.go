package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/logging"
	"github.com/pronetheia/agenthub/store"
)

// RegistryOptions holds dependency overrides passed to NewRegistry.
type RegistryOptions struct {
	// Store receives tool metadata upserts and execution audit rows. Failures
	// are logged and swallowed; execution continues in-memory-only.
	Store store.Store
	// Logger used for registration and execution diagnostics.
	Logger logging.Logger
}

// Registry holds pluggable tool implementations and executes them with
// timeout and security-level checks, recording execution history. The tool
// map is guarded because registration happens concurrently with execution.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	store  store.Store
	logger logging.Logger
}

// NewRegistry constructs a Registry with optional overrides.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{
		Store:  store.NewInMemoryStore(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		tools:  make(map[string]Tool),
		store:  opts.Store,
		logger: opts.Logger,
	}
}

// Register inserts or overwrites the tool binding by name and persists the
// descriptor best-effort.
func (r *Registry) Register(ctx context.Context, t Tool) {
	r.mu.Lock()
	r.tools[t.Name()] = t
	r.mu.Unlock()

	r.logger.Info("registered MCP tool", "tool", t.Name(), "category", t.Category())

	rec := store.ToolRecord{
		ID:            t.ID(),
		Name:          t.Name(),
		Category:      t.Category(),
		Description:   t.Description(),
		SecurityLevel: string(t.SecurityLevel()),
		TimeoutMs:     t.ExecutionTimeout().Milliseconds(),
		InputSchema:   marshalSchema(t.InputSchema()),
		OutputSchema:  marshalSchema(t.OutputSchema()),
		IsActive:      true,
	}
	if err := r.store.UpsertTool(ctx, rec); err != nil {
		r.logger.Warn("could not persist tool descriptor, continuing in memory only",
			"tool", t.Name(), "error", err.Error())
	}
}

// Get returns the registered tool for the given name, if any.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// AvailableTools returns a snapshot projection of every registered tool.
func (r *Registry) AvailableTools() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]Info, 0, len(r.tools))
	for _, t := range r.tools {
		infos = append(infos, Info{
			ID:            t.ID(),
			Name:          t.Name(),
			Category:      t.Category(),
			Description:   t.Description(),
			SecurityLevel: t.SecurityLevel(),
			IsActive:      true,
		})
	}
	return infos
}

// Execute looks up the named tool, validates parameters, races the execution
// against the tool's declared timeout and records an audit row. Every failure
// mode is surfaced as an ExecutionResult with Success=false; Execute itself
// never returns an error value.
func (r *Registry) Execute(ctx context.Context, toolName string, params map[string]any, requestingAgent string) ExecutionResult {
	started := time.Now().UTC()

	t, ok := r.Get(toolName)
	if !ok {
		r.logger.Warn("tool not found", "tool", toolName)
		return ExecutionResult{
			Success:   false,
			ToolName:  toolName,
			Error:     fmt.Sprintf("Tool '%s' not found in registry", toolName),
			Timestamp: started,
		}
	}

	r.logger.Info("executing tool", "tool", toolName, "agent", requestingAgent)

	if err := t.ValidateParameters(params); err != nil {
		result := ExecutionResult{
			Success:       false,
			ToolName:      toolName,
			Error:         fmt.Sprintf("Invalid parameters: %s", err.Error()),
			ExecutionTime: time.Since(started),
			SecurityLevel: t.SecurityLevel(),
			Timestamp:     started,
		}
		r.audit(requestingAgent, params, result, started)
		return result
	}

	output, err := r.run(ctx, t, params)
	elapsed := time.Since(started)

	var result ExecutionResult
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		r.logger.Warn("tool execution timeout", "tool", toolName)
		result = ExecutionResult{
			Success:       false,
			ToolName:      toolName,
			Error:         fmt.Sprintf("Execution timeout (%dms)", t.ExecutionTimeout().Milliseconds()),
			ExecutionTime: elapsed,
			SecurityLevel: t.SecurityLevel(),
			Timestamp:     started,
		}
	case err != nil:
		r.logger.Error("tool execution failed", "tool", toolName, "error", err.Error())
		result = ExecutionResult{
			Success:       false,
			ToolName:      toolName,
			Error:         err.Error(),
			ExecutionTime: elapsed,
			SecurityLevel: t.SecurityLevel(),
			Timestamp:     started,
		}
	default:
		result = ExecutionResult{
			Success:       true,
			ToolName:      toolName,
			Output:        output,
			ExecutionTime: elapsed,
			SecurityLevel: t.SecurityLevel(),
			Timestamp:     started,
		}
	}

	r.audit(requestingAgent, params, result, started)
	return result
}

// run races the tool execution against its declared timeout. The in-flight
// call receives a cancellable context; a tool that ignores cancellation keeps
// running in the background and its eventual result is discarded.
func (r *Registry) run(ctx context.Context, t Tool, params map[string]any) (any, error) {
	execCtx, cancel := context.WithTimeout(ctx, t.ExecutionTimeout())
	defer cancel()

	type callResult struct {
		output any
		err    error
	}
	done := make(chan callResult, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- callResult{err: fmt.Errorf("tool panic: %v", rec)}
			}
		}()
		output, err := t.Execute(execCtx, params)
		done <- callResult{output: output, err: err}
	}()

	select {
	case res := <-done:
		return res.output, res.err
	case <-execCtx.Done():
		return nil, execCtx.Err()
	}
}

// audit persists one execution row, fire and forget.
func (r *Registry) audit(requestingAgent string, params map[string]any, result ExecutionResult, started time.Time) {
	rec := store.ExecutionRecord{
		ID:              core.NewID(),
		ToolName:        result.ToolName,
		RequestingAgent: requestingAgent,
		InputParams:     marshalShort(params),
		Status:          "completed",
		ExecutionTimeMs: result.ExecutionTime.Milliseconds(),
		StartedAt:       started,
		CompletedAt:     time.Now().UTC(),
	}
	if !result.Success {
		rec.Status = "failed"
		rec.ErrorMessage = result.Error
	}
	if result.Output != nil {
		rec.Output = marshalShort(result.Output)
	}

	// Audit writes must never block or fail an execution.
	if err := r.store.InsertExecution(context.Background(), rec); err != nil {
		r.logger.Error("failed to log tool execution", "tool", result.ToolName, "error", err.Error())
	}
}

func marshalSchema(schema map[string]any) string {
	return marshalShort(schema)
}

func marshalShort(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
