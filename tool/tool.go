package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/pronetheia/agenthub/internal/util"
)

// SecurityLevel classifies how much damage a tool could do if misused.
type SecurityLevel string

const (
	// SecuritySafe tools have no side effects outside the process.
	SecuritySafe SecurityLevel = "safe"
	// SecurityElevated tools touch external state (files, databases).
	SecurityElevated SecurityLevel = "elevated"
	// SecurityDangerous tools require operator awareness; executions are
	// logged with a warning.
	SecurityDangerous SecurityLevel = "dangerous"
)

// Tool defines the capability interface for an MCP tool.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define a proper JSON schema for parameters
//   - Respect context cancellation so timeout enforcement can interrupt work
//   - Be safe for concurrent use (the registry executes without per-tool locks)
type Tool interface {
	// ID returns the stable tool identifier (e.g. "file-operations").
	ID() string

	// Name returns the unique registry key (e.g. "FileOperationsMCP").
	Name() string

	// Category groups related tools (e.g. "file_ops", "web_search").
	Category() string

	// Description is a human-readable summary of what the tool does.
	Description() string

	// SecurityLevel classifies the tool's blast radius.
	SecurityLevel() SecurityLevel

	// ExecutionTimeout is the hard per-call deadline enforced by the registry.
	ExecutionTimeout() time.Duration

	// InputSchema returns the JSON schema describing accepted parameters.
	InputSchema() map[string]any

	// OutputSchema returns the JSON schema describing the produced output.
	OutputSchema() map[string]any

	// ValidateParameters checks params against the input schema.
	ValidateParameters(params map[string]any) error

	// Execute runs the tool. The context carries the execution deadline;
	// implementations should abort promptly when it is cancelled.
	Execute(ctx context.Context, params map[string]any) (any, error)
}

// ExecutionResult is produced per execution call and persisted as an audit
// record. Output is absent on any failure, including timeouts.
type ExecutionResult struct {
	Success       bool          `json:"success"`
	ToolName      string        `json:"tool_name"`
	Output        any           `json:"output,omitempty"`
	Error         string        `json:"error,omitempty"`
	ExecutionTime time.Duration `json:"execution_time_ms"`
	SecurityLevel SecurityLevel `json:"security_level"`
	Timestamp     time.Time     `json:"timestamp"`
}

// Info is the snapshot projection of a registered tool returned by
// Registry.AvailableTools.
type Info struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Category      string        `json:"category"`
	Description   string        `json:"description"`
	SecurityLevel SecurityLevel `json:"security_level"`
	IsActive      bool          `json:"is_active"`
}

// ValidationError re-exports the schema validation error type.
type ValidationError = util.ValidationError

// ToolError represents errors raised by tool implementations with a
// categorization code.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
