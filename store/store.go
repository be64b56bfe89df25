package store

import (
	"context"
	"time"
)

// ToolRecord is the persisted descriptor of a registered tool.
type ToolRecord struct {
	ID            string
	Name          string
	Category      string
	Description   string
	SecurityLevel string
	TimeoutMs     int64
	InputSchema   string
	OutputSchema  string
	IsActive      bool
}

// ExecutionRecord is the audit row persisted per tool execution, keyed by
// (tool, requesting agent, timestamp).
type ExecutionRecord struct {
	ID              string
	ToolName        string
	RequestingAgent string
	InputParams     string
	Output          string
	Status          string
	ErrorMessage    string
	ExecutionTimeMs int64
	StartedAt       time.Time
	CompletedAt     time.Time
}

// Store persists tool metadata and execution audit rows.
type Store interface {
	// UpsertTool inserts or reactivates the tool descriptor by name.
	UpsertTool(ctx context.Context, rec ToolRecord) error

	// InsertExecution appends one audit row.
	InsertExecution(ctx context.Context, rec ExecutionRecord) error

	// Executions returns the audit rows recorded for the given tool name,
	// oldest first. An empty name returns all rows.
	Executions(ctx context.Context, toolName string) ([]ExecutionRecord, error)
}
