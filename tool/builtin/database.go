package builtin

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pronetheia/agenthub/tool"
)

// maxQueryRows caps how many rows a single query may return.
const maxQueryRows = 100

// allowedTables is the read allowlist. Writes go through the store layer,
// never through this tool.
var allowedTables = map[string]bool{
	"mcp_tools":           true,
	"mcp_tool_executions": true,
}

// Database exposes restricted read-only access to the backing database.
// Only allowlisted tables can be queried and mutating operations are
// rejected outright.
type Database struct {
	db *sql.DB
}

// NewDatabase constructs the tool around an open database handle.
func NewDatabase(db *sql.DB) *Database {
	return &Database{db: db}
}

// ID implements tool.Tool.
func (t *Database) ID() string { return "database" }

// Name implements tool.Tool.
func (t *Database) Name() string { return "DatabaseMCP" }

// Category implements tool.Tool.
func (t *Database) Category() string { return "database" }

// Description implements tool.Tool.
func (t *Database) Description() string {
	return "Database operations including restricted read-only query execution"
}

// SecurityLevel implements tool.Tool.
func (t *Database) SecurityLevel() tool.SecurityLevel { return tool.SecurityElevated }

// ExecutionTimeout implements tool.Tool.
func (t *Database) ExecutionTimeout() time.Duration { return 15 * time.Second }

// InputSchema implements tool.Tool.
func (t *Database) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type": "string",
				"enum": []string{"query", "insert", "update", "delete"},
			},
			"table": map[string]any{"type": "string"},
		},
		"required": []string{"operation"},
	}
}

// OutputSchema implements tool.Tool.
func (t *Database) OutputSchema() map[string]any {
	return map[string]any{"type": "object"}
}

// ValidateParameters implements tool.Tool.
func (t *Database) ValidateParameters(params map[string]any) error {
	return validate(params, t.InputSchema())
}

// Execute implements tool.Tool.
func (t *Database) Execute(ctx context.Context, params map[string]any) (any, error) {
	operation, _ := params["operation"].(string)
	switch strings.ToLower(operation) {
	case "query":
		return t.query(ctx, stringParam(params, "table", ""))
	case "insert", "update", "delete":
		return map[string]any{
			"executed": false,
			"message":  fmt.Sprintf("%s operations are restricted", strings.ToLower(operation)),
		}, nil
	default:
		return nil, fmt.Errorf("unknown operation: %s", operation)
	}
}

func (t *Database) query(ctx context.Context, table string) (any, error) {
	if !allowedTables[strings.ToLower(table)] {
		return nil, fmt.Errorf("access to table '%s' is not allowed", table)
	}
	if t.db == nil {
		return nil, fmt.Errorf("no database configured")
	}

	// Table name comes from a fixed allowlist, not user text.
	rows, err := t.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, maxQueryRows))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return map[string]any{
		"table":   table,
		"records": records,
		"count":   len(records),
	}, nil
}
