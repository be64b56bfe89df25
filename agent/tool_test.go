package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/tool"
)

func newTestRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	registry := tool.NewRegistry()
	echo := tool.NewFuncTool("FileOperationsMCP",
		func(_ context.Context, params map[string]any) (any, error) {
			return map[string]any{"operation": params["operation"], "path": params["path"]}, nil
		},
		func(o *tool.FuncToolOptions) {
			o.Category = "file_ops"
			o.SecurityLevel = tool.SecurityElevated
		},
	)
	registry.Register(context.Background(), echo)
	return registry
}

func TestToolAgentStructuredRequest(t *testing.T) {
	a := NewToolAgent(newTestRegistry(t))

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeTask, core.ToolExecutionPayload{
		ToolName:   "FileOperationsMCP",
		Parameters: map[string]any{"action": "read", "target": "/tmp/x"},
	})
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	result := resp.Result.(map[string]any)
	assert.Equal(t, "FileOperationsMCP", result["tool_name"])
	assert.Equal(t, "FileOperationsMCP", resp.Metadata["toolName"])
	assert.Equal(t, "elevated", resp.Metadata["securityLevel"])
}

func TestToolAgentStringCommand(t *testing.T) {
	a := NewToolAgent(newTestRegistry(t))

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "file read notes.txt"})
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	output := resp.Result.(map[string]any)["output"].(map[string]any)
	assert.Equal(t, "read", output["operation"])
	assert.Equal(t, "notes.txt", output["path"])
}

func TestToolAgentUnknownTool(t *testing.T) {
	a := NewToolAgent(newTestRegistry(t))

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeTask, core.ToolExecutionPayload{ToolName: "NopeMCP"})
	resp := a.ProcessMessage(context.Background(), msg)

	assert.False(t, resp.Success)
	assert.Equal(t, "Security validation failed: Tool not found", resp.Error)
}

func TestToolAgentInvalidRequest(t *testing.T) {
	a := NewToolAgent(newTestRegistry(t))

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: ""})
	resp := a.ProcessMessage(context.Background(), msg)

	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid tool execution request format", resp.Error)
}

func TestToolAgentDiscovery(t *testing.T) {
	a := NewToolAgent(newTestRegistry(t))

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeCoordination, core.CoordinationPayload{Action: "discover"})
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	result := resp.Result.(map[string]any)
	assert.Equal(t, 1, result["total_tools"])
}

func TestParseStringCommandCategories(t *testing.T) {
	tests := []struct {
		command string
		tool    string
	}{
		{"file read /tmp/x", "FileOperationsMCP"},
		{"code generate handler", "CodeGenerationMCP"},
		{"analyze scan src", "AnalysisMCP"},
		{"database query users", "DatabaseMCP"},
		{"db query users", "DatabaseMCP"},
		{"web search golang", "WebSearchMCP"},
		{"search lookup golang", "WebSearchMCP"},
		{"frobnicate now", "unknown"},
	}
	for _, tt := range tests {
		req := parseStringCommand(tt.command)
		assert.Equal(t, tt.tool, req.ToolName, tt.command)
	}
}

func TestParseStringCommandSingleWord(t *testing.T) {
	req := parseStringCommand("help")
	assert.Equal(t, "unknown", req.ToolName)
	assert.Equal(t, "help", req.Parameters["command"])
}

func TestToolAgentUnsupportedType(t *testing.T) {
	a := NewToolAgent(newTestRegistry(t))

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeEvolution, core.EvolutionPayload{Type: "x"})
	resp := a.ProcessMessage(context.Background(), msg)

	assert.False(t, resp.Success)
	assert.False(t, a.CanHandleMessage(msg))
}
