package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/logging"
	"github.com/pronetheia/agenthub/tool"
)

// ToolOptions configures a ToolAgent.
type ToolOptions struct {
	Logger logging.Logger
}

// ToolAgent fronts the tool registry. It accepts structured execution
// requests as well as plain "<category> <action> <target>" commands, applies
// a security precheck and delegates to the registry.
type ToolAgent struct {
	BaseAgent
	registry *tool.Registry
}

// NewToolAgent constructs the tool agent.
func NewToolAgent(registry *tool.Registry, optFns ...func(o *ToolOptions)) *ToolAgent {
	opts := ToolOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ToolAgent{
		BaseAgent: NewBaseAgent("tool-agent", "ToolAgent", core.AgentTypeTool, []string{
			"mcpToolOrchestration",
			"toolExecution",
			"resultProcessing",
			"securityValidation",
			"performanceMonitoring",
		}, opts.Logger),
		registry: registry,
	}
}

// ProcessMessage implements core.Agent.
func (a *ToolAgent) ProcessMessage(ctx context.Context, msg *core.AgentMessage) *core.AgentResponse {
	return a.guard(func() *core.AgentResponse {
		a.Logger().Info("processing message", "agent", a.ID(), "type", msg.Type.String())
		switch msg.Type {
		case core.MessageTypeTask:
			return a.handleToolExecution(ctx, msg)
		case core.MessageTypeCoordination:
			return a.handleCoordination(msg)
		default:
			return a.unsupported(msg.Type)
		}
	})
}

func (a *ToolAgent) handleToolExecution(ctx context.Context, msg *core.AgentMessage) *core.AgentResponse {
	req, ok := parseExecutionRequest(msg.Content)
	if !ok {
		return core.NewFailure(a.ID(), "Invalid tool execution request format")
	}

	a.Logger().Info("executing tool", "agent", a.ID(), "tool", req.ToolName)

	t, found := a.registry.Get(req.ToolName)
	if !found {
		return core.NewFailure(a.ID(), "Security validation failed: Tool not found")
	}
	if t.SecurityLevel() == tool.SecurityDangerous {
		a.Logger().Warn("executing dangerous tool", "agent", a.ID(), "tool", req.ToolName)
	}

	result := a.registry.Execute(ctx, req.ToolName, req.Parameters, a.ID())

	resp := &core.AgentResponse{
		AgentID: a.ID(),
		Success: result.Success,
		Error:   result.Error,
		Result: map[string]any{
			"success":   result.Success,
			"tool_name": result.ToolName,
			"output":    result.Output,
			"error":     result.Error,
			"metadata": map[string]any{
				"execution_time": fmt.Sprintf("%dms", result.ExecutionTime.Milliseconds()),
				"timestamp":      result.Timestamp,
				"security_level": result.SecurityLevel,
			},
		},
	}
	return resp.
		WithMetadata("toolName", result.ToolName).
		WithMetadata("executionTime", result.ExecutionTime.Milliseconds()).
		WithMetadata("securityLevel", string(result.SecurityLevel))
}

func (a *ToolAgent) handleCoordination(msg *core.AgentMessage) *core.AgentResponse {
	if cp, ok := msg.Content.(core.CoordinationPayload); ok && cp.Action == "discover" {
		available := a.registry.AvailableTools()
		return core.NewResponse(a.ID(), map[string]any{
			"available_tools": available,
			"total_tools":     len(available),
		})
	}
	return a.acknowledge(msg)
}

// executionRequest is a normalized tool invocation.
type executionRequest struct {
	ToolName   string
	Parameters map[string]any
}

// parseExecutionRequest accepts a structured ToolExecutionPayload or a plain
// text command like "file read /path/to/file".
func parseExecutionRequest(p core.Payload) (executionRequest, bool) {
	switch v := p.(type) {
	case core.ToolExecutionPayload:
		return executionRequest{ToolName: v.ToolName, Parameters: v.Parameters}, true
	case *core.ToolExecutionPayload:
		return executionRequest{ToolName: v.ToolName, Parameters: v.Parameters}, true
	default:
		text := core.TaskText(p)
		if text == "" {
			return executionRequest{}, false
		}
		return parseStringCommand(text), true
	}
}

// parseStringCommand maps the leading command word to a registered tool name
// and translates "<category> <action> <target>" into that tool's parameter
// names.
func parseStringCommand(command string) executionRequest {
	parts := strings.SplitN(command, " ", 3)
	if len(parts) < 2 {
		return executionRequest{
			ToolName:   "unknown",
			Parameters: map[string]any{"command": command},
		}
	}

	action := strings.ToLower(parts[1])
	target := ""
	if len(parts) > 2 {
		target = parts[2]
	}

	switch strings.ToLower(parts[0]) {
	case "file":
		return executionRequest{
			ToolName:   "FileOperationsMCP",
			Parameters: map[string]any{"operation": action, "path": target},
		}
	case "code":
		return executionRequest{
			ToolName:   "CodeGenerationMCP",
			Parameters: map[string]any{"action": action, "prompt": target, "code": target},
		}
	case "analyze":
		return executionRequest{
			ToolName:   "AnalysisMCP",
			Parameters: map[string]any{"analysis_type": action, "target_path": target},
		}
	case "database", "db":
		return executionRequest{
			ToolName:   "DatabaseMCP",
			Parameters: map[string]any{"operation": action, "table": target},
		}
	case "web", "search":
		params := map[string]any{"action": action, "query": target}
		if action == "fetch" {
			params = map[string]any{"action": action, "url": target}
		}
		return executionRequest{ToolName: "WebSearchMCP", Parameters: params}
	default:
		return executionRequest{
			ToolName:   "unknown",
			Parameters: map[string]any{"action": action, "target": target},
		}
	}
}

// CanHandleMessage implements core.Agent.
func (a *ToolAgent) CanHandleMessage(msg *core.AgentMessage) bool {
	switch msg.Type {
	case core.MessageTypeTask, core.MessageTypeCoordination:
		return true
	default:
		return false
	}
}

// Initialize implements core.Agent.
func (a *ToolAgent) Initialize(context.Context) error {
	a.setStatus(core.StatusActive)
	a.Logger().Info("agent initialized", "agent", a.ID(), "tools", len(a.registry.AvailableTools()))
	return nil
}

// Shutdown implements core.Agent.
func (a *ToolAgent) Shutdown(context.Context) error {
	a.setStatus(core.StatusIdle)
	a.Logger().Info("agent shutdown", "agent", a.ID())
	return nil
}

// HealthStatus implements core.Agent with registry metrics.
func (a *ToolAgent) HealthStatus() core.HealthStatus {
	hs := a.BaseAgent.HealthStatus()
	hs.Metrics["toolsAvailable"] = len(a.registry.AvailableTools())
	return hs
}
