package core

import (
	"context"
	"fmt"
	"time"
)

// AgentType categorizes the concrete agent implementations known to the system.
type AgentType int

const (
	// AgentTypeChat handles user conversation and intent routing.
	AgentTypeChat AgentType = iota
	// AgentTypeEvolution handles self-analysis and capability generation.
	AgentTypeEvolution
	// AgentTypeTool orchestrates tool executions through the registry.
	AgentTypeTool
	// AgentTypeProjectManagement coordinates projects, tasks and workflows.
	AgentTypeProjectManagement
)

// String returns the canonical name of the agent type.
func (t AgentType) String() string {
	switch t {
	case AgentTypeChat:
		return "Chat"
	case AgentTypeEvolution:
		return "Evolution"
	case AgentTypeTool:
		return "Tool"
	case AgentTypeProjectManagement:
		return "ProjectManagement"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// AgentStatus tracks the lifecycle state of an agent.
type AgentStatus int

const (
	// StatusIdle means the agent is registered but not processing.
	StatusIdle AgentStatus = iota
	// StatusActive means the agent is initialized and accepting work.
	StatusActive
	// StatusBusy means the agent is currently processing a message.
	StatusBusy
	// StatusError means the last message processing ended in an unhandled failure.
	StatusError
)

// String returns the canonical name of the status.
func (s AgentStatus) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusActive:
		return "Active"
	case StatusBusy:
		return "Busy"
	case StatusError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Agent is an independently addressable message handler with its own status
// and capability set.
//
// Implementations must:
//   - Never panic or return errors out of ProcessMessage; failures are
//     represented as AgentResponse values with Success=false
//   - Transition Idle→Busy on entry and Busy→Idle (or Busy→Error on an
//     unhandled failure) around each processed message
//   - Tie any background work started in Initialize to the Shutdown call
type Agent interface {
	// ID returns the stable addressing identifier (e.g. "chat-agent").
	ID() string

	// Name returns the human-readable agent name.
	Name() string

	// Type categorizes the agent implementation.
	Type() AgentType

	// Status returns the current lifecycle state.
	Status() AgentStatus

	// Capabilities returns the immutable capability list declared by the agent.
	Capabilities() []string

	// ProcessMessage handles one message and produces exactly one response.
	// It is a pure dispatch over the message type; unsupported types yield a
	// failure response naming the type.
	ProcessMessage(ctx context.Context, msg *AgentMessage) *AgentResponse

	// CanHandleMessage reports whether the agent understands the message.
	// It is consulted by routing logic, not by the hub's dispatch (dispatch
	// is purely by target agent id).
	CanHandleMessage(msg *AgentMessage) bool

	// Initialize prepares the agent for work. Called once by the hub at
	// registration time.
	Initialize(ctx context.Context) error

	// Shutdown releases agent resources, cancelling any background work.
	// Called by the hub at unregistration or system teardown.
	Shutdown(ctx context.Context) error

	// HealthStatus returns a point-in-time health snapshot. It is read-only
	// and has no side effects.
	HealthStatus() HealthStatus
}

// HealthStatus is a point-in-time snapshot of an agent's health.
type HealthStatus struct {
	AgentID      string         `json:"agent_id"`
	Healthy      bool           `json:"healthy"`
	Status       AgentStatus    `json:"status"`
	LastActivity time.Time      `json:"last_activity"`
	Metrics      map[string]any `json:"metrics,omitempty"`
}
