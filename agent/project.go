package agent

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/logging"
)

// ProjectManagementOptions configures a ProjectManagementAgent.
type ProjectManagementOptions struct {
	Logger logging.Logger
}

// ProjectManagementAgent handles project coordination, task management and
// workflow optimization. It classifies tasks into six keyword intents and
// answers each with a structured result, keeping per-intent counters.
type ProjectManagementAgent struct {
	BaseAgent

	countersMu          sync.Mutex
	projectsManaged     int
	tasksCoordinated    int
	workflowsOptimized  int
	resourceAllocations int
}

// NewProjectManagementAgent constructs the project management agent.
func NewProjectManagementAgent(optFns ...func(o *ProjectManagementOptions)) *ProjectManagementAgent {
	opts := ProjectManagementOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ProjectManagementAgent{
		BaseAgent: NewBaseAgent("project-management-agent", "ProjectManagement", core.AgentTypeProjectManagement, []string{
			"project_coordination",
			"task_management",
			"workflow_optimization",
			"resource_allocation",
			"timeline_planning",
			"progress_monitoring",
		}, opts.Logger),
	}
}

// ProcessMessage implements core.Agent.
func (a *ProjectManagementAgent) ProcessMessage(ctx context.Context, msg *core.AgentMessage) *core.AgentResponse {
	return a.guard(func() *core.AgentResponse {
		a.Logger().Info("processing message", "agent", a.ID(), "type", msg.Type.String())
		switch msg.Type {
		case core.MessageTypeTask:
			return a.handleTask(msg)
		case core.MessageTypeCoordination:
			return a.acknowledge(msg)
		default:
			return a.unsupported(msg.Type)
		}
	})
}

func (a *ProjectManagementAgent) handleTask(msg *core.AgentMessage) *core.AgentResponse {
	intent := classifyProjectIntent(core.TaskText(msg.Content))
	switch intent {
	case "project_creation":
		return a.handleProjectCreation()
	case "task_coordination":
		return a.handleTaskCoordination()
	case "workflow_optimization":
		return a.handleWorkflowOptimization()
	case "resource_allocation":
		return a.handleResourceAllocation()
	case "timeline_planning":
		return a.handleTimelinePlanning()
	case "project_status":
		return a.handleProjectStatus()
	default:
		return a.handleGeneralQuery()
	}
}

// classifyProjectIntent maps task text to one of the six project management
// intents, checked in priority order.
func classifyProjectIntent(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "create project"), strings.Contains(lower, "new project"):
		return "project_creation"
	case strings.Contains(lower, "coordinate"), strings.Contains(lower, "manage tasks"):
		return "task_coordination"
	case strings.Contains(lower, "optimize"), strings.Contains(lower, "workflow"):
		return "workflow_optimization"
	case strings.Contains(lower, "allocate"), strings.Contains(lower, "resources"):
		return "resource_allocation"
	case strings.Contains(lower, "timeline"), strings.Contains(lower, "schedule"):
		return "timeline_planning"
	case strings.Contains(lower, "status"), strings.Contains(lower, "progress"):
		return "project_status"
	default:
		return "general"
	}
}

func (a *ProjectManagementAgent) handleProjectCreation() *core.AgentResponse {
	a.countersMu.Lock()
	a.projectsManaged++
	managed := a.projectsManaged
	a.countersMu.Unlock()
	a.Logger().Info("creating new project", "agent", a.ID(), "projects_managed", managed)

	return core.NewResponse(a.ID(), map[string]any{
		"message":      "Project created successfully with structured workflow and milestone tracking",
		"project_id":   core.NewID(),
		"capabilities": []string{"milestone_tracking", "resource_planning", "risk_assessment"},
		"timestamp":    time.Now().UTC(),
	}).WithMetadata("projectsManaged", managed)
}

func (a *ProjectManagementAgent) handleTaskCoordination() *core.AgentResponse {
	a.countersMu.Lock()
	a.tasksCoordinated++
	coordinated := a.tasksCoordinated
	a.countersMu.Unlock()

	return core.NewResponse(a.ID(), map[string]any{
		"message":           "Task coordination completed with optimized agent assignments",
		"tasks_coordinated": coordinated,
		"assignments": []map[string]string{
			{"agent": "ChatAgent", "task": "user_communication"},
			{"agent": "ToolAgent", "task": "code_generation"},
			{"agent": "EvolutionAgent", "task": "system_analysis"},
		},
		"timestamp": time.Now().UTC(),
	})
}

func (a *ProjectManagementAgent) handleWorkflowOptimization() *core.AgentResponse {
	a.countersMu.Lock()
	a.workflowsOptimized++
	a.countersMu.Unlock()

	return core.NewResponse(a.ID(), map[string]any{
		"message": "Workflow optimization complete",
		"optimizations": []string{
			"Parallel agent processing",
			"Reduced inter-agent communication overhead",
			"Optimized tool usage patterns",
		},
		"efficiency_gain": "25%",
		"timestamp":       time.Now().UTC(),
	})
}

func (a *ProjectManagementAgent) handleResourceAllocation() *core.AgentResponse {
	a.countersMu.Lock()
	a.resourceAllocations++
	a.countersMu.Unlock()

	return core.NewResponse(a.ID(), map[string]any{
		"message": "Resource allocation optimized across agent network",
		"allocations": map[string]string{
			"cpu_usage":           "Balanced across all agents",
			"memory_distribution": "Optimized for evolution tasks",
			"network_bandwidth":   "Prioritized for tool operations",
		},
		"timestamp": time.Now().UTC(),
	})
}

func (a *ProjectManagementAgent) handleTimelinePlanning() *core.AgentResponse {
	return core.NewResponse(a.ID(), map[string]any{
		"message": "Timeline planning complete for evolution roadmap",
		"phases": []map[string]string{
			{"phase": "0.3", "description": "First Evolution Cycle", "status": "In Progress"},
			{"phase": "0.4", "description": "Multi-Agent Evolution"},
			{"phase": "1.0", "description": "Production Evolution Platform"},
		},
		"timestamp": time.Now().UTC(),
	})
}

func (a *ProjectManagementAgent) handleProjectStatus() *core.AgentResponse {
	a.countersMu.Lock()
	metrics := map[string]any{
		"projects_managed":     a.projectsManaged,
		"tasks_coordinated":    a.tasksCoordinated,
		"workflows_optimized":  a.workflowsOptimized,
		"resource_allocations": a.resourceAllocations,
	}
	a.countersMu.Unlock()

	return core.NewResponse(a.ID(), map[string]any{
		"message":       "Project status report generated",
		"system_health": "Excellent",
		"agent_count":   4,
		"metrics":       metrics,
		"timestamp":     time.Now().UTC(),
	})
}

func (a *ProjectManagementAgent) handleGeneralQuery() *core.AgentResponse {
	return core.NewResponse(a.ID(), map[string]any{
		"message": "ProjectManagement agent online and ready for coordination tasks",
		"capabilities": []string{
			"Project Creation & Management",
			"Multi-Agent Task Coordination",
			"Workflow Optimization",
			"Resource Allocation",
			"Timeline Planning",
			"Progress Monitoring",
		},
		"status":    "Operational",
		"timestamp": time.Now().UTC(),
	})
}

// CanHandleMessage implements core.Agent by keyword affinity over the task
// text.
func (a *ProjectManagementAgent) CanHandleMessage(msg *core.AgentMessage) bool {
	if msg.Type == core.MessageTypeCoordination {
		return true
	}
	lower := strings.ToLower(core.TaskText(msg.Content))
	if lower == "" {
		return false
	}
	for _, kw := range []string{"project", "coordinate", "workflow", "task", "resource", "timeline", "manage"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Initialize implements core.Agent.
func (a *ProjectManagementAgent) Initialize(context.Context) error {
	a.setStatus(core.StatusActive)
	a.Logger().Info("agent initialized", "agent", a.ID())
	return nil
}

// Shutdown implements core.Agent.
func (a *ProjectManagementAgent) Shutdown(context.Context) error {
	a.setStatus(core.StatusIdle)
	a.Logger().Info("agent shutdown", "agent", a.ID())
	return nil
}

// HealthStatus implements core.Agent with project management counters.
func (a *ProjectManagementAgent) HealthStatus() core.HealthStatus {
	hs := a.BaseAgent.HealthStatus()
	a.countersMu.Lock()
	hs.Metrics["projectsManaged"] = a.projectsManaged
	hs.Metrics["tasksCoordinated"] = a.tasksCoordinated
	hs.Metrics["workflowsOptimized"] = a.workflowsOptimized
	hs.Metrics["resourceAllocations"] = a.resourceAllocations
	a.countersMu.Unlock()
	return hs
}
