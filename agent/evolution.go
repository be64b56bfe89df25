package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/evolution"
	"github.com/pronetheia/agenthub/logging"
	"github.com/pronetheia/agenthub/model"
)

// DefaultAnalysisInterval is how often the evolution agent re-analyzes the
// system in the background.
const DefaultAnalysisInterval = 30 * time.Minute

// EvolutionOptions configures an EvolutionAgent.
type EvolutionOptions struct {
	Logger logging.Logger

	// AnalysisInterval overrides the background analysis cadence. Zero means
	// DefaultAnalysisInterval.
	AnalysisInterval time.Duration
}

// EvolutionAgent performs self-analysis, generates new agent code with the
// language model and drives full evolution cycles through the engine. A
// background loop re-runs the system analysis periodically until Shutdown.
type EvolutionAgent struct {
	BaseAgent
	analyzer evolution.Analyzer
	engine   evolution.Engine
	model    model.Model
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}

	metricsMu       sync.Mutex
	evolutionCycles int
	agentsCreated   int
	gapsIdentified  int
}

var agentNamePattern = regexp.MustCompile(`type\s+(\w+)Agent\s+struct`)

// NewEvolutionAgent constructs the evolution agent.
func NewEvolutionAgent(analyzer evolution.Analyzer, engine evolution.Engine, m model.Model, optFns ...func(o *EvolutionOptions)) *EvolutionAgent {
	opts := EvolutionOptions{AnalysisInterval: DefaultAnalysisInterval}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.AnalysisInterval <= 0 {
		opts.AnalysisInterval = DefaultAnalysisInterval
	}
	return &EvolutionAgent{
		BaseAgent: NewBaseAgent("evolution-agent", "EvolutionAgent", core.AgentTypeEvolution, []string{
			"selfAnalysis",
			"capabilityGapIdentification",
			"agentGeneration",
			"codeGeneration",
			"systemOptimization",
		}, opts.Logger),
		analyzer: analyzer,
		engine:   engine,
		model:    m,
		interval: opts.AnalysisInterval,
	}
}

// ProcessMessage implements core.Agent.
func (a *EvolutionAgent) ProcessMessage(ctx context.Context, msg *core.AgentMessage) *core.AgentResponse {
	return a.guard(func() *core.AgentResponse {
		a.Logger().Info("processing message", "agent", a.ID(), "type", msg.Type.String())
		switch msg.Type {
		case core.MessageTypeTask:
			return a.handleEvolutionTask(ctx, msg)
		case core.MessageTypeEvolution:
			return a.handleEvolutionRequest(ctx, msg)
		case core.MessageTypeCoordination:
			return a.acknowledge(msg)
		default:
			return a.unsupported(msg.Type)
		}
	})
}

func (a *EvolutionAgent) handleEvolutionTask(ctx context.Context, msg *core.AgentMessage) *core.AgentResponse {
	text := strings.ToLower(core.TaskText(msg.Content))
	switch {
	case strings.Contains(text, "analyze"):
		return a.performSystemAnalysis(ctx)
	case strings.Contains(text, "create agent"):
		return a.createNewAgent(ctx, core.TaskText(msg.Content))
	case strings.Contains(text, "evolve"):
		return a.executeEvolutionCycle(ctx)
	default:
		return core.NewResponse(a.ID(), map[string]any{
			"message":   "Evolution task received. Analyzing system capabilities...",
			"task_type": "general-evolution",
		})
	}
}

func (a *EvolutionAgent) handleEvolutionRequest(ctx context.Context, msg *core.AgentMessage) *core.AgentResponse {
	req := evolution.Request{}
	if ep, ok := msg.Content.(core.EvolutionPayload); ok {
		req.Type = ep.Type
		req.Parameters = ep.Parameters
	}
	a.Logger().Info("processing evolution request", "agent", a.ID(), "request_type", req.Type)

	result, err := a.engine.ExecuteEvolution(ctx, req)
	if err != nil {
		return core.NewFailure(a.ID(), err.Error())
	}

	resp := &core.AgentResponse{AgentID: a.ID(), Success: result.Success, Result: result}
	return resp.
		WithMetadata("evolutionId", result.EvolutionID).
		WithMetadata("duration", result.Duration)
}

func (a *EvolutionAgent) performSystemAnalysis(ctx context.Context) *core.AgentResponse {
	a.Logger().Info("performing system capability analysis", "agent", a.ID())

	gaps, err := a.analyzer.AnalyzeCapabilityGaps(ctx)
	if err != nil {
		return core.NewFailure(a.ID(), err.Error())
	}
	current, err := a.analyzer.CurrentCapabilities(ctx)
	if err != nil {
		return core.NewFailure(a.ID(), err.Error())
	}

	priorityGap, ok := evolution.HighestPriorityGap(gaps)
	critical := 0
	missing := make([]string, 0, len(gaps))
	for _, g := range gaps {
		if g.Priority > 7 {
			critical++
		}
		missing = append(missing, g.Area)
	}

	a.metricsMu.Lock()
	a.gapsIdentified += len(gaps)
	a.metricsMu.Unlock()

	analysis := map[string]any{
		"total_gaps":         len(gaps),
		"critical_gaps":      critical,
		"recommended_action": evolution.RecommendedAction(priorityGap, ok),
		"capabilities": map[string]any{
			"current": current,
			"missing": missing,
		},
	}
	if ok {
		analysis["priority_gap"] = priorityGap
	}

	return core.NewResponse(a.ID(), analysis).
		WithMetadata("analysisTimestamp", time.Now().UTC()).
		WithMetadata("gapsIdentified", len(gaps))
}

func (a *EvolutionAgent) createNewAgent(ctx context.Context, specification string) *core.AgentResponse {
	a.Logger().Info("creating new agent", "agent", a.ID())

	prompt := fmt.Sprintf(`Generate a new specialized agent for the Pronetheia system.
Specification: %s

The agent should:
1. Implement the Agent interface
2. Have specialized capabilities
3. Integrate with the existing agent communication system
4. Include proper error handling and logging

Generate the complete Go implementation.`, specification)

	code, err := a.model.Complete(ctx, prompt)
	if err != nil {
		return core.NewFailure(a.ID(), err.Error())
	}

	if !strings.Contains(code, "Agent") || !strings.Contains(code, "ProcessMessage") {
		return core.NewFailure(a.ID(), "Agent code validation failed: generated code does not implement the agent contract")
	}

	a.metricsMu.Lock()
	a.agentsCreated++
	a.metricsMu.Unlock()

	return core.NewResponse(a.ID(), map[string]any{
		"name":         extractAgentName(code),
		"code":         code,
		"capabilities": []string{"specialized-processing", "domain-expertise"},
		"status":       "ready-for-deployment",
	}).
		WithMetadata("generationTimestamp", time.Now().UTC()).
		WithMetadata("validationPassed", true)
}

func (a *EvolutionAgent) executeEvolutionCycle(ctx context.Context) *core.AgentResponse {
	a.Logger().Info("executing full evolution cycle", "agent", a.ID())

	gaps, err := a.analyzer.AnalyzeCapabilityGaps(ctx)
	if err != nil {
		return core.NewFailure(a.ID(), err.Error())
	}
	plan, err := a.engine.CreatePlan(ctx, gaps)
	if err != nil {
		return core.NewFailure(a.ID(), err.Error())
	}
	improvements, err := a.engine.GenerateImprovements(ctx, plan)
	if err != nil {
		return core.NewFailure(a.ID(), err.Error())
	}
	validation, err := a.engine.ValidateImprovements(ctx, improvements)
	if err != nil {
		return core.NewFailure(a.ID(), err.Error())
	}
	if !validation.Valid {
		return core.NewFailure(a.ID(), fmt.Sprintf("Evolution cycle validation failed: %s", validation.Error))
	}
	deployment, err := a.engine.DeployImprovements(ctx, improvements)
	if err != nil {
		return core.NewFailure(a.ID(), err.Error())
	}

	a.metricsMu.Lock()
	a.evolutionCycles++
	a.metricsMu.Unlock()

	return core.NewResponse(a.ID(), map[string]any{
		"evolution_cycle":        "completed",
		"plan":                   plan,
		"improvements":           len(improvements),
		"deployed":               deployment.Success,
		"next_recommended_agent": "ProjectManagementAgent",
	}).
		WithMetadata("cycleId", core.NewID()).
		WithMetadata("improvementsDeployed", len(improvements))
}

// extractAgentName pulls the agent type name out of generated Go code,
// falling back to a generic name when none is found.
func extractAgentName(code string) string {
	if m := agentNamePattern.FindStringSubmatch(code); m != nil {
		return m[1] + "Agent"
	}
	return "NewAgent"
}

// CanHandleMessage implements core.Agent.
func (a *EvolutionAgent) CanHandleMessage(msg *core.AgentMessage) bool {
	switch msg.Type {
	case core.MessageTypeTask, core.MessageTypeEvolution, core.MessageTypeCoordination:
		return true
	default:
		return false
	}
}

// Initialize implements core.Agent. It starts the periodic background
// analysis loop, which runs until Shutdown.
func (a *EvolutionAgent) Initialize(context.Context) error {
	a.setStatus(core.StatusActive)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan struct{})

	go func() {
		defer close(a.done)
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.performSystemAnalysis(ctx)
			}
		}
	}()

	a.Logger().Info("agent initialized", "agent", a.ID(), "analysis_interval", a.interval.String())
	return nil
}

// Shutdown implements core.Agent. It stops the background analysis loop and
// waits for it to exit.
func (a *EvolutionAgent) Shutdown(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
		select {
		case <-a.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	a.setStatus(core.StatusIdle)
	a.Logger().Info("agent shutdown", "agent", a.ID())
	return nil
}

// HealthStatus implements core.Agent with evolution-specific metrics.
func (a *EvolutionAgent) HealthStatus() core.HealthStatus {
	hs := a.BaseAgent.HealthStatus()
	a.metricsMu.Lock()
	hs.Metrics["evolutionCycles"] = a.evolutionCycles
	hs.Metrics["agentsCreated"] = a.agentsCreated
	hs.Metrics["gapsIdentified"] = a.gapsIdentified
	a.metricsMu.Unlock()
	return hs
}
