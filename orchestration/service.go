package orchestration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pronetheia/agenthub/agent"
	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/evolution"
	"github.com/pronetheia/agenthub/hub"
	"github.com/pronetheia/agenthub/logging"
	"github.com/pronetheia/agenthub/model"
	"github.com/pronetheia/agenthub/store"
	"github.com/pronetheia/agenthub/tool"
	"github.com/pronetheia/agenthub/tool/builtin"
)

const (
	// routeTimeout bounds how long a routed user message may take end to end.
	routeTimeout = 30 * time.Second
	// taskTimeout bounds a directed agent task.
	taskTimeout = 60 * time.Second
)

// Options configures a Service.
type Options struct {
	Logger logging.Logger

	// Workspace is the sandbox directory for file operations.
	Workspace string

	// AnalysisRoot is the default target for codebase analysis. Empty means
	// the current working directory.
	AnalysisRoot string

	// DB backs the database tool and, when set together with Store, tool
	// persistence. Nil is allowed; database queries then fail softly.
	DB *sql.DB

	// Store receives tool metadata and execution audit rows.
	Store store.Store

	// AnalysisInterval overrides the evolution agent's background cadence.
	AnalysisInterval time.Duration
}

// Service owns the hub, registry and agents. Construct with New, call
// InitializeAgents once, then route messages. Shutdown stops everything.
type Service struct {
	hub      *hub.Hub
	registry *tool.Registry
	model    model.Model
	logger   logging.Logger
	opts     Options

	initialized bool
}

// New constructs a Service around a language model.
func New(m model.Model, optFns ...func(o *Options)) *Service {
	opts := Options{
		Logger:    logging.NoOpLogger{},
		Workspace: "workspace",
		Store:     store.NewInMemoryStore(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	h := hub.New(func(o *hub.Options) {
		o.Logger = opts.Logger
	})
	registry := tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.Logger = opts.Logger
		o.Store = opts.Store
	})

	return &Service{
		hub:      h,
		registry: registry,
		model:    m,
		logger:   opts.Logger,
		opts:     opts,
	}
}

// InitializeAgents registers the five builtin tools and the four core
// agents, then starts the hub's dispatch loop. Call once at startup.
func (s *Service) InitializeAgents(ctx context.Context) error {
	if s.initialized {
		return fmt.Errorf("orchestration service already initialized")
	}

	fileOps, err := builtin.NewFileOperations(s.opts.Workspace, func(o *builtin.FileOperationsOptions) {
		o.Logger = s.logger
	})
	if err != nil {
		return fmt.Errorf("initialize file operations tool: %w", err)
	}
	s.registry.Register(ctx, fileOps)
	s.registry.Register(ctx, builtin.NewCodeGeneration(s.model))
	s.registry.Register(ctx, builtin.NewAnalysis(s.opts.AnalysisRoot))
	s.registry.Register(ctx, builtin.NewDatabase(s.opts.DB))
	s.registry.Register(ctx, builtin.NewWebSearch())

	chat := agent.NewChatAgent(s.model, s.hub, func(o *agent.ChatOptions) {
		o.Logger = s.logger
	})
	evo := agent.NewEvolutionAgent(evolution.NewStaticAnalyzer(), evolution.NewSimulatedEngine(), s.model, func(o *agent.EvolutionOptions) {
		o.Logger = s.logger
		o.AnalysisInterval = s.opts.AnalysisInterval
	})
	tools := agent.NewToolAgent(s.registry, func(o *agent.ToolOptions) {
		o.Logger = s.logger
	})
	pm := agent.NewProjectManagementAgent(func(o *agent.ProjectManagementOptions) {
		o.Logger = s.logger
	})

	for _, a := range []core.Agent{chat, evo, tools, pm} {
		if err := s.hub.RegisterAgent(ctx, a); err != nil {
			return fmt.Errorf("register agent %s: %w", a.ID(), err)
		}
	}

	if err := s.hub.StartCoordination(); err != nil {
		return err
	}

	s.initialized = true
	s.logger.Info("orchestration service initialized", "agents", 4, "tools", len(s.registry.AvailableTools()))
	return nil
}

// RouteUserMessage sends a user message to the chat agent and waits for the
// answer. Timeouts and routing failures come back as failure responses
// attributed to "system".
func (s *Service) RouteUserMessage(ctx context.Context, message, userID string) *core.AgentResponse {
	msg := core.NewMessage("user", "chat-agent", core.MessageTypeTask, core.TaskPayload{Text: message})
	msg.UserID = userID

	resp, err := s.hub.SendAndWaitForResponse(ctx, msg, routeTimeout)
	if err != nil {
		return core.NewFailure("system", err.Error())
	}
	return resp
}

// ExecuteAgentTask sends a task payload directly to the named agent and
// waits for the outcome.
func (s *Service) ExecuteAgentTask(ctx context.Context, agentID string, task core.Payload) *core.AgentResponse {
	msg := core.NewMessage("system", agentID, core.MessageTypeTask, task)

	resp, err := s.hub.SendAndWaitForResponse(ctx, msg, taskTimeout)
	if err != nil {
		return core.NewFailure(agentID, err.Error())
	}
	return resp
}

// GetAgentStatuses returns a health snapshot of every registered agent.
func (s *Service) GetAgentStatuses() []core.HealthStatus {
	agents := s.hub.ActiveAgents()
	statuses := make([]core.HealthStatus, 0, len(agents))
	for _, a := range agents {
		statuses = append(statuses, a.HealthStatus())
	}
	return statuses
}

// Hub exposes the communication hub.
func (s *Service) Hub() *hub.Hub { return s.hub }

// Registry exposes the tool registry.
func (s *Service) Registry() *tool.Registry { return s.registry }

// Shutdown stops the dispatch loop and shuts every agent down.
func (s *Service) Shutdown(ctx context.Context) error {
	if err := s.hub.StopCoordination(ctx); err != nil {
		return err
	}
	var firstErr error
	for _, a := range s.hub.ActiveAgents() {
		if err := a.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.initialized = false
	return firstErr
}
