package evolution

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Request is a structured evolution request handed to the engine.
type Request struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Result is the outcome of a full evolution execution.
type Result struct {
	EvolutionID string   `json:"evolution_id"`
	Success     bool     `json:"success"`
	Duration    string   `json:"duration"`
	Changes     []string `json:"changes"`
}

// Plan describes the steps of an evolution cycle.
type Plan struct {
	Objective      string   `json:"objective"`
	Steps          []string `json:"steps"`
	GeneratedFiles []string `json:"generated_files"`
	ModifiedFiles  []string `json:"modified_files"`
	TestStrategy   string   `json:"test_strategy"`
}

// Improvement is one planned or generated change.
type Improvement struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	Detail string `json:"detail,omitempty"`
	Status string `json:"status"`
}

// Validation reports whether a set of improvements is deployable.
type Validation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Deployment reports the outcome of deploying improvements.
type Deployment struct {
	Success       bool `json:"success"`
	DeployedItems int  `json:"deployed_items"`
}

// Engine drives the plan→generate→validate→deploy evolution cycle.
type Engine interface {
	ExecuteEvolution(ctx context.Context, req Request) (Result, error)
	CreatePlan(ctx context.Context, gaps []CapabilityGap) (Plan, error)
	GenerateImprovements(ctx context.Context, plan Plan) ([]Improvement, error)
	ValidateImprovements(ctx context.Context, improvements []Improvement) (Validation, error)
	DeployImprovements(ctx context.Context, improvements []Improvement) (Deployment, error)
}

// SimulatedEngine returns canned success results for every step, mirroring
// the original system's demo engine. No code is actually deployed.
type SimulatedEngine struct{}

// NewSimulatedEngine constructs a SimulatedEngine.
func NewSimulatedEngine() *SimulatedEngine { return &SimulatedEngine{} }

// ExecuteEvolution implements Engine.
func (*SimulatedEngine) ExecuteEvolution(context.Context, Request) (Result, error) {
	return Result{
		EvolutionID: uuid.NewString(),
		Success:     true,
		Duration:    (2500 * time.Millisecond).String(),
		Changes:     []string{"Analysis completed", "Gap identification finished"},
	}, nil
}

// CreatePlan implements Engine.
func (*SimulatedEngine) CreatePlan(_ context.Context, gaps []CapabilityGap) (Plan, error) {
	plan := Plan{
		Objective:    "Address critical capability gaps",
		Steps:        []string{"Create specialized agent", "Implement coordination protocols"},
		TestStrategy: "Unit testing for new agent",
	}
	if gap, ok := HighestPriorityGap(gaps); ok {
		plan.GeneratedFiles = []string{gap.Area + "Agent.go"}
		plan.ModifiedFiles = []string{"orchestration/service.go"}
	}
	return plan, nil
}

// GenerateImprovements implements Engine.
func (*SimulatedEngine) GenerateImprovements(_ context.Context, plan Plan) ([]Improvement, error) {
	improvements := []Improvement{
		{Type: "coordination", Detail: "improved-routing", Status: "planned"},
	}
	for _, f := range plan.GeneratedFiles {
		improvements = append(improvements, Improvement{Type: "agent", Name: f, Status: "generated"})
	}
	return improvements, nil
}

// ValidateImprovements implements Engine.
func (*SimulatedEngine) ValidateImprovements(context.Context, []Improvement) (Validation, error) {
	return Validation{Valid: true}, nil
}

// DeployImprovements implements Engine.
func (*SimulatedEngine) DeployImprovements(_ context.Context, improvements []Improvement) (Deployment, error) {
	return Deployment{Success: true, DeployedItems: len(improvements)}, nil
}
