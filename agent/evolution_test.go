package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/evolution"
	"github.com/pronetheia/agenthub/model"
)

func newEvolutionAgent(m model.Model, optFns ...func(o *EvolutionOptions)) *EvolutionAgent {
	return NewEvolutionAgent(evolution.NewStaticAnalyzer(), evolution.NewSimulatedEngine(), m, optFns...)
}

func TestEvolutionAgentSystemAnalysis(t *testing.T) {
	a := newEvolutionAgent(model.NewMockModel())

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "analyze the system"})
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	result := resp.Result.(map[string]any)
	assert.Equal(t, 5, result["total_gaps"])
	assert.Equal(t, 1, result["critical_gaps"])
	assert.Equal(t, "Create new agent", result["recommended_action"])

	gap := result["priority_gap"].(evolution.CapabilityGap)
	assert.Equal(t, "ProjectManagement", gap.Area)
	assert.Equal(t, 5, resp.Metadata["gapsIdentified"])
}

func TestEvolutionAgentCreateAgent(t *testing.T) {
	m := model.NewMockModel()
	m.AddResponse("Generate a new specialized agent",
		"type ReviewAgent struct {}\nfunc (a *ReviewAgent) ProcessMessage() {}")
	a := newEvolutionAgent(m)

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "create agent for code review"})
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	result := resp.Result.(map[string]any)
	assert.Equal(t, "ReviewAgent", result["name"])
	assert.Equal(t, "ready-for-deployment", result["status"])
	assert.Equal(t, true, resp.Metadata["validationPassed"])
}

func TestEvolutionAgentCreateAgentValidationFailure(t *testing.T) {
	m := model.NewMockModel()
	m.AddResponse("Generate a new specialized agent", "this is not code")
	a := newEvolutionAgent(m)

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "create agent for testing"})
	resp := a.ProcessMessage(context.Background(), msg)

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "validation failed")
}

func TestEvolutionAgentEvolutionCycle(t *testing.T) {
	a := newEvolutionAgent(model.NewMockModel())

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "evolve now"})
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	result := resp.Result.(map[string]any)
	assert.Equal(t, "completed", result["evolution_cycle"])
	assert.Equal(t, true, result["deployed"])
	assert.Equal(t, "ProjectManagementAgent", result["next_recommended_agent"])

	hs := a.HealthStatus()
	assert.Equal(t, 1, hs.Metrics["evolutionCycles"])
}

func TestEvolutionAgentStructuredRequest(t *testing.T) {
	a := newEvolutionAgent(model.NewMockModel())

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeEvolution, core.EvolutionPayload{Type: "analyze"})
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	result := resp.Result.(evolution.Result)
	assert.True(t, result.Success)
	assert.Equal(t, result.EvolutionID, resp.Metadata["evolutionId"])
}

func TestEvolutionAgentGeneralTask(t *testing.T) {
	a := newEvolutionAgent(model.NewMockModel())

	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "hello"})
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	assert.Equal(t, "general-evolution", resp.Result.(map[string]any)["task_type"])
}

func TestEvolutionAgentBackgroundLoopStops(t *testing.T) {
	a := newEvolutionAgent(model.NewMockModel(), func(o *EvolutionOptions) {
		o.AnalysisInterval = 10 * time.Millisecond
	})

	require.NoError(t, a.Initialize(context.Background()))
	assert.Equal(t, core.StatusActive, a.Status())

	time.Sleep(30 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, a.Shutdown(ctx))
	assert.Equal(t, core.StatusIdle, a.Status())

	select {
	case <-a.done:
	default:
		t.Fatal("background loop still running after Shutdown")
	}
}

func TestExtractAgentName(t *testing.T) {
	assert.Equal(t, "MonitorAgent", extractAgentName("type MonitorAgent struct{}"))
	assert.Equal(t, "NewAgent", extractAgentName("no declarations here"))
}
