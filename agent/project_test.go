package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pronetheia/agenthub/core"
)

func processProjectTask(t *testing.T, a *ProjectManagementAgent, text string) map[string]any {
	t.Helper()
	msg := core.NewMessage("chat-agent", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: text})
	resp := a.ProcessMessage(context.Background(), msg)
	require.True(t, resp.Success)
	return resp.Result.(map[string]any)
}

func TestProjectIntentClassification(t *testing.T) {
	tests := []struct {
		text   string
		intent string
	}{
		{"create project alpha", "project_creation"},
		{"start a new project", "project_creation"},
		{"coordinate the agents", "task_coordination"},
		{"manage tasks for release", "task_coordination"},
		{"optimize the pipeline", "workflow_optimization"},
		{"review workflow", "workflow_optimization"},
		{"allocate compute", "resource_allocation"},
		{"balance resources", "resource_allocation"},
		{"plan the timeline", "timeline_planning"},
		{"update the schedule", "timeline_planning"},
		{"what is the status", "project_status"},
		{"show progress", "project_status"},
		{"hello there", "general"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.intent, classifyProjectIntent(tt.text), tt.text)
	}
}

func TestProjectCreationIncrementsCounter(t *testing.T) {
	a := NewProjectManagementAgent()

	result := processProjectTask(t, a, "create project alpha")
	assert.NotEmpty(t, result["project_id"])

	processProjectTask(t, a, "new project beta")

	hs := a.HealthStatus()
	assert.Equal(t, 2, hs.Metrics["projectsManaged"])
}

func TestProjectStatusReportsCounters(t *testing.T) {
	a := NewProjectManagementAgent()

	processProjectTask(t, a, "coordinate the team")
	processProjectTask(t, a, "optimize the workflow")
	result := processProjectTask(t, a, "status report")

	metrics := result["metrics"].(map[string]any)
	assert.Equal(t, 1, metrics["tasks_coordinated"])
	assert.Equal(t, 1, metrics["workflows_optimized"])
	assert.Equal(t, 0, metrics["projects_managed"])
}

func TestProjectGeneralFallback(t *testing.T) {
	a := NewProjectManagementAgent()

	result := processProjectTask(t, a, "hi")
	assert.Equal(t, "Operational", result["status"])
}

func TestProjectCanHandleMessage(t *testing.T) {
	a := NewProjectManagementAgent()

	yes := core.NewMessage("x", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "manage the project"})
	no := core.NewMessage("x", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "weather today"})

	assert.True(t, a.CanHandleMessage(yes))
	assert.False(t, a.CanHandleMessage(no))
}
