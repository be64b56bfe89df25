package agenthub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pronetheia/agenthub/config"
	"github.com/pronetheia/agenthub/core"
)

func newTestHub(t *testing.T) *AgentHub {
	t.Helper()
	cfg := config.Default()
	cfg.Workspace = t.TempDir()
	cfg.Evolution.AnalysisInterval = time.Hour

	h, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, h.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		h.Stop(ctx)
	})
	return h
}

func TestHubStartsWithMockModel(t *testing.T) {
	h := newTestHub(t)

	statuses := h.AgentStatuses()
	assert.Len(t, statuses, 4)
}

func TestHubRoutesUserMessage(t *testing.T) {
	h := newTestHub(t)

	resp := h.RouteUserMessage(context.Background(), "hello there", "tester")
	require.True(t, resp.Success)
	assert.Equal(t, "chat-agent", resp.AgentID)
}

func TestHubExecutesDirectedTask(t *testing.T) {
	h := newTestHub(t)

	resp := h.ExecuteAgentTask(context.Background(), "project-management-agent", core.TaskPayload{Text: "create project demo"})
	require.True(t, resp.Success)
	assert.Equal(t, "project-management-agent", resp.AgentID)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = "anthropic" // no API key

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
