package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/model"
)

func TestGuardConvertsPanicToFailure(t *testing.T) {
	b := NewBaseAgent("test-agent", "Test", core.AgentTypeChat, nil, nil)

	resp := b.guard(func() *core.AgentResponse {
		panic("boom")
	})

	require.NotNil(t, resp)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "boom")
	assert.Equal(t, core.StatusError, b.Status())

	hs := b.HealthStatus()
	assert.False(t, hs.Healthy)
}

func TestGuardReturnsToIdle(t *testing.T) {
	b := NewBaseAgent("test-agent", "Test", core.AgentTypeChat, nil, nil)

	resp := b.guard(func() *core.AgentResponse {
		assert.Equal(t, core.StatusBusy, b.Status())
		return core.NewResponse("test-agent", "ok")
	})

	assert.True(t, resp.Success)
	assert.Equal(t, core.StatusIdle, b.Status())
	assert.Equal(t, int64(1), b.HealthStatus().Metrics["messagesProcessed"])
}

func TestCapabilitiesReturnsCopy(t *testing.T) {
	a := NewChatAgent(model.NewMockModel(), &stubRouter{})

	caps := a.Capabilities()
	caps[0] = "mutated"
	assert.NotEqual(t, "mutated", a.Capabilities()[0])
}

func TestAcknowledgeMintsCoordinationID(t *testing.T) {
	b := NewBaseAgent("test-agent", "Test", core.AgentTypeChat, nil, nil)

	msg := core.NewMessage("x", "test-agent", core.MessageTypeCoordination, core.CoordinationPayload{})
	resp := b.acknowledge(msg)

	require.True(t, resp.Success)
	assert.NotEmpty(t, resp.Result.(map[string]any)["coordination_id"])
}
