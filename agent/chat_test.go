package agent

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/model"
)

// stubRouter records sent messages without dispatching them.
type stubRouter struct {
	mu   sync.Mutex
	sent []*core.AgentMessage
}

func (r *stubRouter) SendMessage(msg *core.AgentMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
}

func (r *stubRouter) messages() []*core.AgentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*core.AgentMessage, len(r.sent))
	copy(out, r.sent)
	return out
}

func TestChatAgentIdentity(t *testing.T) {
	a := NewChatAgent(model.NewMockModel(), &stubRouter{})

	assert.Equal(t, "chat-agent", a.ID())
	assert.Equal(t, "ChatAgent", a.Name())
	assert.Equal(t, core.AgentTypeChat, a.Type())
	assert.Contains(t, a.Capabilities(), "userIntentRecognition")
	assert.Equal(t, core.StatusIdle, a.Status())
}

func TestChatAgentAnswersGeneralTask(t *testing.T) {
	m := model.NewMockModel()
	m.AddResponse("hello", "Hi there!")
	a := NewChatAgent(m, &stubRouter{})
	require.NoError(t, a.Initialize(context.Background()))

	msg := core.NewMessage("user", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "hello"})
	msg.UserID = "user-1"
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	result := resp.Result.(map[string]any)
	assert.Equal(t, "Hi there!", result["message"])
	assert.Equal(t, "general", result["intent"])
	assert.Equal(t, "user-1", resp.Metadata["conversationContext"])
	assert.Equal(t, core.StatusIdle, a.Status())
}

func TestChatAgentRoutesEvolutionIntent(t *testing.T) {
	router := &stubRouter{}
	a := NewChatAgent(model.NewMockModel(), router)

	msg := core.NewMessage("user", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "please evolve the system"})
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	result := resp.Result.(map[string]any)
	assert.Equal(t, true, result["routed"])
	assert.Equal(t, "evolution-agent", result["target_agent"])

	sent := router.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "chat-agent", sent[0].FromAgent)
	assert.Equal(t, "evolution-agent", sent[0].ToAgent)
	assert.Equal(t, core.MessageTypeTask, sent[0].Type)
}

func TestChatAgentRoutesToolIntent(t *testing.T) {
	router := &stubRouter{}
	a := NewChatAgent(model.NewMockModel(), router)

	for _, text := range []string{"execute tool file read", "run mcp search", "do a file operation"} {
		msg := core.NewMessage("user", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: text})
		resp := a.ProcessMessage(context.Background(), msg)
		require.True(t, resp.Success, text)
		assert.Equal(t, "tool-agent", resp.Result.(map[string]any)["target_agent"], text)
	}
	assert.Len(t, router.messages(), 3)
}

func TestChatAgentRetainsConversationContext(t *testing.T) {
	m := model.NewMockModel()
	a := NewChatAgent(m, &stubRouter{})

	first := core.NewMessage("user", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "my name is Ada"})
	first.UserID = "user-1"
	require.True(t, a.ProcessMessage(context.Background(), first).Success)

	second := core.NewMessage("user", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "what is my name?"})
	second.UserID = "user-1"
	require.True(t, a.ProcessMessage(context.Background(), second).Success)

	calls := m.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "my name is Ada", calls[0])
	assert.Contains(t, calls[1], "Previous conversation:")
	assert.Contains(t, calls[1], "user: my name is Ada")
	assert.Contains(t, calls[1], "Current message: what is my name?")
}

func TestChatAgentContextIsPerUser(t *testing.T) {
	m := model.NewMockModel()
	a := NewChatAgent(m, &stubRouter{})

	first := core.NewMessage("user", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "remember the blue key"})
	first.UserID = "user-1"
	require.True(t, a.ProcessMessage(context.Background(), first).Success)

	other := core.NewMessage("user", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "hello"})
	other.UserID = "user-2"
	require.True(t, a.ProcessMessage(context.Background(), other).Success)

	calls := m.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "hello", calls[1])
}

func TestChatAgentModelFailure(t *testing.T) {
	m := model.NewMockModel()
	m.FailWith(assert.AnError)
	a := NewChatAgent(m, &stubRouter{})

	msg := core.NewMessage("user", a.ID(), core.MessageTypeTask, core.TaskPayload{Text: "hello"})
	resp := a.ProcessMessage(context.Background(), msg)

	assert.False(t, resp.Success)
	assert.Equal(t, assert.AnError.Error(), resp.Error)
}

func TestChatAgentCoordinationAck(t *testing.T) {
	a := NewChatAgent(model.NewMockModel(), &stubRouter{})

	msg := core.NewMessage("tool-agent", a.ID(), core.MessageTypeCoordination, core.CoordinationPayload{CoordinationID: "c-1"})
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	result := resp.Result.(map[string]any)
	assert.Equal(t, true, result["acknowledged"])
	assert.Equal(t, "c-1", result["coordination_id"])
}

func TestChatAgentReformatsAgentResponse(t *testing.T) {
	a := NewChatAgent(model.NewMockModel(), &stubRouter{})

	inner := core.NewResponse("tool-agent", "done")
	msg := core.NewMessage("tool-agent", a.ID(), core.MessageTypeResponse, core.ResponsePayload{Response: inner})
	resp := a.ProcessMessage(context.Background(), msg)

	require.True(t, resp.Success)
	result := resp.Result.(map[string]any)
	assert.Equal(t, "tool-agent", result["source"])
	assert.Equal(t, inner, result["response"])
	assert.Equal(t, true, result["formatted"])
}

func TestChatAgentUnsupportedType(t *testing.T) {
	a := NewChatAgent(model.NewMockModel(), &stubRouter{})

	msg := core.NewMessage("user", a.ID(), core.MessageTypeEvolution, core.EvolutionPayload{Type: "analyze"})
	resp := a.ProcessMessage(context.Background(), msg)

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Unsupported message type")
	assert.False(t, a.CanHandleMessage(msg))
}
