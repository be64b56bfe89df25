package hub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pronetheia/agenthub/core"
)

// stubAgent records delivered messages and answers with a configurable handler.
type stubAgent struct {
	id          string
	mu          sync.Mutex
	received    []*core.AgentMessage
	handler     func(msg *core.AgentMessage) *core.AgentResponse
	initialized bool
	shutdown    bool
	delay       time.Duration
}

func newStubAgent(id string) *stubAgent {
	return &stubAgent{id: id}
}

func (s *stubAgent) ID() string                 { return s.id }
func (s *stubAgent) Name() string               { return s.id }
func (s *stubAgent) Type() core.AgentType       { return core.AgentTypeChat }
func (s *stubAgent) Status() core.AgentStatus   { return core.StatusActive }
func (s *stubAgent) Capabilities() []string     { return []string{"testing"} }
func (s *stubAgent) CanHandleMessage(*core.AgentMessage) bool { return true }

func (s *stubAgent) ProcessMessage(_ context.Context, msg *core.AgentMessage) *core.AgentResponse {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	s.received = append(s.received, msg)
	handler := s.handler
	s.mu.Unlock()
	if handler != nil {
		return handler(msg)
	}
	return core.NewResponse(s.id, "ok")
}

func (s *stubAgent) Initialize(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	return nil
}

func (s *stubAgent) Shutdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdown = true
	return nil
}

func (s *stubAgent) HealthStatus() core.HealthStatus {
	return core.HealthStatus{AgentID: s.id, Healthy: true, Status: core.StatusActive}
}

func (s *stubAgent) messages() []*core.AgentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*core.AgentMessage, len(s.received))
	copy(out, s.received)
	return out
}

func startedHub(t *testing.T, agents ...core.Agent) *Hub {
	t.Helper()
	h := New()
	for _, a := range agents {
		require.NoError(t, h.RegisterAgent(context.Background(), a))
	}
	require.NoError(t, h.StartCoordination())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = h.StopCoordination(ctx)
	})
	return h
}

func TestRegisterAgentCallsInitialize(t *testing.T) {
	h := New()
	a := newStubAgent("chat-agent")
	require.NoError(t, h.RegisterAgent(context.Background(), a))
	assert.True(t, a.initialized)
	assert.Len(t, h.ActiveAgents(), 1)

	require.NoError(t, h.UnregisterAgent(context.Background(), "chat-agent"))
	assert.True(t, a.shutdown)
	assert.Empty(t, h.ActiveAgents())
}

func TestUnregisterUnknownAgent(t *testing.T) {
	h := New()
	err := h.UnregisterAgent(context.Background(), "ghost")
	var routingErr *core.RoutingError
	require.ErrorAs(t, err, &routingErr)
	assert.Equal(t, "ghost", routingErr.Target)
}

func TestSendAndWaitForResponse(t *testing.T) {
	a := newStubAgent("tool-agent")
	a.handler = func(msg *core.AgentMessage) *core.AgentResponse {
		return core.NewResponse("tool-agent", "listing").WithMetadata("tool", "FileOperationsMCP")
	}
	h := startedHub(t, a)

	msg := core.NewMessage("user", "tool-agent", core.MessageTypeTask, core.TaskPayload{Text: "list files"})
	resp, err := h.SendAndWaitForResponse(context.Background(), msg, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "listing", resp.Result)
}

func TestSendAndWaitTimeout(t *testing.T) {
	a := newStubAgent("slow-agent")
	a.delay = 300 * time.Millisecond
	h := startedHub(t, a)

	msg := core.NewMessage("user", "slow-agent", core.MessageTypeTask, core.TaskPayload{Text: "slow"})
	_, err := h.SendAndWaitForResponse(context.Background(), msg, 50*time.Millisecond)

	var timeoutErr *core.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "slow-agent", timeoutErr.Target)
}

func TestSendAndWaitUnregisteredTarget(t *testing.T) {
	h := startedHub(t, newStubAgent("chat-agent"))

	msg := core.NewMessage("user", "ghost-agent", core.MessageTypeTask, core.TaskPayload{Text: "hello"})
	_, err := h.SendAndWaitForResponse(context.Background(), msg, time.Second)

	var routingErr *core.RoutingError
	require.ErrorAs(t, err, &routingErr)
	assert.Equal(t, "ghost-agent", routingErr.Target)
	assert.Equal(t, int64(1), h.DroppedMessages())
}

func TestBroadcastMessage(t *testing.T) {
	agents := []*stubAgent{newStubAgent("a1"), newStubAgent("a2"), newStubAgent("a3")}
	h := startedHub(t, agents[0], agents[1], agents[2])

	original := core.NewMessage("system", "*", core.MessageTypeCoordination, core.CoordinationPayload{Action: "ping"})
	original.RequiresResponse = true
	h.BroadcastMessage(original)

	assert.Eventually(t, func() bool {
		for _, a := range agents {
			if len(a.messages()) != 1 {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)

	for _, a := range agents {
		msgs := a.messages()
		require.Len(t, msgs, 1)
		assert.False(t, msgs[0].RequiresResponse, "broadcast deliveries never require responses")
		assert.Equal(t, a.id, msgs[0].ToAgent)
	}
}

func TestRequiresResponseSynthesizesReply(t *testing.T) {
	sender := newStubAgent("chat-agent")
	receiver := newStubAgent("tool-agent")
	h := startedHub(t, sender, receiver)

	msg := core.NewMessage("chat-agent", "tool-agent", core.MessageTypeTask, core.TaskPayload{Text: "work"})
	h.SendMessage(msg)

	assert.Eventually(t, func() bool {
		for _, m := range sender.messages() {
			if m.Type == core.MessageTypeResponse {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	var reply *core.AgentMessage
	for _, m := range sender.messages() {
		if m.Type == core.MessageTypeResponse {
			reply = m
		}
	}
	require.NotNil(t, reply)
	assert.False(t, reply.RequiresResponse)
	payload, ok := reply.Content.(core.ResponsePayload)
	require.True(t, ok)
	assert.True(t, payload.Response.Success)
}

func TestRoutedMessageToUnregisteredAgentIsDropped(t *testing.T) {
	// Only chat-agent is registered; its handler forwards the task to the
	// missing tool-agent and acknowledges the routing, mirroring intent
	// classification. The forwarded message must be dropped without a second
	// response ever arriving.
	var h *Hub
	chat := newStubAgent("chat-agent")
	chat.handler = func(msg *core.AgentMessage) *core.AgentResponse {
		routed := core.NewMessage("chat-agent", "tool-agent", core.MessageTypeTask, msg.Content)
		h.SendMessage(routed)
		return core.NewResponse("chat-agent", map[string]any{
			"routed":      true,
			"targetAgent": "tool-agent",
		})
	}
	h = startedHub(t, chat)

	msg := core.NewMessage("user", "chat-agent", core.MessageTypeTask, core.TaskPayload{Text: "execute tool run mcp file"})
	resp, err := h.SendAndWaitForResponse(context.Background(), msg, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	assert.Eventually(t, func() bool {
		return h.DroppedMessages() == 1
	}, 2*time.Second, 10*time.Millisecond)
	// The chat agent saw exactly the original message, no follow-up response.
	assert.Len(t, chat.messages(), 1)
}

func TestStopCoordinationJoinsLoop(t *testing.T) {
	h := New()
	require.NoError(t, h.StartCoordination())
	assert.Error(t, h.StartCoordination(), "double start must fail")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, h.StopCoordination(ctx))
	assert.Error(t, h.StopCoordination(ctx), "double stop must fail")

	// Restart works with a fresh loop.
	require.NoError(t, h.StartCoordination())
	require.NoError(t, h.StopCoordination(ctx))
}

func TestDispatchSurvivesPanickingAgent(t *testing.T) {
	bad := newStubAgent("bad-agent")
	bad.handler = func(*core.AgentMessage) *core.AgentResponse { panic("boom") }
	good := newStubAgent("good-agent")
	h := startedHub(t, bad, good)

	msg := core.NewMessage("user", "bad-agent", core.MessageTypeTask, core.TaskPayload{Text: "explode"})
	resp, err := h.SendAndWaitForResponse(context.Background(), msg, 2*time.Second)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "panic")

	// Loop still alive afterwards.
	next := core.NewMessage("user", "good-agent", core.MessageTypeTask, core.TaskPayload{Text: "still here"})
	resp, err = h.SendAndWaitForResponse(context.Background(), next, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, resp.Success)
}
