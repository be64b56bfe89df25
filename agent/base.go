package agent

import (
	"fmt"
	"sync"
	"time"

	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/logging"
)

// Router enqueues messages for asynchronous dispatch. *hub.Hub satisfies it;
// tests substitute a recording stub.
type Router interface {
	SendMessage(msg *core.AgentMessage)
}

// BaseAgent bundles the identity, status and metric bookkeeping shared by all
// concrete agents. Embed it and implement ProcessMessage, CanHandleMessage,
// Initialize and Shutdown to satisfy core.Agent. All exported methods are
// goroutine-safe.
type BaseAgent struct {
	id           string
	name         string
	agentType    core.AgentType
	capabilities []string
	logger       logging.Logger

	mu           sync.Mutex
	status       core.AgentStatus
	lastActivity time.Time
	processed    int64
}

// NewBaseAgent constructs a BaseAgent in the Idle state.
func NewBaseAgent(id, name string, agentType core.AgentType, capabilities []string, logger logging.Logger) BaseAgent {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return BaseAgent{
		id:           id,
		name:         name,
		agentType:    agentType,
		capabilities: capabilities,
		logger:       logger,
		status:       core.StatusIdle,
		lastActivity: time.Now().UTC(),
	}
}

// ID returns the stable addressing identifier.
func (b *BaseAgent) ID() string { return b.id }

// Name returns the human-readable agent name.
func (b *BaseAgent) Name() string { return b.name }

// Type categorizes the agent implementation.
func (b *BaseAgent) Type() core.AgentType { return b.agentType }

// Status returns the current lifecycle state.
func (b *BaseAgent) Status() core.AgentStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Capabilities returns a copy of the declared capability list.
func (b *BaseAgent) Capabilities() []string {
	out := make([]string, len(b.capabilities))
	copy(out, b.capabilities)
	return out
}

// Logger returns the agent's logger.
func (b *BaseAgent) Logger() logging.Logger { return b.logger }

func (b *BaseAgent) setStatus(s core.AgentStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = s
	b.lastActivity = time.Now().UTC()
}

// guard wraps one message handling pass with the shared lifecycle contract:
// Idle→Busy on entry, Busy→Idle on completion, Busy→Error when the handler
// panics. The panic is converted into a failure response so callers always
// receive exactly one response.
func (b *BaseAgent) guard(handle func() *core.AgentResponse) (resp *core.AgentResponse) {
	b.setStatus(core.StatusBusy)
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("agent panic", "agent", b.id, "panic", r)
			b.setStatus(core.StatusError)
			resp = core.NewFailure(b.id, fmt.Sprintf("agent panic: %v", r))
			return
		}
		b.setStatus(core.StatusIdle)
	}()

	resp = handle()

	b.mu.Lock()
	b.processed++
	b.mu.Unlock()
	return resp
}

// unsupported builds the failure response for message types an agent does not
// dispatch on.
func (b *BaseAgent) unsupported(t core.MessageType) *core.AgentResponse {
	return core.NewFailure(b.id, fmt.Sprintf("Unsupported message type: %s", t))
}

// acknowledge answers a coordination message with a standard handshake. When
// the payload carries no coordination id a fresh one is minted.
func (b *BaseAgent) acknowledge(msg *core.AgentMessage) *core.AgentResponse {
	coordinationID := ""
	if cp, ok := msg.Content.(core.CoordinationPayload); ok {
		coordinationID = cp.CoordinationID
	}
	if coordinationID == "" {
		coordinationID = core.NewID()
	}
	b.logger.Info("handling coordination", "agent", b.id, "from", msg.FromAgent)
	return core.NewResponse(b.id, map[string]any{
		"acknowledged":    true,
		"coordination_id": coordinationID,
	})
}

// HealthStatus returns a point-in-time health snapshot. Healthy means the
// agent is not in the Error state.
func (b *BaseAgent) HealthStatus() core.HealthStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return core.HealthStatus{
		AgentID:      b.id,
		Healthy:      b.status != core.StatusError,
		Status:       b.status,
		LastActivity: b.lastActivity,
		Metrics: map[string]any{
			"messagesProcessed": b.processed,
		},
	}
}
