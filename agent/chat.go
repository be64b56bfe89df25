package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/logging"
	"github.com/pronetheia/agenthub/memory"
	"github.com/pronetheia/agenthub/model"
)

// contextWindow is how many prior exchanges get folded into the model prompt.
const contextWindow = 6

// ChatOptions configures a ChatAgent.
type ChatOptions struct {
	Logger logging.Logger

	// Memory stores conversation history per user. Defaults to a
	// process-local in-memory store.
	Memory memory.ConversationStore
}

// ChatAgent is the conversational front door. It classifies user intent by
// keyword, routes specialized requests to the evolution or tool agent, and
// answers everything else with the language model, retaining conversation
// context across turns.
type ChatAgent struct {
	BaseAgent
	model  model.Model
	router Router
	memory memory.ConversationStore
}

// userIntent is the outcome of keyword intent classification.
type userIntent struct {
	TargetAgent string
	IntentType  string
}

// NewChatAgent constructs the chat agent.
func NewChatAgent(m model.Model, router Router, optFns ...func(o *ChatOptions)) *ChatAgent {
	opts := ChatOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Memory == nil {
		opts.Memory = memory.NewInMemoryStore()
	}
	return &ChatAgent{
		BaseAgent: NewBaseAgent("chat-agent", "ChatAgent", core.AgentTypeChat, []string{
			"naturalLanguageProcessing",
			"conversationManagement",
			"userIntentRecognition",
			"agentCoordination",
			"contextRetention",
		}, opts.Logger),
		model:  m,
		router: router,
		memory: opts.Memory,
	}
}

// ProcessMessage implements core.Agent.
func (a *ChatAgent) ProcessMessage(ctx context.Context, msg *core.AgentMessage) *core.AgentResponse {
	return a.guard(func() *core.AgentResponse {
		a.Logger().Info("processing message", "agent", a.ID(), "type", msg.Type.String())
		switch msg.Type {
		case core.MessageTypeTask:
			return a.handleUserTask(ctx, msg)
		case core.MessageTypeCoordination:
			return a.acknowledge(msg)
		case core.MessageTypeResponse:
			return a.handleAgentResponse(msg)
		default:
			return a.unsupported(msg.Type)
		}
	})
}

func (a *ChatAgent) handleUserTask(ctx context.Context, msg *core.AgentMessage) *core.AgentResponse {
	text := core.TaskText(msg.Content)
	intent := classifyIntent(text)

	if intent.TargetAgent != "" {
		return a.routeToSpecializedAgent(intent, msg)
	}

	userID := msg.UserID
	if userID == "" {
		userID = "anonymous"
	}

	answer, err := a.model.Complete(ctx, a.buildPrompt(userID, text))
	if err != nil {
		return core.NewFailure(a.ID(), err.Error())
	}

	a.memory.Append(userID, memory.Exchange{Role: "user", Text: text})
	a.memory.Append(userID, memory.Exchange{Role: "agent", Text: answer})

	return core.NewResponse(a.ID(), map[string]any{
		"message":   answer,
		"intent":    intent.IntentType,
		"timestamp": time.Now().UTC(),
	}).WithMetadata("conversationContext", userID)
}

// buildPrompt prepends recent conversation turns so the model sees prior
// context for the same user.
func (a *ChatAgent) buildPrompt(userID, text string) string {
	history := a.memory.History(userID, contextWindow)
	if len(history) == 0 {
		return text
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for _, ex := range history {
		fmt.Fprintf(&b, "%s: %s\n", ex.Role, ex.Text)
	}
	b.WriteString("\nCurrent message: ")
	b.WriteString(text)
	return b.String()
}

func (a *ChatAgent) routeToSpecializedAgent(intent userIntent, original *core.AgentMessage) *core.AgentResponse {
	routed := core.NewMessage(a.ID(), intent.TargetAgent, core.MessageTypeTask, original.Content)
	routed.UserID = original.UserID
	a.router.SendMessage(routed)

	a.Logger().Info("routed user request", "agent", a.ID(), "target", intent.TargetAgent, "intent", intent.IntentType)
	return core.NewResponse(a.ID(), map[string]any{
		"routed":       true,
		"target_agent": intent.TargetAgent,
		"message":      fmt.Sprintf("Your request has been routed to %s for specialized processing.", intent.TargetAgent),
	})
}

func (a *ChatAgent) handleAgentResponse(msg *core.AgentMessage) *core.AgentResponse {
	var inner *core.AgentResponse
	if rp, ok := msg.Content.(core.ResponsePayload); ok {
		inner = rp.Response
	}
	return core.NewResponse(a.ID(), map[string]any{
		"source":    msg.FromAgent,
		"response":  inner,
		"formatted": true,
		"timestamp": time.Now().UTC(),
	})
}

// classifyIntent applies the fixed keyword tables that decide whether a user
// request needs a specialized agent.
func classifyIntent(text string) userIntent {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "evolve"),
		strings.Contains(lower, "improve"),
		strings.Contains(lower, "analyze capability"):
		return userIntent{TargetAgent: "evolution-agent", IntentType: "evolution"}
	case strings.Contains(lower, "execute tool"),
		strings.Contains(lower, "run mcp"),
		strings.Contains(lower, "file operation"):
		return userIntent{TargetAgent: "tool-agent", IntentType: "tool-execution"}
	default:
		return userIntent{IntentType: "general"}
	}
}

// CanHandleMessage implements core.Agent.
func (a *ChatAgent) CanHandleMessage(msg *core.AgentMessage) bool {
	switch msg.Type {
	case core.MessageTypeTask, core.MessageTypeCoordination, core.MessageTypeResponse:
		return true
	default:
		return false
	}
}

// Initialize implements core.Agent.
func (a *ChatAgent) Initialize(context.Context) error {
	a.setStatus(core.StatusActive)
	a.Logger().Info("agent initialized", "agent", a.ID())
	return nil
}

// Shutdown implements core.Agent.
func (a *ChatAgent) Shutdown(context.Context) error {
	a.setStatus(core.StatusIdle)
	a.Logger().Info("agent shutdown", "agent", a.ID())
	return nil
}
