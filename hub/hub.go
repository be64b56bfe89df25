package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pronetheia/agenthub/core"
	"github.com/pronetheia/agenthub/logging"
)

// Options holds dependency and configuration overrides passed to New.
type Options struct {
	// Logger used for dispatch and lifecycle diagnostics.
	Logger logging.Logger
	// BaseContext is the parent context passed to agents during dispatch.
	// Defaults to context.Background().
	BaseContext context.Context
}

// outcome is the terminal result delivered to a correlation waiter.
type outcome struct {
	resp *core.AgentResponse
	err  error
}

// Hub maintains the agent registry and message queue and drives the dispatch
// loop. All exported methods are safe for concurrent use.
type Hub struct {
	mu      sync.Mutex
	cond    *sync.Cond
	agents  map[string]core.Agent
	queue   []*core.AgentMessage
	waiters map[string]chan outcome
	running bool
	stopped chan struct{}

	dropped atomic.Int64

	logger  logging.Logger
	baseCtx context.Context
}

// New constructs a Hub with optional overrides.
func New(optFns ...func(o *Options)) *Hub {
	opts := Options{
		Logger:      logging.NoOpLogger{},
		BaseContext: context.Background(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &Hub{
		agents:  make(map[string]core.Agent),
		waiters: make(map[string]chan outcome),
		logger:  opts.Logger,
		baseCtx: opts.BaseContext,
	}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// RegisterAgent adds the agent to the registry keyed by id and calls its
// Initialize hook. Registering an id twice overwrites the prior binding.
// Safe to call concurrently with dispatch.
func (h *Hub) RegisterAgent(ctx context.Context, agent core.Agent) error {
	h.mu.Lock()
	h.agents[agent.ID()] = agent
	h.mu.Unlock()

	if err := agent.Initialize(ctx); err != nil {
		h.mu.Lock()
		delete(h.agents, agent.ID())
		h.mu.Unlock()
		return fmt.Errorf("initialize agent %q: %w", agent.ID(), err)
	}

	h.logger.Info("agent registered", "agent_id", agent.ID(), "type", agent.Type().String())
	return nil
}

// UnregisterAgent calls the agent's Shutdown hook and removes it from the
// registry. Returns a core.RoutingError when the id is unknown.
func (h *Hub) UnregisterAgent(ctx context.Context, agentID string) error {
	h.mu.Lock()
	agent, ok := h.agents[agentID]
	if ok {
		delete(h.agents, agentID)
	}
	h.mu.Unlock()

	if !ok {
		return &core.RoutingError{Target: agentID}
	}

	if err := agent.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown agent %q: %w", agentID, err)
	}
	h.logger.Info("agent unregistered", "agent_id", agentID)
	return nil
}

// SendMessage enqueues the message for asynchronous dispatch. It never blocks
// the caller and imposes no backpressure (the queue is unbounded).
func (h *Hub) SendMessage(msg *core.AgentMessage) {
	h.mu.Lock()
	h.queue = append(h.queue, msg)
	h.mu.Unlock()
	h.cond.Signal()
}

// BroadcastMessage fans the message out to every currently registered agent
// as individual point-to-point messages, each with RequiresResponse cleared
// regardless of the original message.
func (h *Hub) BroadcastMessage(msg *core.AgentMessage) {
	for _, agent := range h.ActiveAgents() {
		m := core.NewMessage(msg.FromAgent, agent.ID(), msg.Type, msg.Content)
		m.UserID = msg.UserID
		m.RequiresResponse = false
		h.SendMessage(m)
	}
}

// SendAndWaitForResponse enqueues the message and blocks until the dispatch
// loop completes it, the timeout elapses, or ctx is cancelled. On timeout the
// waiter is removed and a core.TimeoutError is returned; a message dropped for
// an unregistered target yields a core.RoutingError.
func (h *Hub) SendAndWaitForResponse(ctx context.Context, msg *core.AgentMessage, timeout time.Duration) (*core.AgentResponse, error) {
	ch := make(chan outcome, 1)
	h.mu.Lock()
	h.waiters[msg.ID] = ch
	h.mu.Unlock()

	h.SendMessage(msg)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-ch:
		if out.err != nil {
			return nil, out.err
		}
		return out.resp, nil
	case <-timer.C:
		h.removeWaiter(msg.ID)
		return nil, &core.TimeoutError{Target: msg.ToAgent, Timeout: timeout}
	case <-ctx.Done():
		h.removeWaiter(msg.ID)
		return nil, ctx.Err()
	}
}

// ActiveAgents returns a snapshot of the currently registered agents.
func (h *Hub) ActiveAgents() []core.Agent {
	h.mu.Lock()
	defer h.mu.Unlock()
	agents := make([]core.Agent, 0, len(h.agents))
	for _, a := range h.agents {
		agents = append(agents, a)
	}
	return agents
}

// Agent returns the registered agent for the given id, if any.
func (h *Hub) Agent(agentID string) (core.Agent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	a, ok := h.agents[agentID]
	return a, ok
}

// DroppedMessages reports how many messages were discarded because their
// target agent was not registered at dispatch time.
func (h *Hub) DroppedMessages() int64 { return h.dropped.Load() }

// StartCoordination starts the background dispatch loop.
func (h *Hub) StartCoordination() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return errors.New("hub is already running")
	}
	h.running = true
	h.stopped = make(chan struct{})
	go h.dispatchLoop()
	h.logger.Info("coordination started")
	return nil
}

// StopCoordination signals the dispatch loop to exit and waits for it to
// observe the stop signal. Queued messages that were not dispatched yet are
// abandoned. Returns ctx.Err() if the context expires before the join.
func (h *Hub) StopCoordination(ctx context.Context) error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return errors.New("hub is not running")
	}
	h.running = false
	stopped := h.stopped
	h.mu.Unlock()
	h.cond.Broadcast()

	select {
	case <-stopped:
		h.logger.Info("coordination stopped", "abandoned_messages", h.queueLen())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) queueLen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}

// dispatchLoop is the single logical worker draining the queue in FIFO order.
// It blocks on the condition variable while idle instead of polling.
func (h *Hub) dispatchLoop() {
	defer close(h.stopped)
	for {
		h.mu.Lock()
		for h.running && len(h.queue) == 0 {
			h.cond.Wait()
		}
		if !h.running {
			h.mu.Unlock()
			return
		}
		msg := h.queue[0]
		h.queue = h.queue[1:]
		agent := h.agents[msg.ToAgent]
		h.mu.Unlock()

		if agent == nil {
			h.dropped.Add(1)
			h.logger.Warn("dropping message for unregistered agent",
				"to_agent", msg.ToAgent, "from_agent", msg.FromAgent, "message_id", msg.ID)
			h.completeWaiter(msg.ID, outcome{err: &core.RoutingError{Target: msg.ToAgent}})
			continue
		}

		h.process(agent, msg)
	}
}

// process delivers one message to its target agent and routes the result.
// Panics are contained so a misbehaving agent cannot kill the loop.
func (h *Hub) process(agent core.Agent, msg *core.AgentMessage) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while processing message",
				"agent_id", agent.ID(), "message_id", msg.ID, "panic", fmt.Sprintf("%v", r))
			h.completeWaiter(msg.ID, outcome{
				resp: core.NewFailure(agent.ID(), fmt.Sprintf("agent panic: %v", r)),
			})
		}
	}()

	resp := agent.ProcessMessage(h.baseCtx, msg)
	if resp == nil {
		resp = core.NewFailure(agent.ID(), "agent returned no response")
	}

	if h.completeWaiter(msg.ID, outcome{resp: resp}) {
		return
	}

	// No waiter: correlate back through the queue when the sender is itself a
	// registered agent.
	if msg.RequiresResponse && msg.FromAgent != "" {
		if _, ok := h.Agent(msg.FromAgent); ok {
			reply := core.NewMessage(msg.ToAgent, msg.FromAgent, core.MessageTypeResponse, core.ResponsePayload{Response: resp})
			reply.UserID = msg.UserID
			reply.RequiresResponse = false
			h.SendMessage(reply)
		}
	}
}

// completeWaiter delivers the outcome to the waiter registered for the
// message id, if any, and reports whether a waiter consumed it.
func (h *Hub) completeWaiter(messageID string, out outcome) bool {
	h.mu.Lock()
	ch, ok := h.waiters[messageID]
	if ok {
		delete(h.waiters, messageID)
	}
	h.mu.Unlock()
	if !ok {
		return false
	}
	ch <- out
	return true
}

func (h *Hub) removeWaiter(messageID string) {
	h.mu.Lock()
	delete(h.waiters, messageID)
	h.mu.Unlock()
}
