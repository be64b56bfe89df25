package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// SystemPrompt is prepended to every chat conversation, matching the persona
// the original system presented to its users.
const SystemPrompt = "You are Pronetheia, an AI agent system. Always respond in English. Be helpful, concise, and professional."

// ChatMessage is one role-tagged turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Model is the minimal interface agents use to drive text generation.
type Model interface {
	// Complete sends a single user prompt and returns the model's answer.
	Complete(ctx context.Context, prompt string) (string, error)

	// Chat sends a role-tagged conversation and returns the model's answer.
	// Implementations prepend SystemPrompt when the caller supplies no
	// system turn.
	Chat(ctx context.Context, messages []ChatMessage) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests and examples.
// Prompts are matched by exact text first, then by substring; unmatched
// prompts yield a generic echo answer.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	err       error
	calls     []string
}

// NewMockModel constructs a MockModel.
func NewMockModel() *MockModel {
	return &MockModel{
		info:      Info{Name: "mock", Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a canned completion for a prompt (exact or substring match).
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// FailWith makes every subsequent call return err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the prompts received so far.
func (m *MockModel) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Complete implements Model.
func (m *MockModel) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)
	if m.err != nil {
		return "", m.err
	}
	if resp, ok := m.responses[prompt]; ok {
		return resp, nil
	}
	for key, resp := range m.responses {
		if strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// Chat implements Model by completing against the last user turn.
func (m *MockModel) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	var last string
	for _, msg := range messages {
		if msg.Role == "user" {
			last = msg.Content
		}
	}
	return m.Complete(ctx, last)
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
