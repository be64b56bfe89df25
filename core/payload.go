package core

import (
	"encoding/json"
	"fmt"
)

// Payload represents the polymorphic content of an AgentMessage. Concrete
// payload types implement the unexported isPayload marker enabling a closed
// set. Content is decoded once at the hub boundary; agents switch on the
// concrete type instead of re-parsing opaque strings.
type Payload interface{ isPayload() }

// TaskPayload carries free-form user or agent text. Agents apply keyword
// based intent classification to the text.
type TaskPayload struct {
	Text string `json:"text"`
}

// isPayload implements the Payload interface for TaskPayload.
func (TaskPayload) isPayload() {}

// ToolExecutionPayload is a structured request to run a named tool.
type ToolExecutionPayload struct {
	ToolName   string         `json:"tool_name"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Priority   int            `json:"priority,omitempty"`
}

// isPayload implements the Payload interface for ToolExecutionPayload.
func (ToolExecutionPayload) isPayload() {}

// CoordinationPayload carries control-plane signals between agents, such as
// tool discovery requests or acknowledgement handshakes.
type CoordinationPayload struct {
	Action         string         `json:"action,omitempty"`
	CoordinationID string         `json:"coordination_id,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// isPayload implements the Payload interface for CoordinationPayload.
func (CoordinationPayload) isPayload() {}

// EvolutionPayload is a structured self-improvement request.
type EvolutionPayload struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// isPayload implements the Payload interface for EvolutionPayload.
func (EvolutionPayload) isPayload() {}

// ResponsePayload wraps an AgentResponse when correlation flows back through
// the queue as a Response-type message.
type ResponsePayload struct {
	Response *AgentResponse `json:"response"`
}

// isPayload implements the Payload interface for ResponsePayload.
func (ResponsePayload) isPayload() {}

// payload kind tags used for JSON round-trips.
const (
	payloadKindTask          = "task"
	payloadKindToolExecution = "tool_execution"
	payloadKindCoordination  = "coordination"
	payloadKindEvolution     = "evolution"
	payloadKindResponse      = "response"
)

type payloadEnvelope struct {
	Kind string          `json:"kind"`
	Body json.RawMessage `json:"body"`
}

// EncodePayload serializes a payload into a tagged JSON envelope.
func EncodePayload(p Payload) ([]byte, error) {
	var kind string
	switch p.(type) {
	case TaskPayload, *TaskPayload:
		kind = payloadKindTask
	case ToolExecutionPayload, *ToolExecutionPayload:
		kind = payloadKindToolExecution
	case CoordinationPayload, *CoordinationPayload:
		kind = payloadKindCoordination
	case EvolutionPayload, *EvolutionPayload:
		kind = payloadKindEvolution
	case ResponsePayload, *ResponsePayload:
		kind = payloadKindResponse
	default:
		return nil, fmt.Errorf("unknown payload type %T", p)
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(payloadEnvelope{Kind: kind, Body: body})
}

// DecodePayload parses a tagged JSON envelope back into a concrete payload.
func DecodePayload(data []byte) (Payload, error) {
	var env payloadEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case payloadKindTask:
		var p TaskPayload
		if err := json.Unmarshal(env.Body, &p); err != nil {
			return nil, err
		}
		return p, nil
	case payloadKindToolExecution:
		var p ToolExecutionPayload
		if err := json.Unmarshal(env.Body, &p); err != nil {
			return nil, err
		}
		return p, nil
	case payloadKindCoordination:
		var p CoordinationPayload
		if err := json.Unmarshal(env.Body, &p); err != nil {
			return nil, err
		}
		return p, nil
	case payloadKindEvolution:
		var p EvolutionPayload
		if err := json.Unmarshal(env.Body, &p); err != nil {
			return nil, err
		}
		return p, nil
	case payloadKindResponse:
		var p ResponsePayload
		if err := json.Unmarshal(env.Body, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown payload kind %q", env.Kind)
	}
}

// MarshalJSON encodes the message with its payload in a tagged envelope.
func (m AgentMessage) MarshalJSON() ([]byte, error) {
	type alias AgentMessage
	var content json.RawMessage
	if m.Content != nil {
		enc, err := EncodePayload(m.Content)
		if err != nil {
			return nil, err
		}
		content = enc
	}
	return json.Marshal(struct {
		alias
		Content json.RawMessage `json:"content,omitempty"`
	}{alias: alias(m), Content: content})
}

// UnmarshalJSON decodes the message, resolving the payload envelope to its
// concrete type.
func (m *AgentMessage) UnmarshalJSON(data []byte) error {
	type alias AgentMessage
	aux := struct {
		*alias
		Content json.RawMessage `json:"content,omitempty"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Content) > 0 {
		p, err := DecodePayload(aux.Content)
		if err != nil {
			return err
		}
		m.Content = p
	}
	return nil
}

// TaskText extracts the free-form text from a message, tolerating both
// TaskPayload and structured payloads whose callers expect keyword routing.
// Returns an empty string when the payload carries no text.
func TaskText(p Payload) string {
	switch v := p.(type) {
	case TaskPayload:
		return v.Text
	case *TaskPayload:
		return v.Text
	default:
		return ""
	}
}
