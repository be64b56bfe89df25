package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageType categorizes the intent of an AgentMessage. Dispatch inside an
// agent is a pure switch over this type; unsupported types yield a failure
// response naming the type.
type MessageType int

const (
	// MessageTypeTask carries work for an agent (user text or a structured request).
	MessageTypeTask MessageType = iota
	// MessageTypeResponse carries the outcome of an earlier message back to its sender.
	MessageTypeResponse
	// MessageTypeCoordination carries control-plane signals between agents.
	MessageTypeCoordination
	// MessageTypeEvolution carries self-improvement requests for the evolution agent.
	MessageTypeEvolution
)

// String returns the canonical name of the message type.
func (t MessageType) String() string {
	switch t {
	case MessageTypeTask:
		return "Task"
	case MessageTypeResponse:
		return "Response"
	case MessageTypeCoordination:
		return "Coordination"
	case MessageTypeEvolution:
		return "Evolution"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// MarshalJSON encodes the message type as its string name.
func (t MessageType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

// UnmarshalJSON decodes a message type from its string name.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Task":
		*t = MessageTypeTask
	case "Response":
		*t = MessageTypeResponse
	case "Coordination":
		*t = MessageTypeCoordination
	case "Evolution":
		*t = MessageTypeEvolution
	default:
		return fmt.Errorf("unknown message type %q", s)
	}
	return nil
}

// AgentMessage is the unit of communication flowing through the hub. Messages
// are created per send and must be treated as immutable once enqueued;
// ownership transfers to the hub.
type AgentMessage struct {
	ID               string      `json:"id"`
	FromAgent        string      `json:"from_agent"`
	ToAgent          string      `json:"to_agent"`
	Type             MessageType `json:"message_type"`
	Content          Payload     `json:"content"`
	UserID           string      `json:"user_id,omitempty"`
	RequiresResponse bool        `json:"requires_response"`
	Timestamp        time.Time   `json:"timestamp"`
}

// NewMessage constructs a message with a generated ID and UTC timestamp.
// RequiresResponse defaults to true, mirroring the expectation that most
// task-style messages want an answer.
func NewMessage(from, to string, msgType MessageType, content Payload) *AgentMessage {
	return &AgentMessage{
		ID:               NewID(),
		FromAgent:        from,
		ToAgent:          to,
		Type:             msgType,
		Content:          content,
		RequiresResponse: true,
		Timestamp:        time.Now().UTC(),
	}
}

// NewID generates a new unique identifier for messages, executions and
// coordination handshakes.
func NewID() string { return uuid.NewString() }
