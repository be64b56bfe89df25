package core

// AgentResponse is produced once per processed message. It is returned to a
// waiting caller or wrapped into a new Response-type message when correlation
// flows back through the queue.
type AgentResponse struct {
	AgentID  string         `json:"agent_id"`
	Success  bool           `json:"success"`
	Result   any            `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewResponse creates a successful response with the given result.
func NewResponse(agentID string, result any) *AgentResponse {
	return &AgentResponse{AgentID: agentID, Success: true, Result: result}
}

// NewFailure creates a failure response with the given error text.
func NewFailure(agentID, errText string) *AgentResponse {
	return &AgentResponse{AgentID: agentID, Success: false, Error: errText}
}

// WithMetadata attaches a metadata key/value pair, allocating the map lazily.
// Returns the response for chaining.
func (r *AgentResponse) WithMetadata(key string, value any) *AgentResponse {
	if r.Metadata == nil {
		r.Metadata = map[string]any{}
	}
	r.Metadata[key] = value
	return r
}
