package store

import (
	"context"
	"sync"
)

// InMemoryStore is a volatile Store implementation keeping records in process
// local maps. It is safe for concurrent access and best suited for tests or
// ephemeral demo servers.
type InMemoryStore struct {
	mu         sync.RWMutex
	tools      map[string]ToolRecord
	executions []ExecutionRecord
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tools: make(map[string]ToolRecord)}
}

// UpsertTool inserts or replaces the tool descriptor keyed by name.
func (s *InMemoryStore) UpsertTool(_ context.Context, rec ToolRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.IsActive = true
	s.tools[rec.Name] = rec
	return nil
}

// InsertExecution appends one audit row.
func (s *InMemoryStore) InsertExecution(_ context.Context, rec ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executions = append(s.executions, rec)
	return nil
}

// Executions returns recorded audit rows for the tool name, oldest first.
func (s *InMemoryStore) Executions(_ context.Context, toolName string) ([]ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ExecutionRecord
	for _, rec := range s.executions {
		if toolName == "" || rec.ToolName == toolName {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Tool returns the persisted descriptor for a tool name, if present.
func (s *InMemoryStore) Tool(name string) (ToolRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.tools[name]
	return rec, ok
}
