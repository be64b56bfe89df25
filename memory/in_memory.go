package memory

import (
	"strings"
	"sync"
	"time"
)

// DefaultMaxTurns bounds how many exchanges a conversation retains.
const DefaultMaxTurns = 50

// Exchange is a single turn in a conversation.
type Exchange struct {
	Role      string    `json:"role"` // "user" or "agent"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationStore keeps per-conversation history.
type ConversationStore interface {
	// Append records an exchange at the end of the conversation.
	Append(conversationID string, ex Exchange)

	// History returns up to limit most recent exchanges in chronological
	// order. A non-positive limit returns the full retained window.
	History(conversationID string, limit int) []Exchange

	// Search returns retained exchanges whose text contains query,
	// case insensitive.
	Search(conversationID, query string) []Exchange

	// Clear drops the conversation.
	Clear(conversationID string)
}

// InMemoryStore is a process-local ConversationStore protected by an RWMutex.
// Each conversation keeps at most maxTurns exchanges; older ones fall off.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string][]Exchange
	maxTurns      int
}

// InMemoryStoreOptions configures an InMemoryStore.
type InMemoryStoreOptions struct {
	MaxTurns int
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore(optFns ...func(o *InMemoryStoreOptions)) *InMemoryStore {
	opts := InMemoryStoreOptions{MaxTurns: DefaultMaxTurns}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	return &InMemoryStore{
		conversations: make(map[string][]Exchange),
		maxTurns:      opts.MaxTurns,
	}
}

// Append implements ConversationStore.
func (s *InMemoryStore) Append(conversationID string, ex Exchange) {
	if ex.Timestamp.IsZero() {
		ex.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.conversations[conversationID], ex)
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	s.conversations[conversationID] = turns
}

// History implements ConversationStore.
func (s *InMemoryStore) History(conversationID string, limit int) []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.conversations[conversationID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]Exchange, len(turns))
	copy(out, turns)
	return out
}

// Search implements ConversationStore.
func (s *InMemoryStore) Search(conversationID, query string) []Exchange {
	lower := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Exchange
	for _, ex := range s.conversations[conversationID] {
		if strings.Contains(strings.ToLower(ex.Text), lower) {
			out = append(out, ex)
		}
	}
	return out
}

// Clear implements ConversationStore.
func (s *InMemoryStore) Clear(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
}
