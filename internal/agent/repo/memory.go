package repo

import (
	"context"
	"sync"

	"github.com/property-assistant/server/internal/agent/model"
)

// MemoryConversationRepository keeps turns in process memory. It is the
// default store; nothing survives a restart.
type MemoryConversationRepository struct {
	mu    sync.RWMutex
	turns map[string][]model.Turn
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{turns: make(map[string][]model.Turn)}
}

func (r *MemoryConversationRepository) AddTurn(_ context.Context, conversationID string, turn model.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns[conversationID] = append(r.turns[conversationID], turn.Clone())
	return nil
}

func (r *MemoryConversationRepository) LoadHistory(_ context.Context, conversationID string) (*model.ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.turns[conversationID]
	turns := make([]model.Turn, len(src))
	for i, t := range src {
		turns[i] = t.Clone()
	}
	return &model.ConversationHistory{ConversationID: conversationID, Turns: turns}, nil
}

func (r *MemoryConversationRepository) ClearHistory(_ context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.turns, conversationID)
	return nil
}

func (r *MemoryConversationRepository) GetTurnCount(_ context.Context, conversationID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.turns[conversationID]), nil
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)
