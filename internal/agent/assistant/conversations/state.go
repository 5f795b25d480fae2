package conversations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/property-assistant/server/internal/agent/model"
	errx "github.com/property-assistant/server/internal/core/error"
	logx "github.com/property-assistant/server/pkg/logger"
)

// State is the ordered, append-only turn log of one session. Bounding the log
// for a request is the prompt builder's job, not this type's.
type State struct {
	conversationID   string
	conversationRepo model.ConversationRepository
}

func NewState(conversationID string, conversationRepo model.ConversationRepository) *State {
	return &State{
		conversationID:   conversationID,
		conversationRepo: conversationRepo,
	}
}

func (s *State) ID() string {
	return s.conversationID
}

// Append adds turn at the end of the log. A missing ID or timestamp is filled in.
func (s *State) Append(ctx context.Context, turn model.Turn) error {
	if !turn.Role.Valid() {
		return errx.InvalidInput(fmt.Sprintf("unknown role %q", turn.Role))
	}
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	if err := s.conversationRepo.AddTurn(ctx, s.conversationID, turn); err != nil {
		logx.Error().Err(err).Str("session_id", s.conversationID).Str("role", string(turn.Role)).Msg("append turn failed")
		return err
	}
	return nil
}

// Reset discards every turn. Resetting an empty log is a no-op.
func (s *State) Reset(ctx context.Context) error {
	if err := s.conversationRepo.ClearHistory(ctx, s.conversationID); err != nil {
		logx.Error().Err(err).Str("session_id", s.conversationID).Msg("reset conversation failed")
		return err
	}
	return nil
}

// Snapshot returns an ordered copy of the log that the caller owns.
func (s *State) Snapshot(ctx context.Context) ([]model.Turn, error) {
	history, err := s.conversationRepo.LoadHistory(ctx, s.conversationID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Turn, len(history.Turns))
	for i, t := range history.Turns {
		out[i] = t.Clone()
	}
	return out, nil
}

func (s *State) Len(ctx context.Context) (int, error) {
	return s.conversationRepo.GetTurnCount(ctx, s.conversationID)
}

// ====================== Helper function ======================

// NewTurn stamps a fresh turn with an id and the current time.
func NewTurn(role model.Role, content string) model.Turn {
	return model.Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// ErrorTurn is the assistant placeholder recorded when a round trip fails. It
// stays in the transcript but is never replayed to the model.
func ErrorTurn(content string) model.Turn {
	t := NewTurn(model.RoleAssistant, content)
	t.IsError = true
	return t
}
