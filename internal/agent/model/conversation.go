package model

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
)

// Role is the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Turn is one message in a chat session. Turns are immutable once appended.
type Turn struct {
	ID        string       `json:"id"`
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	IsError   bool         `json:"is_error,omitempty"`
	Usage     *UsageReport `json:"usage,omitempty"`
}

// Clone returns a copy of t that shares no memory with it.
func (t Turn) Clone() Turn {
	if t.Usage != nil {
		u := *t.Usage
		t.Usage = &u
	}
	return t
}

// Message converts the turn into the eino message sent upstream.
func (t Turn) Message() *schema.Message {
	switch t.Role {
	case RoleSystem:
		return schema.SystemMessage(t.Content)
	case RoleAssistant:
		return schema.AssistantMessage(t.Content, nil)
	default:
		return schema.UserMessage(t.Content)
	}
}

type ConversationRepository interface {
	// AddTurn appends a turn to the conversation history for the given conversation
	AddTurn(ctx context.Context, conversationID string, turn Turn) error

	// LoadHistory retrieves the conversation history for a conversation
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	// ClearHistory removes all conversation history for a conversation
	ClearHistory(ctx context.Context, conversationID string) error

	// GetTurnCount returns the number of turns in the conversation
	GetTurnCount(ctx context.Context, conversationID string) (int, error)
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ConversationID string
	Turns          []Turn
}
