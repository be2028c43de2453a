// Package coach keeps the coach chat: conversations live in Redis, replies
// come from the local LLM with the user's latest stats in the system prompt.
package coach

import (
	"errors"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("empty message")
)

type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Ts      time.Time `json:"ts"`
}

type Conversation struct {
	ID       string    `json:"id"`
	Created  time.Time `json:"created"`
	Messages []Message `json:"messages"`
	Summary  string    `json:"summary"`
}

// LastActivity is the time of the last message, or the creation time.
func (c *Conversation) LastActivity() time.Time {
	if len(c.Messages) == 0 {
		return c.Created
	}
	return c.Messages[len(c.Messages)-1].Ts
}

// ConversationInfo is the history listing row.
type ConversationInfo struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	MessageCount int       `json:"message_count"`
	Created      time.Time `json:"created"`
	LastTs       time.Time `json:"last_ts"`
}

func (c *Conversation) Info() ConversationInfo {
	return ConversationInfo{
		ID:           c.ID,
		Summary:      c.Summary,
		MessageCount: len(c.Messages),
		Created:      c.Created,
		LastTs:       c.LastActivity(),
	}
}
