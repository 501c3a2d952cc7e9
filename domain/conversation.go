// Package domain defines the core domain models for the conversation store.
package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultTitle is used when a conversation is started with an empty seed.
const DefaultTitle = "New Conversation"

// titleLimit is the number of characters of the seed text kept as the title.
const titleLimit = 50

// Message is a single turn in a conversation. Messages are immutable once
// created and are only ever appended to a conversation.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a titled, ordered sequence of messages with pin and
// recency metadata. The message slice is insertion-ordered; new messages go
// at the end.
type Conversation struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	IsPinned   bool       `json:"is_pinned"`
	Messages   []*Message `json:"messages"`
	CreatedAt  time.Time  `json:"created_at"`
	LastActive time.Time  `json:"last_active"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      role,
		Timestamp: time.Now().UTC(),
	}
}

// NewConversation creates an empty conversation whose title is derived from
// the seed text. The title is fixed at creation and never updated by later
// messages.
func NewConversation(seedText string) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:         uuid.NewString(),
		Title:      DeriveTitle(seedText),
		Messages:   []*Message{},
		CreatedAt:  now,
		LastActive: now,
	}
}

// DeriveTitle returns the first 50 characters of the seed text, or
// DefaultTitle when the seed is empty.
func DeriveTitle(seedText string) string {
	if seedText == "" {
		return DefaultTitle
	}
	runes := []rune(seedText)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit])
	}
	return seedText
}

// Append adds a message at the end and bumps LastActive. LastActive never
// moves backwards.
func (c *Conversation) Append(msg *Message) {
	c.Messages = append(c.Messages, msg)
	if msg.Timestamp.After(c.LastActive) {
		c.LastActive = msg.Timestamp
	}
}

// Matches reports whether the query occurs, case-insensitively, in the
// conversation title or in any message content.
func (c *Conversation) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Title), q) {
		return true
	}
	for _, msg := range c.Messages {
		if strings.Contains(strings.ToLower(msg.Content), q) {
			return true
		}
	}
	return false
}

// SortDefault orders conversations in place: pinned first, then descending
// LastActive within each partition. The sort is stable, so repeated calls on
// an unchanged slice yield an identical order.
func SortDefault(conversations []*Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		return a.LastActive.After(b.LastActive)
	})
}
