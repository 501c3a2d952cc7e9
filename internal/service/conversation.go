package service

import (
	"context"

	"github.com/landai/chatd/domain"
)

// StartNewConversation creates a conversation titled from the seed text,
// inserts it, makes it current, and persists. An empty seed is fine; the
// conversation gets the placeholder title.
func (s *Service) StartNewConversation(ctx context.Context, seedText string) *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startNewLocked(ctx, seedText)
}

func (s *Service) startNewLocked(ctx context.Context, seedText string) *domain.Conversation {
	conversation := domain.NewConversation(seedText)
	s.conversations = append(s.conversations, conversation)
	s.currentID = conversation.ID
	s.persistLocked(ctx)
	return conversation
}

// SetActiveConversation points subsequent message operations at the given
// conversation. The pointer is not persisted; it is re-established by callers
// each session.
func (s *Service) SetActiveConversation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findLocked(id); !ok {
		return domain.ErrNotFound
	}
	s.currentID = id
	return nil
}

// CurrentConversation returns the conversation the pointer references.
func (s *Service) CurrentConversation() (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == "" {
		return nil, domain.ErrNoActiveConversation
	}
	conversation, ok := s.findLocked(s.currentID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conversation, nil
}

// Conversations returns all conversations, pinned first, then most recently
// active. Pure read; the order is stable across calls without mutations.
func (s *Service) Conversations() []*domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Conversation, len(s.conversations))
	copy(out, s.conversations)
	domain.SortDefault(out)
	return out
}

// SearchConversations returns conversations whose title or message contents
// contain the query, case-insensitively, in default order.
func (s *Service) SearchConversations(query string) []*domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		if c.Matches(query) {
			out = append(out, c)
		}
	}
	domain.SortDefault(out)
	return out
}

// DeleteConversation removes a conversation and persists. Deleting an unknown
// ID is a no-op. If the current conversation is deleted the pointer is
// cleared, so an answer still in flight for it lands on ErrNotFound.
func (s *Service) DeleteConversation(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.conversations {
		if c.ID == id {
			s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
			if s.currentID == id {
				s.currentID = ""
			}
			s.persistLocked(ctx)
			return
		}
	}
}

// TogglePin flips the pin flag and persists. No-op for unknown IDs.
func (s *Service) TogglePin(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conversation, ok := s.findLocked(id); ok {
		conversation.IsPinned = !conversation.IsPinned
		s.persistLocked(ctx)
	}
}
