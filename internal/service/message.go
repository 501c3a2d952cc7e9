package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/landai/chatd/domain"
	"github.com/landai/chatd/internal/metrics"
)

// FallbackAnswer is appended as the assistant reply when the answering
// service fails. The failure stays visible in the conversation instead of
// being raised to the caller.
const FallbackAnswer = "Sorry, I couldn't reach the answering service. Please try again in a moment."

// AddUserMessage appends a user message to the current conversation
// (starting a new conversation seeded with the text if none is active),
// persists it, and queries the answering service. On success the assistant
// reply is appended, persisted, and returned. On cancellation the ctx error
// is returned and nothing is appended beyond the user message. On service
// failure a fallback assistant message is appended and returned with a nil
// error.
func (s *Service) AddUserMessage(ctx context.Context, text string) (*domain.Message, error) {
	s.mu.Lock()
	if s.currentID == "" {
		s.startNewLocked(ctx, text)
	}
	conversationID := s.currentID
	conversation, ok := s.findLocked(conversationID)
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	conversation.Append(domain.NewMessage(domain.RoleUser, text))
	s.persistLocked(ctx)
	s.mu.Unlock()

	return s.fetchAnswer(ctx, conversationID, text)
}

// AddAssistantMessage appends an assistant message directly, without
// contacting the answering service. Used by flows that already hold an
// externally obtained answer.
func (s *Service) AddAssistantMessage(ctx context.Context, text string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == "" {
		return nil, domain.ErrNoActiveConversation
	}
	conversation, ok := s.findLocked(s.currentID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	message := domain.NewMessage(domain.RoleAssistant, text)
	conversation.Append(message)
	s.persistLocked(ctx)
	return message, nil
}

// Regenerate re-answers a prior assistant turn of the current conversation.
// The message at index must be an assistant reply preceded by a user message.
// This is a truncate-and-replace, the one deliberate exception to the
// append-only model: the assistant message at index and everything after it
// are hard-discarded (unrecoverable) before the preceding user text is
// re-issued through the same path as AddUserMessage. A cancelled regeneration
// therefore leaves the conversation ending in the user turn.
func (s *Service) Regenerate(ctx context.Context, index int) (*domain.Message, error) {
	s.mu.Lock()
	if s.currentID == "" {
		s.mu.Unlock()
		return nil, domain.ErrNoActiveConversation
	}
	conversationID := s.currentID
	conversation, ok := s.findLocked(conversationID)
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	if index < 1 || index >= len(conversation.Messages) {
		s.mu.Unlock()
		return nil, fmt.Errorf("message index %d out of range: %w", index, domain.ErrNotFound)
	}
	if conversation.Messages[index].Role != domain.RoleAssistant {
		s.mu.Unlock()
		return nil, fmt.Errorf("message at index %d is not an assistant reply", index)
	}
	if conversation.Messages[index-1].Role != domain.RoleUser {
		s.mu.Unlock()
		return nil, fmt.Errorf("message at index %d is not preceded by a user message", index)
	}

	text := conversation.Messages[index-1].Content
	conversation.Messages = conversation.Messages[:index]
	s.persistLocked(ctx)
	s.mu.Unlock()

	return s.fetchAnswer(ctx, conversationID, text)
}

// fetchAnswer queries the answering service with the conversation ID as
// correlation key and appends the outcome. The mutex is not held across the
// call; the conversation is re-resolved afterwards so a concurrent delete
// surfaces as ErrNotFound. Cancellation is checked before issuing the query
// and again on completion; once signalled, no state is mutated.
func (s *Service) fetchAnswer(ctx context.Context, conversationID, text string) (*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.answerer.Query(ctx, text, conversationID)
	metrics.AnswerQueryDuration.Observe(time.Since(start).Seconds())

	if ctxErr := ctx.Err(); ctxErr != nil || errors.Is(err, context.Canceled) {
		metrics.AnswerQueriesTotal.WithLabelValues("cancelled").Inc()
		if ctxErr != nil {
			return nil, ctxErr
		}
		return nil, context.Canceled
	}

	content := FallbackAnswer
	if err != nil {
		metrics.AnswerQueriesTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("conversation_id", conversationID).
			Msg("answering service query failed, appending fallback reply")
	} else {
		metrics.AnswerQueriesTotal.WithLabelValues("ok").Inc()
		content = resp.Answer
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	conversation, ok := s.findLocked(conversationID)
	if !ok {
		// Deleted while the query was in flight.
		return nil, domain.ErrNotFound
	}
	message := domain.NewMessage(domain.RoleAssistant, content)
	conversation.Append(message)
	s.persistLocked(ctx)
	return message, nil
}
