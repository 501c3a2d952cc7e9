// Package service implements the conversation store, the single source of
// truth for conversation data and the sole mediator of queries to the
// answering service.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/landai/chatd/domain"
	"github.com/landai/chatd/internal/answer"
	"github.com/landai/chatd/internal/metrics"
	"github.com/landai/chatd/internal/store"
)

// Service owns the in-memory conversation collection, the current-conversation
// pointer, and write-through persistence. Construct one at startup and pass it
// to whatever needs it; there is no hidden global instance.
//
// The mutex guards the collection and pointer. It is released while an
// answering query is in flight, and completions re-resolve their conversation
// by ID, so a conversation deleted mid-flight fails the append with
// ErrNotFound instead of being resurrected.
type Service struct {
	mu            sync.Mutex
	conversations []*domain.Conversation
	currentID     string

	store    store.Adapter
	answerer answer.Answerer
}

// New constructs the store, loading the persisted collection. The pointer is
// process state only: it always starts unset, even right after a restart.
func New(ctx context.Context, adapter store.Adapter, answerer answer.Answerer) (*Service, error) {
	conversations, err := adapter.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}
	return &Service{
		conversations: conversations,
		store:         adapter,
		answerer:      answerer,
	}, nil
}

// findLocked resolves a conversation by ID. Callers must hold mu.
func (s *Service) findLocked(id string) (*domain.Conversation, bool) {
	for _, c := range s.conversations {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// persistLocked writes the whole collection through to the adapter. Callers
// must hold mu. A failed save is retried once, then reported as a warning;
// the in-memory mutation stands either way.
func (s *Service) persistLocked(ctx context.Context) {
	err := s.store.Save(ctx, s.conversations)
	if err != nil {
		err = s.store.Save(ctx, s.conversations)
	}
	if err != nil {
		log.Warn().Err(err).Int("conversations", len(s.conversations)).
			Msg("failed to persist conversation snapshot")
		metrics.SnapshotSavesTotal.WithLabelValues("error").Inc()
		return
	}
	metrics.SnapshotSavesTotal.WithLabelValues("ok").Inc()
}
