// Package store defines the persistence adapter for the conversation
// collection and its implementations.
package store

import (
	"context"

	"github.com/landai/chatd/domain"
)

// Adapter persists the whole conversation collection as one unit. Save is
// all-or-nothing: either the new snapshot replaces the old one or the prior
// state remains. Load never fails on missing or corrupt state; it degrades to
// an empty collection so a bad snapshot can only reset the store, not crash it.
type Adapter interface {
	Load(ctx context.Context) ([]*domain.Conversation, error)
	Save(ctx context.Context, conversations []*domain.Conversation) error
	Close() error
}
