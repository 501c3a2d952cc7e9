package domain

import "errors"

// Precondition errors surfaced to callers. Cancellation is deliberately not
// in this list: an aborted answer fetch reports context.Canceled, which is an
// outcome, not a failure of the store.
var (
	// ErrNotFound means the referenced conversation does not exist, either
	// because the ID was never issued or the conversation was deleted.
	ErrNotFound = errors.New("conversation not found")

	// ErrNoActiveConversation means an operation that targets the current
	// conversation was called while the pointer was unset.
	ErrNoActiveConversation = errors.New("no active conversation")
)
