package repository

import (
	"context"

	"ojalocal/internal/domain/entity"
)

// ConversationTransactionState is the header projection of a relational
// transaction. Fields are written as-is, so zero values clear the
// corresponding header fields (used by cancellation).
type ConversationTransactionState struct {
	TransactionID     string
	TransactionStatus entity.TransactionStatus
	Status            string
}

// ConversationRepository persists conversation headers and their message
// sequences. Every mutating method is a single atomic read-modify-write
// against the store; on write contention the losing writer retries
// against the re-read document rather than dropping its change.
type ConversationRepository interface {
	// GetOrCreateWithMessage appends msg to the conversation identified
	// by conv.ID, creating the header from conv when absent. It returns
	// the resulting header and whether it was created by this call.
	GetOrCreateWithMessage(ctx context.Context, conv *entity.Conversation, msg *entity.Message) (*entity.Conversation, bool, error)

	// SetTransactionState syncs the header's transaction fields and
	// appends one system message, atomically. The header is created from
	// conv when the pair has never exchanged a message.
	SetTransactionState(ctx context.Context, conv *entity.Conversation, state ConversationTransactionState, msg *entity.Message) error

	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)

	// MarkRead flips every unread message addressed to userID and resets
	// the header's unread counter, atomically. Returns the number of
	// messages updated.
	MarkRead(ctx context.Context, conversationID, userID string) (int64, error)
}
