package entity

import (
	"time"
)

const (
	ConversationStatusActive               = "ACTIVE"
	ConversationStatusTransactionPending   = "TRANSACTION_PENDING"
	ConversationStatusTransactionCompleted = "TRANSACTION_COMPLETED"
)

// Conversation is the document-store header for a two-party message
// thread scoped to one listing. Messages live in a subcollection; the
// header only carries summary fields so appends stay cheap.
type Conversation struct {
	ID                string           `json:"id" firestore:"id"`
	Participants      []string         `json:"participants" firestore:"participants"`
	ListingID         string           `json:"listing_id" firestore:"listingId"`
	LastMessage       string           `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt     time.Time        `json:"last_message_at" firestore:"lastMessageAt"`
	MessageCount      int64            `json:"message_count" firestore:"messageCount"`
	UnreadCount       map[string]int64 `json:"unread_count" firestore:"unreadCount"`
	TransactionID     string           `json:"transaction_id,omitempty" firestore:"transactionId,omitempty"`
	TransactionStatus string           `json:"transaction_status,omitempty" firestore:"transactionStatus,omitempty"`
	Status            string           `json:"status" firestore:"status"`
	CreatedAt         time.Time        `json:"created_at" firestore:"createdAt"`
	UpdatedAt         time.Time        `json:"updated_at" firestore:"updatedAt"`
}

// ConversationKey derives the deterministic document id for a listing
// and a pair of users. The two user ids are sorted so the same pair
// always maps to the same conversation regardless of who writes first.
// The `{listingId}_{userA}_{userB}` layout is a compatibility contract.
func ConversationKey(userA, userB, listingID string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return listingID + "_" + userA + "_" + userB
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the partner of userID, or "" when userID is
// not part of the conversation.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// SortTime is the inbox ordering key: last message time when present,
// header update time otherwise.
func (c *Conversation) SortTime() time.Time {
	if !c.LastMessageAt.IsZero() {
		return c.LastMessageAt
	}
	return c.UpdatedAt
}
