package entity

import "time"

const (
	MessageTypeRegular              = "REGULAR"
	MessageTypeTransactionRequest   = "TRANSACTION_REQUEST"
	MessageTypeTransactionConfirmed = "TRANSACTION_CONFIRMED"
	MessageTypeTransactionCompleted = "TRANSACTION_COMPLETED"
	MessageTypeTransactionCancelled = "TRANSACTION_CANCELLED"
)

// SystemSenderID marks messages authored by the platform rather than a
// user. System messages are always considered read.
const SystemSenderID = "system"

type Message struct {
	ID             string    `json:"id" firestore:"id"`
	ConversationID string    `json:"conversation_id" firestore:"conversationId"`
	Seq            int64     `json:"seq" firestore:"seq"`
	Content        string    `json:"content" firestore:"content"`
	SenderID       string    `json:"sender_id" firestore:"senderId"`
	ReceiverID     string    `json:"receiver_id,omitempty" firestore:"receiverId,omitempty"`
	Type           string    `json:"type" firestore:"type"`
	IsRead         bool      `json:"is_read" firestore:"isRead"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
}

func (m *Message) IsSystem() bool {
	return m.SenderID == SystemSenderID
}
