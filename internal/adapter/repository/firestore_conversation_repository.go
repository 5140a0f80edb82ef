package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ojalocal/internal/domain/entity"
	"ojalocal/internal/domain/repository"
	"ojalocal/pkg/errors"
	"ojalocal/pkg/logger"
)

const (
	conversationCollection = "conversations"
	messageSubcollection   = "messages"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func (r *firestoreConversationRepository) conversationRef(id string) *firestore.DocumentRef {
	return r.client.Collection(conversationCollection).Doc(id)
}

// GetOrCreateWithMessage runs the whole append as one Firestore
// transaction: read header, bump the sequence, write header + message.
// The client library retries the closure when a concurrent writer
// invalidates the read set, so a losing append is replayed, not lost.
func (r *firestoreConversationRepository) GetOrCreateWithMessage(ctx context.Context, conv *entity.Conversation, msg *entity.Message) (*entity.Conversation, bool, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	var out entity.Conversation
	var created bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false
		ref := r.conversationRef(conv.ID)
		now := time.Now()

		snap, err := tx.Get(ref)
		switch {
		case err != nil && status.Code(err) == codes.NotFound:
			out = *conv
			out.MessageCount = 0
			out.UnreadCount = make(map[string]int64)
			out.CreatedAt = now
			if out.Status == "" {
				out.Status = entity.ConversationStatusActive
			}
			created = true
		case err != nil:
			return err
		default:
			out = entity.Conversation{}
			if err := snap.DataTo(&out); err != nil {
				return err
			}
		}

		out.MessageCount++
		msg.Seq = out.MessageCount
		msg.ConversationID = out.ID
		msg.CreatedAt = now
		if msg.IsSystem() {
			msg.IsRead = true
		}

		out.LastMessage = msg.Content
		out.LastMessageAt = now
		out.UpdatedAt = now
		if out.UnreadCount == nil {
			out.UnreadCount = make(map[string]int64)
		}
		if !msg.IsSystem() && msg.ReceiverID != "" && !msg.IsRead {
			out.UnreadCount[msg.ReceiverID]++
		}

		if err := tx.Set(ref, &out); err != nil {
			return err
		}
		return tx.Set(ref.Collection(messageSubcollection).Doc(msg.ID), msg)
	})
	if err != nil {
		return nil, false, errors.Internal("Failed to append message", err)
	}

	return &out, created, nil
}

func (r *firestoreConversationRepository) SetTransactionState(ctx context.Context, conv *entity.Conversation, state repository.ConversationTransactionState, msg *entity.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := r.conversationRef(conv.ID)
		now := time.Now()

		var out entity.Conversation
		snap, err := tx.Get(ref)
		switch {
		case err != nil && status.Code(err) == codes.NotFound:
			// Transaction initiated before any chat message; the header
			// is created from the template so the system message has a
			// home.
			out = *conv
			out.MessageCount = 0
			out.UnreadCount = make(map[string]int64)
			out.CreatedAt = now
		case err != nil:
			return err
		default:
			if err := snap.DataTo(&out); err != nil {
				return err
			}
		}

		out.TransactionID = state.TransactionID
		out.TransactionStatus = string(state.TransactionStatus)
		out.Status = state.Status

		out.MessageCount++
		msg.Seq = out.MessageCount
		msg.ConversationID = out.ID
		msg.SenderID = entity.SystemSenderID
		msg.IsRead = true
		msg.CreatedAt = now

		out.LastMessage = msg.Content
		out.LastMessageAt = now
		out.UpdatedAt = now

		if err := tx.Set(ref, &out); err != nil {
			return err
		}
		return tx.Set(ref.Collection(messageSubcollection).Doc(msg.ID), msg)
	})
	if err != nil {
		return errors.Internal("Failed to update conversation transaction state", err)
	}

	return nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.conversationRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conv entity.Conversation
	if err := doc.DataTo(&conv); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}

	return &conv, nil
}

func (r *firestoreConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	query := r.client.Collection(conversationCollection).
		Where("participants", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc)

	iter := query.Documents(ctx)
	var conversations []*entity.Conversation

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while fetching conversations for user %s: %v", userID, err)
			return nil, errors.Internal("Failed to fetch conversations", err)
		}

		var conv entity.Conversation
		if err := doc.DataTo(&conv); err != nil {
			logger.Warn("Skipping malformed conversation document %s: %v", doc.Ref.ID, err)
			continue
		}
		conversations = append(conversations, &conv)
	}

	return conversations, nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	query := r.conversationRef(conversationID).
		Collection(messageSubcollection).
		OrderBy("seq", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating messages for conversation %s: %v", conversationID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreConversationRepository) MarkRead(ctx context.Context, conversationID, userID string) (int64, error) {
	var updated int64

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		updated = 0
		ref := r.conversationRef(conversationID)

		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Conversation", err)
			}
			return err
		}

		var conv entity.Conversation
		if err := snap.DataTo(&conv); err != nil {
			return err
		}

		unreadQuery := ref.Collection(messageSubcollection).
			Where("receiverId", "==", userID).
			Where("isRead", "==", false)

		docs, err := tx.Documents(unreadQuery).GetAll()
		if err != nil {
			return err
		}

		for _, doc := range docs {
			var message entity.Message
			if err := doc.DataTo(&message); err != nil {
				return err
			}
			message.IsRead = true
			if err := tx.Set(doc.Ref, &message); err != nil {
				return err
			}
			updated++
		}

		if conv.UnreadCount == nil {
			conv.UnreadCount = make(map[string]int64)
		}
		conv.UnreadCount[userID] = 0
		conv.UpdatedAt = time.Now()

		return tx.Set(ref, &conv)
	})
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return 0, err
		}
		return 0, errors.Internal("Failed to mark conversation as read", err)
	}

	return updated, nil
}
