package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"

	"ojalocal/internal/domain/entity"
	"ojalocal/internal/domain/repository"
	"ojalocal/pkg/errors"
	"ojalocal/pkg/logger"
)

// InboxCache is an optional short-lived cache for the serialized inbox
// projection. Implementations must be safe to skip: the usecase treats a
// nil cache and a failing cache the same way.
type InboxCache interface {
	Get(ctx context.Context, userID string) ([]byte, bool)
	Set(ctx context.Context, userID string, payload []byte)
	Invalidate(ctx context.Context, userIDs ...string)
}

type MessageUseCase struct {
	conversationRepo repository.ConversationRepository
	listingRepo      repository.ListingRepository
	userRepo         repository.UserRepository
	transactionRepo  repository.TransactionRepository
	markerRepo       repository.ConversationMarkerRepository
	inboxCache       InboxCache
}

func NewMessageUseCase(
	conversationRepo repository.ConversationRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	markerRepo repository.ConversationMarkerRepository,
	inboxCache InboxCache,
) *MessageUseCase {
	return &MessageUseCase{
		conversationRepo: conversationRepo,
		listingRepo:      listingRepo,
		userRepo:         userRepo,
		transactionRepo:  transactionRepo,
		markerRepo:       markerRepo,
		inboxCache:       inboxCache,
	}
}

type SendMessageInput struct {
	ReceiverID string
	ListingID  string
	Content    string
}

type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type ListingSummary struct {
	ID     string               `json:"id"`
	Title  string               `json:"title"`
	Price  float64              `json:"price"`
	Status entity.ListingStatus `json:"status"`
}

type MessageResponse struct {
	*entity.Message
	Sender   *UserSummary `json:"sender,omitempty"`
	Receiver *UserSummary `json:"receiver,omitempty"`
}

type TransactionSummary struct {
	ID              string                   `json:"id"`
	Status          entity.TransactionStatus `json:"status"`
	AgreedPrice     float64                  `json:"agreed_price"`
	SellerConfirmed bool                     `json:"seller_confirmed"`
	BuyerConfirmed  bool                     `json:"buyer_confirmed"`
}

type ConversationResponse struct {
	*entity.Conversation
	Partner     *UserSummary        `json:"partner"`
	Listing     *ListingSummary     `json:"listing"`
	Unread      int64               `json:"unread"`
	Transaction *TransactionSummary `json:"transaction,omitempty"`
}

func userSummary(u *entity.User) *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

func listingSummary(l *entity.Listing) *ListingSummary {
	return &ListingSummary{
		ID:     l.ID,
		Title:  l.Title,
		Price:  l.Price,
		Status: l.Status,
	}
}

func transactionSummary(t *entity.Transaction) *TransactionSummary {
	return &TransactionSummary{
		ID:              t.ID,
		Status:          t.Status,
		AgreedPrice:     t.AgreedPrice,
		SellerConfirmed: t.SellerConfirmed,
		BuyerConfirmed:  t.BuyerConfirmed,
	}
}

func (uc *MessageUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*MessageResponse, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}
	if input.ReceiverID == "" {
		return nil, errors.BadRequest("Receiver is required", nil)
	}
	if input.ListingID == "" {
		return nil, errors.BadRequest("Listing is required", nil)
	}
	if input.ReceiverID == senderID {
		return nil, errors.BadRequest("You cannot message yourself", nil)
	}

	if _, err := uc.listingRepo.GetByID(ctx, input.ListingID); err != nil {
		return nil, err
	}

	receiver, err := uc.userRepo.GetByID(ctx, input.ReceiverID)
	if err != nil {
		return nil, err
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	key := entity.ConversationKey(senderID, input.ReceiverID, input.ListingID)

	message := &entity.Message{
		ID:             uuid.NewString(),
		ConversationID: key,
		Content:        content,
		SenderID:       senderID,
		ReceiverID:     input.ReceiverID,
		Type:           entity.MessageTypeRegular,
	}

	template := &entity.Conversation{
		ID:           key,
		Participants: []string{senderID, input.ReceiverID},
		ListingID:    input.ListingID,
		Status:       entity.ConversationStatusActive,
	}

	_, created, err := uc.conversationRepo.GetOrCreateWithMessage(ctx, template, message)
	if err != nil {
		return nil, err
	}

	if created {
		// The chat message is already durable in the document store; the
		// relational marker only feeds aggregate counts, so its failure
		// is logged and swallowed.
		marker := &entity.ConversationMarker{
			ConversationID: key,
			ListingID:      input.ListingID,
			UserA:          minUser(senderID, input.ReceiverID),
			UserB:          maxUser(senderID, input.ReceiverID),
		}
		if err := uc.markerRepo.Create(ctx, marker); err != nil {
			logger.Warn("Failed to create conversation marker for %s: %v", key, err)
		}
	}

	uc.invalidateInbox(ctx, senderID, input.ReceiverID)

	return &MessageResponse{
		Message:  message,
		Sender:   userSummary(sender),
		Receiver: userSummary(receiver),
	}, nil
}

// GetMessages returns the full message sequence of the caller's
// conversation with otherUserID about listingID. An absent conversation
// is an empty list, not an error.
func (uc *MessageUseCase) GetMessages(ctx context.Context, userID, listingID, otherUserID string) ([]*entity.Message, error) {
	if listingID == "" || otherUserID == "" {
		return nil, errors.BadRequest("listingId and conversationWith are required", nil)
	}

	key := entity.ConversationKey(userID, otherUserID, listingID)

	if _, err := uc.conversationRepo.GetByID(ctx, key); err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return []*entity.Message{}, nil
		}
		return nil, err
	}

	messages, err := uc.conversationRepo.ListMessages(ctx, key)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*entity.Message{}
	}
	return messages, nil
}

// ListConversations assembles the caller's inbox: one row per
// conversation with partner profile, listing summary, unread count and
// current negotiation state. Rows whose partner or listing can no longer
// be resolved are skipped with a warning rather than failing the whole
// projection.
func (uc *MessageUseCase) ListConversations(ctx context.Context, userID string) ([]*ConversationResponse, error) {
	if uc.inboxCache != nil {
		if payload, ok := uc.inboxCache.Get(ctx, userID); ok {
			var cached []*ConversationResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
			logger.Debug("Discarding unreadable inbox cache entry for user %s", userID)
		}
	}

	conversations, err := uc.conversationRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		partnerID := conv.OtherParticipant(userID)
		if partnerID == "" {
			logger.Warn("Conversation %s has no partner for user %s, skipping", conv.ID, userID)
			continue
		}

		partner, err := uc.userRepo.GetByID(ctx, partnerID)
		if err != nil {
			logger.Warn("Skipping conversation %s: partner %s unresolved: %v", conv.ID, partnerID, err)
			continue
		}

		listing, err := uc.listingRepo.GetByID(ctx, conv.ListingID)
		if err != nil {
			logger.Warn("Skipping conversation %s: listing %s unresolved: %v", conv.ID, conv.ListingID, err)
			continue
		}

		resp := &ConversationResponse{
			Conversation: conv,
			Partner:      userSummary(partner),
			Listing:      listingSummary(listing),
			Unread:       conv.UnreadCount[userID],
		}

		if conv.TransactionID != "" {
			transaction, err := uc.transactionRepo.GetByID(ctx, conv.TransactionID)
			if err != nil {
				logger.Warn("Transaction %s for conversation %s unresolved: %v", conv.TransactionID, conv.ID, err)
			} else {
				resp.Transaction = transactionSummary(transaction)
			}
		}

		responses = append(responses, resp)
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].SortTime().After(responses[j].SortTime())
	})

	if uc.inboxCache != nil {
		if payload, err := json.Marshal(responses); err == nil {
			uc.inboxCache.Set(ctx, userID, payload)
		}
	}

	return responses, nil
}

func (uc *MessageUseCase) MarkConversationRead(ctx context.Context, userID, conversationID string) (int64, error) {
	if conversationID == "" {
		return 0, errors.BadRequest("conversationId is required", nil)
	}

	conv, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return 0, err
	}

	if !conv.HasParticipant(userID) {
		return 0, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	updated, err := uc.conversationRepo.MarkRead(ctx, conversationID, userID)
	if err != nil {
		return 0, err
	}

	uc.invalidateInbox(ctx, userID)

	return updated, nil
}

func (uc *MessageUseCase) invalidateInbox(ctx context.Context, userIDs ...string) {
	if uc.inboxCache != nil {
		uc.inboxCache.Invalidate(ctx, userIDs...)
	}
}

func minUser(a, b string) string {
	if a < b {
		return a
	}
	return b
}

func maxUser(a, b string) string {
	if a < b {
		return b
	}
	return a
}
