package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ojalocal/internal/domain/entity"
	"ojalocal/internal/domain/repository"
	"ojalocal/pkg/errors"
)

// In-memory doubles for the repository interfaces. They mirror the
// production semantics: conversation mutations are atomic under one
// mutex, transaction updates serialize per call like a row lock.

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
	}
}

func (r *fakeConversationRepo) GetOrCreateWithMessage(ctx context.Context, conv *entity.Conversation, msg *entity.Message) (*entity.Conversation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now()

	created := false
	stored, ok := r.conversations[conv.ID]
	if !ok {
		clone := *conv
		clone.UnreadCount = make(map[string]int64)
		clone.CreatedAt = now
		if clone.Status == "" {
			clone.Status = entity.ConversationStatusActive
		}
		stored = &clone
		r.conversations[conv.ID] = stored
		created = true
	}

	stored.MessageCount++
	msg.Seq = stored.MessageCount
	msg.ConversationID = stored.ID
	msg.CreatedAt = now
	if msg.IsSystem() {
		msg.IsRead = true
	}

	stored.LastMessage = msg.Content
	stored.LastMessageAt = now
	stored.UpdatedAt = now
	if !msg.IsSystem() && msg.ReceiverID != "" && !msg.IsRead {
		stored.UnreadCount[msg.ReceiverID]++
	}

	copied := *msg
	r.messages[stored.ID] = append(r.messages[stored.ID], &copied)

	out := *stored
	return &out, created, nil
}

func (r *fakeConversationRepo) SetTransactionState(ctx context.Context, conv *entity.Conversation, state repository.ConversationTransactionState, msg *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now()

	stored, ok := r.conversations[conv.ID]
	if !ok {
		clone := *conv
		clone.UnreadCount = make(map[string]int64)
		clone.CreatedAt = now
		stored = &clone
		r.conversations[conv.ID] = stored
	}

	stored.TransactionID = state.TransactionID
	stored.TransactionStatus = string(state.TransactionStatus)
	stored.Status = state.Status

	stored.MessageCount++
	msg.Seq = stored.MessageCount
	msg.ConversationID = stored.ID
	msg.SenderID = entity.SystemSenderID
	msg.IsRead = true
	msg.CreatedAt = now

	stored.LastMessage = msg.Content
	stored.LastMessageAt = now
	stored.UpdatedAt = now

	copied := *msg
	r.messages[stored.ID] = append(r.messages[stored.ID], &copied)
	return nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	out := *stored
	return &out, nil
}

func (r *fakeConversationRepo) ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Conversation
	for _, conv := range r.conversations {
		if conv.HasParticipant(userID) {
			copied := *conv
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := r.messages[conversationID]
	out := make([]*entity.Message, len(msgs))
	for i, m := range msgs {
		copied := *m
		out[i] = &copied
	}
	return out, nil
}

func (r *fakeConversationRepo) MarkRead(ctx context.Context, conversationID, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.conversations[conversationID]
	if !ok {
		return 0, errors.NotFound("Conversation", nil)
	}

	var updated int64
	for _, m := range r.messages[conversationID] {
		if m.ReceiverID == userID && !m.IsRead {
			m.IsRead = true
			updated++
		}
	}
	stored.UnreadCount[userID] = 0
	return updated, nil
}

type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions map[string]*entity.Transaction
	byListing    map[string]string
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		transactions: make(map[string]*entity.Transaction),
		byListing:    make(map[string]string),
	}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byListing[transaction.ListingID]; exists {
		return errors.InvalidState("A transaction already exists for this listing", nil)
	}
	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt

	copied := *transaction
	r.transactions[transaction.ID] = &copied
	r.byListing[transaction.ListingID] = transaction.ID
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.transactions[id]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}
	out := *stored
	return &out, nil
}

func (r *fakeTransactionRepo) GetByListingID(ctx context.Context, listingID string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byListing[listingID]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}
	out := *r.transactions[id]
	return &out, nil
}

func (r *fakeTransactionRepo) UpdateWithLock(ctx context.Context, id string, fn func(*entity.Transaction) error) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.transactions[id]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}

	clone := *stored
	if err := fn(&clone); err != nil {
		return nil, err
	}
	clone.UpdatedAt = time.Now()
	r.transactions[id] = &clone

	out := clone
	return &out, nil
}

func (r *fakeTransactionRepo) ListByUser(ctx context.Context, userID string, status entity.TransactionStatus, limit, offset int) ([]*entity.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Transaction
	for _, t := range r.transactions {
		if !t.IsParty(userID) {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[string]*entity.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*entity.Listing)}
}

func (r *fakeListingRepo) add(listing *entity.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[listing.ID] = listing
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	out := *stored
	return &out, nil
}

func (r *fakeListingRepo) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	stored.Status = status
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) add(user *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	out := *stored
	return &out, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	failCreate    bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreate {
		return errors.Internal("Failed to create notification", nil)
	}
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (r *fakeNotificationRepo) byType(notificationType string) []*entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.Type == notificationType {
			out = append(out, n)
		}
	}
	return out
}

type fakeMarkerRepo struct {
	mu         sync.Mutex
	markers    map[string]*entity.ConversationMarker
	failCreate bool
}

func newFakeMarkerRepo() *fakeMarkerRepo {
	return &fakeMarkerRepo{markers: make(map[string]*entity.ConversationMarker)}
}

func (r *fakeMarkerRepo) Create(ctx context.Context, marker *entity.ConversationMarker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreate {
		return errors.Internal("Failed to create conversation marker", nil)
	}
	if _, exists := r.markers[marker.ConversationID]; exists {
		return nil
	}
	copied := *marker
	r.markers[marker.ConversationID] = &copied
	return nil
}

type testEnv struct {
	convRepo   *fakeConversationRepo
	txRepo     *fakeTransactionRepo
	listings   *fakeListingRepo
	users      *fakeUserRepo
	notifRepo  *fakeNotificationRepo
	markerRepo *fakeMarkerRepo

	messageUC      *MessageUseCase
	transactionUC  *TransactionUseCase
	notificationUC *NotificationUseCase
}

func newTestEnv() *testEnv {
	env := &testEnv{
		convRepo:   newFakeConversationRepo(),
		txRepo:     newFakeTransactionRepo(),
		listings:   newFakeListingRepo(),
		users:      newFakeUserRepo(),
		notifRepo:  newFakeNotificationRepo(),
		markerRepo: newFakeMarkerRepo(),
	}
	env.notificationUC = NewNotificationUseCase(env.notifRepo)
	env.messageUC = NewMessageUseCase(env.convRepo, env.listings, env.users, env.txRepo, env.markerRepo, nil)
	env.transactionUC = NewTransactionUseCase(env.txRepo, env.listings, env.users, env.convRepo, env.notificationUC, nil)
	return env
}

func (env *testEnv) seedUser(id, username string) {
	env.users.add(&entity.User{ID: id, Username: username})
}

func (env *testEnv) seedListing(id, ownerID string, price float64) {
	env.listings.add(&entity.Listing{
		ID:      id,
		OwnerID: ownerID,
		Title:   "Listing " + id,
		Price:   price,
		Status:  entity.ListingStatusActive,
	})
}
