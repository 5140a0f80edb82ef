package usecase

import (
	"context"
	"fmt"
	"time"

	"ojalocal/internal/domain/entity"
	"ojalocal/internal/domain/repository"
	"ojalocal/pkg/errors"
	"ojalocal/pkg/logger"
)

type TransactionUseCase struct {
	transactionRepo  repository.TransactionRepository
	listingRepo      repository.ListingRepository
	userRepo         repository.UserRepository
	conversationRepo repository.ConversationRepository
	notifications    *NotificationUseCase
	inboxCache       InboxCache
}

func NewTransactionUseCase(
	transactionRepo repository.TransactionRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	conversationRepo repository.ConversationRepository,
	notifications *NotificationUseCase,
	inboxCache InboxCache,
) *TransactionUseCase {
	return &TransactionUseCase{
		transactionRepo:  transactionRepo,
		listingRepo:      listingRepo,
		userRepo:         userRepo,
		conversationRepo: conversationRepo,
		notifications:    notifications,
		inboxCache:       inboxCache,
	}
}

type InitiateTransactionInput struct {
	ListingID      string
	CounterpartyID string
	AgreedPrice    float64
}

type TransactionResponse struct {
	*entity.Transaction
}

// Initiate creates the PENDING transaction row for a listing. The
// listing owner is always the seller; whichever of the two parties is
// not the owner becomes the buyer, regardless of who calls this.
func (uc *TransactionUseCase) Initiate(ctx context.Context, initiatorID string, input InitiateTransactionInput) (*TransactionResponse, error) {
	if input.ListingID == "" {
		return nil, errors.BadRequest("Listing is required", nil)
	}
	if input.CounterpartyID == "" {
		return nil, errors.BadRequest("Counterparty is required", nil)
	}
	if input.AgreedPrice <= 0 {
		return nil, errors.BadRequest("Agreed price must be positive", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.CounterpartyID); err != nil {
		return nil, err
	}

	sellerID := listing.OwnerID
	var buyerID string
	switch {
	case initiatorID == listing.OwnerID:
		buyerID = input.CounterpartyID
	case input.CounterpartyID == listing.OwnerID:
		buyerID = initiatorID
	default:
		return nil, errors.Forbidden("The listing owner must be part of the transaction", nil)
	}

	if sellerID == buyerID {
		return nil, errors.InvalidState("You cannot transact with yourself", nil)
	}

	if listing.Status != entity.ListingStatusActive {
		return nil, errors.InvalidState("Listing is not active", nil)
	}

	conversationID := entity.ConversationKey(sellerID, buyerID, input.ListingID)

	transaction := &entity.Transaction{
		ListingID:      input.ListingID,
		ConversationID: conversationID,
		SellerID:       sellerID,
		BuyerID:        buyerID,
		AgreedPrice:    input.AgreedPrice,
		Status:         entity.TransactionStatusPending,
	}

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	uc.syncConversation(ctx, transaction, repository.ConversationTransactionState{
		TransactionID:     transaction.ID,
		TransactionStatus: entity.TransactionStatusPending,
		Status:            entity.ConversationStatusTransactionPending,
	}, &entity.Message{
		Content: fmt.Sprintf("A transaction was started for an agreed price of %.2f. Both parties must confirm to complete it.", input.AgreedPrice),
		Type:    entity.MessageTypeTransactionRequest,
	})

	counterparty := transaction.BuyerID
	if initiatorID == transaction.BuyerID {
		counterparty = transaction.SellerID
	}
	uc.notifications.Notify(ctx, &entity.Notification{
		Type:       entity.NotificationTypeTransactionRequest,
		Title:      "Transaction started",
		Message:    fmt.Sprintf("A transaction for \"%s\" was started at %.2f.", listing.Title, input.AgreedPrice),
		UserID:     counterparty,
		ListingID:  listing.ID,
		FromUserID: initiatorID,
	})

	uc.invalidateInbox(ctx, transaction.SellerID, transaction.BuyerID)

	return &TransactionResponse{Transaction: transaction}, nil
}

// Confirm records one party's acknowledgment. Confirmation order is
// irrelevant to the final state: whichever party confirms second
// completes the transaction.
func (uc *TransactionUseCase) Confirm(ctx context.Context, confirmerID, transactionID string) (*TransactionResponse, error) {
	transaction, err := uc.transactionRepo.UpdateWithLock(ctx, transactionID, func(t *entity.Transaction) error {
		if !t.IsParty(confirmerID) {
			return errors.Forbidden("Only the buyer or seller can confirm this transaction", nil)
		}
		if t.IsTerminal() {
			return errors.InvalidState("Transaction is already closed", nil)
		}
		if t.ConfirmedBy(confirmerID) {
			return errors.InvalidState("You have already confirmed this transaction", nil)
		}

		isSeller := t.SellerID == confirmerID
		if isSeller {
			t.SellerConfirmed = true
		} else {
			t.BuyerConfirmed = true
		}

		if t.SellerConfirmed && t.BuyerConfirmed {
			now := time.Now()
			t.Status = entity.TransactionStatusCompleted
			t.CompletedAt = &now
		} else if isSeller {
			t.Status = entity.TransactionStatusSellerConfirmed
		} else {
			t.Status = entity.TransactionStatusBuyerConfirmed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transaction.Status == entity.TransactionStatusCompleted {
		uc.completeTransaction(ctx, confirmerID, transaction)
	} else {
		uc.partialConfirmation(ctx, confirmerID, transaction)
	}

	uc.invalidateInbox(ctx, transaction.SellerID, transaction.BuyerID)

	return &TransactionResponse{Transaction: transaction}, nil
}

func (uc *TransactionUseCase) completeTransaction(ctx context.Context, confirmerID string, transaction *entity.Transaction) {
	if err := uc.listingRepo.UpdateStatus(ctx, transaction.ListingID, entity.ListingStatusSold); err != nil {
		logger.Error("Failed to mark listing %s as sold for transaction %s: %v", transaction.ListingID, transaction.ID, err)
	}

	uc.syncConversation(ctx, transaction, repository.ConversationTransactionState{
		TransactionID:     transaction.ID,
		TransactionStatus: entity.TransactionStatusCompleted,
		Status:            entity.ConversationStatusTransactionCompleted,
	}, &entity.Message{
		Content: "Both parties confirmed. The transaction is complete and the listing has been marked as sold.",
		Type:    entity.MessageTypeTransactionCompleted,
	})

	for _, userID := range []string{transaction.SellerID, transaction.BuyerID} {
		uc.notifications.Notify(ctx, &entity.Notification{
			Type:       entity.NotificationTypeTransactionCompleted,
			Title:      "Transaction completed",
			Message:    fmt.Sprintf("The transaction at %.2f is complete.", transaction.AgreedPrice),
			UserID:     userID,
			ListingID:  transaction.ListingID,
			FromUserID: confirmerID,
		})
	}
}

func (uc *TransactionUseCase) partialConfirmation(ctx context.Context, confirmerID string, transaction *entity.Transaction) {
	confirmedRole, pendingRole := "seller", "buyer"
	pendingUser := transaction.BuyerID
	if transaction.Status == entity.TransactionStatusBuyerConfirmed {
		confirmedRole, pendingRole = "buyer", "seller"
		pendingUser = transaction.SellerID
	}

	uc.syncConversation(ctx, transaction, repository.ConversationTransactionState{
		TransactionID:     transaction.ID,
		TransactionStatus: transaction.Status,
		Status:            entity.ConversationStatusTransactionPending,
	}, &entity.Message{
		Content: fmt.Sprintf("The %s confirmed the transaction. Waiting for the %s to confirm.", confirmedRole, pendingRole),
		Type:    entity.MessageTypeTransactionConfirmed,
	})

	uc.notifications.Notify(ctx, &entity.Notification{
		Type:       entity.NotificationTypeTransactionConfirmed,
		Title:      "Transaction confirmed",
		Message:    fmt.Sprintf("The %s confirmed the transaction. Your confirmation is still needed.", confirmedRole),
		UserID:     pendingUser,
		ListingID:  transaction.ListingID,
		FromUserID: confirmerID,
	})
}

// Cancel is only valid while the transaction is still PENDING; once
// either side has confirmed, the negotiation can only end in completion.
func (uc *TransactionUseCase) Cancel(ctx context.Context, requesterID, transactionID string) (*TransactionResponse, error) {
	transaction, err := uc.transactionRepo.UpdateWithLock(ctx, transactionID, func(t *entity.Transaction) error {
		if !t.IsParty(requesterID) {
			return errors.Forbidden("Only the buyer or seller can cancel this transaction", nil)
		}
		if t.Status == entity.TransactionStatusCompleted {
			return errors.InvalidState("Transaction is already completed", nil)
		}
		if t.Status != entity.TransactionStatusPending {
			return errors.InvalidState("Only pending transactions can be cancelled", nil)
		}
		t.Status = entity.TransactionStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reverting the conversation clears the transaction reference so a
	// later negotiation attaches cleanly.
	uc.syncConversation(ctx, transaction, repository.ConversationTransactionState{
		Status: entity.ConversationStatusActive,
	}, &entity.Message{
		Content: "The transaction was cancelled. The conversation is open again.",
		Type:    entity.MessageTypeTransactionCancelled,
	})

	counterparty := transaction.SellerID
	if requesterID == transaction.SellerID {
		counterparty = transaction.BuyerID
	}
	uc.notifications.Notify(ctx, &entity.Notification{
		Type:       entity.NotificationTypeTransactionCancelled,
		Title:      "Transaction cancelled",
		Message:    "The transaction was cancelled before completion.",
		UserID:     counterparty,
		ListingID:  transaction.ListingID,
		FromUserID: requesterID,
	})

	uc.invalidateInbox(ctx, transaction.SellerID, transaction.BuyerID)

	return &TransactionResponse{Transaction: transaction}, nil
}

func (uc *TransactionUseCase) GetByID(ctx context.Context, userID, transactionID string) (*TransactionResponse, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !transaction.IsParty(userID) {
		return nil, errors.Forbidden("You don't have permission to view this transaction", nil)
	}
	return &TransactionResponse{Transaction: transaction}, nil
}

func (uc *TransactionUseCase) List(ctx context.Context, userID string, status string, limit, offset int) ([]*TransactionResponse, int64, error) {
	filter := entity.TransactionStatus(status)
	if status != "" && !filter.Valid() {
		return nil, 0, errors.BadRequest("Unknown transaction status filter", nil)
	}

	transactions, total, err := uc.transactionRepo.ListByUser(ctx, userID, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*TransactionResponse, len(transactions))
	for i, transaction := range transactions {
		responses[i] = &TransactionResponse{Transaction: transaction}
	}
	return responses, total, nil
}

// syncConversation applies the document-store side of a relational state
// change. The relational row is authoritative; a failed append leaves
// the chat thread missing a system message, which is logged and
// accepted rather than rolled back.
func (uc *TransactionUseCase) syncConversation(ctx context.Context, transaction *entity.Transaction, state repository.ConversationTransactionState, msg *entity.Message) {
	template := &entity.Conversation{
		ID:           transaction.ConversationID,
		Participants: []string{transaction.SellerID, transaction.BuyerID},
		ListingID:    transaction.ListingID,
		Status:       entity.ConversationStatusActive,
	}
	msg.ConversationID = transaction.ConversationID
	msg.SenderID = entity.SystemSenderID

	if err := uc.conversationRepo.SetTransactionState(ctx, template, state, msg); err != nil {
		logger.Error("Failed to sync conversation %s for transaction %s: %v", transaction.ConversationID, transaction.ID, err)
	}
}

func (uc *TransactionUseCase) invalidateInbox(ctx context.Context, userIDs ...string) {
	if uc.inboxCache != nil {
		uc.inboxCache.Invalidate(ctx, userIDs...)
	}
}
