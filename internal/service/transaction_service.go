package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/phatch9/Financial-Cloud-Management/internal/access"
	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
	"github.com/phatch9/Financial-Cloud-Management/internal/operator/actions"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

var errTransactionNotFound = apperr.NotFound("transaction not found")

// TransactionService handles transaction business logic.
type TransactionService struct {
	storage   *storage.Storage
	processor Processor
	now       func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, processor Processor) *TransactionService {
	return &TransactionService{storage: store, processor: processor, now: nowUTC}
}

func (s *TransactionService) validate(in *TransactionInput) error {
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if in.Description == "" {
		return apperr.Validation("description is required")
	}
	if !in.Amount.IsPositive() {
		return apperr.Validation("amount must be positive")
	}
	if err := validateMoney(in.Amount); err != nil {
		return err
	}
	if !transactionTypeToStorage(in.Type).Valid() {
		return apperr.Validation("type must be INCOME or EXPENSE")
	}
	return nil
}

func (s *TransactionService) occurredAt(in *TransactionInput) time.Time {
	if t, ok := in.OccurredAt.Get(); ok && !t.IsZero() {
		return t
	}
	return s.now()
}

// CreateTransaction stores a transaction owned by ownerID and recalculates
// the budget it links to.
func (s *TransactionService) CreateTransaction(ctx context.Context, ownerID uuid.UUID, in TransactionInput) (*Transaction, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	action := &actions.CreateTransaction{
		OwnerID:     ownerID,
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		OccurredAt:  s.occurredAt(&in),
		Type:        transactionTypeToStorage(in.Type),
		BudgetID:    in.BudgetID,
		ReceiptURL:  in.ReceiptURL,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	tx := transactionFromStorage(action.Result)
	return &tx, nil
}

// UpdateTransaction replaces every mutable field of an owned transaction.
func (s *TransactionService) UpdateTransaction(ctx context.Context, ownerID, id uuid.UUID, in TransactionInput) (*Transaction, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	action := &actions.UpdateTransaction{
		OwnerID:     ownerID,
		ID:          id,
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		OccurredAt:  s.occurredAt(&in),
		Type:        transactionTypeToStorage(in.Type),
		BudgetID:    in.BudgetID,
		ReceiptURL:  in.ReceiptURL,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	tx := transactionFromStorage(action.Result)
	return &tx, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.processor.Process(ctx, &actions.DeleteTransaction{OwnerID: ownerID, ID: id})
}

func (s *TransactionService) GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error) {
	row, err := s.storage.Transactions.FindByID(ctx, id)
	if err != nil {
		return nil, readError(err, errTransactionNotFound)
	}
	if err = access.RequireOwner(ownerID, row.OwnerID, errTransactionNotFound); err != nil {
		return nil, err
	}
	tx := transactionFromStorage(row)
	return &tx, nil
}

// ListTransactions returns a page of transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, ownerID uuid.UUID, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	maxCreationTime := s.now()
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = min(cursor.Limit, maxLimit)
		}
		offset = max(cursor.Position, 0)
		if !cursor.MaxCreationTime.IsZero() {
			maxCreationTime = cursor.MaxCreationTime
		}
	}

	filter := &storage.TransactionFilter{
		OwnerID:         &ownerID,
		Limit:           limit,
		Offset:          offset,
		MaxCreationTime: &maxCreationTime,
	}

	rows, err := s.storage.Transactions.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: maxCreationTime,
		}
	}

	return toTransactions(ownerID, rows), nextCursor, nil
}

// FilterTransactions returns every owned transaction matching filter. The
// date range is inclusive on both ends.
func (s *TransactionService) FilterTransactions(ctx context.Context, ownerID uuid.UUID, filter TransactionFilter) ([]Transaction, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperr.Validation("start must not be after end")
	}

	storageFilter := &storage.TransactionFilter{
		OwnerID:      &ownerID,
		BudgetID:     filter.BudgetID,
		Category:     filter.Category,
		OccurredFrom: filter.From,
		OccurredTo:   filter.To,
	}
	if filter.Type != nil {
		t := transactionTypeToStorage(*filter.Type)
		if !t.Valid() {
			return nil, apperr.Validation("type must be INCOME or EXPENSE")
		}
		storageFilter.Type = &t
	}

	rows, err := s.storage.Transactions.List(ctx, storageFilter)
	if err != nil {
		return nil, err
	}
	return toTransactions(ownerID, rows), nil
}

func toTransactions(ownerID uuid.UUID, rows []*storage.Transaction) []Transaction {
	converted := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		if row.OwnerID != ownerID {
			continue
		}
		converted = append(converted, transactionFromStorage(row))
	}
	return converted
}
