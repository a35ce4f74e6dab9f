package service

import (
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Description string
	Amount      decimal.Decimal
	Category    string
	OccurredAt  time.Time
	Type        TransactionType
	BudgetID    null.Val[uuid.UUID]
	ReceiptURL  null.Val[string]
	CreatedAt   time.Time
}

// TransactionInput carries every client-mutable transaction field. A null
// OccurredAt means "now".
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	OccurredAt  null.Val[time.Time]
	Type        TransactionType
	BudgetID    null.Val[uuid.UUID]
	ReceiptURL  null.Val[string]
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionFilter narrows a transaction query. Unset fields match everything.
type TransactionFilter struct {
	Category *string
	From     *time.Time
	To       *time.Time
	BudgetID *uuid.UUID
	Type     *TransactionType
}

func transactionTypeToStorage(t TransactionType) storage.TransactionType {
	switch t {
	case TransactionTypeIncome:
		return storage.TransactionTypeIncome
	case TransactionTypeExpense:
		return storage.TransactionTypeExpense
	default:
		return storage.TransactionType(t)
	}
}

func transactionFromStorage(row *storage.Transaction) Transaction {
	return Transaction{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Description: row.Description,
		Amount:      row.Amount,
		Category:    row.Category,
		OccurredAt:  row.OccurredAt,
		Type:        TransactionType(row.Type),
		BudgetID:    row.BudgetID,
		ReceiptURL:  row.ReceiptURL,
		CreatedAt:   row.CreatedAt,
	}
}
