package storage

import (
	"context"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// TransactionType discriminates income from expense rows.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a transaction record.
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

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	OwnerID     uuid.UUID
	Description string
	Amount      decimal.Decimal
	Category    string
	OccurredAt  time.Time
	Type        TransactionType
	BudgetID    null.Val[uuid.UUID]
	ReceiptURL  null.Val[string]
}

// TransactionUpdate replaces every client-mutable transaction field.
type TransactionUpdate struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	OccurredAt  time.Time
	Type        TransactionType
	BudgetID    null.Val[uuid.UUID]
	ReceiptURL  null.Val[string]
}

// TransactionFilter specifies filters for listing transactions. Every set
// field narrows the result.
type TransactionFilter struct {
	OwnerID         *uuid.UUID
	BudgetID        *uuid.UUID
	Category        *string
	Type            *TransactionType
	OccurredFrom    *time.Time
	OccurredTo      *time.Time
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// ITransactionTable defines the interface for transaction storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//
//go:generate mockery --name ITransactionTable --output mock_ITransactionTable.go
type ITransactionTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
	Update(ctx context.Context, id uuid.UUID, update *TransactionUpdate) (*Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
