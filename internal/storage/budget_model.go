package storage

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Budget represents a budget record.
type Budget struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Category  string
	Amount    decimal.Decimal
	Spent     decimal.Decimal
	CreatedAt time.Time
}

// BudgetCreate is the input for creating a new budget. Spent starts at zero.
type BudgetCreate struct {
	OwnerID  uuid.UUID
	Name     string
	Category string
	Amount   decimal.Decimal
}

// BudgetUpdate holds the client-mutable budget fields.
type BudgetUpdate struct {
	Name     string
	Category string
	Amount   decimal.Decimal
}

// BudgetFilter specifies filters for listing budgets.
type BudgetFilter struct {
	OwnerID *uuid.UUID
}

// IBudgetTable defines the interface for budget storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//
//go:generate mockery --name IBudgetTable --output mock_IBudgetTable.go
type IBudgetTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)
	// FindByIDForUpdate reads the budget and locks it until the enclosing
	// store transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Budget, error)
	Insert(ctx context.Context, create *BudgetCreate) (*Budget, error)
	List(ctx context.Context, filter *BudgetFilter) ([]*Budget, error)
	Update(ctx context.Context, id uuid.UUID, update *BudgetUpdate) (*Budget, error)
	UpdateSpent(ctx context.Context, id uuid.UUID, spent decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}
