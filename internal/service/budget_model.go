package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

// Budget represents a budget in the service layer.
type Budget struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Category  string
	Amount    decimal.Decimal
	Spent     decimal.Decimal
	CreatedAt time.Time
}

// BudgetInput carries the client-mutable budget fields.
type BudgetInput struct {
	Name     string
	Category string
	Amount   decimal.Decimal
}

// BudgetSummary aggregates every budget of one owner.
type BudgetSummary struct {
	TotalBudgeted     decimal.Decimal
	TotalSpent        decimal.Decimal
	TotalRemaining    decimal.Decimal
	OverBudgetCount   int
	TotalBudgetsCount int
}

func budgetFromStorage(row *storage.Budget) *Budget {
	return &Budget{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		Category:  row.Category,
		Amount:    row.Amount,
		Spent:     row.Spent,
		CreatedAt: row.CreatedAt,
	}
}
