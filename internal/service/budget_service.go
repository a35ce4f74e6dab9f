package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/phatch9/Financial-Cloud-Management/internal/access"
	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
	"github.com/phatch9/Financial-Cloud-Management/internal/operator/actions"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

var errBudgetNotFound = apperr.NotFound("budget not found")

// BudgetService handles budget business logic. Every method is scoped to
// the owner passed in.
type BudgetService struct {
	storage   *storage.Storage
	processor Processor
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(store *storage.Storage, processor Processor) *BudgetService {
	return &BudgetService{storage: store, processor: processor}
}

func validateBudget(in *BudgetInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	if in.Amount.IsNegative() {
		return apperr.Validation("amount must be non-negative")
	}
	return validateMoney(in.Amount)
}

// CreateBudget stores a new budget owned by ownerID with nothing spent.
func (s *BudgetService) CreateBudget(ctx context.Context, ownerID uuid.UUID, in BudgetInput) (*Budget, error) {
	if err := validateBudget(&in); err != nil {
		return nil, err
	}
	action := &actions.CreateBudget{
		OwnerID:  ownerID,
		Name:     in.Name,
		Category: in.Category,
		Amount:   in.Amount,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	return budgetFromStorage(action.Result), nil
}

// UpdateBudget replaces name, category and amount. Spent is never taken
// from the caller.
func (s *BudgetService) UpdateBudget(ctx context.Context, ownerID, id uuid.UUID, in BudgetInput) (*Budget, error) {
	if err := validateBudget(&in); err != nil {
		return nil, err
	}
	action := &actions.UpdateBudget{
		OwnerID:  ownerID,
		ID:       id,
		Name:     in.Name,
		Category: in.Category,
		Amount:   in.Amount,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	return budgetFromStorage(action.Result), nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.processor.Process(ctx, &actions.DeleteBudget{OwnerID: ownerID, ID: id})
}

// GetBudget returns the budget only if ownerID owns it.
func (s *BudgetService) GetBudget(ctx context.Context, ownerID, id uuid.UUID) (*Budget, error) {
	row, err := s.storage.Budgets.FindByID(ctx, id)
	if err != nil {
		return nil, readError(err, errBudgetNotFound)
	}
	if err = access.RequireOwner(ownerID, row.OwnerID, errBudgetNotFound); err != nil {
		return nil, err
	}
	return budgetFromStorage(row), nil
}

func (s *BudgetService) ListBudgets(ctx context.Context, ownerID uuid.UUID) ([]Budget, error) {
	rows, err := s.storage.Budgets.List(ctx, &storage.BudgetFilter{OwnerID: &ownerID})
	if err != nil {
		return nil, err
	}
	budgets := make([]Budget, 0, len(rows))
	for _, row := range rows {
		if row.OwnerID != ownerID {
			continue
		}
		budgets = append(budgets, *budgetFromStorage(row))
	}
	return budgets, nil
}

// RecalculateBudgetSpent re-derives spent for budgetID from its linked
// expenses. Repeated calls converge on the same value.
func (s *BudgetService) RecalculateBudgetSpent(ctx context.Context, budgetID uuid.UUID) error {
	return s.processor.Process(ctx, &actions.RecalculateBudget{BudgetID: budgetID})
}

// GetBudgetSummary totals every budget owned by ownerID.
func (s *BudgetService) GetBudgetSummary(ctx context.Context, ownerID uuid.UUID) (*BudgetSummary, error) {
	budgets, err := s.ListBudgets(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summary := &BudgetSummary{
		TotalBudgeted:     decimal.Zero,
		TotalSpent:        decimal.Zero,
		TotalBudgetsCount: len(budgets),
	}
	for _, b := range budgets {
		summary.TotalBudgeted = summary.TotalBudgeted.Add(b.Amount)
		summary.TotalSpent = summary.TotalSpent.Add(b.Spent)
		if b.Spent.GreaterThan(b.Amount) {
			summary.OverBudgetCount++
		}
	}
	summary.TotalRemaining = summary.TotalBudgeted.Sub(summary.TotalSpent)
	return summary, nil
}
