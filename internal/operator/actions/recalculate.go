package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

// RecalculateBudget re-derives a budget's spent total from its linked
// EXPENSE transactions.
type RecalculateBudget struct {
	BudgetID uuid.UUID

	IAction
}

func (r *RecalculateBudget) Perform(ctx context.Context, writer *storage.Writer) error {
	return recalculateBudgetSpent(ctx, writer, r.BudgetID)
}

// recalculateBudgetSpent replaces spent with the sum of every EXPENSE
// transaction linked to budgetID. A missing budget is not an error.
func recalculateBudgetSpent(ctx context.Context, writer *storage.Writer, budgetID uuid.UUID) error {
	budget, err := writer.Budgets.FindByIDForUpdate(ctx, budgetID)
	if errors.Is(err, storage.ErrNotFound) {
		logrus.WithField("budgetId", budgetID).Debug("Recalculate.BudgetMissing")
		return nil
	}
	if err != nil {
		return fmt.Errorf("Budgets.FindByIDForUpdate: %w", err)
	}

	expense := storage.TransactionTypeExpense
	linked, err := writer.Transactions.List(ctx, &storage.TransactionFilter{
		BudgetID: &budgetID,
		Type:     &expense,
	})
	if err != nil {
		return fmt.Errorf("Transactions.List: %w", err)
	}

	spent := decimal.Zero
	for _, tx := range linked {
		spent = spent.Add(tx.Amount)
	}

	if spent.Equal(budget.Spent) {
		return nil
	}
	if err = writer.Budgets.UpdateSpent(ctx, budgetID, spent); err != nil {
		return fmt.Errorf("Budgets.UpdateSpent: %w", err)
	}
	return nil
}

// recalculateAll recalculates each distinct budget id once. Budgets are
// locked in ascending id order so concurrent writers touching the same pair
// cannot deadlock.
func recalculateAll(ctx context.Context, writer *storage.Writer, budgetIDs ...uuid.UUID) error {
	ids := slices.Clone(budgetIDs)
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	for _, id := range slices.Compact(ids) {
		if err := recalculateBudgetSpent(ctx, writer, id); err != nil {
			return err
		}
	}
	return nil
}
