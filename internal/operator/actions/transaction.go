package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

// UpdateTransaction replaces every mutable field and recalculates both the
// previously and the newly linked budget.
type UpdateTransaction struct {
	OwnerID     uuid.UUID
	ID          uuid.UUID
	Description string
	Amount      decimal.Decimal
	Category    string
	OccurredAt  time.Time
	Type        storage.TransactionType
	BudgetID    null.Val[uuid.UUID]
	ReceiptURL  null.Val[string]

	Result *storage.Transaction
	IAction
}

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	existing, err := ownedTransaction(ctx, writer, u.OwnerID, u.ID)
	if err != nil {
		return err
	}

	oldBudgetID, wasLinked := existing.BudgetID.Get()
	newBudgetID, isLinked := u.BudgetID.Get()

	// An unchanged reference is kept even if its budget has since been deleted.
	if isLinked && (!wasLinked || oldBudgetID != newBudgetID) {
		if err = checkBudgetLink(ctx, writer, u.OwnerID, newBudgetID); err != nil {
			return err
		}
	}

	updated, err := writer.Transactions.Update(ctx, u.ID, &storage.TransactionUpdate{
		Description: u.Description,
		Amount:      u.Amount,
		Category:    u.Category,
		OccurredAt:  u.OccurredAt,
		Type:        u.Type,
		BudgetID:    u.BudgetID,
		ReceiptURL:  u.ReceiptURL,
	})
	if err != nil {
		return fmt.Errorf("Transactions.Update: %w", err)
	}

	var affected []uuid.UUID
	if wasLinked {
		affected = append(affected, oldBudgetID)
	}
	if isLinked {
		affected = append(affected, newBudgetID)
	}
	if err = recalculateAll(ctx, writer, affected...); err != nil {
		return err
	}

	u.Result = updated
	return nil
}

type DeleteTransaction struct {
	OwnerID uuid.UUID
	ID      uuid.UUID

	IAction
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	existing, err := ownedTransaction(ctx, writer, d.OwnerID, d.ID)
	if err != nil {
		return err
	}
	if err = writer.Transactions.Delete(ctx, d.ID); err != nil {
		return fmt.Errorf("Transactions.Delete: %w", err)
	}
	if budgetID, ok := existing.BudgetID.Get(); ok {
		return recalculateBudgetSpent(ctx, writer, budgetID)
	}
	return nil
}
