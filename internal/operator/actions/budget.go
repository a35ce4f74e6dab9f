package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

type CreateBudget struct {
	OwnerID  uuid.UUID
	Name     string
	Category string
	Amount   decimal.Decimal

	Result *storage.Budget
	IAction
}

func (c *CreateBudget) Perform(ctx context.Context, writer *storage.Writer) error {
	budget, err := writer.Budgets.Insert(ctx, &storage.BudgetCreate{
		OwnerID:  c.OwnerID,
		Name:     c.Name,
		Category: c.Category,
		Amount:   c.Amount,
	})
	if err != nil {
		return fmt.Errorf("Budgets.Insert: %w", err)
	}
	c.Result = budget
	return nil
}

// UpdateBudget replaces name, category and amount. Spent is left alone.
type UpdateBudget struct {
	OwnerID  uuid.UUID
	ID       uuid.UUID
	Name     string
	Category string
	Amount   decimal.Decimal

	Result *storage.Budget
	IAction
}

func (u *UpdateBudget) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := ownedBudget(ctx, writer, u.OwnerID, u.ID); err != nil {
		return err
	}
	budget, err := writer.Budgets.Update(ctx, u.ID, &storage.BudgetUpdate{
		Name:     u.Name,
		Category: u.Category,
		Amount:   u.Amount,
	})
	if err != nil {
		return fmt.Errorf("Budgets.Update: %w", err)
	}
	u.Result = budget
	return nil
}

// DeleteBudget removes a budget. Transactions that referenced it keep the
// now dangling budget id.
type DeleteBudget struct {
	OwnerID uuid.UUID
	ID      uuid.UUID

	IAction
}

func (d *DeleteBudget) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := ownedBudget(ctx, writer, d.OwnerID, d.ID); err != nil {
		return err
	}
	if err := writer.Budgets.Delete(ctx, d.ID); err != nil {
		return fmt.Errorf("Budgets.Delete: %w", err)
	}
	return nil
}
