package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/phatch9/Financial-Cloud-Management/internal/access"
	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

// IAction is a unit of work performed inside a single store transaction.
// Returning an error rolls the whole transaction back.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

var (
	errBudgetNotFound      = apperr.NotFound("budget not found")
	errTransactionNotFound = apperr.NotFound("transaction not found")
)

// ownedBudget loads a budget for mutation. A budget owned by someone else is
// reported exactly like a missing one.
func ownedBudget(ctx context.Context, writer *storage.Writer, ownerID, id uuid.UUID) (*storage.Budget, error) {
	budget, err := writer.Budgets.FindByIDForUpdate(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Budgets.FindByIDForUpdate: %w", err)
	}
	if err = access.RequireOwner(ownerID, budget.OwnerID, errBudgetNotFound); err != nil {
		return nil, err
	}
	return budget, nil
}

func ownedTransaction(ctx context.Context, writer *storage.Writer, ownerID, id uuid.UUID) (*storage.Transaction, error) {
	tx, err := writer.Transactions.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Transactions.FindByID: %w", err)
	}
	if err = access.RequireOwner(ownerID, tx.OwnerID, errTransactionNotFound); err != nil {
		return nil, err
	}
	return tx, nil
}

// checkBudgetLink verifies that a transaction may reference budgetID.
func checkBudgetLink(ctx context.Context, writer *storage.Writer, ownerID, budgetID uuid.UUID) error {
	budget, err := writer.Budgets.FindByID(ctx, budgetID)
	if errors.Is(err, storage.ErrNotFound) {
		return errBudgetNotFound
	}
	if err != nil {
		return fmt.Errorf("Budgets.FindByID: %w", err)
	}
	if budget.OwnerID != ownerID {
		return apperr.Validation("budget belongs to another user")
	}
	return nil
}
