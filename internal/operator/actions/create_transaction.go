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

type CreateTransaction struct {
	OwnerID     uuid.UUID
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

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	budgetID, linked := t.BudgetID.Get()
	if linked {
		if err := checkBudgetLink(ctx, writer, t.OwnerID, budgetID); err != nil {
			return err
		}
	}

	created, err := writer.Transactions.Insert(ctx, &storage.TransactionCreate{
		OwnerID:     t.OwnerID,
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
		OccurredAt:  t.OccurredAt,
		Type:        t.Type,
		BudgetID:    t.BudgetID,
		ReceiptURL:  t.ReceiptURL,
	})
	if err != nil {
		return fmt.Errorf("Transactions.Insert: %w", err)
	}

	if linked {
		if err = recalculateBudgetSpent(ctx, writer, budgetID); err != nil {
			return err
		}
	}

	t.Result = created
	return nil
}
