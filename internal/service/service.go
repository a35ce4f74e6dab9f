package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
	"github.com/phatch9/Financial-Cloud-Management/internal/operator/actions"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

// Processor runs a write action in its own store transaction.
// *operator.OperatorDelegator satisfies it.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Budget      *BudgetService
	Transaction *TransactionService
}

// NewService creates a new Service with the given storage. Reads go to the
// store directly; writes are handed to processor.
func NewService(store *storage.Storage, processor Processor) *Service {
	return &Service{
		Budget:      NewBudgetService(store, processor),
		Transaction: NewTransactionService(store, processor),
	}
}

// Amounts are stored as NUMERIC(19,2).
const moneyScale = 2

var maxMoney = decimal.New(1, 19-moneyScale)

// validateMoney rejects amounts a NUMERIC(19,2) column would round or
// overflow.
func validateMoney(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(moneyScale)) {
		return apperr.Validation("amount must have at most 2 decimal places")
	}
	if amount.Abs().GreaterThanOrEqual(maxMoney) {
		return apperr.Validation("amount is too large")
	}
	return nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// readError hides storage.ErrNotFound behind the caller-facing not found error.
func readError(err, notFound error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound
	}
	return err
}
