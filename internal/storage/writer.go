package storage

import (
	"context"
)

// Tx is the unit of work a Writer commits or rolls back.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer exposes the tables bound to a single store transaction.
type Writer struct {
	tx           Tx
	Budgets      IBudgetTable
	Transactions ITransactionTable
	Users        IUserTable
}

func NewWriter(tx Tx, budgets IBudgetTable, transactions ITransactionTable, users IUserTable) *Writer {
	return &Writer{
		tx:           tx,
		Budgets:      budgets,
		Transactions: transactions,
		Users:        users,
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
