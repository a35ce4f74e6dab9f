package storage

import (
	"context"
	"io"
)

// BeginFunc opens a store transaction and returns a Writer bound to it.
type BeginFunc func(ctx context.Context) (*Writer, error)

// Storage is the entry point to a backend. The table fields serve
// non-transactional reads; Write opens a transaction for mutations.
type Storage struct {
	Budgets      IBudgetTable
	Transactions ITransactionTable
	Users        IUserTable

	begin  BeginFunc
	closer io.Closer
}

func New(budgets IBudgetTable, transactions ITransactionTable, users IUserTable, begin BeginFunc, closer io.Closer) *Storage {
	return &Storage{
		Budgets:      budgets,
		Transactions: transactions,
		Users:        users,
		begin:        begin,
		closer:       closer,
	}
}

// Write opens a store transaction. The caller must Commit or Rollback.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	return s.begin(ctx)
}

// Ping reports whether the backend is reachable. Backends without a
// connection are always reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if p, ok := s.closer.(interface{ PingContext(context.Context) error }); ok {
		return p.PingContext(ctx)
	}
	return nil
}

func (s *Storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
