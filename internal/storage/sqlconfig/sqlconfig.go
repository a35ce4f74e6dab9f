package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stephenafamo/bob"

	"github.com/phatch9/Financial-Cloud-Management/internal/config"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

const uniqueViolation = "23505"

// NewStorage opens the Postgres database described by env, optionally
// migrates it, and returns a Storage backed by Bob tables.
func NewStorage(ctx context.Context, env *config.Config) (*storage.Storage, error) {
	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}

	if env.MigrateOnStart {
		result, migrateErr := storage.RunMigrations(db)
		if migrateErr != nil {
			_ = db.Close()
			return nil, migrateErr
		}
		logrus.WithFields(logrus.Fields{
			"preMigrationVersion":  result.PreMigrationVersion,
			"postMigrationVersion": result.PostMigrationVersion,
		}).Info("Migration status")
	}

	return NewStorageFromDB(db), nil
}

// NewStorageFromDB wraps an already-open database.
func NewStorageFromDB(db *sql.DB) *storage.Storage {
	exec := bob.NewDB(db)

	begin := func(ctx context.Context) (*storage.Writer, error) {
		tx, err := exec.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		return storage.NewWriter(
			&bobTx{tx: tx},
			NewBudgetsTable(tx),
			NewTransactionsTable(tx),
			NewUsersTable(tx),
		), nil
	}

	return storage.New(
		NewBudgetsTable(exec),
		NewTransactionsTable(exec),
		NewUsersTable(exec),
		begin,
		db,
	)
}

type bobTx struct {
	tx bob.Tx
}

func (t *bobTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *bobTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// mapError translates driver errors into storage sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", storage.ErrDuplicate, pqErr.Constraint)
	}
	return err
}
