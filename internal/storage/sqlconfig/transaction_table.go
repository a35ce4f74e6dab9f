package sqlconfig

import (
	"context"
	"database/sql"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

const transactionsTable = "transactions"

var transactionColumns = []any{
	"id", "owner_id", "description", "amount", "category",
	"occurred_at", "type", "budget_id", "receipt_url", "created_at",
}

type transactionRow struct {
	ID          uuid.UUID       `db:"id"`
	OwnerID     uuid.UUID       `db:"owner_id"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	Category    string          `db:"category"`
	OccurredAt  time.Time       `db:"occurred_at"`
	Type        string          `db:"type"`
	BudgetID    uuid.NullUUID   `db:"budget_id"`
	ReceiptURL  sql.NullString  `db:"receipt_url"`
	CreatedAt   time.Time       `db:"created_at"`
}

var _ storage.ITransactionTable = (*TransactionsTable)(nil)

type TransactionsTable struct {
	exec bob.Executor
}

func NewTransactionsTable(exec bob.Executor) *TransactionsTable {
	return &TransactionsTable{exec: exec}
}

// FindByID retrieves a transaction by primary key.
func (t *TransactionsTable) FindByID(ctx context.Context, id uuid.UUID) (*storage.Transaction, error) {
	query := psql.Select(
		sm.Columns(transactionColumns...),
		sm.From(transactionsTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, mapError(err)
	}
	return rowToTransaction(row), nil
}

// Insert creates a new transaction and returns the stored row.
func (t *TransactionsTable) Insert(ctx context.Context, create *storage.TransactionCreate) (*storage.Transaction, error) {
	query := psql.Insert(
		im.Into(transactionsTable,
			"owner_id", "description", "amount", "category",
			"occurred_at", "type", "budget_id", "receipt_url",
		),
		im.Values(
			psql.Arg(create.OwnerID),
			psql.Arg(create.Description),
			psql.Arg(create.Amount),
			psql.Arg(create.Category),
			psql.Arg(create.OccurredAt),
			psql.Arg(string(create.Type)),
			psql.Arg(nullUUID(create.BudgetID)),
			psql.Arg(nullString(create.ReceiptURL)),
		),
		im.Returning(transactionColumns...),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, mapError(err)
	}
	return rowToTransaction(row), nil
}

// List returns transactions matching the filter, newest first. When Limit is
// set one extra row is fetched so callers can tell whether another page exists.
func (t *TransactionsTable) List(ctx context.Context, filter *storage.TransactionFilter) ([]*storage.Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(transactionsTable),
	}
	if filter != nil {
		if filter.OwnerID != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("owner_id").EQ(psql.Arg(*filter.OwnerID))))
		}
		if filter.BudgetID != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("budget_id").EQ(psql.Arg(*filter.BudgetID))))
		}
		if filter.Category != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("category").EQ(psql.Arg(*filter.Category))))
		}
		if filter.Type != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("type").EQ(psql.Arg(string(*filter.Type)))))
		}
		if filter.OccurredFrom != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("occurred_at").GTE(psql.Arg(*filter.OccurredFrom))))
		}
		if filter.OccurredTo != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("occurred_at").LTE(psql.Arg(*filter.OccurredTo))))
		}
		if filter.MaxCreationTime != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
		}
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit+1))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("occurred_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, mapError(err)
	}
	result := make([]*storage.Transaction, len(rows))
	for i, row := range rows {
		result[i] = rowToTransaction(row)
	}
	return result, nil
}

// Update replaces every client-mutable field of a transaction.
func (t *TransactionsTable) Update(ctx context.Context, id uuid.UUID, update *storage.TransactionUpdate) (*storage.Transaction, error) {
	query := psql.Update(
		um.Table(transactionsTable),
		um.SetCol("description").ToArg(update.Description),
		um.SetCol("amount").ToArg(update.Amount),
		um.SetCol("category").ToArg(update.Category),
		um.SetCol("occurred_at").ToArg(update.OccurredAt),
		um.SetCol("type").ToArg(string(update.Type)),
		um.SetCol("budget_id").ToArg(nullUUID(update.BudgetID)),
		um.SetCol("receipt_url").ToArg(nullString(update.ReceiptURL)),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(transactionColumns...),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, mapError(err)
	}
	return rowToTransaction(row), nil
}

func (t *TransactionsTable) Delete(ctx context.Context, id uuid.UUID) error {
	query := psql.Delete(
		dm.From(transactionsTable),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return execAffectingOne(ctx, t.exec, query)
}

func nullUUID(v null.Val[uuid.UUID]) uuid.NullUUID {
	id, ok := v.Get()
	return uuid.NullUUID{UUID: id, Valid: ok}
}

func nullString(v null.Val[string]) sql.NullString {
	s, ok := v.Get()
	return sql.NullString{String: s, Valid: ok}
}

func rowToTransaction(row transactionRow) *storage.Transaction {
	tx := &storage.Transaction{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Description: row.Description,
		Amount:      row.Amount,
		Category:    row.Category,
		OccurredAt:  row.OccurredAt,
		Type:        storage.TransactionType(row.Type),
		CreatedAt:   row.CreatedAt,
	}
	if row.BudgetID.Valid {
		tx.BudgetID = null.From(row.BudgetID.UUID)
	}
	if row.ReceiptURL.Valid {
		tx.ReceiptURL = null.From(row.ReceiptURL.String)
	}
	return tx
}
