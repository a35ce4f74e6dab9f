package sqlconfig

import (
	"context"
	"time"

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

const budgetsTable = "budgets"

var budgetColumns = []any{"id", "owner_id", "name", "category", "amount", "spent", "created_at"}

type budgetRow struct {
	ID        uuid.UUID       `db:"id"`
	OwnerID   uuid.UUID       `db:"owner_id"`
	Name      string          `db:"name"`
	Category  string          `db:"category"`
	Amount    decimal.Decimal `db:"amount"`
	Spent     decimal.Decimal `db:"spent"`
	CreatedAt time.Time       `db:"created_at"`
}

// BudgetsTable provides access to the budgets table.
type BudgetsTable struct {
	exec bob.Executor
}

// Ensure BudgetsTable implements IBudgetTable at compile time.
var _ storage.IBudgetTable = (*BudgetsTable)(nil)

// NewBudgetsTable creates a BudgetsTable on top of a database or transaction.
func NewBudgetsTable(exec bob.Executor) *BudgetsTable {
	return &BudgetsTable{exec: exec}
}

// FindByID retrieves a budget by primary key.
func (t *BudgetsTable) FindByID(ctx context.Context, id uuid.UUID) (*storage.Budget, error) {
	query := psql.Select(
		sm.Columns(budgetColumns...),
		sm.From(budgetsTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[budgetRow]())
	if err != nil {
		return nil, mapError(err)
	}
	return rowToBudget(row), nil
}

func (t *BudgetsTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*storage.Budget, error) {
	query := psql.Select(
		sm.Columns(budgetColumns...),
		sm.From(budgetsTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate(),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[budgetRow]())
	if err != nil {
		return nil, mapError(err)
	}
	return rowToBudget(row), nil
}

// Insert creates a new budget with zero spent and returns the stored row.
func (t *BudgetsTable) Insert(ctx context.Context, create *storage.BudgetCreate) (*storage.Budget, error) {
	query := psql.Insert(
		im.Into(budgetsTable, "owner_id", "name", "category", "amount", "spent"),
		im.Values(
			psql.Arg(create.OwnerID),
			psql.Arg(create.Name),
			psql.Arg(create.Category),
			psql.Arg(create.Amount),
			psql.Arg(decimal.Zero),
		),
		im.Returning(budgetColumns...),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[budgetRow]())
	if err != nil {
		return nil, mapError(err)
	}
	return rowToBudget(row), nil
}

// List returns budgets matching the filter. Nil filter returns all.
func (t *BudgetsTable) List(ctx context.Context, filter *storage.BudgetFilter) ([]*storage.Budget, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(budgetColumns...),
		sm.From(budgetsTable),
	}
	if filter != nil && filter.OwnerID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("owner_id").EQ(psql.Arg(*filter.OwnerID))))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("name")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[budgetRow]())
	if err != nil {
		return nil, mapError(err)
	}
	result := make([]*storage.Budget, len(rows))
	for i, row := range rows {
		result[i] = rowToBudget(row)
	}
	return result, nil
}

// Update replaces the client-mutable fields. Spent is never written here.
func (t *BudgetsTable) Update(ctx context.Context, id uuid.UUID, update *storage.BudgetUpdate) (*storage.Budget, error) {
	query := psql.Update(
		um.Table(budgetsTable),
		um.SetCol("name").ToArg(update.Name),
		um.SetCol("category").ToArg(update.Category),
		um.SetCol("amount").ToArg(update.Amount),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(budgetColumns...),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[budgetRow]())
	if err != nil {
		return nil, mapError(err)
	}
	return rowToBudget(row), nil
}

// UpdateSpent overwrites the derived spent total.
func (t *BudgetsTable) UpdateSpent(ctx context.Context, id uuid.UUID, spent decimal.Decimal) error {
	query := psql.Update(
		um.Table(budgetsTable),
		um.SetCol("spent").ToArg(spent),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return execAffectingOne(ctx, t.exec, query)
}

// Delete removes a budget. Linked transactions are left untouched.
func (t *BudgetsTable) Delete(ctx context.Context, id uuid.UUID) error {
	query := psql.Delete(
		dm.From(budgetsTable),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return execAffectingOne(ctx, t.exec, query)
}

func execAffectingOne(ctx context.Context, exec bob.Executor, query bob.Query) error {
	result, err := bob.Exec(ctx, exec, query)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func rowToBudget(row budgetRow) *storage.Budget {
	return &storage.Budget{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		Category:  row.Category,
		Amount:    row.Amount,
		Spent:     row.Spent,
		CreatedAt: row.CreatedAt,
	}
}
