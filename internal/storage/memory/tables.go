package memory

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

var errTxDone = errors.New("memory: transaction already committed or rolled back")

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

func lessID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

type budgetsTable struct {
	src source
	now func() time.Time
}

var _ storage.IBudgetTable = (*budgetsTable)(nil)

func (t *budgetsTable) FindByID(_ context.Context, id uuid.UUID) (*storage.Budget, error) {
	var (
		row storage.Budget
		ok  bool
	)
	t.src.read(func(d *data) { row, ok = d.budgets[id] })
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

// FindByIDForUpdate needs no lock: the open Writer already excludes others.
func (t *budgetsTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*storage.Budget, error) {
	return t.FindByID(ctx, id)
}

func (t *budgetsTable) Insert(_ context.Context, create *storage.BudgetCreate) (*storage.Budget, error) {
	row := storage.Budget{
		ID:        newID(),
		OwnerID:   create.OwnerID,
		Name:      create.Name,
		Category:  create.Category,
		Amount:    create.Amount,
		Spent:     decimal.Zero,
		CreatedAt: t.now(),
	}
	t.src.write(func(d *data) { d.budgets[row.ID] = row })
	return &row, nil
}

func (t *budgetsTable) List(_ context.Context, filter *storage.BudgetFilter) ([]*storage.Budget, error) {
	var result []*storage.Budget
	t.src.read(func(d *data) {
		for _, b := range d.budgets {
			if filter != nil && filter.OwnerID != nil && b.OwnerID != *filter.OwnerID {
				continue
			}
			row := b
			result = append(result, &row)
		}
	})
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return lessID(result[i].ID, result[j].ID)
	})
	return result, nil
}

func (t *budgetsTable) Update(_ context.Context, id uuid.UUID, update *storage.BudgetUpdate) (*storage.Budget, error) {
	var (
		row storage.Budget
		ok  bool
	)
	t.src.write(func(d *data) {
		row, ok = d.budgets[id]
		if !ok {
			return
		}
		row.Name = update.Name
		row.Category = update.Category
		row.Amount = update.Amount
		d.budgets[id] = row
	})
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (t *budgetsTable) UpdateSpent(_ context.Context, id uuid.UUID, spent decimal.Decimal) error {
	ok := false
	t.src.write(func(d *data) {
		var row storage.Budget
		if row, ok = d.budgets[id]; ok {
			row.Spent = spent
			d.budgets[id] = row
		}
	})
	if !ok {
		return storage.ErrNotFound
	}
	return nil
}

func (t *budgetsTable) Delete(_ context.Context, id uuid.UUID) error {
	ok := false
	t.src.write(func(d *data) {
		if _, ok = d.budgets[id]; ok {
			delete(d.budgets, id)
		}
	})
	if !ok {
		return storage.ErrNotFound
	}
	return nil
}

type transactionsTable struct {
	src source
	now func() time.Time
}

var _ storage.ITransactionTable = (*transactionsTable)(nil)

func (t *transactionsTable) FindByID(_ context.Context, id uuid.UUID) (*storage.Transaction, error) {
	var (
		row storage.Transaction
		ok  bool
	)
	t.src.read(func(d *data) { row, ok = d.transactions[id] })
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (t *transactionsTable) Insert(_ context.Context, create *storage.TransactionCreate) (*storage.Transaction, error) {
	now := t.now()
	row := storage.Transaction{
		ID:          newID(),
		OwnerID:     create.OwnerID,
		Description: create.Description,
		Amount:      create.Amount,
		Category:    create.Category,
		OccurredAt:  create.OccurredAt,
		Type:        create.Type,
		BudgetID:    create.BudgetID,
		ReceiptURL:  create.ReceiptURL,
		CreatedAt:   now,
	}
	if row.OccurredAt.IsZero() {
		row.OccurredAt = now
	}
	t.src.write(func(d *data) { d.transactions[row.ID] = row })
	return &row, nil
}

// List mirrors the SQL table: newest first, and Limit+1 rows when a limit is set.
func (t *transactionsTable) List(_ context.Context, filter *storage.TransactionFilter) ([]*storage.Transaction, error) {
	var result []*storage.Transaction
	t.src.read(func(d *data) {
		for _, tx := range d.transactions {
			if !matches(&tx, filter) {
				continue
			}
			row := tx
			result = append(result, &row)
		}
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].OccurredAt.Equal(result[j].OccurredAt) {
			return result[i].OccurredAt.After(result[j].OccurredAt)
		}
		return lessID(result[j].ID, result[i].ID)
	})

	if filter == nil {
		return result, nil
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit+1 {
		result = result[:filter.Limit+1]
	}
	return result, nil
}

func matches(tx *storage.Transaction, filter *storage.TransactionFilter) bool {
	if filter == nil {
		return true
	}
	if filter.OwnerID != nil && tx.OwnerID != *filter.OwnerID {
		return false
	}
	if filter.BudgetID != nil {
		id, ok := tx.BudgetID.Get()
		if !ok || id != *filter.BudgetID {
			return false
		}
	}
	if filter.Category != nil && tx.Category != *filter.Category {
		return false
	}
	if filter.Type != nil && tx.Type != *filter.Type {
		return false
	}
	if filter.OccurredFrom != nil && tx.OccurredAt.Before(*filter.OccurredFrom) {
		return false
	}
	if filter.OccurredTo != nil && tx.OccurredAt.After(*filter.OccurredTo) {
		return false
	}
	if filter.MaxCreationTime != nil && tx.CreatedAt.After(*filter.MaxCreationTime) {
		return false
	}
	return true
}

func (t *transactionsTable) Update(_ context.Context, id uuid.UUID, update *storage.TransactionUpdate) (*storage.Transaction, error) {
	var (
		row storage.Transaction
		ok  bool
	)
	t.src.write(func(d *data) {
		row, ok = d.transactions[id]
		if !ok {
			return
		}
		row.Description = update.Description
		row.Amount = update.Amount
		row.Category = update.Category
		row.OccurredAt = update.OccurredAt
		row.Type = update.Type
		row.BudgetID = update.BudgetID
		row.ReceiptURL = update.ReceiptURL
		d.transactions[id] = row
	})
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (t *transactionsTable) Delete(_ context.Context, id uuid.UUID) error {
	ok := false
	t.src.write(func(d *data) {
		if _, ok = d.transactions[id]; ok {
			delete(d.transactions, id)
		}
	})
	if !ok {
		return storage.ErrNotFound
	}
	return nil
}

type usersTable struct {
	src source
	now func() time.Time
}

var _ storage.IUserTable = (*usersTable)(nil)

func (t *usersTable) FindByID(_ context.Context, id uuid.UUID) (*storage.User, error) {
	var (
		row storage.User
		ok  bool
	)
	t.src.read(func(d *data) { row, ok = d.users[id] })
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (t *usersTable) FindByUsername(_ context.Context, username string) (*storage.User, error) {
	var found *storage.User
	t.src.read(func(d *data) {
		for _, u := range d.users {
			if u.Username == username {
				row := u
				found = &row
				return
			}
		}
	})
	if found == nil {
		return nil, storage.ErrNotFound
	}
	return found, nil
}

func (t *usersTable) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := t.FindByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (t *usersTable) ExistsByEmail(_ context.Context, email string) (bool, error) {
	exists := false
	t.src.read(func(d *data) {
		for _, u := range d.users {
			if u.Email == email {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

func (t *usersTable) Insert(_ context.Context, create *storage.UserCreate) (*storage.User, error) {
	row := storage.User{
		ID:           newID(),
		Username:     create.Username,
		Email:        create.Email,
		PasswordHash: create.PasswordHash,
		Role:         create.Role,
		CreatedAt:    t.now(),
	}
	duplicate := false
	t.src.write(func(d *data) {
		for _, u := range d.users {
			if u.Username == row.Username || u.Email == row.Email {
				duplicate = true
				return
			}
		}
		d.users[row.ID] = row
	})
	if duplicate {
		return nil, storage.ErrDuplicate
	}
	return &row, nil
}
