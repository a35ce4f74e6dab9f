package memory

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

func TestWriter_CommitPublishesChanges(t *testing.T) {
	ctx := context.Background()
	store := NewStorage()
	owner := uuid.Must(uuid.NewV4())

	writer, err := store.Write(ctx)
	require.NoError(t, err)
	created, err := writer.Budgets.Insert(ctx, &storage.BudgetCreate{OwnerID: owner, Name: "Rent", Amount: decimal.NewFromInt(1200)})
	require.NoError(t, err)

	_, err = store.Budgets.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "uncommitted rows are not visible to readers")

	require.NoError(t, writer.Commit())

	found, err := store.Budgets.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rent", found.Name)
	assert.True(t, found.Spent.IsZero())
}

func TestWriter_RollbackDiscardsChanges(t *testing.T) {
	ctx := context.Background()
	store := NewStorage()
	owner := uuid.Must(uuid.NewV4())

	existing, err := store.Budgets.Insert(ctx, &storage.BudgetCreate{OwnerID: owner, Name: "Food", Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)

	writer, err := store.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, writer.Budgets.UpdateSpent(ctx, existing.ID, decimal.NewFromInt(50)))
	require.NoError(t, writer.Budgets.Delete(ctx, existing.ID))
	require.NoError(t, writer.Rollback())

	found, err := store.Budgets.FindByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.True(t, found.Spent.IsZero())

	assert.Error(t, writer.Commit(), "a finished writer cannot commit")
}

func TestWriter_SerializesWriters(t *testing.T) {
	ctx := context.Background()
	store := NewStorage()

	first, err := store.Write(ctx)
	require.NoError(t, err)

	opened := make(chan struct{})
	go func() {
		second, err := store.Write(ctx)
		if err == nil {
			_ = second.Rollback()
		}
		close(opened)
	}()

	select {
	case <-opened:
		t.Fatal("second writer opened while first was still active")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Commit())
	select {
	case <-opened:
	case <-time.After(time.Second):
		t.Fatal("second writer never opened")
	}
}

func TestBudgets_ListOrderedByNameForOwner(t *testing.T) {
	ctx := context.Background()
	store := NewStorage()
	alice, bob := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	for _, name := range []string{"Utilities", "Groceries", "Entertainment"} {
		_, err := store.Budgets.Insert(ctx, &storage.BudgetCreate{OwnerID: alice, Name: name, Amount: decimal.NewFromInt(10)})
		require.NoError(t, err)
	}
	_, err := store.Budgets.Insert(ctx, &storage.BudgetCreate{OwnerID: bob, Name: "Aardvark", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	list, err := store.Budgets.List(ctx, &storage.BudgetFilter{OwnerID: &alice})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Entertainment", list[0].Name)
	assert.Equal(t, "Groceries", list[1].Name)
	assert.Equal(t, "Utilities", list[2].Name)
}

func TestTransactions_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	store := NewStorage()
	owner := uuid.Must(uuid.NewV4())
	budgetID := uuid.Must(uuid.NewV4())
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		create := &storage.TransactionCreate{
			OwnerID:     owner,
			Description: "row",
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Category:    "Food",
			OccurredAt:  base.AddDate(0, 0, i),
			Type:        storage.TransactionTypeExpense,
		}
		if i%2 == 0 {
			create.BudgetID = null.From(budgetID)
			create.Type = storage.TransactionTypeIncome
			create.Category = "Salary"
		}
		_, err := store.Transactions.Insert(ctx, create)
		require.NoError(t, err)
	}

	all, err := store.Transactions.List(ctx, &storage.TransactionFilter{OwnerID: &owner})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.True(t, all[0].OccurredAt.After(all[4].OccurredAt), "newest first")

	page, err := store.Transactions.List(ctx, &storage.TransactionFilter{OwnerID: &owner, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 3, "limit+1 rows are returned")
	assert.Equal(t, all[2].ID, page[0].ID)

	linked, err := store.Transactions.List(ctx, &storage.TransactionFilter{OwnerID: &owner, BudgetID: &budgetID})
	require.NoError(t, err)
	assert.Len(t, linked, 3)

	expense := storage.TransactionTypeExpense
	expenses, err := store.Transactions.List(ctx, &storage.TransactionFilter{OwnerID: &owner, Type: &expense})
	require.NoError(t, err)
	assert.Len(t, expenses, 2)

	from, to := base.AddDate(0, 0, 1), base.AddDate(0, 0, 3)
	ranged, err := store.Transactions.List(ctx, &storage.TransactionFilter{OwnerID: &owner, OccurredFrom: &from, OccurredTo: &to})
	require.NoError(t, err)
	assert.Len(t, ranged, 3, "range bounds are inclusive")

	other := uuid.Must(uuid.NewV4())
	none, err := store.Transactions.List(ctx, &storage.TransactionFilter{OwnerID: &other})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUsers_DuplicatesRejected(t *testing.T) {
	ctx := context.Background()
	store := NewStorage()

	_, err := store.Users.Insert(ctx, &storage.UserCreate{Username: "alice", Email: "alice@example.com", PasswordHash: "h", Role: storage.RoleUser})
	require.NoError(t, err)

	_, err = store.Users.Insert(ctx, &storage.UserCreate{Username: "alice2", Email: "alice@example.com", PasswordHash: "h", Role: storage.RoleUser})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	exists, err := store.Users.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Users.ExistsByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Users.FindByUsername(ctx, "carol")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
