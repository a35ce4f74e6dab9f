package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
	"github.com/phatch9/Financial-Cloud-Management/internal/operator/actions"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

var fixedNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*TransactionService, *mockTransactionTable, *mockProcessor) {
	t.Helper()
	mockTable := &mockTransactionTable{}
	processor := &mockProcessor{}
	t.Cleanup(func() {
		mockTable.AssertExpectations(t)
		processor.AssertExpectations(t)
	})
	store := &storage.Storage{Transactions: mockTable}
	svc := NewTransactionService(store, processor)
	svc.now = func() time.Time { return fixedNow }
	return svc, mockTable, processor
}

// -- CreateTransaction tests --

func TestCreateTransaction_Success(t *testing.T) {
	svc, _, processor := newTestService(t)

	ownerID := uuid.Must(uuid.NewV4())
	amount := decimal.RequireFromString("42.50")

	processor.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		c, ok := a.(*actions.CreateTransaction)
		return ok &&
			c.OwnerID == ownerID &&
			c.Amount.Equal(amount) &&
			c.Description == "Groceries" &&
			c.OccurredAt.Equal(fixedNow) &&
			c.Type == storage.TransactionTypeExpense
	})).Run(func(args mock.Arguments) {
		c := args.Get(1).(*actions.CreateTransaction)
		c.Result = &storage.Transaction{
			ID:          uuid.Must(uuid.NewV4()),
			OwnerID:     c.OwnerID,
			Description: c.Description,
			Amount:      c.Amount,
			OccurredAt:  c.OccurredAt,
			Type:        c.Type,
		}
	}).Return(nil)

	tx, err := svc.CreateTransaction(context.Background(), ownerID, TransactionInput{
		Description: "  Groceries ",
		Amount:      amount,
		Type:        TransactionTypeExpense,
	})

	assert.NoError(t, err)
	assert.Equal(t, ownerID, tx.OwnerID)
	assert.Equal(t, fixedNow, tx.OccurredAt, "defaults to now")
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ownerID := uuid.Must(uuid.NewV4())

	tests := []struct {
		name  string
		input TransactionInput
	}{
		{"zero amount", TransactionInput{Description: "x", Amount: decimal.Zero, Type: TransactionTypeExpense}},
		{"negative amount", TransactionInput{Description: "x", Amount: decimal.NewFromInt(-5), Type: TransactionTypeIncome}},
		{"unknown type", TransactionInput{Description: "x", Amount: decimal.NewFromInt(5), Type: "TRANSFER"}},
		{"blank description", TransactionInput{Description: "  ", Amount: decimal.NewFromInt(5), Type: TransactionTypeIncome}},
		{"sub-cent amount", TransactionInput{Description: "x", Amount: decimal.RequireFromString("0.005"), Type: TransactionTypeExpense}},
		{"tiny amount", TransactionInput{Description: "x", Amount: decimal.RequireFromString("0.00001"), Type: TransactionTypeExpense}},
		{"huge amount", TransactionInput{Description: "x", Amount: decimal.RequireFromString("1e20"), Type: TransactionTypeIncome}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTransaction(context.Background(), ownerID, tt.input)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestCreateTransaction_ProcessError(t *testing.T) {
	svc, _, processor := newTestService(t)

	processor.On("Process", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	tx, err := svc.CreateTransaction(context.Background(), uuid.Must(uuid.NewV4()), TransactionInput{
		Description: "Test",
		Amount:      decimal.RequireFromString("10.00"),
		Type:        TransactionTypeIncome,
	})

	assert.Error(t, err)
	assert.Equal(t, "connection refused", err.Error())
	assert.Nil(t, tx)
}

// -- GetTransaction tests --

func TestGetTransaction_OtherOwnerIsNotFound(t *testing.T) {
	svc, mockTable, _ := newTestService(t)
	id := uuid.Must(uuid.NewV4())

	mockTable.On("FindByID", mock.Anything, id).Return(&storage.Transaction{ID: id, OwnerID: uuid.Must(uuid.NewV4())}, nil)

	tx, err := svc.GetTransaction(context.Background(), uuid.Must(uuid.NewV4()), id)

	assert.Nil(t, tx)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "transaction not found", err.Error())
}

func TestGetTransaction_MissingIsNotFound(t *testing.T) {
	svc, mockTable, _ := newTestService(t)
	id := uuid.Must(uuid.NewV4())

	mockTable.On("FindByID", mock.Anything, id).Return(nil, storage.ErrNotFound)

	_, err := svc.GetTransaction(context.Background(), uuid.Must(uuid.NewV4()), id)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// -- ListTransactions tests --

func makeStorageRows(n int, ownerID uuid.UUID, createdAt time.Time) []*storage.Transaction {
	rows := make([]*storage.Transaction, n)
	for i := range rows {
		rows[i] = &storage.Transaction{
			ID:          uuid.Must(uuid.NewV4()),
			OwnerID:     ownerID,
			Description: "Item",
			Amount:      decimal.RequireFromString("5.00"),
			Category:    "Misc",
			OccurredAt:  createdAt,
			Type:        storage.TransactionTypeExpense,
			CreatedAt:   createdAt,
		}
	}
	return rows
}

func TestListTransactions_NoResults(t *testing.T) {
	svc, mockTable, _ := newTestService(t)

	mockTable.On("List", mock.Anything, mock.Anything).
		Return([]*storage.Transaction{}, nil)

	txs, nextCursor, err := svc.ListTransactions(context.Background(), uuid.Must(uuid.NewV4()), nil)

	assert.NoError(t, err)
	assert.Nil(t, txs)
	assert.Nil(t, nextCursor)
}

func TestListTransactions_SinglePage(t *testing.T) {
	svc, mockTable, _ := newTestService(t)

	ownerID := uuid.Must(uuid.NewV4())
	rows := makeStorageRows(2, ownerID, fixedNow)

	mockTable.On("List", mock.Anything, mock.MatchedBy(func(f *storage.TransactionFilter) bool {
		return f.Limit == defaultLimit &&
			f.Offset == 0 &&
			f.OwnerID != nil && *f.OwnerID == ownerID &&
			f.MaxCreationTime != nil && f.MaxCreationTime.Equal(fixedNow)
	})).Return(rows, nil)

	txs, nextCursor, err := svc.ListTransactions(context.Background(), ownerID, nil)

	assert.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Nil(t, nextCursor)

	tx := txs[0]
	assert.Equal(t, rows[0].ID, tx.ID)
	assert.Equal(t, rows[0].OwnerID, tx.OwnerID)
	assert.True(t, rows[0].Amount.Equal(tx.Amount))
	assert.Equal(t, rows[0].Description, tx.Description)
	assert.Equal(t, TransactionTypeExpense, tx.Type)
	assert.Equal(t, rows[0].CreatedAt, tx.CreatedAt)
}

func TestListTransactions_HasNextPage(t *testing.T) {
	svc, mockTable, _ := newTestService(t)

	ownerID := uuid.Must(uuid.NewV4())
	rows := makeStorageRows(defaultLimit+1, ownerID, fixedNow.Add(-time.Hour))

	mockTable.On("List", mock.Anything, mock.Anything).Return(rows, nil)

	txs, nextCursor, err := svc.ListTransactions(context.Background(), ownerID, nil)

	assert.NoError(t, err)
	assert.Len(t, txs, defaultLimit, "truncated to default limit")

	assert.NotNil(t, nextCursor)
	assert.Equal(t, defaultLimit, nextCursor.Position)
	assert.Equal(t, defaultLimit, nextCursor.Limit)
	assert.Equal(t, fixedNow, nextCursor.MaxCreationTime, "pinned to the first page's query time")
}

func TestListTransactions_WithCursor(t *testing.T) {
	svc, mockTable, _ := newTestService(t)

	ownerID := uuid.Must(uuid.NewV4())
	cursorTime := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	rows := makeStorageRows(3, ownerID, time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)) // limit=2, returns 3 → has next page

	mockTable.On("List", mock.Anything, mock.MatchedBy(func(f *storage.TransactionFilter) bool {
		return f.Limit == 2 &&
			f.Offset == 20 &&
			f.MaxCreationTime != nil &&
			f.MaxCreationTime.Equal(cursorTime)
	})).Return(rows, nil)

	txs, nextCursor, err := svc.ListTransactions(context.Background(), ownerID, &TransactionCursor{
		Position:        20,
		Limit:           2,
		MaxCreationTime: cursorTime,
	})

	assert.NoError(t, err)
	assert.Len(t, txs, 2)

	assert.NotNil(t, nextCursor)
	assert.Equal(t, 22, nextCursor.Position)
	assert.Equal(t, 2, nextCursor.Limit)
	assert.Equal(t, cursorTime, nextCursor.MaxCreationTime, "echoed from cursor, not overridden by row data")
}

func TestListTransactions_LimitClamped(t *testing.T) {
	svc, mockTable, _ := newTestService(t)

	mockTable.On("List", mock.Anything, mock.MatchedBy(func(f *storage.TransactionFilter) bool {
		return f.Limit == maxLimit
	})).Return(nil, nil)

	_, _, err := svc.ListTransactions(context.Background(), uuid.Must(uuid.NewV4()), &TransactionCursor{Limit: 5000})

	assert.NoError(t, err)
}

func TestListTransactions_StorageError(t *testing.T) {
	svc, mockTable, _ := newTestService(t)

	mockTable.On("List", mock.Anything, mock.Anything).
		Return(nil, errors.New("database unavailable"))

	txs, nextCursor, err := svc.ListTransactions(context.Background(), uuid.Must(uuid.NewV4()), nil)

	assert.Error(t, err)
	assert.Equal(t, "database unavailable", err.Error())
	assert.Nil(t, txs)
	assert.Nil(t, nextCursor)
}

// -- FilterTransactions tests --

func TestFilterTransactions_PassesFilterThrough(t *testing.T) {
	svc, mockTable, _ := newTestService(t)

	ownerID := uuid.Must(uuid.NewV4())
	category := "Software"
	expense := TransactionTypeExpense

	mockTable.On("List", mock.Anything, mock.MatchedBy(func(f *storage.TransactionFilter) bool {
		return *f.OwnerID == ownerID &&
			*f.Category == category &&
			*f.Type == storage.TransactionTypeExpense &&
			f.Limit == 0
	})).Return(makeStorageRows(1, ownerID, fixedNow), nil)

	txs, err := svc.FilterTransactions(context.Background(), ownerID, TransactionFilter{Category: &category, Type: &expense})

	assert.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestFilterTransactions_InvalidRange(t *testing.T) {
	svc, _, _ := newTestService(t)

	from, to := fixedNow, fixedNow.Add(-time.Hour)
	_, err := svc.FilterTransactions(context.Background(), uuid.Must(uuid.NewV4()), TransactionFilter{From: &from, To: &to})

	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestFilterTransactions_DropsForeignRows(t *testing.T) {
	svc, mockTable, _ := newTestService(t)

	ownerID := uuid.Must(uuid.NewV4())
	rows := append(makeStorageRows(1, ownerID, fixedNow), makeStorageRows(1, uuid.Must(uuid.NewV4()), fixedNow)...)
	mockTable.On("List", mock.Anything, mock.Anything).Return(rows, nil)

	txs, err := svc.FilterTransactions(context.Background(), ownerID, TransactionFilter{})

	assert.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, ownerID, txs[0].OwnerID)
}
