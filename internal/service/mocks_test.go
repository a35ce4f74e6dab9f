package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/phatch9/Financial-Cloud-Management/internal/operator/actions"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

type mockTransactionTable struct {
	mock.Mock
}

func (m *mockTransactionTable) FindByID(ctx context.Context, id uuid.UUID) (*storage.Transaction, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(*storage.Transaction)
	return row, args.Error(1)
}

func (m *mockTransactionTable) Insert(ctx context.Context, create *storage.TransactionCreate) (*storage.Transaction, error) {
	args := m.Called(ctx, create)
	row, _ := args.Get(0).(*storage.Transaction)
	return row, args.Error(1)
}

func (m *mockTransactionTable) List(ctx context.Context, filter *storage.TransactionFilter) ([]*storage.Transaction, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]*storage.Transaction)
	return rows, args.Error(1)
}

func (m *mockTransactionTable) Update(ctx context.Context, id uuid.UUID, update *storage.TransactionUpdate) (*storage.Transaction, error) {
	args := m.Called(ctx, id, update)
	row, _ := args.Get(0).(*storage.Transaction)
	return row, args.Error(1)
}

func (m *mockTransactionTable) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockBudgetTable struct {
	mock.Mock
}

func (m *mockBudgetTable) FindByID(ctx context.Context, id uuid.UUID) (*storage.Budget, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(*storage.Budget)
	return row, args.Error(1)
}

func (m *mockBudgetTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*storage.Budget, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(*storage.Budget)
	return row, args.Error(1)
}

func (m *mockBudgetTable) Insert(ctx context.Context, create *storage.BudgetCreate) (*storage.Budget, error) {
	args := m.Called(ctx, create)
	row, _ := args.Get(0).(*storage.Budget)
	return row, args.Error(1)
}

func (m *mockBudgetTable) List(ctx context.Context, filter *storage.BudgetFilter) ([]*storage.Budget, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]*storage.Budget)
	return rows, args.Error(1)
}

func (m *mockBudgetTable) Update(ctx context.Context, id uuid.UUID, update *storage.BudgetUpdate) (*storage.Budget, error) {
	args := m.Called(ctx, id, update)
	row, _ := args.Get(0).(*storage.Budget)
	return row, args.Error(1)
}

func (m *mockBudgetTable) UpdateSpent(ctx context.Context, id uuid.UUID, spent decimal.Decimal) error {
	return m.Called(ctx, id, spent).Error(0)
}

func (m *mockBudgetTable) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	return m.Called(ctx, action).Error(0)
}
