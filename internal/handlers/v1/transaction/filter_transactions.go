package transaction

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
	"github.com/phatch9/Financial-Cloud-Management/internal/logging"
	"github.com/phatch9/Financial-Cloud-Management/internal/service"
)

type transactionFilterer interface {
	FilterTransactions(ctx context.Context, ownerID uuid.UUID, filter service.TransactionFilter) ([]service.Transaction, error)
}

// FilterTransactionsHandler serves the four owner-scoped filter endpoints.
// Each builds a service.TransactionFilter and shares one query path.
type FilterTransactionsHandler struct {
	TransactionService transactionFilterer
}

func NewFilterTransactionsHandler(svc transactionFilterer) *FilterTransactionsHandler {
	return &FilterTransactionsHandler{TransactionService: svc}
}

type CategoryFilterInput struct {
	Category string `path:"category" doc:"Exact category to match"`
}

type DateRangeFilterInput struct {
	Start string `query:"start" required:"true" doc:"Inclusive lower bound, RFC3339 or YYYY-MM-DD"`
	End   string `query:"end" required:"true" doc:"Inclusive upper bound, RFC3339 or YYYY-MM-DD"`
}

type BudgetFilterInput struct {
	BudgetID string `path:"budgetId" doc:"Linked budget UUID"`
}

type TypeFilterInput struct {
	Type string `path:"type" doc:"INCOME or EXPENSE"`
}

func (h *FilterTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "filter-transactions-by-category",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/category/{category}",
		Summary:     "Filter transactions by category",
		Tags:        []string{"Transactions"},
		Security:    handlers.Bearer,
	}, h.byCategory)

	huma.Register(api, huma.Operation{
		OperationID: "filter-transactions-by-date-range",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/date-range",
		Summary:     "Filter transactions by date range",
		Description: "Both bounds are inclusive. A date without a time means midnight UTC.",
		Tags:        []string{"Transactions"},
		Security:    handlers.Bearer,
	}, h.byDateRange)

	huma.Register(api, huma.Operation{
		OperationID: "filter-transactions-by-budget",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/budget/{budgetId}",
		Summary:     "Filter transactions by budget",
		Tags:        []string{"Transactions"},
		Security:    handlers.Bearer,
	}, h.byBudget)

	huma.Register(api, huma.Operation{
		OperationID: "filter-transactions-by-type",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/type/{type}",
		Summary:     "Filter transactions by type",
		Tags:        []string{"Transactions"},
		Security:    handlers.Bearer,
	}, h.byType)
}

func (h *FilterTransactionsHandler) byCategory(ctx context.Context, input *CategoryFilterInput) (*TransactionsOutput, error) {
	return h.filter(ctx, service.TransactionFilter{Category: &input.Category})
}

func (h *FilterTransactionsHandler) byDateRange(ctx context.Context, input *DateRangeFilterInput) (*TransactionsOutput, error) {
	start, err := handlers.ParseTime("start", input.Start)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseTime("end", input.End)
	if err != nil {
		return nil, err
	}
	return h.filter(ctx, service.TransactionFilter{From: &start, To: &end})
}

func (h *FilterTransactionsHandler) byBudget(ctx context.Context, input *BudgetFilterInput) (*TransactionsOutput, error) {
	budgetID, err := handlers.ParseID("budgetId", input.BudgetID)
	if err != nil {
		return nil, err
	}
	return h.filter(ctx, service.TransactionFilter{BudgetID: &budgetID})
}

func (h *FilterTransactionsHandler) byType(ctx context.Context, input *TypeFilterInput) (*TransactionsOutput, error) {
	txType := service.TransactionType(strings.ToUpper(input.Type))
	return h.filter(ctx, service.TransactionFilter{Type: &txType})
}

func (h *FilterTransactionsHandler) filter(ctx context.Context, filter service.TransactionFilter) (*TransactionsOutput, error) {
	ownerID, err := handlers.OwnerID(ctx)
	if err != nil {
		return nil, err
	}

	transactions, err := logging.Timed(ctx, "filterTransactionsMs", func() ([]service.Transaction, error) {
		return h.TransactionService.FilterTransactions(ctx, ownerID, filter)
	})
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to filter transactions")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("transactionCount", len(transactions))
	}

	out := &TransactionsOutput{}
	out.Body.Transactions = toTransactions(transactions)
	return out, nil
}
