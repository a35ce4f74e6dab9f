package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
	"github.com/phatch9/Financial-Cloud-Management/internal/logging"
	"github.com/phatch9/Financial-Cloud-Management/internal/service"
)

// Summary is the API response model for the budget summary.
type Summary struct {
	TotalBudgeted     string `json:"totalBudgeted" doc:"Sum of budget amounts"`
	TotalSpent        string `json:"totalSpent" doc:"Sum of budget spent totals"`
	TotalRemaining    string `json:"totalRemaining" doc:"totalBudgeted minus totalSpent, may be negative"`
	OverBudgetCount   int    `json:"overBudgetCount" doc:"Budgets whose spent exceeds their amount"`
	TotalBudgetsCount int    `json:"totalBudgetsCount" doc:"Number of budgets"`
}

type SummaryOutput struct {
	Body Summary
}

type budgetSummarizer interface {
	GetBudgetSummary(ctx context.Context, ownerID uuid.UUID) (*service.BudgetSummary, error)
}

// BudgetSummaryHandler handles GET /v1/budgets/summary.
type BudgetSummaryHandler struct {
	BudgetService budgetSummarizer
}

func NewBudgetSummaryHandler(svc budgetSummarizer) *BudgetSummaryHandler {
	return &BudgetSummaryHandler{BudgetService: svc}
}

func (h *BudgetSummaryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "budget-summary",
		Method:      http.MethodGet,
		Path:        "/v1/budgets/summary",
		Summary:     "Summarize budgets",
		Description: "Totals across every budget owned by the caller.",
		Tags:        []string{"Budgets"},
		Security:    handlers.Bearer,
	}, h.handle)
}

func (h *BudgetSummaryHandler) handle(ctx context.Context, _ *struct{}) (*SummaryOutput, error) {
	ownerID, err := handlers.OwnerID(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := logging.Timed(ctx, "budgetSummaryMs", func() (*service.BudgetSummary, error) {
		return h.BudgetService.GetBudgetSummary(ctx, ownerID)
	})
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to summarize budgets")
	}

	return &SummaryOutput{Body: Summary{
		TotalBudgeted:     summary.TotalBudgeted.StringFixed(2),
		TotalSpent:        summary.TotalSpent.StringFixed(2),
		TotalRemaining:    summary.TotalRemaining.StringFixed(2),
		OverBudgetCount:   summary.OverBudgetCount,
		TotalBudgetsCount: summary.TotalBudgetsCount,
	}}, nil
}
