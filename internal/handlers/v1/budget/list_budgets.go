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

// ListBudgetsOutput is the Huma output for listing budgets.
type ListBudgetsOutput struct {
	Body struct {
		Budgets []Budget `json:"budgets" doc:"The caller's budgets ordered by name"`
	}
}

type budgetLister interface {
	ListBudgets(ctx context.Context, ownerID uuid.UUID) ([]service.Budget, error)
}

// ListBudgetsHandler handles GET /v1/budgets.
type ListBudgetsHandler struct {
	BudgetService budgetLister
}

func NewListBudgetsHandler(svc budgetLister) *ListBudgetsHandler {
	return &ListBudgetsHandler{BudgetService: svc}
}

func (h *ListBudgetsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-budgets",
		Method:      http.MethodGet,
		Path:        "/v1/budgets",
		Summary:     "List budgets",
		Tags:        []string{"Budgets"},
		Security:    handlers.Bearer,
	}, h.handle)
}

func (h *ListBudgetsHandler) handle(ctx context.Context, _ *struct{}) (*ListBudgetsOutput, error) {
	ownerID, err := handlers.OwnerID(ctx)
	if err != nil {
		return nil, err
	}

	budgets, err := logging.Timed(ctx, "listBudgetsMs", func() ([]service.Budget, error) {
		return h.BudgetService.ListBudgets(ctx, ownerID)
	})
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to list budgets")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("budgetCount", len(budgets))
	}

	out := &ListBudgetsOutput{}
	out.Body.Budgets = make([]Budget, len(budgets))
	for i := range budgets {
		out.Body.Budgets[i] = toBudget(&budgets[i])
	}
	return out, nil
}
