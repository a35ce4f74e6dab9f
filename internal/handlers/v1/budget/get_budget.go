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

// BudgetIDInput addresses a single budget.
type BudgetIDInput struct {
	ID string `path:"id" doc:"Budget UUID"`
}

type budgetGetter interface {
	GetBudget(ctx context.Context, ownerID, id uuid.UUID) (*service.Budget, error)
}

// GetBudgetHandler handles GET /v1/budgets/{id}.
type GetBudgetHandler struct {
	BudgetService budgetGetter
}

func NewGetBudgetHandler(svc budgetGetter) *GetBudgetHandler {
	return &GetBudgetHandler{BudgetService: svc}
}

func (h *GetBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-budget",
		Method:      http.MethodGet,
		Path:        "/v1/budgets/{id}",
		Summary:     "Get a budget",
		Tags:        []string{"Budgets"},
		Security:    handlers.Bearer,
	}, h.handle)
}

func (h *GetBudgetHandler) handle(ctx context.Context, input *BudgetIDInput) (*BudgetOutput, error) {
	ownerID, err := handlers.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	id, err := handlers.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	budget, err := logging.Timed(ctx, "getBudgetMs", func() (*service.Budget, error) {
		return h.BudgetService.GetBudget(ctx, ownerID, id)
	})
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to get budget")
	}
	return &BudgetOutput{Body: toBudget(budget)}, nil
}
