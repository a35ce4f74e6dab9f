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

// UpdateBudgetInput is the Huma input for updating a budget.
type UpdateBudgetInput struct {
	ID   string `path:"id" doc:"Budget UUID"`
	Body BudgetBody
}

type budgetUpdater interface {
	UpdateBudget(ctx context.Context, ownerID, id uuid.UUID, in service.BudgetInput) (*service.Budget, error)
}

// UpdateBudgetHandler handles PUT /v1/budgets/{id}.
type UpdateBudgetHandler struct {
	BudgetService budgetUpdater
}

func NewUpdateBudgetHandler(svc budgetUpdater) *UpdateBudgetHandler {
	return &UpdateBudgetHandler{BudgetService: svc}
}

func (h *UpdateBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-budget",
		Method:      http.MethodPut,
		Path:        "/v1/budgets/{id}",
		Summary:     "Update a budget",
		Description: "Replaces name, category and amount. Spent cannot be set by clients.",
		Tags:        []string{"Budgets"},
		Security:    handlers.Bearer,
	}, h.handle)
}

func (h *UpdateBudgetHandler) handle(ctx context.Context, input *UpdateBudgetInput) (*BudgetOutput, error) {
	ownerID, err := handlers.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	id, err := handlers.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	in, err := parseBudgetBody(&input.Body)
	if err != nil {
		return nil, err
	}

	budget, err := logging.Timed(ctx, "updateBudgetMs", func() (*service.Budget, error) {
		return h.BudgetService.UpdateBudget(ctx, ownerID, id, in)
	})
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to update budget")
	}
	return &BudgetOutput{Body: toBudget(budget)}, nil
}
