package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
	"github.com/phatch9/Financial-Cloud-Management/internal/logging"
)

type budgetDeleter interface {
	DeleteBudget(ctx context.Context, ownerID, id uuid.UUID) error
}

// DeleteBudgetHandler handles DELETE /v1/budgets/{id}.
type DeleteBudgetHandler struct {
	BudgetService budgetDeleter
}

func NewDeleteBudgetHandler(svc budgetDeleter) *DeleteBudgetHandler {
	return &DeleteBudgetHandler{BudgetService: svc}
}

func (h *DeleteBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-budget",
		Method:        http.MethodDelete,
		Path:          "/v1/budgets/{id}",
		Summary:       "Delete a budget",
		Description:   "Deletes the budget. Transactions linked to it keep their budgetId.",
		Tags:          []string{"Budgets"},
		Security:      handlers.Bearer,
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteBudgetHandler) handle(ctx context.Context, input *BudgetIDInput) (*struct{}, error) {
	ownerID, err := handlers.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	id, err := handlers.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	stopTimer := func() {}
	if logData := logging.GetLogData(ctx); logData != nil {
		stopTimer = logData.AddTiming("deleteBudgetMs")
	}
	err = h.BudgetService.DeleteBudget(ctx, ownerID, id)
	stopTimer()
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to delete budget")
	}
	return nil, nil
}
