package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
	"github.com/phatch9/Financial-Cloud-Management/internal/logging"
	"github.com/phatch9/Financial-Cloud-Management/internal/service"
)

// CreateBudgetInput is the Huma input for creating a budget.
type CreateBudgetInput struct {
	Body BudgetBody
}

type budgetCreator interface {
	CreateBudget(ctx context.Context, ownerID uuid.UUID, in service.BudgetInput) (*service.Budget, error)
}

// CreateBudgetHandler handles POST /v1/budgets.
type CreateBudgetHandler struct {
	BudgetService budgetCreator
}

func NewCreateBudgetHandler(svc budgetCreator) *CreateBudgetHandler {
	return &CreateBudgetHandler{BudgetService: svc}
}

// Register registers the create budget endpoint with the Huma API.
func (h *CreateBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-budget",
		Method:      http.MethodPost,
		Path:        "/v1/budgets",
		Summary:     "Create a budget",
		Description: "Creates a budget owned by the caller with nothing spent.",
		Tags:        []string{"Budgets"},
		Security:    handlers.Bearer,
	}, h.handle)
}

func parseBudgetBody(body *BudgetBody) (service.BudgetInput, error) {
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return service.BudgetInput{}, huma.NewError(http.StatusBadRequest, "invalid amount")
	}
	return service.BudgetInput{
		Name:     body.Name,
		Category: body.Category,
		Amount:   amount,
	}, nil
}

func (h *CreateBudgetHandler) handle(ctx context.Context, input *CreateBudgetInput) (*BudgetOutput, error) {
	ownerID, err := handlers.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	in, err := parseBudgetBody(&input.Body)
	if err != nil {
		return nil, err
	}

	budget, err := logging.Timed(ctx, "createBudgetMs", func() (*service.Budget, error) {
		return h.BudgetService.CreateBudget(ctx, ownerID, in)
	})
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to create budget")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("budgetID", budget.ID.String())
	}
	return &BudgetOutput{Body: toBudget(budget)}, nil
}
