package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
	"github.com/phatch9/Financial-Cloud-Management/internal/logging"
	"github.com/phatch9/Financial-Cloud-Management/internal/service"
)

type UpdateTransactionInput struct {
	ID   string `path:"id" doc:"Transaction UUID"`
	Body TransactionBody
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, ownerID, id uuid.UUID, in service.TransactionInput) (*service.Transaction, error)
}

// UpdateTransactionHandler handles PUT /v1/transactions/{id}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/transactions/{id}",
		Summary:     "Update transaction",
		Description: "Replaces every mutable field and recalculates the old and new linked budgets.",
		Tags:        []string{"Transactions"},
		Security:    handlers.Bearer,
	}, h.handle)
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*TransactionOutput, error) {
	ownerID, err := handlers.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	id, err := handlers.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	in, err := parseTransactionBody(&input.Body)
	if err != nil {
		return nil, err
	}

	tx, err := logging.Timed(ctx, "updateTransactionMs", func() (*service.Transaction, error) {
		return h.TransactionService.UpdateTransaction(ctx, ownerID, id, in)
	})
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to update transaction")
	}
	return &TransactionOutput{Body: toTransaction(tx)}, nil
}
