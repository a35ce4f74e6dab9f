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

// TransactionIDInput addresses a single transaction.
type TransactionIDInput struct {
	ID string `path:"id" doc:"Transaction UUID"`
}

type transactionGetter interface {
	GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*service.Transaction, error)
}

// GetTransactionHandler handles GET /v1/transactions/{id}.
type GetTransactionHandler struct {
	TransactionService transactionGetter
}

func NewGetTransactionHandler(svc transactionGetter) *GetTransactionHandler {
	return &GetTransactionHandler{TransactionService: svc}
}

func (h *GetTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/{id}",
		Summary:     "Get transaction",
		Tags:        []string{"Transactions"},
		Security:    handlers.Bearer,
	}, h.handle)
}

func (h *GetTransactionHandler) handle(ctx context.Context, input *TransactionIDInput) (*TransactionOutput, error) {
	ownerID, err := handlers.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	id, err := handlers.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	tx, err := logging.Timed(ctx, "getTransactionMs", func() (*service.Transaction, error) {
		return h.TransactionService.GetTransaction(ctx, ownerID, id)
	})
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to get transaction")
	}
	return &TransactionOutput{Body: toTransaction(tx)}, nil
}
