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

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body TransactionBody
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, ownerID uuid.UUID, in service.TransactionInput) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transactions.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transactions",
		Summary:     "Create transaction",
		Description: "Creates a transaction and recalculates the linked budget.",
		Tags:        []string{"Transactions"},
		Security:    handlers.Bearer,
	}, h.handle)
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*TransactionOutput, error) {
	ownerID, err := handlers.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	in, err := parseTransactionBody(&input.Body)
	if err != nil {
		return nil, err
	}

	tx, err := logging.Timed(ctx, "createTransactionMs", func() (*service.Transaction, error) {
		return h.TransactionService.CreateTransaction(ctx, ownerID, in)
	})
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to create transaction")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("transactionID", tx.ID.String())
	}
	return &TransactionOutput{Body: toTransaction(tx)}, nil
}
