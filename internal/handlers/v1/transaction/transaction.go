package transaction

import (
	"net/http"
	"strings"

	"github.com/aarondl/opt/null"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
	"github.com/phatch9/Financial-Cloud-Management/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction UUID"`
	Description string `json:"description" doc:"What the money was for"`
	Amount      string `json:"amount" doc:"Positive decimal amount"`
	Category    string `json:"category" doc:"Free-form category"`
	OccurredAt  string `json:"occurredAt" doc:"RFC3339 time the transaction happened"`
	Type        string `json:"type" enum:"INCOME,EXPENSE" doc:"Transaction type"`
	BudgetID    string `json:"budgetId,omitempty" doc:"Linked budget UUID"`
	ReceiptURL  string `json:"receiptUrl,omitempty" doc:"Opaque receipt reference"`
	CreatedAt   string `json:"createdAt" doc:"RFC3339 creation time"`
}

// TransactionBody is the request body for creating or replacing a
// transaction. The owner is always the caller.
type TransactionBody struct {
	Description string `json:"description" minLength:"1" maxLength:"500" doc:"What the money was for"`
	Amount      string `json:"amount" required:"true" doc:"Positive decimal amount"`
	Category    string `json:"category,omitempty" maxLength:"255" doc:"Free-form category"`
	OccurredAt  string `json:"occurredAt,omitempty" doc:"RFC3339 or YYYY-MM-DD, defaults to now"`
	Type        string `json:"type" doc:"INCOME or EXPENSE"`
	BudgetID    string `json:"budgetId,omitempty" doc:"Budget UUID to link"`
	ReceiptURL  string `json:"receiptUrl,omitempty" maxLength:"2048" doc:"Opaque receipt reference"`
	OwnerID     any    `json:"ownerId,omitempty" doc:"Ignored. The owner is always the caller"`
}

// TransactionOutput wraps a single transaction response.
type TransactionOutput struct {
	Body Transaction
}

// TransactionsOutput wraps an unpaginated transaction list.
type TransactionsOutput struct {
	Body struct {
		Transactions []Transaction `json:"transactions"`
	}
}

func parseTransactionBody(body *TransactionBody) (service.TransactionInput, error) {
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return service.TransactionInput{}, huma.NewError(http.StatusBadRequest, "invalid amount")
	}

	in := service.TransactionInput{
		Description: body.Description,
		Amount:      amount,
		Category:    body.Category,
		Type:        service.TransactionType(strings.ToUpper(strings.TrimSpace(body.Type))),
	}
	if body.OccurredAt != "" {
		occurredAt, err := handlers.ParseTime("occurredAt", body.OccurredAt)
		if err != nil {
			return service.TransactionInput{}, err
		}
		in.OccurredAt = null.From(occurredAt)
	}
	if body.BudgetID != "" {
		budgetID, err := handlers.ParseID("budgetId", body.BudgetID)
		if err != nil {
			return service.TransactionInput{}, err
		}
		in.BudgetID = null.From(budgetID)
	}
	if body.ReceiptURL != "" {
		in.ReceiptURL = null.From(body.ReceiptURL)
	}
	return in, nil
}

func toTransaction(tx *service.Transaction) Transaction {
	out := Transaction{
		ID:          tx.ID.String(),
		Description: tx.Description,
		Amount:      tx.Amount.StringFixed(2),
		Category:    tx.Category,
		OccurredAt:  handlers.FormatTime(tx.OccurredAt),
		Type:        string(tx.Type),
		CreatedAt:   handlers.FormatTime(tx.CreatedAt),
	}
	if budgetID, ok := tx.BudgetID.Get(); ok && budgetID != uuid.Nil {
		out.BudgetID = budgetID.String()
	}
	if receiptURL, ok := tx.ReceiptURL.Get(); ok {
		out.ReceiptURL = receiptURL
	}
	return out
}

func toTransactions(txs []service.Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i := range txs {
		out[i] = toTransaction(&txs[i])
	}
	return out
}
