package budget

import (
	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
	"github.com/phatch9/Financial-Cloud-Management/internal/service"
)

// Budget is the API response model for a budget.
type Budget struct {
	ID        string `json:"id" doc:"Budget UUID"`
	Name      string `json:"name" doc:"Budget name"`
	Category  string `json:"category" doc:"Budget category"`
	Amount    string `json:"amount" doc:"Budgeted ceiling as a decimal string"`
	Spent     string `json:"spent" doc:"Sum of linked expenses as a decimal string"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
}

// BudgetBody is the request body for creating or updating a budget. Spent
// and owner are accepted but ignored.
type BudgetBody struct {
	Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Budget name"`
	Category string `json:"category,omitempty" maxLength:"255" doc:"Budget category"`
	Amount   string `json:"amount" required:"true" doc:"Budgeted ceiling, non-negative decimal string"`
	Spent    any    `json:"spent,omitempty" doc:"Ignored. Spent is derived from linked expenses"`
	OwnerID  any    `json:"ownerId,omitempty" doc:"Ignored. The owner is always the caller"`
}

// BudgetOutput wraps a single budget response.
type BudgetOutput struct {
	Body Budget
}

func toBudget(b *service.Budget) Budget {
	return Budget{
		ID:        b.ID.String(),
		Name:      b.Name,
		Category:  b.Category,
		Amount:    b.Amount.StringFixed(2),
		Spent:     b.Spent.StringFixed(2),
		CreatedAt: handlers.FormatTime(b.CreatedAt),
	}
}
