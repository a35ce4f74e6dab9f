// Package seed loads a demo account with a few budgets and transactions.
// Everything is written through the services so spent totals are derived,
// never stored as given.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/phatch9/Financial-Cloud-Management/internal/access"
	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
	"github.com/phatch9/Financial-Cloud-Management/internal/auth"
	"github.com/phatch9/Financial-Cloud-Management/internal/service"
)

const (
	DemoUsername = "demo"
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo-password"
)

type accounts interface {
	Register(ctx context.Context, username, email, password string) (*auth.Session, error)
	Verify(ctx context.Context, token string) (access.Identity, error)
}

type seedBudget struct {
	name     string
	category string
	amount   string
}

type seedTransaction struct {
	description string
	amount      string
	category    string
	daysAgo     int
	txType      service.TransactionType
	budget      string
}

var budgets = []seedBudget{
	{"Cloud Compute (AWS)", "Infrastructure", "5000.00"},
	{"Software Licences (Q3)", "Software", "1500.00"},
	{"Server Hardware Refresh", "Hardware", "8000.00"},
}

var transactions = []seedTransaction{
	{"AWS EC2 Instance - Monthly", "450.00", "Infrastructure", 5, service.TransactionTypeExpense, "Cloud Compute (AWS)"},
	{"Client Payment - Project Alpha", "5000.00", "Income", 3, service.TransactionTypeIncome, ""},
	{"Office 365 Subscription", "150.00", "Software", 1, service.TransactionTypeExpense, "Software Licences (Q3)"},
	{"Dell Server Purchase", "3200.00", "Hardware", 10, service.TransactionTypeExpense, "Server Hardware Refresh"},
}

// Result names the demo owner so callers can log or inspect it.
type Result struct {
	OwnerID      uuid.UUID
	Budgets      int
	Transactions int
}

// Run registers the demo user and fills its account. It does nothing when the
// demo user already exists.
func Run(ctx context.Context, users accounts, svc *service.Service, now time.Time) (*Result, error) {
	session, err := users.Register(ctx, DemoUsername, DemoEmail, DemoPassword)
	if errors.Is(err, apperr.ErrConflict) {
		logrus.WithField("username", DemoUsername).Info("Seed.skipped")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	identity, err := users.Verify(ctx, session.Token)
	if err != nil {
		return nil, fmt.Errorf("Verify: %w", err)
	}
	ownerID := identity.UserID

	budgetIDs := make(map[string]uuid.UUID, len(budgets))
	for _, b := range budgets {
		created, err := svc.Budget.CreateBudget(ctx, ownerID, service.BudgetInput{
			Name:     b.name,
			Category: b.category,
			Amount:   decimal.RequireFromString(b.amount),
		})
		if err != nil {
			return nil, fmt.Errorf("CreateBudget %q: %w", b.name, err)
		}
		budgetIDs[b.name] = created.ID
	}

	for _, t := range transactions {
		in := service.TransactionInput{
			Description: t.description,
			Amount:      decimal.RequireFromString(t.amount),
			Category:    t.category,
			OccurredAt:  null.From(now.AddDate(0, 0, -t.daysAgo)),
			Type:        t.txType,
		}
		if t.budget != "" {
			in.BudgetID = null.From(budgetIDs[t.budget])
		}
		if _, err := svc.Transaction.CreateTransaction(ctx, ownerID, in); err != nil {
			return nil, fmt.Errorf("CreateTransaction %q: %w", t.description, err)
		}
	}

	result := &Result{OwnerID: ownerID, Budgets: len(budgets), Transactions: len(transactions)}
	logrus.WithFields(logrus.Fields{
		"ownerID":      ownerID.String(),
		"budgets":      result.Budgets,
		"transactions": result.Transactions,
	}).Info("Seed.complete")
	return result, nil
}
