package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/phatch9/Financial-Cloud-Management/internal/access"
	"github.com/phatch9/Financial-Cloud-Management/internal/auth"
	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
	authhandler "github.com/phatch9/Financial-Cloud-Management/internal/handlers/v1/auth"
	"github.com/phatch9/Financial-Cloud-Management/internal/handlers/v1/budget"
	"github.com/phatch9/Financial-Cloud-Management/internal/handlers/v1/status"
	"github.com/phatch9/Financial-Cloud-Management/internal/handlers/v1/transaction"
	"github.com/phatch9/Financial-Cloud-Management/internal/logging"
	"github.com/phatch9/Financial-Cloud-Management/internal/service"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Storage *storage.Storage
	Auth    *auth.Service
	Service *service.Service
}

// Handler builds the mux serving /status and every v1 operation.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	config := huma.DefaultConfig("Financial Cloud Management API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		access.SecurityScheme: {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}

	handlers.UseMessageErrors()
	api := humago.New(mux, config)
	api.UseMiddleware(
		logging.Middleware(r.Logger),
		access.Middleware(api, r.Auth),
	)

	authhandler.NewRegisterHandler(r.Auth).Register(api)
	authhandler.NewLoginHandler(r.Auth).Register(api)
	authhandler.NewMeHandler(r.Auth).Register(api)

	budgets := r.Service.Budget
	budget.NewListBudgetsHandler(budgets).Register(api)
	budget.NewBudgetSummaryHandler(budgets).Register(api)
	budget.NewCreateBudgetHandler(budgets).Register(api)
	budget.NewGetBudgetHandler(budgets).Register(api)
	budget.NewUpdateBudgetHandler(budgets).Register(api)
	budget.NewDeleteBudgetHandler(budgets).Register(api)

	transactions := r.Service.Transaction
	transaction.NewListTransactionsHandler(transactions).Register(api)
	transaction.NewFilterTransactionsHandler(transactions).Register(api)
	transaction.NewCreateTransactionHandler(transactions).Register(api)
	transaction.NewGetTransactionHandler(transactions).Register(api)
	transaction.NewUpdateTransactionHandler(transactions).Register(api)
	transaction.NewDeleteTransactionHandler(transactions).Register(api)

	statusHandler := status.NewHandler(r.Storage)
	mux.HandleFunc("/status", logging.HandlerFunc("Status", r.Logger, statusHandler.Handler))

	return mux
}

// Serve listens until ctx is canceled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		return err
	}
	return nil
}
