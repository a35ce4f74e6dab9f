package auth

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	authsvc "github.com/phatch9/Financial-Cloud-Management/internal/auth"
	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
	"github.com/phatch9/Financial-Cloud-Management/internal/logging"
)

// RegisterBody is the request body for registering a user.
type RegisterBody struct {
	Username string `json:"username" doc:"3 to 50 characters"`
	Email    string `json:"email" doc:"Well-formed email address"`
	Password string `json:"password" doc:"At least 6 characters"`
}

type RegisterInput struct {
	Body RegisterBody
}

type registerer interface {
	Register(ctx context.Context, username, email, password string) (*authsvc.Session, error)
}

// RegisterHandler handles POST /v1/auth/register.
type RegisterHandler struct {
	AuthService registerer
}

func NewRegisterHandler(svc registerer) *RegisterHandler {
	return &RegisterHandler{AuthService: svc}
}

func (h *RegisterHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/v1/auth/register",
		Summary:     "Register a user",
		Description: "Creates a USER account and returns a session for it.",
		Tags:        []string{"Auth"},
	}, h.handle)
}

func (h *RegisterHandler) handle(ctx context.Context, input *RegisterInput) (*SessionOutput, error) {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("username", input.Body.Username)
	}

	session, err := logging.Timed(ctx, "registerMs", func() (*authsvc.Session, error) {
		return h.AuthService.Register(ctx, input.Body.Username, input.Body.Email, input.Body.Password)
	})
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to register")
	}
	return &SessionOutput{Body: toSession(session)}, nil
}
