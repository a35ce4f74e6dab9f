package auth

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	authsvc "github.com/phatch9/Financial-Cloud-Management/internal/auth"
	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
	"github.com/phatch9/Financial-Cloud-Management/internal/logging"
)

type LoginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginInput struct {
	Body LoginBody
}

type loginer interface {
	Login(ctx context.Context, username, password string) (*authsvc.Session, error)
}

// LoginHandler handles POST /v1/auth/login.
type LoginHandler struct {
	AuthService loginer
}

func NewLoginHandler(svc loginer) *LoginHandler {
	return &LoginHandler{AuthService: svc}
}

func (h *LoginHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/v1/auth/login",
		Summary:     "Log in",
		Tags:        []string{"Auth"},
	}, h.handle)
}

func (h *LoginHandler) handle(ctx context.Context, input *LoginInput) (*SessionOutput, error) {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("username", input.Body.Username)
	}

	session, err := logging.Timed(ctx, "loginMs", func() (*authsvc.Session, error) {
		return h.AuthService.Login(ctx, input.Body.Username, input.Body.Password)
	})
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to log in")
	}
	return &SessionOutput{Body: toSession(session)}, nil
}
