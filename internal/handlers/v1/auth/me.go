package auth

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/phatch9/Financial-Cloud-Management/internal/access"
	authsvc "github.com/phatch9/Financial-Cloud-Management/internal/auth"
	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
)

// User is the response body of GET /v1/auth/me.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

type UserOutput struct {
	Body User
}

type currentUserGetter interface {
	CurrentUser(ctx context.Context, identity access.Identity) (*authsvc.User, error)
}

// MeHandler handles GET /v1/auth/me.
type MeHandler struct {
	AuthService currentUserGetter
}

func NewMeHandler(svc currentUserGetter) *MeHandler {
	return &MeHandler{AuthService: svc}
}

func (h *MeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "current-user",
		Method:      http.MethodGet,
		Path:        "/v1/auth/me",
		Summary:     "Get the authenticated user",
		Tags:        []string{"Auth"},
		Security:    handlers.Bearer,
	}, h.handle)
}

func (h *MeHandler) handle(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	identity, ok := access.FromContext(ctx)
	if !ok {
		return nil, huma.NewError(http.StatusUnauthorized, "missing bearer token")
	}

	user, err := h.AuthService.CurrentUser(ctx, identity)
	if err != nil {
		return nil, handlers.Error(ctx, err, "failed to load user")
	}
	return &UserOutput{Body: User{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: handlers.FormatTime(user.CreatedAt),
	}}, nil
}
