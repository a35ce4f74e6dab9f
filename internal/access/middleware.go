package access

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
)

// SecurityScheme is the huma security scheme name for bearer tokens.
const SecurityScheme = "bearer"

// Verifier resolves a bearer token to the identity it was issued for.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Middleware rejects requests to operations that declare the bearer scheme
// unless they carry a valid token, and attaches the caller's Identity.
func Middleware(api huma.API, verifier Verifier) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !requiresBearer(ctx.Operation()) {
			next(ctx)
			return
		}

		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing bearer token")
			return
		}

		identity, err := verifier.Verify(ctx.Context(), token)
		if err != nil {
			status := apperr.HTTPStatus(err)
			if status == http.StatusInternalServerError {
				logrus.WithError(err).Error("Access.Verify")
			} else {
				status = http.StatusUnauthorized
			}
			_ = huma.WriteErr(api, ctx, status, apperr.Message(err, "internal error"))
			return
		}

		next(huma.WithValue(ctx, identityKey{}, identity))
	}
}

func requiresBearer(op *huma.Operation) bool {
	if op == nil {
		return false
	}
	for _, requirement := range op.Security {
		if _, ok := requirement[SecurityScheme]; ok {
			return true
		}
	}
	return false
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
