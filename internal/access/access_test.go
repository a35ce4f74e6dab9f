package access

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"

	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
)

type fakeVerifier struct {
	tokens map[string]Identity
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (Identity, error) {
	id, ok := f.tokens[token]
	if !ok {
		return Identity{}, apperr.Auth("invalid or expired token")
	}
	return id, nil
}

type whoAmIOutput struct {
	Body struct {
		Username string `json:"username"`
	}
}

func newTestAPI(t *testing.T, verifier Verifier) humatest.TestAPI {
	_, api := humatest.New(t)
	api.UseMiddleware(Middleware(api, verifier))

	huma.Register(api, huma.Operation{
		OperationID: "whoami",
		Method:      http.MethodGet,
		Path:        "/whoami",
		Security:    []map[string][]string{{SecurityScheme: {}}},
	}, func(ctx context.Context, _ *struct{}) (*whoAmIOutput, error) {
		out := &whoAmIOutput{}
		if id, ok := FromContext(ctx); ok {
			out.Body.Username = id.Username
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "public",
		Method:      http.MethodGet,
		Path:        "/public",
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		return nil, nil
	})

	return api
}

func TestMiddleware(t *testing.T) {
	alice := Identity{UserID: uuid.Must(uuid.NewV4()), Username: "alice", Role: "USER"}
	api := newTestAPI(t, &fakeVerifier{tokens: map[string]Identity{"good": alice}})

	tests := []struct {
		name       string
		path       string
		header     []any
		wantStatus int
		wantBody   string
	}{
		{"valid token", "/whoami", []any{"Authorization: Bearer good"}, http.StatusOK, `"username":"alice"`},
		{"lowercase scheme", "/whoami", []any{"Authorization: bearer good"}, http.StatusOK, `"username":"alice"`},
		{"missing header", "/whoami", nil, http.StatusUnauthorized, "missing bearer token"},
		{"basic auth", "/whoami", []any{"Authorization: Basic YWxpY2U6c2VjcmV0"}, http.StatusUnauthorized, "missing bearer token"},
		{"unknown token", "/whoami", []any{"Authorization: Bearer bad"}, http.StatusUnauthorized, "invalid or expired token"},
		{"public operation", "/public", nil, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Get(tt.path, tt.header...)
			assert.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequireOwner(t *testing.T) {
	owner := uuid.Must(uuid.NewV4())
	notFound := apperr.NotFound("budget not found")

	assert.NoError(t, RequireOwner(owner, owner, notFound))
	assert.Equal(t, notFound, RequireOwner(uuid.Must(uuid.NewV4()), owner, notFound))
	assert.Equal(t, notFound, RequireOwner(uuid.Nil, uuid.Nil, notFound))
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	id := Identity{UserID: uuid.Must(uuid.NewV4()), Username: "bob"}
	got, ok := FromContext(WithIdentity(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
