package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phatch9/Financial-Cloud-Management/internal/access"
	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

func TestError_MapsKinds(t *testing.T) {
	UseMessageErrors()
	ctx := context.Background()

	assert.Equal(t, http.StatusBadRequest, statusOf(t, Error(ctx, apperr.Validation("amount must be positive"), "x")))
	assert.Equal(t, http.StatusBadRequest, statusOf(t, Error(ctx, apperr.Conflict("email already exists"), "x")))
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, Error(ctx, apperr.Auth("invalid username or password"), "x")))
	assert.Equal(t, http.StatusNotFound, statusOf(t, Error(ctx, apperr.NotFound("budget not found"), "x")))

	err := Error(ctx, errors.New("pq: connection reset"), "failed to list budgets")
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	assert.Equal(t, "failed to list budgets", err.Error())
}

func TestUseMessageErrors_ValidationIs400(t *testing.T) {
	UseMessageErrors()

	err := huma.NewError(http.StatusUnprocessableEntity, "validation failed", &huma.ErrorDetail{Message: "expected number", Location: "body.amount"})
	assert.Equal(t, http.StatusBadRequest, err.GetStatus())
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "expected number")
}

func TestOwnerID(t *testing.T) {
	_, err := OwnerID(context.Background())
	assert.Error(t, err)

	id := uuid.Must(uuid.NewV4())
	got, err := OwnerID(access.WithIdentity(context.Background(), access.Identity{UserID: id}))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{"2024-01-01T00:00:00Z", "2024-01-01T00:00:00", "2024-01-01", "2024-01-01T02:00:00+02:00"} {
		got, err := ParseTime("start", value)
		require.NoError(t, err, value)
		assert.True(t, want.Equal(got), value)
	}

	_, err := ParseTime("start", "yesterday")
	assert.Error(t, err)
}
