package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phatch9/Financial-Cloud-Management/internal/access"
	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage/memory"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(memory.NewStorage().Users, Config{
		Secret:     testSecret,
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	return svc
}

func TestRegister_IssuesVerifiableSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "alice", "Alice@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "alice@example.com", session.Email)
	assert.Equal(t, "USER", session.Role)
	assert.NotEmpty(t, session.Token)

	identity, err := svc.Verify(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.NotEqual(t, uuid.Nil, identity.UserID)

	user, err := svc.CurrentUser(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestRegister_Conflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice2", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "email already exists", err.Error())

	_, err = svc.Register(ctx, "alice", "other@example.com", "secret1")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "username already exists", err.Error())
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name, username, email, password string
	}{
		{"short username", "al", "al@example.com", "secret1"},
		{"bad email", "alice", "not-an-email", "secret1"},
		{"short password", "alice", "alice@example.com", "12345"},
		{"password over 72 bytes", "alice", "alice@example.com", strings.Repeat("a", 73)},
		{"multibyte password over 72 bytes", "alice", "alice@example.com", strings.Repeat("é", 37)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestRegister_PasswordAtByteLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	password := strings.Repeat("a", 72)

	_, err := svc.Register(ctx, "alice", "alice@example.com", password)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", password)
	assert.NoError(t, err)
}

func TestLogin_UniformFailure(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	session, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)

	_, wrongPassword := svc.Login(ctx, "alice", "wrong-password")
	_, unknownUser := svc.Login(ctx, "mallory", "secret1")

	assert.ErrorIs(t, wrongPassword, apperr.ErrAuth)
	assert.ErrorIs(t, unknownUser, apperr.ErrAuth)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestVerify_RejectsBadTokens(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("another-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	unknownSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ghost",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"malformed":       "not.a.token",
		"wrong algorithm": hs512,
		"wrong key":       otherKey,
		"no expiry":       noExpiry,
		"unknown subject": unknownSubject,
		"truncated":       session.Token[:len(session.Token)-4],
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(ctx, token)
			assert.ErrorIs(t, err, apperr.ErrAuth)
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.Verify(ctx, session.Token)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestCurrentUser_Gone(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CurrentUser(context.Background(), access.Identity{UserID: uuid.Must(uuid.NewV4())})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
