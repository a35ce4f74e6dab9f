// Package auth registers users, checks their credentials and issues the
// bearer tokens the access middleware verifies.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/phatch9/Financial-Cloud-Management/internal/access"
	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6

	// bcrypt rejects longer input.
	maxPasswordBytes = 72
)

var (
	errInvalidCredentials = apperr.Auth("invalid username or password")
	errBadToken           = apperr.Auth("invalid or expired token")
	errUserNotFound       = apperr.NotFound("user not found")
)

// Session is returned on successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Email     string
	Role      string
}

// User is the public view of an account. It never carries the password hash.
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Role      string
	CreatedAt time.Time
}

type Config struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

type Service struct {
	users     storage.IUserTable
	secret    []byte
	ttl       time.Duration
	cost      int
	now       func() time.Time
	dummyHash []byte
}

func NewService(users storage.IUserTable, cfg Config) (*Service, error) {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	// Compared against when the username is unknown so both failure paths
	// cost one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}
	return &Service{
		users:     users,
		secret:    []byte(cfg.Secret),
		ttl:       cfg.TokenTTL,
		cost:      cfg.BcryptCost,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

func validateRegistration(username, email, password string) error {
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return apperr.Validation(fmt.Sprintf("username must be between %d and %d characters", minUsernameLen, maxUsernameLen))
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return apperr.Validation("email is invalid")
	}
	if len(password) < minPasswordLen {
		return apperr.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if len(password) > maxPasswordBytes {
		return apperr.Validation(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

// Register creates a USER account and signs it in.
func (s *Service) Register(ctx context.Context, username, email, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("users.ExistsByUsername: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("username already exists")
	}
	exists, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("users.ExistsByEmail: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	user, err := s.users.Insert(ctx, &storage.UserCreate{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         storage.RoleUser,
	})
	if errors.Is(err, storage.ErrDuplicate) {
		// Lost a race with a concurrent registration after the checks above.
		return nil, apperr.Conflict("username or email already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("users.Insert: %w", err)
	}

	logrus.WithField("username", user.Username).Info("Auth.Register")
	return s.session(user)
}

// Login checks credentials. Unknown users and wrong passwords fail the
// same way.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("users.FindByUsername: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return s.session(user)
}

// Verify resolves a bearer token to the identity it was issued for.
func (s *Service) Verify(ctx context.Context, token string) (access.Identity, error) {
	username, err := s.parseToken(token)
	if err != nil {
		logrus.WithError(err).Debug("Auth.Verify")
		return access.Identity{}, errBadToken
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return access.Identity{}, errBadToken
	}
	if err != nil {
		return access.Identity{}, fmt.Errorf("users.FindByUsername: %w", err)
	}

	return access.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}, nil
}

// CurrentUser returns the account behind identity.
func (s *Service) CurrentUser(ctx context.Context, identity access.Identity) (*User, error) {
	user, err := s.users.FindByID(ctx, identity.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("users.FindByID: %w", err)
	}
	return &User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *Service) session(user *storage.User) (*Session, error) {
	token, expiresAt, err := s.issueToken(user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issueToken: %w", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
	}, nil
}
