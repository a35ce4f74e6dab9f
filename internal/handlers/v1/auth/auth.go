package auth

import (
	authsvc "github.com/phatch9/Financial-Cloud-Management/internal/auth"
	"github.com/phatch9/Financial-Cloud-Management/internal/handlers"
)

const tokenType = "Bearer"

// Session is the response body of register and login.
type Session struct {
	Token     string `json:"token" doc:"Signed bearer token"`
	TokenType string `json:"tokenType" doc:"Always Bearer"`
	ExpiresAt string `json:"expiresAt" doc:"RFC3339 token expiry"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// SessionOutput wraps a session response.
type SessionOutput struct {
	Body Session
}

func toSession(s *authsvc.Session) Session {
	return Session{
		Token:     s.Token,
		TokenType: tokenType,
		ExpiresAt: handlers.FormatTime(s.ExpiresAt),
		Username:  s.Username,
		Email:     s.Email,
		Role:      s.Role,
	}
}
