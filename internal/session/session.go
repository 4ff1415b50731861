package session

import (
	"fmt"
	"time"

	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Session is the signed-in user's identity plus the API token
type Session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// IsZero reports whether nobody is signed in
func (s Session) IsZero() bool {
	return s.User.ID == "" && s.Token == ""
}

// WithUser returns a copy of the session carrying the updated identity
// record. The token is kept, the user is replaced as a whole.
func (s Session) WithUser(u models.User) Session {
	return Session{User: u, Token: s.Token}
}

// TokenExpiresAt reads the exp claim of the auth token. The signature is
// not verified; the server stays the authority on token validity.
func (s Session) TokenExpiresAt() (time.Time, bool, error) {
	if s.Token == "" {
		return time.Time{}, false, nil
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse session token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}

// TokenExpired reports whether the token carries an exp claim in the past
func (s Session) TokenExpired(now time.Time) bool {
	exp, ok, err := s.TokenExpiresAt()
	if err != nil || !ok {
		return false
	}
	return now.After(exp)
}
