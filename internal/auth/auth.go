// Package auth defines the pluggable login check behind POST
// /v1/auth/login.  Permissive, the default, accepts any non-empty
// credential pair; Static verifies a configured admin identity.  A
// real directory check can be substituted without touching handlers.
package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login, regardless of
// which part of the pair was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator validates a login attempt.  Implementations must treat
// the password as sensitive and never log it.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) error
}

// Permissive accepts any non-empty email/password pair.  It exists for
// demo deployments and is NOT a security boundary.
type Permissive struct{}

func (Permissive) Authenticate(_ context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// Static authenticates a single admin identity against a bcrypt hash
// loaded from configuration.
type Static struct {
	Email    string
	PassHash string
}

func (s Static) Authenticate(_ context.Context, email, password string) error {
	if !strings.EqualFold(strings.TrimSpace(email), s.Email) {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.PassHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// FromConfig picks the authenticator: Static when an admin hash is
// configured, Permissive otherwise.
func FromConfig(adminEmail, adminPassHash string) Authenticator {
	if adminPassHash != "" {
		return Static{Email: adminEmail, PassHash: adminPassHash}
	}
	return Permissive{}
}
