package ports

import (
	"context"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// RegisterInput carries the profile fields for a new account.
type RegisterInput struct {
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
	Location  string
	Phone     string
}

// AuthService implements registration, login, and per-request token
// verification.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Login returns a signed bearer token and the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)

	// VerifyToken resolves a bearer token to the current user record. A
	// missing, malformed, or expired token yields (nil, nil): the caller
	// proceeds as anonymous rather than failing the request.
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}
