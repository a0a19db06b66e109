package ports

import (
	"context"
	"time"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts the user and returns the stored record. Returns
	// domain.ErrEmailTaken when the unique email index is violated.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByApproval lists users in the given approval state.
	FindByApproval(ctx context.Context, status domain.ApprovalStatus) ([]domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)

	// SetApproval updates the approval state and records who decided and
	// when. Returns domain.ErrUserNotFound when id is absent.
	SetApproval(ctx context.Context, id string, status domain.ApprovalStatus, decidedBy string, at time.Time) (*domain.User, error)

	// Delete removes the user, returning the deleted record for audit echo.
	Delete(ctx context.Context, id string) (*domain.User, error)
}
