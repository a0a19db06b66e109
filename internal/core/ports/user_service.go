package ports

import (
	"context"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// UserService implements the admin moderation surface for accounts.
type UserService interface {
	Approve(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error)
	Reject(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error)
	ListPending(ctx context.Context, actor *domain.User) ([]domain.User, error)
	ListAll(ctx context.Context, actor *domain.User) ([]domain.User, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
}
