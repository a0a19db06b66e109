package ports

import (
	"context"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// ListingService implements the moderated-listing use cases for one kind at
// a time. Authorization is decided inside the service so handlers never
// compare roles themselves.
type ListingService interface {
	// Create submits a new listing. The result is always pending,
	// regardless of any status supplied by the client.
	Create(ctx context.Context, actor *domain.User, kind domain.Kind, content domain.ListingContent) (*domain.Listing, error)

	// GetApproved returns the public catalogue, optionally filtered by
	// category. No authentication required.
	GetApproved(ctx context.Context, kind domain.Kind, category string) ([]domain.Listing, error)

	// GetMine returns the actor's own listings in any status.
	GetMine(ctx context.Context, actor *domain.User, kind domain.Kind) ([]domain.Listing, error)

	// GetPending and GetAll are admin-only moderation views.
	GetPending(ctx context.Context, actor *domain.User, kind domain.Kind) ([]domain.Listing, error)
	GetAll(ctx context.Context, actor *domain.User, kind domain.Kind) ([]domain.Listing, error)

	// GetByPublicID returns a single listing. Approved listings are
	// public; pending ones are visible to the owner and admins only.
	GetByPublicID(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int) (*domain.Listing, error)

	// Update edits a listing. An owner edit snapshots the previous content
	// and resets the listing to pending; an admin edit preserves status
	// unless explicitStatus is non-nil.
	Update(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int, content domain.ListingContent, explicitStatus *domain.ListingStatus) (*domain.Listing, error)

	// Approve makes the listing publicly visible. Admin only.
	Approve(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int) (*domain.Listing, error)

	// Delete removes the listing and returns the deleted record.
	Delete(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int) (*domain.Listing, error)
}
