package ports

import (
	"context"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// ListingFilter is a field-equality filter over a kind's collection. Nil or
// zero fields are ignored.
type ListingFilter struct {
	Status   *domain.ListingStatus
	Category string
	OwnerID  string
}

// ListingRepository defines persistence for moderated listings. Each kind
// maps to its own collection with an independent public id sequence.
type ListingRepository interface {
	// MaxPublicID returns the highest public id assigned for the kind, or
	// 0 when the collection is empty.
	MaxPublicID(ctx context.Context, kind domain.Kind) (int, error)

	// Insert persists a new listing. The store enforces a unique index on
	// the public id and returns domain.ErrDuplicatePublicID when two
	// concurrent creates race onto the same candidate id.
	Insert(ctx context.Context, listing *domain.Listing) error

	Find(ctx context.Context, kind domain.Kind, filter ListingFilter) ([]domain.Listing, error)

	// FindByPublicID returns domain.ErrListingNotFound when absent.
	FindByPublicID(ctx context.Context, kind domain.Kind, publicID int) (*domain.Listing, error)

	// Replace overwrites the stored listing identified by kind + public id.
	Replace(ctx context.Context, listing *domain.Listing) (*domain.Listing, error)

	// DeleteByPublicID removes the listing and returns the deleted record
	// for audit echo, or domain.ErrListingNotFound.
	DeleteByPublicID(ctx context.Context, kind domain.Kind, publicID int) (*domain.Listing, error)
}
