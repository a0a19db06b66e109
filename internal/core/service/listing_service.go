package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/api/metrics"
	"github.com/farmlink/marketplace-api/internal/core/authz"
	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// maxIDAttempts bounds the public-id collision retry loop.
const maxIDAttempts = 10

// ListingCache abstracts the approved-catalogue cache (Redis). A (nil, nil)
// result is a miss; cache failures degrade to store reads, never errors.
type ListingCache interface {
	GetApproved(ctx context.Context, kind domain.Kind, category string) ([]domain.Listing, error)
	SetApproved(ctx context.Context, kind domain.Kind, category string, listings []domain.Listing) error
	Invalidate(ctx context.Context, kind domain.Kind) error
}

// ListingService implements the moderated-listing use cases.
type ListingService struct {
	repo  ports.ListingRepository
	cache ListingCache
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewListingService(repo ports.ListingRepository, cache ListingCache, audit ports.AuditRecorder, log zerolog.Logger) *ListingService {
	return &ListingService{repo: repo, cache: cache, audit: audit, log: log}
}

// Create submits a new listing for moderation. The listing always starts
// pending; any status supplied by the client is discarded before this point.
//
// Public ids are sequential per kind starting at domain.BasePublicID. The
// allocator takes max existing id + 1 and relies on the store's unique index
// to detect a concurrent create racing onto the same candidate: on conflict
// it increments and retries, bounded by maxIDAttempts. A count-based scheme
// would recycle ids after deletions, so the maximum is authoritative.
func (s *ListingService) Create(ctx context.Context, actor *domain.User, kind domain.Kind, content domain.ListingContent) (*domain.Listing, error) {
	if err := authz.Authorize(actor, authz.ActionCreateListing, authz.Resource{}).Err(); err != nil {
		return nil, err
	}
	if !domain.ValidKind(kind) {
		return nil, fmt.Errorf("%w: unknown listing kind %q", domain.ErrValidation, kind)
	}

	now := time.Now().UTC()
	listing := domain.NewListing(kind, actor.ID, content, now)

	maxID, err := s.repo.MaxPublicID(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("read max public id: %w", err)
	}
	candidate := maxID + 1
	if maxID == 0 {
		candidate = domain.BasePublicID
	}

	inserted := false
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		listing.PublicID = candidate
		err = s.repo.Insert(ctx, listing)
		if err == nil {
			inserted = true
			break
		}
		if !errors.Is(err, domain.ErrDuplicatePublicID) {
			return nil, fmt.Errorf("insert listing: %w", err)
		}
		metrics.IDAllocationRetriesTotal.WithLabelValues(string(kind)).Inc()
		candidate++
	}
	if !inserted {
		s.log.Warn().Str("kind", string(kind)).Int("candidate", candidate).Msg("public id retry budget exhausted")
		return nil, domain.ErrIDAllocation
	}

	metrics.ListingsCreatedTotal.WithLabelValues(string(kind)).Inc()
	s.audit.Record(ports.ModerationEvent{
		Kind:      kind,
		PublicID:  listing.PublicID,
		Action:    ports.AuditListingCreated,
		ActorID:   actor.ID,
		Timestamp: now,
	})
	s.log.Info().Str("kind", string(kind)).Int("item_id", listing.PublicID).
		Str("owner_id", actor.ID).Msg("listing submitted for approval")
	return listing, nil
}

// GetApproved returns the public catalogue for a kind, cache-aside.
func (s *ListingService) GetApproved(ctx context.Context, kind domain.Kind, category string) ([]domain.Listing, error) {
	if s.cache != nil {
		cached, err := s.cache.GetApproved(ctx, kind, category)
		if err != nil {
			s.log.Warn().Err(err).Str("kind", string(kind)).Msg("cache read failed, falling back to store")
		} else if cached != nil {
			metrics.CatalogueCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		} else {
			metrics.CatalogueCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	approved := domain.StatusApproved
	listings, err := s.repo.Find(ctx, kind, ports.ListingFilter{Status: &approved, Category: category})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetApproved(ctx, kind, category, listings); err != nil {
			s.log.Warn().Err(err).Str("kind", string(kind)).Msg("cache write failed")
		}
	}
	return listings, nil
}

// GetMine returns the actor's own listings in any status.
func (s *ListingService) GetMine(ctx context.Context, actor *domain.User, kind domain.Kind) ([]domain.Listing, error) {
	if err := authz.Authorize(actor, authz.ActionListMine, authz.Resource{}).Err(); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, kind, ports.ListingFilter{OwnerID: actor.ID})
}

// GetPending returns listings awaiting moderation. Admin only.
func (s *ListingService) GetPending(ctx context.Context, actor *domain.User, kind domain.Kind) ([]domain.Listing, error) {
	if err := authz.Authorize(actor, authz.ActionListPending, authz.Resource{}).Err(); err != nil {
		return nil, err
	}
	pending := domain.StatusPending
	return s.repo.Find(ctx, kind, ports.ListingFilter{Status: &pending})
}

// GetAll returns every listing of the kind. Admin only.
func (s *ListingService) GetAll(ctx context.Context, actor *domain.User, kind domain.Kind) ([]domain.Listing, error) {
	if err := authz.Authorize(actor, authz.ActionListAll, authz.Resource{}).Err(); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, kind, ports.ListingFilter{})
}

// GetByPublicID returns a single listing. Approved listings are public;
// pending ones only the owner or an admin may see.
func (s *ListingService) GetByPublicID(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int) (*domain.Listing, error) {
	listing, err := s.repo.FindByPublicID(ctx, kind, publicID)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.StatusApproved {
		if err := authz.Authorize(actor, authz.ActionReadListing, authz.Resource{OwnerID: listing.OwnerID}).Err(); err != nil {
			return nil, err
		}
	}
	return listing, nil
}

// Update edits a listing. Owner edits snapshot the previous content and
// reset the listing to pending; admin edits preserve status unless
// explicitStatus is set.
func (s *ListingService) Update(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int, content domain.ListingContent, explicitStatus *domain.ListingStatus) (*domain.Listing, error) {
	listing, err := s.repo.FindByPublicID(ctx, kind, publicID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionUpdateListing, authz.Resource{OwnerID: listing.OwnerID}).Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	action := ports.AuditListingEdited
	if actor.IsAdmin() && actor.ID != listing.OwnerID {
		listing.ApplyAdminEdit(content, explicitStatus, actor.ID, now)
	} else {
		wasApproved := listing.Status == domain.StatusApproved
		listing.ApplyOwnerEdit(content, actor.ID, now)
		if wasApproved && listing.Status == domain.StatusPending {
			metrics.ModerationResetsTotal.WithLabelValues(string(kind)).Inc()
			action = ports.AuditListingReset
		}
	}

	updated, err := s.repo.Replace(ctx, listing)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, kind)
	s.audit.Record(ports.ModerationEvent{
		Kind:      kind,
		PublicID:  publicID,
		Action:    action,
		ActorID:   actor.ID,
		Timestamp: now,
	})
	s.log.Info().Str("kind", string(kind)).Int("item_id", publicID).
		Str("editor_id", actor.ID).Str("status", string(updated.Status)).Msg("listing updated")
	return updated, nil
}

// Approve makes the listing publicly visible. Admin only.
func (s *ListingService) Approve(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int) (*domain.Listing, error) {
	if err := authz.Authorize(actor, authz.ActionApproveListing, authz.Resource{}).Err(); err != nil {
		return nil, err
	}

	listing, err := s.repo.FindByPublicID(ctx, kind, publicID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	listing.Approve(now)
	updated, err := s.repo.Replace(ctx, listing)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, kind)
	metrics.ListingsApprovedTotal.WithLabelValues(string(kind)).Inc()
	s.audit.Record(ports.ModerationEvent{
		Kind:      kind,
		PublicID:  publicID,
		Action:    ports.AuditListingApproved,
		ActorID:   actor.ID,
		Timestamp: now,
	})
	s.log.Info().Str("kind", string(kind)).Int("item_id", publicID).
		Str("admin_id", actor.ID).Msg("listing approved")
	return updated, nil
}

// Delete removes a listing from either moderation state and returns the
// deleted record for audit echo.
func (s *ListingService) Delete(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int) (*domain.Listing, error) {
	listing, err := s.repo.FindByPublicID(ctx, kind, publicID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionDeleteListing, authz.Resource{OwnerID: listing.OwnerID}).Err(); err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeleteByPublicID(ctx, kind, publicID)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, kind)
	s.audit.Record(ports.ModerationEvent{
		Kind:      kind,
		PublicID:  publicID,
		Action:    ports.AuditListingDeleted,
		ActorID:   actor.ID,
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("kind", string(kind)).Int("item_id", publicID).
		Str("actor_id", actor.ID).Msg("listing deleted")
	return deleted, nil
}

func (s *ListingService) invalidate(ctx context.Context, kind domain.Kind) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, kind); err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("cache invalidation failed")
	}
}
