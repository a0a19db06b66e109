package ports

import (
	"context"
	"time"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// Moderation audit actions.
const (
	AuditListingCreated  = "listing_created"
	AuditListingApproved = "listing_approved"
	AuditListingEdited   = "listing_edited"
	AuditListingReset    = "listing_reset_to_pending"
	AuditListingDeleted  = "listing_deleted"
	AuditUserApproved    = "user_approved"
	AuditUserRejected    = "user_rejected"
)

// ModerationEvent is one entry in the moderation audit trail. For user
// actions Kind is empty and TargetID carries the user id.
type ModerationEvent struct {
	Kind      domain.Kind
	PublicID  int
	TargetID  string
	Action    string
	ActorID   string
	Timestamp time.Time
}

// AuditRecorder accepts events fire-and-forget; recording never fails the
// originating request.
type AuditRecorder interface {
	Record(event ModerationEvent)
}

// AuditService processes a single moderation event off the dispatcher.
type AuditService interface {
	Process(ctx context.Context, event ModerationEvent) error
}

// AuditRepository persists moderation events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *ModerationEvent) error
}
