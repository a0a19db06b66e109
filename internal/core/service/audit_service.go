package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns the worker-side processor for moderation events.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single moderation event to the audit trail.
func (s *auditService) Process(ctx context.Context, event ports.ModerationEvent) error {
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("insert moderation event: %w", err)
	}

	s.log.Debug().
		Str("action", event.Action).
		Str("kind", string(event.Kind)).
		Int("item_id", event.PublicID).
		Str("actor_id", event.ActorID).
		Msg("moderation event recorded")
	return nil
}
