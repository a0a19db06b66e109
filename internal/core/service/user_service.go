package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/api/metrics"
	"github.com/farmlink/marketplace-api/internal/core/authz"
	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// UserService implements the admin moderation surface for accounts.
type UserService struct {
	users ports.UserRepository
	audit ports.AuditRecorder
	// allowRejectedReapproval lets an admin approve a previously rejected
	// account. Off by default: rejection is treated as final.
	allowRejectedReapproval bool
	log                     zerolog.Logger
}

func NewUserService(users ports.UserRepository, audit ports.AuditRecorder, allowRejectedReapproval bool, log zerolog.Logger) *UserService {
	return &UserService{
		users:                   users,
		audit:                   audit,
		allowRejectedReapproval: allowRejectedReapproval,
		log:                     log,
	}
}

// Approve moves the target account to approved and records the decision.
func (s *UserService) Approve(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error) {
	if err := authz.Authorize(actor, authz.ActionApproveUser, authz.Resource{}).Err(); err != nil {
		return nil, err
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !domain.CanApproveFrom(target.ApprovalStatus, s.allowRejectedReapproval) {
		return nil, fmt.Errorf("%w: rejected accounts cannot be re-approved", domain.ErrForbidden)
	}

	now := time.Now().UTC()
	updated, err := s.users.SetApproval(ctx, targetID, domain.ApprovalApproved, actor.ID, now)
	if err != nil {
		return nil, err
	}

	metrics.UsersModeratedTotal.WithLabelValues("approved").Inc()
	s.audit.Record(ports.ModerationEvent{
		TargetID:  targetID,
		Action:    ports.AuditUserApproved,
		ActorID:   actor.ID,
		Timestamp: now,
	})
	s.log.Info().Str("user_id", targetID).Str("admin_id", actor.ID).Msg("user approved")
	return updated, nil
}

// Reject moves the target account to rejected.
func (s *UserService) Reject(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error) {
	if err := authz.Authorize(actor, authz.ActionRejectUser, authz.Resource{}).Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated, err := s.users.SetApproval(ctx, targetID, domain.ApprovalRejected, actor.ID, now)
	if err != nil {
		return nil, err
	}

	metrics.UsersModeratedTotal.WithLabelValues("rejected").Inc()
	s.audit.Record(ports.ModerationEvent{
		TargetID:  targetID,
		Action:    ports.AuditUserRejected,
		ActorID:   actor.ID,
		Timestamp: now,
	})
	s.log.Info().Str("user_id", targetID).Str("admin_id", actor.ID).Msg("user rejected")
	return updated, nil
}

// ListPending returns accounts awaiting moderation.
func (s *UserService) ListPending(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := authz.Authorize(actor, authz.ActionListPendingUsers, authz.Resource{}).Err(); err != nil {
		return nil, err
	}
	return s.users.FindByApproval(ctx, domain.ApprovalPending)
}

// ListAll returns every account.
func (s *UserService) ListAll(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := authz.Authorize(actor, authz.ActionListUsers, authz.Resource{}).Err(); err != nil {
		return nil, err
	}
	return s.users.FindAll(ctx)
}

// Get returns a single account, visible to the account owner and admins.
func (s *UserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := authz.Authorize(actor, authz.ActionReadUser, authz.Resource{TargetUserID: id}).Err(); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// Delete removes an account entirely.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := authz.Authorize(actor, authz.ActionDeleteUser, authz.Resource{}).Err(); err != nil {
		return nil, err
	}
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Str("admin_id", actor.ID).Msg("user deleted")
	return deleted, nil
}
