package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

func seedUser(t *testing.T, repo *stubUserRepo, email, role string) *domain.User {
	t.Helper()
	user, err := repo.Create(context.Background(), &domain.User{
		Email:          email,
		PasswordHash:   "hash",
		Role:           role,
		ApprovalStatus: domain.InitialApprovalStatus(role),
		FirstName:      "Seed",
	})
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return user
}

func TestUserService_Approve(t *testing.T) {
	repo := newStubUserRepo()
	audit := &recordingAudit{}
	svc := NewUserService(repo, audit, false, zerolog.Nop())

	target := seedUser(t, repo, "pending@example.com", domain.RoleFarmer)

	updated, err := svc.Approve(context.Background(), admin1, target.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if updated.ApprovalStatus != domain.ApprovalApproved {
		t.Fatalf("expected approved, got %s", updated.ApprovalStatus)
	}
	if updated.ApprovedBy != admin1.ID || updated.ApprovedAt == nil {
		t.Fatalf("decision not recorded: by=%s at=%v", updated.ApprovedBy, updated.ApprovedAt)
	}
	event, ok := audit.last()
	if !ok || event.Action != ports.AuditUserApproved || event.TargetID != target.ID {
		t.Fatalf("expected approval audit event, got %+v", event)
	}
}

func TestUserService_Approve_DeniedForNonAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingAudit{}, false, zerolog.Nop())

	target := seedUser(t, repo, "pending@example.com", domain.RoleFarmer)

	for _, actor := range []*domain.User{nil, farmerA, buyer1} {
		if _, err := svc.Approve(context.Background(), actor, target.ID); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("actor %+v: expected ErrForbidden, got %v", actor, err)
		}
	}
}

func TestUserService_Approve_RejectedIsFinalByDefault(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingAudit{}, false, zerolog.Nop())

	target := seedUser(t, repo, "denied@example.com", domain.RoleFarmer)
	if _, err := svc.Reject(context.Background(), admin1, target.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if _, err := svc.Approve(context.Background(), admin1, target.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("rejected account must not be re-approvable, got %v", err)
	}
}

func TestUserService_Approve_RejectedReapprovalEnabled(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingAudit{}, true, zerolog.Nop())

	target := seedUser(t, repo, "second-chance@example.com", domain.RoleFarmer)
	if _, err := svc.Reject(context.Background(), admin1, target.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	updated, err := svc.Approve(context.Background(), admin1, target.ID)
	if err != nil {
		t.Fatalf("re-approval must succeed when enabled: %v", err)
	}
	if updated.ApprovalStatus != domain.ApprovalApproved {
		t.Fatalf("expected approved, got %s", updated.ApprovalStatus)
	}
}

func TestUserService_Reject(t *testing.T) {
	repo := newStubUserRepo()
	audit := &recordingAudit{}
	svc := NewUserService(repo, audit, false, zerolog.Nop())

	target := seedUser(t, repo, "pending@example.com", domain.RoleBuyer)

	updated, err := svc.Reject(context.Background(), admin1, target.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if updated.ApprovalStatus != domain.ApprovalRejected {
		t.Fatalf("expected rejected, got %s", updated.ApprovalStatus)
	}
	event, ok := audit.last()
	if !ok || event.Action != ports.AuditUserRejected {
		t.Fatalf("expected rejection audit event, got %+v", event)
	}
}

func TestUserService_Approve_UnknownUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingAudit{}, false, zerolog.Nop())

	if _, err := svc.Approve(context.Background(), admin1, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_ListPending(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingAudit{}, false, zerolog.Nop())

	seedUser(t, repo, "a@example.com", domain.RoleFarmer)
	seedUser(t, repo, "b@example.com", domain.RoleBuyer)
	seedUser(t, repo, "c@example.com", domain.RoleAdmin)

	pending, err := svc.ListPending(context.Background(), admin1)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending accounts, got %d", len(pending))
	}

	if _, err := svc.ListPending(context.Background(), farmerA); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("pending list must be admin only, got %v", err)
	}
}

func TestUserService_Get_VisibilityAndHashStripped(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingAudit{}, false, zerolog.Nop())

	target := seedUser(t, repo, "self@example.com", domain.RoleBuyer)
	self := &domain.User{ID: target.ID, Role: domain.RoleBuyer}

	got, err := svc.Get(context.Background(), self, target.ID)
	if err != nil {
		t.Fatalf("self read: %v", err)
	}
	if got.PasswordHash != "" {
		t.Fatalf("password hash must be stripped")
	}

	if _, err := svc.Get(context.Background(), farmerA, target.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin must not read other accounts, got %v", err)
	}
	if _, err := svc.Get(context.Background(), admin1, target.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingAudit{}, false, zerolog.Nop())

	target := seedUser(t, repo, "gone@example.com", domain.RoleBuyer)

	if _, err := svc.Delete(context.Background(), farmerA, target.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("delete must be admin only, got %v", err)
	}
	if _, err := svc.Delete(context.Background(), admin1, target.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), target.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("account still present after delete")
	}
}
