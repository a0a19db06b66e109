package domain

import (
	"reflect"
	"testing"
	"time"
)

func sampleContent() ListingContent {
	return ListingContent{
		Name:        "Tomatoes",
		Price:       "250",
		Category:    "vegetables",
		Location:    "Kandy",
		Description: "Fresh organic tomatoes",
		HarvestDay:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Condition:   []string{"organic"},
	}
}

func TestNewListing_StartsPending(t *testing.T) {
	l := NewListing(KindGallery, "farmer1", sampleContent(), time.Now())

	if l.Status != StatusPending {
		t.Fatalf("expected pending, got %s", l.Status)
	}
	if l.OwnerID != "farmer1" {
		t.Fatalf("unexpected owner: %s", l.OwnerID)
	}
	if l.PreviousData != nil {
		t.Fatalf("expected no previous data on a new listing")
	}
}

func TestApplyOwnerEdit_ResetsToPendingAndSnapshots(t *testing.T) {
	l := NewListing(KindOffer, "farmer1", sampleContent(), time.Now())
	l.Status = StatusApproved

	before := l.Content
	next := sampleContent()
	next.Price = "300"

	now := time.Now()
	l.ApplyOwnerEdit(next, "farmer1", now)

	if l.Status != StatusPending {
		t.Fatalf("expected pending after owner edit, got %s", l.Status)
	}
	if l.PreviousData == nil || !reflect.DeepEqual(*l.PreviousData, before) {
		t.Fatalf("previous data does not match pre-edit content: %+v", l.PreviousData)
	}
	if l.Content.Price != "300" {
		t.Fatalf("content not updated: %s", l.Content.Price)
	}
	if len(l.UpdateHistory) != 1 {
		t.Fatalf("expected one history entry, got %d", len(l.UpdateHistory))
	}
	entry := l.UpdateHistory[0]
	if entry.UpdatedBy != "farmer1" {
		t.Fatalf("unexpected editor: %s", entry.UpdatedBy)
	}
	if entry.Changes["price"] != "300" {
		t.Fatalf("expected price change recorded, got %+v", entry.Changes)
	}
	if _, ok := entry.Changes["name"]; ok {
		t.Fatalf("unchanged field recorded in diff")
	}
	if l.LastUpdated == nil {
		t.Fatalf("expected lastUpdated set")
	}
}

func TestApplyOwnerEdit_NoChangesIsNoOp(t *testing.T) {
	l := NewListing(KindGallery, "farmer1", sampleContent(), time.Now())
	l.Status = StatusApproved

	l.ApplyOwnerEdit(sampleContent(), "farmer1", time.Now())

	if l.Status != StatusApproved {
		t.Fatalf("identical edit must not reset status, got %s", l.Status)
	}
	if l.PreviousData != nil || len(l.UpdateHistory) != 0 {
		t.Fatalf("identical edit must not record history")
	}
}

func TestApplyAdminEdit_PreservesStatus(t *testing.T) {
	l := NewListing(KindGallery, "farmer1", sampleContent(), time.Now())
	l.Status = StatusApproved

	next := sampleContent()
	next.Description = "Updated by moderator"
	l.ApplyAdminEdit(next, nil, "admin1", time.Now())

	if l.Status != StatusApproved {
		t.Fatalf("admin edit must preserve status, got %s", l.Status)
	}
	if l.PreviousData != nil {
		t.Fatalf("admin edit must not snapshot previous data")
	}
	if len(l.UpdateHistory) != 1 {
		t.Fatalf("expected history entry for admin edit")
	}
}

func TestApplyAdminEdit_ExplicitStatus(t *testing.T) {
	l := NewListing(KindGallery, "farmer1", sampleContent(), time.Now())
	l.Status = StatusApproved

	pending := StatusPending
	l.ApplyAdminEdit(l.Content, &pending, "admin1", time.Now())

	if l.Status != StatusPending {
		t.Fatalf("explicit status not applied, got %s", l.Status)
	}
}

func TestDiffContent_ConditionAndHarvestDay(t *testing.T) {
	prev := sampleContent()
	next := sampleContent()
	next.Condition = []string{"organic", "grade-a"}
	next.HarvestDay = prev.HarvestDay.AddDate(0, 0, 7)

	changes := DiffContent(prev, next)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d: %+v", len(changes), changes)
	}
	if changes["condition"] != "organic,grade-a" {
		t.Fatalf("unexpected condition diff: %s", changes["condition"])
	}
}

func TestInitialApprovalStatus(t *testing.T) {
	if got := InitialApprovalStatus(RoleAdmin); got != ApprovalApproved {
		t.Fatalf("admin must be auto-approved, got %s", got)
	}
	if got := InitialApprovalStatus(RoleFarmer); got != ApprovalPending {
		t.Fatalf("farmer must start pending, got %s", got)
	}
	if got := InitialApprovalStatus(RoleBuyer); got != ApprovalPending {
		t.Fatalf("buyer must start pending, got %s", got)
	}
}

func TestCanApproveFrom(t *testing.T) {
	if !CanApproveFrom(ApprovalPending, false) {
		t.Fatalf("pending accounts must be approvable")
	}
	if CanApproveFrom(ApprovalRejected, false) {
		t.Fatalf("rejected accounts must not be approvable by default")
	}
	if !CanApproveFrom(ApprovalRejected, true) {
		t.Fatalf("rejected accounts must be approvable when re-approval is enabled")
	}
}
