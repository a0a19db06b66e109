package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

type stubListingService struct {
	createFn      func(ctx context.Context, actor *domain.User, kind domain.Kind, content domain.ListingContent) (*domain.Listing, error)
	getApprovedFn func(ctx context.Context, kind domain.Kind, category string) ([]domain.Listing, error)
	updateFn      func(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int, content domain.ListingContent, explicitStatus *domain.ListingStatus) (*domain.Listing, error)
	approveFn     func(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int) (*domain.Listing, error)
}

func (s *stubListingService) Create(ctx context.Context, actor *domain.User, kind domain.Kind, content domain.ListingContent) (*domain.Listing, error) {
	return s.createFn(ctx, actor, kind, content)
}

func (s *stubListingService) GetApproved(ctx context.Context, kind domain.Kind, category string) ([]domain.Listing, error) {
	return s.getApprovedFn(ctx, kind, category)
}

func (s *stubListingService) GetMine(context.Context, *domain.User, domain.Kind) ([]domain.Listing, error) {
	return nil, nil
}

func (s *stubListingService) GetPending(context.Context, *domain.User, domain.Kind) ([]domain.Listing, error) {
	return nil, nil
}

func (s *stubListingService) GetAll(context.Context, *domain.User, domain.Kind) ([]domain.Listing, error) {
	return nil, nil
}

func (s *stubListingService) GetByPublicID(context.Context, *domain.User, domain.Kind, int) (*domain.Listing, error) {
	return nil, nil
}

func (s *stubListingService) Update(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int, content domain.ListingContent, explicitStatus *domain.ListingStatus) (*domain.Listing, error) {
	return s.updateFn(ctx, actor, kind, publicID, content, explicitStatus)
}

func (s *stubListingService) Approve(ctx context.Context, actor *domain.User, kind domain.Kind, publicID int) (*domain.Listing, error) {
	return s.approveFn(ctx, actor, kind, publicID)
}

func (s *stubListingService) Delete(context.Context, *domain.User, domain.Kind, int) (*domain.Listing, error) {
	return nil, nil
}

const validListingPayload = `{
	"name": "Tomatoes",
	"price": "250",
	"category": "vegetables",
	"location": "Kandy",
	"description": "Fresh organic tomatoes",
	"harvest_day": "2025-06-01T00:00:00Z"
}`

func TestListingHandler_Create(t *testing.T) {
	svc := &stubListingService{createFn: func(_ context.Context, _ *domain.User, kind domain.Kind, content domain.ListingContent) (*domain.Listing, error) {
		if kind != domain.KindGallery {
			t.Fatalf("handler must pass its mounted kind, got %s", kind)
		}
		if content.Name != "Tomatoes" {
			t.Fatalf("content not bound: %+v", content)
		}
		l := domain.NewListing(kind, "farmer1", content, time.Now())
		l.PublicID = domain.BasePublicID
		return l, nil
	}}
	h := NewListingHandler(domain.KindGallery, svc)

	c, rec := newTestContext(t, http.MethodPost, "/gallery", validListingPayload)
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	if data["item_id"] != float64(domain.BasePublicID) {
		t.Fatalf("public id missing from response: %+v", data)
	}
	if data["status"] != string(domain.StatusPending) {
		t.Fatalf("new listing must render as pending: %+v", data)
	}
}

func TestListingHandler_Create_Validation(t *testing.T) {
	h := NewListingHandler(domain.KindGallery, &stubListingService{createFn: func(context.Context, *domain.User, domain.Kind, domain.ListingContent) (*domain.Listing, error) {
		t.Fatalf("service must not be called on invalid payload")
		return nil, nil
	}})

	c, _ := newTestContext(t, http.MethodPost, "/gallery", `{"name":"Tomatoes"}`)
	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListingHandler_Create_ForbiddenPropagates(t *testing.T) {
	h := NewListingHandler(domain.KindOffer, &stubListingService{createFn: func(context.Context, *domain.User, domain.Kind, domain.ListingContent) (*domain.Listing, error) {
		return nil, domain.ErrForbidden
	}})

	c, _ := newTestContext(t, http.MethodPost, "/offers", validListingPayload)
	if err := h.Create(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListingHandler_ListApprovedByCategory(t *testing.T) {
	svc := &stubListingService{getApprovedFn: func(_ context.Context, kind domain.Kind, category string) ([]domain.Listing, error) {
		if kind != domain.KindOffer || category != "fruits" {
			t.Fatalf("unexpected query: kind=%s category=%s", kind, category)
		}
		return []domain.Listing{}, nil
	}}
	h := NewListingHandler(domain.KindOffer, svc)

	c, rec := newTestContext(t, http.MethodGet, "/offers/category/fruits", "")
	c.SetParamNames("category")
	c.SetParamValues("fruits")

	if err := h.ListApprovedByCategory(c); err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListingHandler_Update_ExplicitStatus(t *testing.T) {
	var gotStatus *domain.ListingStatus
	svc := &stubListingService{updateFn: func(_ context.Context, _ *domain.User, _ domain.Kind, publicID int, content domain.ListingContent, explicitStatus *domain.ListingStatus) (*domain.Listing, error) {
		gotStatus = explicitStatus
		l := domain.NewListing(domain.KindGallery, "farmer1", content, time.Now())
		l.PublicID = publicID
		l.Status = domain.StatusApproved
		return l, nil
	}}
	h := NewListingHandler(domain.KindGallery, svc)

	payload := `{
		"name": "Tomatoes",
		"price": "250",
		"category": "vegetables",
		"location": "Kandy",
		"description": "Fresh organic tomatoes",
		"harvest_day": "2025-06-01T00:00:00Z",
		"status": "approved"
	}`
	c, rec := newTestContext(t, http.MethodPut, "/gallery/update/1400", payload)
	c.SetParamNames("id")
	c.SetParamValues("1400")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotStatus == nil || *gotStatus != domain.StatusApproved {
		t.Fatalf("explicit status not forwarded: %+v", gotStatus)
	}
}

func TestListingHandler_Update_RejectsUnknownStatus(t *testing.T) {
	h := NewListingHandler(domain.KindGallery, &stubListingService{updateFn: func(context.Context, *domain.User, domain.Kind, int, domain.ListingContent, *domain.ListingStatus) (*domain.Listing, error) {
		t.Fatalf("service must not be called for an unknown status")
		return nil, nil
	}})

	payload := `{
		"name": "Tomatoes",
		"price": "250",
		"category": "vegetables",
		"location": "Kandy",
		"description": "Fresh organic tomatoes",
		"harvest_day": "2025-06-01T00:00:00Z",
		"status": "archived"
	}`
	c, _ := newTestContext(t, http.MethodPut, "/gallery/update/1400", payload)
	c.SetParamNames("id")
	c.SetParamValues("1400")

	if err := h.Update(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListingHandler_InvalidIDParam(t *testing.T) {
	h := NewListingHandler(domain.KindGallery, &stubListingService{approveFn: func(context.Context, *domain.User, domain.Kind, int) (*domain.Listing, error) {
		t.Fatalf("service must not be called for a bad id")
		return nil, nil
	}})

	for _, raw := range []string{"abc", "-5", "0"} {
		c, _ := newTestContext(t, http.MethodPut, "/gallery/approve/"+raw, "")
		c.SetParamNames("id")
		c.SetParamValues(raw)

		err := h.Approve(c)
		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %v", raw, err)
		}
	}
}
