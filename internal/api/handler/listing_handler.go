package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/api/middleware"
	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// ListingHandler serves one listing kind (gallery items or offers). The same
// handler type is mounted once per kind, so the moderation mechanics stay
// identical across both.
type ListingHandler struct {
	kind     domain.Kind
	listings ports.ListingService
}

func NewListingHandler(kind domain.Kind, listings ports.ListingService) *ListingHandler {
	return &ListingHandler{kind: kind, listings: listings}
}

// Create submits a new listing for moderation.
//
// @Summary      Create a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      listingRequest  true  "Listing content"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /gallery [post]
func (h *ListingHandler) Create(c echo.Context) error {
	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	listing, err := h.listings.Create(c.Request().Context(), middleware.Actor(c), h.kind, req.toContent())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ok("listing submitted for approval", listing))
}

// ListApproved returns the public catalogue.
//
// @Summary      List approved listings
// @Tags         listings
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /gallery/approved [get]
func (h *ListingHandler) ListApproved(c echo.Context) error {
	listings, err := h.listings.GetApproved(c.Request().Context(), h.kind, "")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("approved listings retrieved", listings))
}

// ListApprovedByCategory returns the public catalogue filtered by category.
//
// @Summary      List approved listings by category
// @Tags         listings
// @Produce      json
// @Param        category  path      string  true  "Category"
// @Success      200       {object}  envelope
// @Router       /gallery/category/{category} [get]
func (h *ListingHandler) ListApprovedByCategory(c echo.Context) error {
	listings, err := h.listings.GetApproved(c.Request().Context(), h.kind, c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("approved listings retrieved", listings))
}

// ListMine returns the caller's own listings in any status.
//
// @Summary      List own listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Router       /gallery/my-items [get]
func (h *ListingHandler) ListMine(c echo.Context) error {
	listings, err := h.listings.GetMine(c.Request().Context(), middleware.Actor(c), h.kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("own listings retrieved", listings))
}

// ListPending returns listings awaiting moderation.
//
// @Summary      List pending listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Router       /gallery/pending [get]
func (h *ListingHandler) ListPending(c echo.Context) error {
	listings, err := h.listings.GetPending(c.Request().Context(), middleware.Actor(c), h.kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("pending listings retrieved", listings))
}

// ListAll returns every listing of the kind.
//
// @Summary      List all listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Router       /gallery/admin/all [get]
func (h *ListingHandler) ListAll(c echo.Context) error {
	listings, err := h.listings.GetAll(c.Request().Context(), middleware.Actor(c), h.kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("all listings retrieved", listings))
}

// Get returns one listing by its public id.
//
// @Summary      Get a listing
// @Tags         listings
// @Produce      json
// @Param        id   path      int  true  "Public listing id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /gallery/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	publicID, err := h.publicID(c)
	if err != nil {
		return err
	}
	listing, err := h.listings.GetByPublicID(c.Request().Context(), middleware.Actor(c), h.kind, publicID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("listing retrieved", listing))
}

// Update edits a listing. Owner edits reset it to pending.
//
// @Summary      Update a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Public listing id"
// @Param        body  body      updateListingRequest  true  "New content"
// @Success      200   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /gallery/update/{id} [put]
func (h *ListingHandler) Update(c echo.Context) error {
	publicID, err := h.publicID(c)
	if err != nil {
		return err
	}

	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	listing, err := h.listings.Update(c.Request().Context(), middleware.Actor(c), h.kind, publicID, req.toContent(), req.explicitStatus())
	if err != nil {
		return err
	}

	msg := "listing updated"
	if listing.Status == domain.StatusPending {
		msg = "listing updated, awaiting re-approval"
	}
	return c.JSON(http.StatusOK, ok(msg, listing))
}

// Approve makes a listing publicly visible.
//
// @Summary      Approve a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Public listing id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /gallery/approve/{id} [put]
func (h *ListingHandler) Approve(c echo.Context) error {
	publicID, err := h.publicID(c)
	if err != nil {
		return err
	}
	listing, err := h.listings.Approve(c.Request().Context(), middleware.Actor(c), h.kind, publicID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("listing approved", listing))
}

// Delete removes a listing and echoes the deleted record.
//
// @Summary      Delete a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Public listing id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /gallery/delete/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	publicID, err := h.publicID(c)
	if err != nil {
		return err
	}
	deleted, err := h.listings.Delete(c.Request().Context(), middleware.Actor(c), h.kind, publicID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("listing deleted", deleted))
}

func (h *ListingHandler) publicID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}
	return id, nil
}
