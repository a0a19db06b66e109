package handler

import (
	"time"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// listingRequest carries the farmer-editable content fields. Any status
// supplied by the client is ignored on create: moderation state is owned by
// the workflow, never the caller.
type listingRequest struct {
	Name        string    `json:"name"        validate:"required"`
	Price       string    `json:"price"       validate:"required"`
	Category    string    `json:"category"    validate:"required"`
	Location    string    `json:"location"    validate:"required"`
	Description string    `json:"description" validate:"required"`
	HarvestDay  time.Time `json:"harvest_day" validate:"required"`
	Image       string    `json:"image"`
	Condition   []string  `json:"condition"`
}

func (r *listingRequest) toContent() domain.ListingContent {
	return domain.ListingContent{
		Name:        r.Name,
		Price:       r.Price,
		Category:    r.Category,
		Location:    r.Location,
		Description: r.Description,
		HarvestDay:  r.HarvestDay,
		Image:       r.Image,
		Condition:   r.Condition,
	}
}

// updateListingRequest additionally lets an admin set the moderation status
// explicitly. The field is ignored for non-admin editors.
type updateListingRequest struct {
	listingRequest
	Status string `json:"status" validate:"omitempty,oneof=pending approved"`
}

func (r *updateListingRequest) explicitStatus() *domain.ListingStatus {
	if r.Status == "" {
		return nil
	}
	s := domain.ListingStatus(r.Status)
	return &s
}
