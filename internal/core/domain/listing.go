package domain

import (
	"strings"
	"time"
)

// Kind is the sub-type of a listing. Gallery items and offers share the same
// moderation mechanics but live in separate collections with independent
// public id sequences.
type Kind string

const (
	KindGallery Kind = "gallery"
	KindOffer   Kind = "offer"
)

// ValidKind reports whether k names a known listing kind.
func ValidKind(k Kind) bool {
	return k == KindGallery || k == KindOffer
}

// ListingStatus is the moderation state of a listing. There is no terminal
// state: a listing cycles between pending and approved until deleted.
type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
)

// BasePublicID is the first public id assigned in an empty collection.
const BasePublicID = 1400

// ListingContent holds the farmer-editable fields of a listing. It is
// snapshotted wholesale into PreviousData before an owner edit.
type ListingContent struct {
	Name        string    `json:"name" bson:"name"`
	Price       string    `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	Location    string    `json:"location" bson:"location"`
	Description string    `json:"description" bson:"description"`
	HarvestDay  time.Time `json:"harvest_day" bson:"harvest_day"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	Condition   []string  `json:"condition,omitempty" bson:"condition,omitempty"`
}

// UpdateRecord is one entry in a listing's edit history.
type UpdateRecord struct {
	UpdatedAt time.Time         `json:"updated_at" bson:"updated_at"`
	Changes   map[string]string `json:"changes" bson:"changes"`
	UpdatedBy string            `json:"updated_by" bson:"updated_by"`
}

// Listing is the moderated aggregate for both gallery items and offers.
// The public id identifies a listing within its kind; OwnerID is fixed at
// creation and never changes.
type Listing struct {
	Kind          Kind            `json:"kind" bson:"-"`
	PublicID      int             `json:"item_id" bson:"item_id"`
	OwnerID       string          `json:"owner_id" bson:"owner_id"`
	Content       ListingContent  `json:"content" bson:"content"`
	Status        ListingStatus   `json:"status" bson:"status"`
	PreviousData  *ListingContent `json:"previous_data,omitempty" bson:"previous_data,omitempty"`
	UpdateHistory []UpdateRecord  `json:"update_history,omitempty" bson:"update_history,omitempty"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at"`
	LastUpdated   *time.Time      `json:"last_updated,omitempty" bson:"last_updated,omitempty"`
}

// NewListing builds a listing in its initial state. Status is always pending
// here; a client-supplied status never survives creation.
func NewListing(kind Kind, ownerID string, content ListingContent, now time.Time) *Listing {
	return &Listing{
		Kind:      kind,
		OwnerID:   ownerID,
		Content:   content,
		Status:    StatusPending,
		CreatedAt: now.UTC(),
	}
}

// DiffContent returns the fields of next that differ from prev, keyed by
// field name with the new value. Used for the update history audit entry.
func DiffContent(prev, next ListingContent) map[string]string {
	changes := make(map[string]string)
	if prev.Name != next.Name {
		changes["name"] = next.Name
	}
	if prev.Price != next.Price {
		changes["price"] = next.Price
	}
	if prev.Category != next.Category {
		changes["category"] = next.Category
	}
	if prev.Location != next.Location {
		changes["location"] = next.Location
	}
	if prev.Description != next.Description {
		changes["description"] = next.Description
	}
	if !prev.HarvestDay.Equal(next.HarvestDay) {
		changes["harvest_day"] = next.HarvestDay.UTC().Format(time.RFC3339)
	}
	if prev.Image != next.Image {
		changes["image"] = next.Image
	}
	if !equalStrings(prev.Condition, next.Condition) {
		changes["condition"] = strings.Join(next.Condition, ",")
	}
	return changes
}

// ApplyOwnerEdit rewrites the content on behalf of the owning farmer. Any
// edit invalidates the previous moderation decision: the pre-edit content is
// snapshotted into PreviousData, an update record is appended, and the
// listing drops back to pending for re-review.
func (l *Listing) ApplyOwnerEdit(next ListingContent, editorID string, now time.Time) {
	changes := DiffContent(l.Content, next)
	if len(changes) == 0 {
		return
	}

	snapshot := l.Content
	l.PreviousData = &snapshot
	l.UpdateHistory = append(l.UpdateHistory, UpdateRecord{
		UpdatedAt: now.UTC(),
		Changes:   changes,
		UpdatedBy: editorID,
	})
	l.Content = next
	l.Status = StatusPending
	ts := now.UTC()
	l.LastUpdated = &ts
}

// ApplyAdminEdit rewrites the content on behalf of an admin. Status is left
// untouched unless the admin explicitly sets one; history is still recorded.
func (l *Listing) ApplyAdminEdit(next ListingContent, status *ListingStatus, editorID string, now time.Time) {
	changes := DiffContent(l.Content, next)
	if len(changes) > 0 {
		l.UpdateHistory = append(l.UpdateHistory, UpdateRecord{
			UpdatedAt: now.UTC(),
			Changes:   changes,
			UpdatedBy: editorID,
		})
		l.Content = next
		ts := now.UTC()
		l.LastUpdated = &ts
	}
	if status != nil {
		l.Status = *status
	}
}

// Approve marks the listing publicly visible. Only the admin approve action
// reaches this transition.
func (l *Listing) Approve(now time.Time) {
	l.Status = StatusApproved
	ts := now.UTC()
	l.LastUpdated = &ts
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
