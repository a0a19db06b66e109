package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// Each kind lives in its own collection with an independent item_id sequence.
var kindCollections = map[domain.Kind]string{
	domain.KindGallery: "gallery_items",
	domain.KindOffer:   "offers",
}

// ListingRepository implements ports.ListingRepository on MongoDB.
type ListingRepository struct {
	db *mongo.Database
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) coll(kind domain.Kind) *mongo.Collection {
	return r.db.Collection(kindCollections[kind])
}

// MaxPublicID returns the highest assigned item_id for the kind, or 0 when
// the collection is empty.
func (r *ListingRepository) MaxPublicID(ctx context.Context, kind domain.Kind) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "item_id", Value: -1}})
	var top struct {
		PublicID int `bson:"item_id"`
	}
	err := r.coll(kind).FindOne(ctx, bson.M{}, opts).Decode(&top)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("max public id: %w", err)
	}
	return top.PublicID, nil
}

// Insert persists a new listing. The unique index on item_id turns a
// concurrent allocation race into domain.ErrDuplicatePublicID, which the
// service-level allocator retries.
func (r *ListingRepository) Insert(ctx context.Context, listing *domain.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll(listing.Kind).InsertOne(ctx, listing)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicatePublicID
		}
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) Find(ctx context.Context, kind domain.Kind, filter ports.ListingFilter) ([]domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	if filter.Category != "" {
		query["content.category"] = filter.Category
	}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}

	opts := options.Find().SetSort(bson.D{{Key: "item_id", Value: 1}})
	cur, err := r.coll(kind).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cur.Close(ctx)

	var listings []domain.Listing
	for cur.Next(ctx) {
		var l domain.Listing
		if err := cur.Decode(&l); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		l.Kind = kind
		listings = append(listings, l)
	}
	return listings, cur.Err()
}

func (r *ListingRepository) FindByPublicID(ctx context.Context, kind domain.Kind, publicID int) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var l domain.Listing
	err := r.coll(kind).FindOne(ctx, bson.M{"item_id": publicID}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find listing: %w", err)
	}
	l.Kind = kind
	return &l, nil
}

// Replace overwrites the stored listing identified by its public id.
func (r *ListingRepository) Replace(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	var l domain.Listing
	err := r.coll(listing.Kind).
		FindOneAndReplace(ctx, bson.M{"item_id": listing.PublicID}, listing, opts).
		Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("replace listing: %w", err)
	}
	l.Kind = listing.Kind
	return &l, nil
}

// DeleteByPublicID removes the listing, returning the deleted record.
func (r *ListingRepository) DeleteByPublicID(ctx context.Context, kind domain.Kind, publicID int) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var l domain.Listing
	err := r.coll(kind).FindOneAndDelete(ctx, bson.M{"item_id": publicID}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete listing: %w", err)
	}
	l.Kind = kind
	return &l, nil
}

// EnsureIndexes creates the unique item_id index per kind plus the common
// query paths. The unique index is what makes concurrent id allocation safe.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "item_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "content.category", Value: 1}}},
	}

	for kind := range kindCollections {
		if _, err := r.coll(kind).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", kind, err)
		}
	}
	return nil
}
