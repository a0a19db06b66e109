package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/farmlink/marketplace-api/internal/core/ports"
)

const auditCollection = "moderation_events"

// AuditRepository persists the moderation audit trail.
type AuditRepository struct {
	db *mongo.Database
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *ports.ModerationEvent) error {
	doc := bson.M{
		"action":       event.Action,
		"actor_id":     event.ActorID,
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.Kind != "" {
		doc["kind"] = string(event.Kind)
		doc["item_id"] = event.PublicID
	}
	if event.TargetID != "" {
		doc["target_id"] = event.TargetID
	}

	_, err := r.db.Collection(auditCollection).InsertOne(ctx, doc)
	return err
}
