package audit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lubritec-storefront-svc/src/clients"
	"lubritec-storefront-svc/src/internal/models"
)

// Repository is the admin audit trail. Every back-office mutation is
// recorded here; the remote commerce API keeps no per-admin history.
type Repository interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
	ListRecent(ctx context.Context, limit int64) ([]*models.AuditEntry, error)
	ListByActor(ctx context.Context, actorID string, limit int64) ([]*models.AuditEntry, error)
}

type repository struct {
	collection *mongo.Collection
}

func NewRepository(db *clients.MongoDB, collectionName string) Repository {
	collection := db.Database.Collection(collectionName)
	return &repository{collection: collection}
}

func (r *repository) Record(ctx context.Context, entry *models.AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"actor_id": entry.ActorID,
			"action":   entry.Action,
			"resource": entry.Resource,
		}).Error("Failed to record audit entry")
		return models.ErrDatabaseInsert
	}

	return nil
}

func (r *repository) ListRecent(ctx context.Context, limit int64) ([]*models.AuditEntry, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *repository) ListByActor(ctx context.Context, actorID string, limit int64) ([]*models.AuditEntry, error) {
	return r.find(ctx, bson.M{"actor_id": actorID}, limit)
}

func (r *repository) find(ctx context.Context, filter bson.M, limit int64) ([]*models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to query audit entries")
		return nil, models.ErrDatabaseQuery
	}
	defer cursor.Close(ctx)

	var entries []*models.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		logrus.WithError(err).Error("Failed to decode audit entries")
		return nil, models.ErrDatabaseQuery
	}

	return entries, nil
}
