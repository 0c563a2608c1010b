package credential

import (
	"context"
	"errors"
	"time"

	"accessgate-svc/src/clients"
	"accessgate-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Get(ctx context.Context) (*Credential, error)
	Upsert(ctx context.Context, email, password string) (*Credential, error)
}

type repository struct {
	collection *mongo.Collection
}

func NewRepository(db *clients.MongoDB, collectionName string) Repository {
	collection := db.Database.Collection(collectionName)
	return &repository{collection: collection}
}

// Get returns the single shared credential record.
func (r *repository) Get(ctx context.Context) (*Credential, error) {
	var credential Credential

	err := r.collection.FindOne(ctx, bson.M{}).Decode(&credential)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrCredentialMissing
		}
		logrus.WithError(err).Error("Failed to get shared credential")
		return nil, models.ErrDatabaseQuery
	}

	return &credential, nil
}

// Upsert replaces the shared credential pair, creating the record on
// first use.
func (r *repository) Upsert(ctx context.Context, email, password string) (*Credential, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"email":       email,
			"password":    password,
			"last_update": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{}, update, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to upsert shared credential")
		return nil, models.ErrDatabaseUpdate
	}

	return r.Get(ctx)
}
