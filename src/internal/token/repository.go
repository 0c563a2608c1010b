package token

import (
	"context"
	"errors"

	"accessgate-svc/src/clients"
	"accessgate-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type repository struct {
	collection *mongo.Collection
}

// NewRepository returns a Mongo-backed token store. Subscriptions are
// driven by change streams, so the deployment must be a replica set.
func NewRepository(db *clients.MongoDB, collectionName string) Store {
	collection := db.Database.Collection(collectionName)
	return &repository{collection: collection}
}

func (r *repository) Insert(ctx context.Context, record *Token) (string, error) {
	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert token")
		return "", models.ErrStoreUnavailable
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Unexpected inserted id type for token")
		return "", models.ErrStoreUnavailable
	}

	record.ID = id
	return id.Hex(), nil
}

func (r *repository) FindByValue(ctx context.Context, value string) ([]*Token, error) {
	filter := bson.M{"value": value}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logrus.WithError(err).WithField("value", value).Error("Failed to query tokens by value")
		return nil, models.ErrStoreUnavailable
	}
	defer cursor.Close(ctx)

	return decodeTokens(ctx, cursor)
}

func (r *repository) List(ctx context.Context) ([]*Token, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to list tokens")
		return nil, models.ErrStoreUnavailable
	}
	defer cursor.Close(ctx)

	return decodeTokens(ctx, cursor)
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidInput
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{"$set": bson.M{"is_active": false}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logrus.WithError(err).WithField("token_id", id).Error("Failed to deactivate token")
		return models.ErrStoreUnavailable
	}

	if result.MatchedCount == 0 {
		return models.ErrTokenNotFound
	}

	return nil
}

// SubscribeAll watches the collection with a change stream and pushes the
// full record set on every applied change, starting with an initial
// snapshot. Cancelling the returned func ends the watch.
func (r *repository) SubscribeAll(ctx context.Context, onChange func([]*Token), onError func(error)) (func(), error) {
	streamCtx, cancel := context.WithCancel(ctx)

	stream, err := r.collection.Watch(streamCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		logrus.WithError(err).Error("Failed to open token change stream")
		return nil, models.ErrStoreUnavailable
	}

	go func() {
		defer stream.Close(context.Background())

		r.pushSnapshot(streamCtx, onChange, onError)

		for stream.Next(streamCtx) {
			r.pushSnapshot(streamCtx, onChange, onError)
		}

		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			logrus.WithError(err).Error("Token change stream ended")
			onError(models.ErrStoreUnavailable)
		}
	}()

	return cancel, nil
}

func (r *repository) pushSnapshot(ctx context.Context, onChange func([]*Token), onError func(error)) {
	records, err := r.List(ctx)
	if err != nil {
		if !errors.Is(ctx.Err(), context.Canceled) {
			onError(err)
		}
		return
	}
	onChange(records)
}

func decodeTokens(ctx context.Context, cursor *mongo.Cursor) ([]*Token, error) {
	var tokens []*Token
	for cursor.Next(ctx) {
		var t Token
		if err := cursor.Decode(&t); err != nil {
			logrus.WithError(err).Error("Failed to decode token")
			continue
		}
		tokens = append(tokens, &t)
	}

	if err := cursor.Err(); err != nil {
		logrus.WithError(err).Error("Token cursor error")
		return nil, models.ErrStoreUnavailable
	}

	return tokens, nil
}
