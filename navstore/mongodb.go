package navstore

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/multierr"
)

// Where mongoDBStore keeps its records.
const (
	MongoDBDatabaseName   = "navcore"
	MongoDBCollectionName = "goals"
)

type mongoDBStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger golog.Logger
}

// NewMongoDBStore connects to MongoDB at uri and returns a Store over the
// navcore.goals collection.
func NewMongoDBStore(ctx context.Context, uri string, logger golog.Logger) (Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to MongoDB")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, multierr.Combine(errors.Wrap(err, "failed to ping MongoDB"), client.Disconnect(ctx))
	}
	coll := client.Database(MongoDBDatabaseName).Collection(MongoDBCollectionName)
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "accepted_at", Value: -1}},
	}); err != nil {
		return nil, multierr.Combine(errors.Wrap(err, "failed to create goal index"), client.Disconnect(ctx))
	}
	logger.Debugw("connected goal store to MongoDB", "database", MongoDBDatabaseName, "collection", MongoDBCollectionName)
	return &mongoDBStore{client: client, coll: coll, logger: logger}, nil
}

func (store *mongoDBStore) Add(ctx context.Context, rec GoalRecord) (primitive.ObjectID, error) {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if _, err := store.coll.InsertOne(ctx, rec); err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "failed to insert goal record")
	}
	return rec.ID, nil
}

func (store *mongoDBStore) Resolve(ctx context.Context, id primitive.ObjectID, outcome Outcome, reason string, at time.Time) error {
	res, err := store.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"outcome":     outcome,
		"reason":      reason,
		"resolved_at": at,
	}})
	if err != nil {
		return errors.Wrap(err, "failed to update goal record")
	}
	if res.MatchedCount == 0 {
		return errors.Errorf("no goal record %q", id.Hex())
	}
	return nil
}

func (store *mongoDBStore) Recent(ctx context.Context, limit int) ([]GoalRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "accepted_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := store.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query goal records")
	}
	var records []GoalRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrap(err, "failed to decode goal records")
	}
	return records, nil
}

func (store *mongoDBStore) Close(ctx context.Context) error {
	return store.client.Disconnect(ctx)
}
