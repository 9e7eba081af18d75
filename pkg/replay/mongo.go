package replay

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongoopts "go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultMongoCollection is the collection used when none is configured.
const DefaultMongoCollection = "hseal_consumed_jti"

const mongoExpiresAt = "expires_at"

// Mongo stores consumed ids as documents keyed by jti. An upsert filtered on
// an expired record either reclaims it or collides on _id, which marks a replay.
type Mongo struct {
	coll *mongo.Collection
	opts options
}

func NewMongo(coll *mongo.Collection, opts ...Option) *Mongo {
	return &Mongo{coll: coll, opts: newOptions(opts)}
}

// EnsureIndexes creates the TTL index that lets the server drop expired records.
func (g *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := g.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: mongoExpiresAt, Value: 1}},
		Options: mongoopts.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return errors.Join(ErrFailedToMigrate, err)
	}
	return nil
}

func (g *Mongo) TryConsume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" {
		return false, ErrEmptyID
	}

	now := g.opts.now().UTC()
	filter := bson.D{
		{Key: "_id", Value: jti},
		{Key: mongoExpiresAt, Value: bson.D{{Key: "$lte", Value: now}}},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: mongoExpiresAt, Value: now.Add(g.opts.ttl(ttl))}}},
	}

	_, err := g.coll.UpdateOne(ctx, filter, update, mongoopts.UpdateOne().SetUpsert(true))
	switch {
	case mongo.IsDuplicateKeyError(err):
		return false, nil
	case err != nil:
		return false, errors.Join(ErrBackendFailed, err)
	}
	return true, nil
}
