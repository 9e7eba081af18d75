// Package mongo connects to MongoDB with the official v2 driver for the Mongo
// replay guard.
//
//	client, err := mongo.New(ctx, cfg) // cfg loaded from MONGODB_* env vars
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
//
//	guard := replay.NewMongo(client.Database("hseal").Collection("hseal_consumed_jti"))
//	if err := guard.EnsureIndexes(ctx); err != nil {
//	    return err
//	}
package mongo
