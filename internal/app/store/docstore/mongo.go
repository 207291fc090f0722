package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoDB adapts a *mongo.Database to the DB contract.
type mongoDB struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects to MongoDB and verifies the connection with a ping
// before handing the DB back. The caller owns Close.
func OpenMongo(ctx context.Context, uri, database string, connectTimeout time.Duration) (DB, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &mongoDB{client: client, db: client.Database(database)}, nil
}

// Client exposes the underlying mongo client for index setup and health
// checks. Returns nil for non-mongo backends.
func Client(db DB) *mongo.Client {
	if m, ok := db.(*mongoDB); ok {
		return m.client
	}
	return nil
}

// Database exposes the underlying mongo database, or nil for non-mongo
// backends.
func Database(db DB) *mongo.Database {
	if m, ok := db.(*mongoDB); ok {
		return m.db
	}
	return nil
}

func (m *mongoDB) Collection(name string) Collection {
	return &mongoCollection{c: m.db.Collection(name)}
}

func (m *mongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *mongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *mongoDB) Kind() string { return "mongo" }

type mongoCollection struct {
	c *mongo.Collection
}

// toBSON compiles a Filter into the driver's query form. Conditions on the
// same field merge into one operator document.
func toBSON(f Filter) bson.M {
	q := bson.M{}
	for _, cond := range f {
		switch cond.Op {
		case OpEq:
			q[cond.Field] = cond.Value
		case OpExists:
			mergeOp(q, cond.Field, "$exists", cond.Value)
		case OpLt:
			mergeOp(q, cond.Field, "$lt", cond.Value)
		case OpGt:
			mergeOp(q, cond.Field, "$gt", cond.Value)
		}
	}
	return q
}

func mergeOp(q bson.M, field, op string, v any) {
	if existing, ok := q[field].(bson.M); ok {
		existing[op] = v
		return
	}
	q[field] = bson.M{op: v}
}

func (mc *mongoCollection) FindOne(ctx context.Context, filter Filter, out any) error {
	err := mc.c.FindOne(ctx, toBSON(filter)).Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNoDocuments
	}
	return err
}

func (mc *mongoCollection) Find(ctx context.Context, filter Filter, out any) error {
	cur, err := mc.c.Find(ctx, toBSON(filter))
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (mc *mongoCollection) InsertOne(ctx context.Context, doc any) error {
	_, err := mc.c.InsertOne(ctx, doc)
	return err
}

func (mc *mongoCollection) UpdateOne(ctx context.Context, filter Filter, set Set, upsert bool) (int64, error) {
	opts := options.Update().SetUpsert(upsert)
	res, err := mc.c.UpdateOne(ctx, toBSON(filter), bson.M{"$set": bson.M(set)}, opts)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount + res.UpsertedCount, nil
}

func (mc *mongoCollection) UpdateMany(ctx context.Context, filter Filter, set Set) (int64, error) {
	res, err := mc.c.UpdateMany(ctx, toBSON(filter), bson.M{"$set": bson.M(set)})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (mc *mongoCollection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	res, err := mc.c.DeleteMany(ctx, toBSON(filter))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (mc *mongoCollection) Count(ctx context.Context, filter Filter) (int64, error) {
	return mc.c.CountDocuments(ctx, toBSON(filter))
}
