package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collUsers      = "users"
	collProducts   = "products"
	collCategories = "categories"
	collOrders     = "orders"
	collAdvertise  = "advertise"
	collWishlist   = "wishlist"
	collPayments   = "payments"
)

// Mongo is the production Store backed by a mongo database.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) Users() Collection {
	return &mongoCollection{c: m.db.Collection(collUsers)}
}

func (m *Mongo) Products() Collection {
	return &mongoCollection{c: m.db.Collection(collProducts)}
}

func (m *Mongo) Categories() Collection {
	return &mongoCollection{c: m.db.Collection(collCategories)}
}

func (m *Mongo) Orders() Collection {
	return &mongoCollection{c: m.db.Collection(collOrders)}
}

func (m *Mongo) Advertise() Collection {
	return &mongoCollection{c: m.db.Collection(collAdvertise)}
}

func (m *Mongo) Wishlist() Collection {
	return &mongoCollection{c: m.db.Collection(collWishlist)}
}

func (m *Mongo) Payments() Collection {
	return &mongoCollection{c: m.db.Collection(collPayments)}
}

type mongoCollection struct {
	c *mongo.Collection
}

func (mc *mongoCollection) FindOne(ctx context.Context, filter bson.M, out any) error {
	err := mc.c.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find one %s: %w", mc.c.Name(), err)
	}
	return nil
}

func (mc *mongoCollection) Find(ctx context.Context, filter bson.M, out any) error {
	cur, err := mc.c.Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("find %s: %w", mc.c.Name(), err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", mc.c.Name(), err)
	}
	return nil
}

func (mc *mongoCollection) InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error) {
	res, err := mc.c.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert %s: %w", mc.c.Name(), err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (mc *mongoCollection) UpdateOne(ctx context.Context, filter, update bson.M, opts ...UpdateOption) (UpdateResult, error) {
	var cfg updateConfig
	for _, o := range opts {
		o(&cfg)
	}
	res, err := mc.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(cfg.upsert))
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update %s: %w", mc.c.Name(), err)
	}
	out := UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = id.Hex()
	}
	return out, nil
}

func (mc *mongoCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := mc.c.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", mc.c.Name(), err)
	}
	return res.DeletedCount, nil
}

func (mc *mongoCollection) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := mc.c.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete many %s: %w", mc.c.Name(), err)
	}
	return res.DeletedCount, nil
}
