package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by FindOne when no document matches the filter.
var ErrNotFound = errors.New("store: document not found")

// UpdateResult reports what a single update touched.
type UpdateResult struct {
	Matched    int64  `json:"matched"`
	Modified   int64  `json:"modified"`
	UpsertedID string `json:"upsertedId,omitempty"`
}

type updateConfig struct {
	upsert bool
}

type UpdateOption func(*updateConfig)

// Upsert makes UpdateOne insert a stub document built from the filter and
// update when nothing matches.
func Upsert() UpdateOption {
	return func(c *updateConfig) { c.upsert = true }
}

// Collection is a document collection addressed by bson filter documents.
// Each call is individually atomic; no multi-call transaction is offered.
type Collection interface {
	FindOne(ctx context.Context, filter bson.M, out any) error
	Find(ctx context.Context, filter bson.M, out any) error
	InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter, update bson.M, opts ...UpdateOption) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
}

// Store exposes the marketplace collections. Handlers, guards and the
// checkout orchestrator receive it as an explicit dependency.
type Store interface {
	Users() Collection
	Products() Collection
	Categories() Collection
	Orders() Collection
	Advertise() Collection
	Wishlist() Collection
	Payments() Collection
}
