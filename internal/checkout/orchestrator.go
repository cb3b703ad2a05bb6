package checkout

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bikeghor/server/internal/models"
	"github.com/bikeghor/server/internal/store"
)

// StepResult is the outcome of one collection mutation in the purchase flow.
type StepResult struct {
	Matched  int64  `json:"matched"`
	Modified int64  `json:"modified"`
	Error    string `json:"error,omitempty"`
}

// Result aggregates every mutation triggered by a recorded payment. Steps
// are independent: an error in one does not undo the others.
type Result struct {
	PaymentID       string     `json:"paymentId"`
	Order           StepResult `json:"order"`
	Product         StepResult `json:"product"`
	Advertisement   StepResult `json:"advertisement"`
	WishlistDeleted int64      `json:"wishlistDeleted"`
	WishlistError   string     `json:"wishlistError,omitempty"`
}

// Orchestrator applies the multi-collection update that retires a product
// from the marketplace once it has been paid for.
type Orchestrator struct {
	store store.Store
}

func NewOrchestrator(s store.Store) *Orchestrator {
	return &Orchestrator{store: s}
}

// Complete persists the payment, then marks the order paid (upserting a stub
// if no order exists for the product), flips the product to sold, retires
// the advertisement and removes every wishlist entry for the product.
//
// There is no transaction around the steps. If a later step fails, the
// earlier mutations stay applied; the Result reports each step so callers
// can see a partial application instead of having it masked.
func (o *Orchestrator) Complete(ctx context.Context, p models.Payment) (*Result, error) {
	payID, err := o.store.Payments().InsertOne(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	res := &Result{PaymentID: payID.Hex()}

	// The order is located by productId alone, not by buyer email.
	upd, err := o.store.Orders().UpdateOne(ctx,
		bson.M{"productId": p.ProductID},
		bson.M{"$set": bson.M{"paid": true, "transactionId": p.TransactionID}},
		store.Upsert(),
	)
	res.Order = stepResult(upd, err)

	// The product is addressed by its document id, which the payment
	// carries as productId.
	oid, err := primitive.ObjectIDFromHex(p.ProductID)
	if err != nil {
		res.Product = StepResult{Error: fmt.Sprintf("invalid product id: %v", err)}
	} else {
		upd, err = o.store.Products().UpdateOne(ctx,
			bson.M{"_id": oid},
			bson.M{"$set": bson.M{"sold": true}},
		)
		res.Product = stepResult(upd, err)
	}

	// The advertisement is retired, not deleted; it stays queryable.
	upd, err = o.store.Advertise().UpdateOne(ctx,
		bson.M{"productId": p.ProductID},
		bson.M{"$set": bson.M{"sold": true}},
	)
	res.Advertisement = stepResult(upd, err)

	// Every user's wishlist entry for the product goes away, not just the
	// buyer's.
	deleted, err := o.store.Wishlist().DeleteMany(ctx, bson.M{"productId": p.ProductID})
	res.WishlistDeleted = deleted
	if err != nil {
		res.WishlistError = err.Error()
	}

	return res, nil
}

func stepResult(upd store.UpdateResult, err error) StepResult {
	if err != nil {
		return StepResult{Error: err.Error()}
	}
	return StepResult{Matched: upd.Matched, Modified: upd.Modified}
}
