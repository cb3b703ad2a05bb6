package store

import (
	"context"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/bikeghor/server/internal/models"
)

func TestMemoryInsertFindOne(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	id, err := s.Users().InsertOne(ctx, models.User{Email: "a@x.com", Role: models.RoleSeller})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id.IsZero() {
		t.Fatalf("expected generated id")
	}

	var u models.User
	if err := s.Users().FindOne(ctx, bson.M{"email": "a@x.com"}, &u); err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.ID != id || u.Role != models.RoleSeller {
		t.Fatalf("unexpected: %+v", u)
	}

	if err := s.Users().FindOne(ctx, bson.M{"email": "b@x.com"}, &u); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryFindFilters(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	for _, p := range []models.Product{
		{Name: "roadster", CategoryID: "c1", Price: 120, SellerEmail: "a@x.com"},
		{Name: "mtb", CategoryID: "c1", Price: 300, SellerEmail: "a@x.com", Sold: true},
		{Name: "bmx", CategoryID: "c2", Price: 90, SellerEmail: "b@x.com"},
	} {
		if _, err := s.Products().InsertOne(ctx, p); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	var unsold []models.Product
	if err := s.Products().Find(ctx, bson.M{"categoryId": "c1", "sold": false}, &unsold); err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(unsold) != 1 || unsold[0].Name != "roadster" {
		t.Fatalf("unexpected: %+v", unsold)
	}

	var mine []models.Product
	if err := s.Products().Find(ctx, bson.M{"sellerEmail": "a@x.com"}, &mine); err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("seller listing must include sold products, got %d", len(mine))
	}
}

func TestMemoryUpdateOne(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	id, _ := s.Products().InsertOne(ctx, models.Product{Name: "roadster", CategoryID: "c1"})

	res, err := s.Products().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"sold": true}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Matched != 1 || res.Modified != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	var p models.Product
	if err := s.Products().FindOne(ctx, bson.M{"_id": id}, &p); err != nil {
		t.Fatalf("find: %v", err)
	}
	if !p.Sold {
		t.Fatalf("expected sold=true")
	}
}

func TestMemoryUpdateUpsert(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	res, err := s.Orders().UpdateOne(ctx,
		bson.M{"productId": "p1"},
		bson.M{"$set": bson.M{"paid": true}},
	)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Matched != 0 || res.UpsertedID != "" {
		t.Fatalf("no-upsert update must not insert: %+v", res)
	}

	res, err = s.Orders().UpdateOne(ctx,
		bson.M{"productId": "p1"},
		bson.M{"$set": bson.M{"paid": true}},
		Upsert(),
	)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.UpsertedID == "" {
		t.Fatalf("expected upserted id")
	}

	var o models.Order
	if err := s.Orders().FindOne(ctx, bson.M{"productId": "p1"}, &o); err != nil {
		t.Fatalf("find: %v", err)
	}
	if !o.Paid {
		t.Fatalf("upserted stub must carry the $set fields: %+v", o)
	}
}

func TestMemoryDeleteMany(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	s.Wishlist().InsertOne(ctx, models.WishlistEntry{ProductID: "p1", Email: "a@x.com"})
	s.Wishlist().InsertOne(ctx, models.WishlistEntry{ProductID: "p1", Email: "b@x.com"})
	s.Wishlist().InsertOne(ctx, models.WishlistEntry{ProductID: "p2", Email: "a@x.com"})

	n, err := s.Wishlist().DeleteMany(ctx, bson.M{"productId": "p1"})
	if err != nil {
		t.Fatalf("delete many: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}

	var rest []models.WishlistEntry
	if err := s.Wishlist().Find(ctx, bson.M{}, &rest); err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rest) != 1 || rest[0].ProductID != "p2" {
		t.Fatalf("unexpected remainder: %+v", rest)
	}
}

func TestMemoryConcurrentInserts(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Payments().InsertOne(ctx, models.Payment{ProductID: "p1", Price: 10}); err != nil {
				t.Errorf("insert: %v", err)
			}
		}()
	}
	wg.Wait()

	var all []models.Payment
	if err := s.Payments().Find(ctx, bson.M{"productId": "p1"}, &all); err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(all) != 50 {
		t.Fatalf("expected 50 payments, got %d", len(all))
	}
}
