package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/bikeghor/server/internal/models"
	"github.com/bikeghor/server/internal/store"
)

func TestCompleteRetiresProductEverywhere(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	productID, err := s.Products().InsertOne(ctx, models.Product{
		Name: "roadster", CategoryID: "c1", Price: 120, SellerEmail: "seller@x.com",
	})
	require.NoError(t, err)
	pid := productID.Hex()

	_, err = s.Orders().InsertOne(ctx, models.Order{ProductID: pid, Email: "buyer@x.com"})
	require.NoError(t, err)
	_, err = s.Advertise().InsertOne(ctx, models.Advertisement{ProductID: pid, SellerEmail: "seller@x.com"})
	require.NoError(t, err)
	_, err = s.Wishlist().InsertOne(ctx, models.WishlistEntry{ProductID: pid, Email: "buyer@x.com"})
	require.NoError(t, err)
	_, err = s.Wishlist().InsertOne(ctx, models.WishlistEntry{ProductID: pid, Email: "other@x.com"})
	require.NoError(t, err)

	res, err := NewOrchestrator(s).Complete(ctx, models.Payment{
		ProductID: pid, Price: 120, Email: "buyer@x.com", TransactionID: "tx_1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.PaymentID)
	require.Equal(t, int64(1), res.Order.Matched)
	require.Equal(t, int64(1), res.Product.Modified)
	require.Equal(t, int64(1), res.Advertisement.Modified)
	require.Equal(t, int64(2), res.WishlistDeleted)

	var order models.Order
	require.NoError(t, s.Orders().FindOne(ctx, bson.M{"productId": pid}, &order))
	require.True(t, order.Paid)
	require.Equal(t, "tx_1", order.TransactionID)

	var product models.Product
	require.NoError(t, s.Products().FindOne(ctx, bson.M{"_id": productID}, &product))
	require.True(t, product.Sold)

	// Retired, not deleted.
	var ad models.Advertisement
	require.NoError(t, s.Advertise().FindOne(ctx, bson.M{"productId": pid}, &ad))
	require.True(t, ad.Sold)

	var wl []models.WishlistEntry
	require.NoError(t, s.Wishlist().Find(ctx, bson.M{"productId": pid}, &wl))
	require.Empty(t, wl)

	var pay models.Payment
	require.NoError(t, s.Payments().FindOne(ctx, bson.M{"productId": pid}, &pay))
	require.Equal(t, 120.0, pay.Price)
}

func TestCompleteUpsertsMissingOrder(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	productID, err := s.Products().InsertOne(ctx, models.Product{Name: "mtb", CategoryID: "c1"})
	require.NoError(t, err)
	pid := productID.Hex()

	res, err := NewOrchestrator(s).Complete(ctx, models.Payment{ProductID: pid, Price: 50})
	require.NoError(t, err)
	require.Empty(t, res.Order.Error)

	var order models.Order
	require.NoError(t, s.Orders().FindOne(ctx, bson.M{"productId": pid}, &order))
	require.True(t, order.Paid)
}

func TestCompletePartialApplicationIsKept(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	// "not-a-hex-id" makes the product step fail; everything else still runs
	// and nothing already applied is rolled back.
	pid := "not-a-hex-id"
	_, err := s.Orders().InsertOne(ctx, models.Order{ProductID: pid, Email: "buyer@x.com"})
	require.NoError(t, err)
	_, err = s.Wishlist().InsertOne(ctx, models.WishlistEntry{ProductID: pid, Email: "buyer@x.com"})
	require.NoError(t, err)

	res, err := NewOrchestrator(s).Complete(ctx, models.Payment{ProductID: pid, Price: 10})
	require.NoError(t, err)
	require.NotEmpty(t, res.Product.Error)
	require.Equal(t, int64(1), res.Order.Matched)
	require.Equal(t, int64(1), res.WishlistDeleted)

	var order models.Order
	require.NoError(t, s.Orders().FindOne(ctx, bson.M{"productId": pid}, &order))
	require.True(t, order.Paid)

	var pay models.Payment
	require.NoError(t, s.Payments().FindOne(ctx, bson.M{"productId": pid}, &pay))
	require.Equal(t, 10.0, pay.Price)
}
