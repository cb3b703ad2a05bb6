package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bikeghor/server/internal/middleware/auth"
	"github.com/bikeghor/server/internal/models"
	"github.com/bikeghor/server/internal/store"
)

type WishlistHandler struct {
	Store store.Store
}

// Create adds a product to the caller's wishlist; a duplicate entry for the
// same product is soft-rejected. Different users may wishlist the same
// product, which is why payment completion deletes entries in bulk.
func (h *WishlistHandler) Create(c echo.Context) error {
	var req models.WishlistEntry
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !auth.OwnsEmail(c, req.Email) {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
	}

	ctx := c.Request().Context()

	var existing models.WishlistEntry
	err := h.Store.Wishlist().FindOne(ctx, bson.M{"productId": req.ProductID, "email": req.Email}, &existing)
	if err == nil {
		return softReject(c, "product is already in the wishlist")
	}
	if err != store.ErrNotFound {
		return err
	}

	req.ID = primitive.NilObjectID
	req.CreatedAt = time.Now()
	id, err := h.Store.Wishlist().InsertOne(ctx, req)
	if err != nil {
		return err
	}
	req.ID = id
	return c.JSON(http.StatusOK, req)
}

func (h *WishlistHandler) List(c echo.Context) error {
	var entries []models.WishlistEntry
	err := h.Store.Wishlist().Find(c.Request().Context(),
		bson.M{"email": c.QueryParam("email")}, &entries)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
