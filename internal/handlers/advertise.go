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

type AdvertiseHandler struct {
	Store store.Store
}

// Create advertises a product. At most one advertisement per productId:
// a second attempt is soft-rejected with a message, not an error status.
// Check-then-insert with no lock; the race on near-simultaneous requests
// is accepted.
func (h *AdvertiseHandler) Create(c echo.Context) error {
	var req models.Advertisement
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !auth.OwnsEmail(c, req.SellerEmail) {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
	}

	ctx := c.Request().Context()

	var existing models.Advertisement
	err := h.Store.Advertise().FindOne(ctx, bson.M{"productId": req.ProductID}, &existing)
	if err == nil {
		return softReject(c, "product is already advertised")
	}
	if err != store.ErrNotFound {
		return err
	}

	req.ID = primitive.NilObjectID
	req.Sold = false
	req.CreatedAt = time.Now()
	id, err := h.Store.Advertise().InsertOne(ctx, req)
	if err != nil {
		return err
	}
	req.ID = id
	return c.JSON(http.StatusOK, req)
}

// List returns the advertisements still on offer; retired ones stay in the
// collection but not in this listing.
func (h *AdvertiseHandler) List(c echo.Context) error {
	var ads []models.Advertisement
	if err := h.Store.Advertise().Find(c.Request().Context(), bson.M{"sold": false}, &ads); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ads)
}

func (h *AdvertiseHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	deleted, err := h.Store.Advertise().DeleteOne(c.Request().Context(), bson.M{"_id": id})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"deletedCount": deleted})
}
