package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bikeghor/server/internal/events"
	"github.com/bikeghor/server/internal/models"
	"github.com/bikeghor/server/internal/service/search"
	"github.com/bikeghor/server/internal/store"
)

type ProductHandler struct {
	Store  store.Store
	Search *search.Service
	Events events.Publisher
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req models.Product
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	req.ID = primitive.NilObjectID
	req.PostedAt = time.Now()
	req.Sold = false
	req.Booked = false

	id, err := h.Store.Products().InsertOne(ctx, req)
	if err != nil {
		return err
	}
	req.ID = id

	if h.Search != nil {
		if err := h.Search.IndexProduct(ctx, req); err != nil {
			c.Logger().Errorf("product index error: %v", err)
		}
	}

	publish(c, h.Events, id.Hex(), map[string]any{
		"type":      "product_created",
		"productId": id.Hex(),
		"seller":    req.SellerEmail,
	})

	return c.JSON(http.StatusCreated, req)
}

// ListBySeller is the seller's own listing: unfiltered by sold.
func (h *ProductHandler) ListBySeller(c echo.Context) error {
	var products []models.Product
	err := h.Store.Products().Find(c.Request().Context(),
		bson.M{"sellerEmail": c.QueryParam("email")}, &products)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get returns the product whatever its sold flag says.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var p models.Product
	err = h.Store.Products().FindOne(c.Request().Context(), bson.M{"_id": id}, &p)
	return nullIfMissing(c, err, p)
}

// ByCategory is the public browse: sold products do not appear here.
func (h *ProductHandler) ByCategory(c echo.Context) error {
	var products []models.Product
	err := h.Store.Products().Find(c.Request().Context(), bson.M{
		"categoryId": c.Param("id"),
		"sold":       false,
	}, &products)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	if h.Search == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	from := parseIntDefault(c.QueryParam("from"), 0)
	size := parseIntDefault(c.QueryParam("size"), 20)

	total, products, err := h.Search.Search(c.Request().Context(), q, from, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}

func (h *ProductHandler) Book(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.Store.Products().UpdateOne(c.Request().Context(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"booked": true}},
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Delete removes the product and whatever advertisement points at it.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	deleted, err := h.Store.Products().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if _, err := h.Store.Advertise().DeleteOne(ctx, bson.M{"productId": id.Hex()}); err != nil {
		c.Logger().Errorf("advertisement cleanup error: %v", err)
	}

	publish(c, h.Events, id.Hex(), map[string]any{
		"type":      "product_deleted",
		"productId": id.Hex(),
	})

	return c.JSON(http.StatusOK, echo.Map{"deletedCount": deleted})
}
