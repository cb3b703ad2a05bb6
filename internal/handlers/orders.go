package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bikeghor/server/internal/models"
	"github.com/bikeghor/server/internal/store"
)

type OrderHandler struct {
	Store store.Store
}

func (h *OrderHandler) Create(c echo.Context) error {
	var req models.Order
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.ID = primitive.NilObjectID
	req.Paid = false
	req.CreatedAt = time.Now()

	id, err := h.Store.Orders().InsertOne(c.Request().Context(), req)
	if err != nil {
		return err
	}
	req.ID = id
	return c.JSON(http.StatusOK, req)
}

func (h *OrderHandler) List(c echo.Context) error {
	var orders []models.Order
	err := h.Store.Orders().Find(c.Request().Context(),
		bson.M{"email": c.QueryParam("email")}, &orders)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}
