package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/bikeghor/server/internal/models"
	"github.com/bikeghor/server/internal/store"
)

type CategoryHandler struct {
	Store store.Store
}

func (h *CategoryHandler) List(c echo.Context) error {
	var categories []models.Category
	if err := h.Store.Categories().Find(c.Request().Context(), bson.M{}, &categories); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}
