package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bikeghor/server/internal/checkout"
	"github.com/bikeghor/server/internal/events"
	"github.com/bikeghor/server/internal/models"
	"github.com/bikeghor/server/internal/payment"
)

type PaymentHandler struct {
	Intents  payment.IntentCreator
	Checkout *checkout.Orchestrator
	Events   events.Publisher
}

const currency = "usd"

// CreateIntent asks the gateway for a payment intent on the given price and
// returns the client secret the frontend needs to confirm the payment.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var req struct {
		Price float64 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Price <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be positive")
	}

	amount := int64(math.Round(req.Price * 100))
	intent, err := h.Intents.CreateIntent(c.Request().Context(), amount, currency)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"clientSecret": intent.ClientSecret})
}

// Record persists a completed payment and runs the purchase flow that
// retires the product across the other collections.
func (h *PaymentHandler) Record(c echo.Context) error {
	var req models.Payment
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.ID = primitive.NilObjectID
	req.CreatedAt = time.Now()

	res, err := h.Checkout.Complete(c.Request().Context(), req)
	if err != nil {
		return err
	}

	publish(c, h.Events, req.ProductID, map[string]any{
		"type":      "product_sold",
		"productId": req.ProductID,
		"price":     req.Price,
		"buyer":     req.Email,
	})

	return c.JSON(http.StatusOK, res)
}
