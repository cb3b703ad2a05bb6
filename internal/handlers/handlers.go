package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bikeghor/server/internal/events"
	"github.com/bikeghor/server/internal/store"
)

// softReject is the 200-with-message response for business-rule conflicts
// like a duplicate advertisement. It is deliberately not an error status.
func softReject(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, echo.Map{
		"acknowledged": false,
		"message":      message,
	})
}

// nullIfMissing turns a FindOne miss into a 200 null body. Absent documents
// are not 404s in this API.
func nullIfMissing(c echo.Context, err error, doc any) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusOK, nil)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// publish fires a marketplace event without failing the request. Publishing
// is best-effort; errors only reach the log.
func publish(c echo.Context, p events.Publisher, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.Publish(ctx, key, event); err != nil {
		c.Logger().Errorf("event publish error: %v", err)
	}
}
