package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bikeghor/server/internal/events"
	"github.com/bikeghor/server/internal/models"
	"github.com/bikeghor/server/internal/store"
	"github.com/bikeghor/server/internal/token"
)

type UserHandler struct {
	Store  store.Store
	Tokens *token.Service
	Events events.Publisher
}

// CreateUser is idempotent: posting the same email twice returns the stored
// document both times and never duplicates it.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.User
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	ctx := c.Request().Context()

	var existing models.User
	err := h.Store.Users().FindOne(ctx, bson.M{"email": req.Email}, &existing)
	if err == nil {
		return c.JSON(http.StatusOK, existing)
	}
	if err != store.ErrNotFound {
		return err
	}

	req.ID = primitive.NilObjectID
	req.CreatedAt = time.Now()
	id, err := h.Store.Users().InsertOne(ctx, req)
	if err != nil {
		return err
	}
	req.ID = id

	publish(c, h.Events, req.Email, map[string]any{
		"type":  "user_created",
		"email": req.Email,
		"role":  req.Role,
	})

	return c.JSON(http.StatusOK, req)
}

func (h *UserHandler) roleOf(c echo.Context, email string) (models.Role, error) {
	var u models.User
	err := h.Store.Users().FindOne(c.Request().Context(), bson.M{"email": email}, &u)
	if err == store.ErrNotFound {
		return models.RoleUnassigned, nil
	}
	if err != nil {
		return models.RoleUnassigned, err
	}
	return u.Role, nil
}

func (h *UserHandler) IsBuyer(c echo.Context) error {
	role, err := h.roleOf(c, c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"isBuyer": role == models.RoleBuyer})
}

func (h *UserHandler) IsSeller(c echo.Context) error {
	role, err := h.roleOf(c, c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"isSeller": role == models.RoleSeller})
}

func (h *UserHandler) IsAdmin(c echo.Context) error {
	role, err := h.roleOf(c, c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"isAdmin": role == models.RoleAdmin})
}

// GetSeller returns the seller profile for the email in the query.
func (h *UserHandler) GetSeller(c echo.Context) error {
	var u models.User
	err := h.Store.Users().FindOne(c.Request().Context(), bson.M{
		"email": c.QueryParam("email"),
		"role":  models.RoleSeller,
	}, &u)
	return nullIfMissing(c, err, u)
}

// IssueToken hands out a session token only for emails that already exist
// as users. Unknown emails get 403 with an explicit empty token instead of
// a failed request.
func (h *UserHandler) IssueToken(c echo.Context) error {
	email := c.QueryParam("email")

	var u models.User
	err := h.Store.Users().FindOne(c.Request().Context(), bson.M{"email": email}, &u)
	if err == store.ErrNotFound {
		return c.JSON(http.StatusForbidden, echo.Map{"accessToken": ""})
	}
	if err != nil {
		return err
	}

	raw, err := h.Tokens.Issue(u.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"accessToken": raw})
}

func (h *UserHandler) ListSellers(c echo.Context) error {
	var sellers []models.User
	if err := h.Store.Users().Find(c.Request().Context(), bson.M{"role": models.RoleSeller}, &sellers); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sellers)
}

func (h *UserHandler) ListBuyers(c echo.Context) error {
	var buyers []models.User
	if err := h.Store.Users().Find(c.Request().Context(), bson.M{"role": models.RoleBuyer}, &buyers); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, buyers)
}

// VerifySeller flips the verified flag on a seller document.
func (h *UserHandler) VerifySeller(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.Store.Users().UpdateOne(c.Request().Context(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"verified": true}},
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	deleted, err := h.Store.Users().DeleteOne(c.Request().Context(), bson.M{"_id": id})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"deletedCount": deleted})
}
