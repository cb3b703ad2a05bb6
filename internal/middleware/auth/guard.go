package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/bikeghor/server/internal/models"
	"github.com/bikeghor/server/internal/store"
	"github.com/bikeghor/server/internal/token"
)

// CtxEmail is the context key carrying the token-decoded email.
const CtxEmail = "email"

// Guard holds the guard stages that run in front of the route handlers:
// token validation, role lookup and the ownership check. Each stage either
// attaches context and proceeds or short-circuits with 401/403.
type Guard struct {
	Tokens *token.Service
	Store  store.Store
}

func NewGuard(tokens *token.Service, s store.Store) *Guard {
	return &Guard{Tokens: tokens, Store: s}
}

// RequireToken demands a bearer token. A missing header is 401; a present
// but malformed, unsigned or expired token is 403. On success the decoded
// email is attached to the request context.
func (g *Guard) RequireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
		}
		claims, err := g.Tokens.Verify(parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
		}
		c.Set(CtxEmail, claims.Email)
		return next(c)
	}
}

// RequireSeller runs after RequireToken and demands the stored role seller.
func (g *Guard) RequireSeller(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireRole(models.RoleSeller, next)
}

// RequireAdmin runs after RequireToken and demands the stored role admin.
func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireRole(models.RoleAdmin, next)
}

func (g *Guard) requireRole(required models.Role, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		email := TokenEmail(c)
		var u models.User
		err := g.Store.Users().FindOne(c.Request().Context(), bson.M{"email": email}, &u)
		if err != nil {
			// No user document for the token's email is the same failure
			// as a wrong role.
			return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
		}
		switch u.Role {
		case models.RoleBuyer, models.RoleSeller, models.RoleAdmin:
			if u.Role != required {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
			}
		case models.RoleUnassigned:
			return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
		default:
			return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
		}
		return next(c)
	}
}

// RequireOwnEmail rejects requests whose email query parameter differs from
// the token email. It confirms the caller acts as themselves; role guards
// confirm what the caller may do.
func (g *Guard) RequireOwnEmail(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.QueryParam("email") != TokenEmail(c) {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
		}
		return next(c)
	}
}

// TokenEmail returns the email attached by RequireToken.
func TokenEmail(c echo.Context) string {
	email, _ := c.Get(CtxEmail).(string)
	return email
}

// OwnsEmail reports whether a caller-declared email matches the token email.
// Handlers use it when the declared identity arrives in the request body.
func OwnsEmail(c echo.Context, email string) bool {
	return email != "" && email == TokenEmail(c)
}
