package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"portfolio/internal/model"
	"portfolio/internal/repository"
)

const (
	claimsContextKey = "claims"
	userContextKey   = "currentUser"
)

// Guard resolves the caller behind a bearer token and enforces role
// membership. It is stateless beyond the user lookup.
type Guard struct {
	tokens *JWTService
	users  repository.UserRepository
}

// NewGuard creates a guard over the given token service and user store.
func NewGuard(tokens *JWTService, users repository.UserRepository) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authenticate verifies the bearer token on the request. Missing and invalid
// tokens are both rejected with 401 and distinct messages.
func (g *Guard) Authenticate() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return g.tokens.ValidateToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			message := "Not authorized, no token provided"
			if errors.Is(err, ErrInvalidToken) {
				message = "Not authorized, token failed"
			}
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": message,
			})
		},
	})
}

// ResolveUser loads the user referenced by verified token claims and attaches
// it to the request context. Runs after Authenticate.
func (g *Guard) ResolveUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*Claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Not authorized, token failed",
				})
			}
			user, err := g.users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Not authorized, user not found",
				})
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
// Runs after ResolveUser.
func (g *Guard) RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Not authorized, user not found",
				})
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"message": fmt.Sprintf("Role %s is not authorized to access this resource", user.Role),
			})
		}
	}
}

// OptionalAuthenticate resolves a caller when a valid bearer token is present
// and stays anonymous otherwise. Used on public article routes where drafts
// are visible to privileged callers only.
func (g *Guard) OptionalAuthenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return next(c)
			}
			claims, err := g.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return next(c)
			}
			if user, err := g.users.FindByID(c.Request().Context(), claims.UserID); err == nil {
				c.Set(userContextKey, user)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the resolved caller, or nil for anonymous requests.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}
