package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/handler"
	"portfolio/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	guard *auth.Guard,
	userHandler *handler.UserHandler,
	articleHandler *handler.ArticleHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"success":     true,
			"message":     "Server is running",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.Environment,
		})
	})

	// Public routes
	api.POST("/users/register", userHandler.Register)
	api.POST("/users/login", userHandler.Login)

	// Public article routes; a valid token upgrades visibility for drafts.
	api.GET("/articles", articleHandler.List, guard.OptionalAuthenticate())
	api.GET("/articles/:name", articleHandler.GetByName, guard.OptionalAuthenticate())

	// Secured routes (require a verified bearer token and a live user)
	secured := api.Group("", guard.Authenticate(), guard.ResolveUser())

	secured.GET("/users/profile", userHandler.Profile)
	secured.PUT("/users/profile", userHandler.UpdateProfile)
	secured.GET("/users", userHandler.ListUsers, guard.RequireRoles(model.RoleAdmin))
	secured.DELETE("/users/:id", userHandler.DeleteUser, guard.RequireRoles(model.RoleAdmin))

	secured.GET("/articles/stats", articleHandler.Stats, guard.RequireRoles(model.RoleEditor, model.RoleAdmin))
	secured.POST("/articles", articleHandler.Create, guard.RequireRoles(model.RoleEditor, model.RoleAdmin))
	secured.PUT("/articles/:id", articleHandler.Update)
	secured.DELETE("/articles/:id", articleHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
