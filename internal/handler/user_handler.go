package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"portfolio/internal/auth"
	"portfolio/internal/service"
)

// UserHandler handles registration, login and account endpoints.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Age             *int   `json:"age" validate:"omitempty,gte=0"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is a partial self-update; absent fields stay untouched.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Age      *int    `json:"age"`
}

// AuthPayload pairs a user with a freshly issued token.
type AuthPayload struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Router /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, "Please provide all required fields")
	}

	user, token, err := h.users.Register(c.Request().Context(), service.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Age:             req.Age,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, "User registered successfully", AuthPayload{User: user, Token: token})
}

// Login godoc
// @Summary Authenticate a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, "Please provide email and password")
	}

	user, token, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "Login successful", AuthPayload{User: user, Token: token})
}

// Profile godoc
// @Summary Get the current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	return respond(c, http.StatusOK, "", auth.CurrentUser(c))
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	caller := auth.CurrentUser(c)
	user, err := h.users.UpdateProfile(c.Request().Context(), caller.ID, service.ProfileUpdate{
		FullName: req.FullName,
		Age:      req.Age,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "Profile updated successfully", user)
}

// ListUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ListResponse
// @Failure 403 {object} Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(users),
		"data":    users,
	})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid user id")
	}
	if err := h.users.Delete(c.Request().Context(), uint(id)); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}
