package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "portfolio/internal/errors"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse is the envelope for paginated listings.
type ListResponse struct {
	Success     bool        `json:"success"`
	Count       int         `json:"count"`
	Total       int64       `json:"total"`
	Pages       int         `json:"pages"`
	CurrentPage int         `json:"currentPage"`
	Data        interface{} `json:"data"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// respondError maps a domain error to its HTTP status and message. Unexpected
// errors are logged and answered with a generic 500 body.
func respondError(c echo.Context, err error) error {
	status, message := apperrors.StatusFor(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(status, Response{Success: false, Message: message})
}

func respondBadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Response{Success: false, Message: message})
}
