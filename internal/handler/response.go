package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope every endpoint returns: reports, profiles,
// dashboards and errors all land under the same three keys so clients parse
// one shape.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success writes a success envelope. A zero status defaults to 200.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Error writes an error envelope. A zero status defaults to 500.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:  "error",
		Message: message,
	}
	return c.JSON(status, payload)
}
