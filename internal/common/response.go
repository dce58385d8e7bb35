package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the standardized JSON response envelope.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Respond sends a JSON envelope with an explicit status and message.
func Respond(c *gin.Context, statusCode int, status, message string, data any) {
	c.JSON(statusCode, APIResponse{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// Success sends a successful JSON response with data.
func Success(c *gin.Context, statusCode int, message string, data any) {
	Respond(c, statusCode, StatusSuccess, message, data)
}

// Error sends an error JSON response.
func Error(c *gin.Context, statusCode int, message string) {
	Respond(c, statusCode, StatusError, message, nil)
}

// HandleError inspects a domain error and sends the appropriate HTTP response.
// Uses errors.As to traverse the full error chain, supporting wrapped errors.
func HandleError(c *gin.Context, err error) {
	var validation *ValidationError
	var unauthorized *UnauthorizedError

	switch {
	case errors.As(err, &validation):
		Error(c, http.StatusBadRequest, validation.Error())
	case errors.As(err, &unauthorized):
		Error(c, http.StatusUnauthorized, unauthorized.Error())
	default:
		Error(c, http.StatusInternalServerError, "internal server error")
	}
}
