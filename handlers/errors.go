package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medisched/backend/apperrors"
)

// errorDetails is the standard error payload for domain failures.
type errorDetails struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Details   string    `json:"details"`
	Status    int       `json:"status"`
}

// respondError maps a service-layer error to the contract shape. The
// service layer decides the error kind; this is the only place that turns
// kinds into status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "An unexpected error occurred: " + err.Error()

	switch {
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
		message = err.Error()
	case apperrors.IsInvalidArgument(err), apperrors.IsIntegrity(err):
		status = http.StatusBadRequest
		message = err.Error()
	}

	c.JSON(status, errorDetails{
		Timestamp: time.Now(),
		Message:   message,
		Details:   "uri=" + c.Request.URL.Path,
		Status:    status,
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorDetails{
		Timestamp: time.Now(),
		Message:   message,
		Details:   "uri=" + c.Request.URL.Path,
		Status:    http.StatusBadRequest,
	})
}

func forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, errorDetails{
		Timestamp: time.Now(),
		Message:   "Access denied",
		Details:   "uri=" + c.Request.URL.Path,
		Status:    http.StatusForbidden,
	})
}

// unauthorized writes the 401 body produced on any authentication failure.
func unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid or missing authentication credentials"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":    http.StatusUnauthorized,
		"error":     "Unauthorized",
		"message":   message,
		"path":      c.Request.URL.Path,
		"timestamp": time.Now(),
	})
}
