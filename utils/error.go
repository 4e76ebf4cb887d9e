package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// HandleServiceError maps a domain error to an HTTP response. The action
// string names the user-visible operation that failed ("create booking" etc).
func HandleServiceError(c *gin.Context, err error, action string) {
	var (
		valErr   ValidationError
		nfErr    NotFoundError
		expErr   ExpiredError
		stateErr StateError
		permErr  PermissionError
	)
	switch {
	case errors.As(err, &valErr):
		JSONError(c, http.StatusBadRequest, valErr.Message, "")
	case errors.As(err, &nfErr):
		JSONError(c, http.StatusNotFound, nfErr.Message, "")
	case errors.As(err, &expErr):
		JSONError(c, http.StatusGone, expErr.Message, "")
	case errors.As(err, &stateErr):
		JSONError(c, http.StatusConflict, stateErr.Message, "")
	case errors.As(err, &permErr):
		JSONError(c, http.StatusUnauthorized, permErr.Message, "")
	default:
		GetLogger().Error("Failed to "+action, zap.Error(err))
		JSONError(c, http.StatusInternalServerError, "Failed to "+action, err.Error())
	}
}
