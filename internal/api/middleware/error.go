package middleware

import (
	"net/http"

	"hybrid-sizing/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts panics into the standard error envelope so a bad
// request body or a simulation edge case never tears down the server.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		msg := "unexpected internal error"
		switch v := recovered.(type) {
		case error:
			msg = v.Error()
		case string:
			msg = v
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: msg},
		})
	})
}
