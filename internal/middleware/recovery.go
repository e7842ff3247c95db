package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nikhil00shinde/pokemon-api/pkg/logger"
	"github.com/nikhil00shinde/pokemon-api/pkg/response"
)

// Recovery converts panics into a 500 response and logs the error.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithModule("http").Error("panic",
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", r),
				)
				// Avoid leaking internals to clients
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorBody{
					Error: response.ErrorInfo{
						Code:    "INTERNAL_SERVER_ERROR",
						Message: "Internal server error",
					},
				})
			}
		}()
		c.Next()
	}
}
