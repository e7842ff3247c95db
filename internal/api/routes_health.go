package api

import "github.com/gin-gonic/gin"

import "github.com/nikhil00shinde/pokemon-api/internal/handlers"

func registerHealthRoutes(r *gin.Engine, handler *handlers.HealthHandler) {
	if r == nil || handler == nil {
		return
	}

	r.GET("/health", handler.Health)
	r.GET("/stats", handler.Stats)
}
