package api

import "github.com/gin-gonic/gin"

import "github.com/nikhil00shinde/pokemon-api/internal/handlers"

func registerPokemonRoutes(r *gin.Engine, handler *handlers.PokemonHandler) {
	if r == nil || handler == nil {
		return
	}

	pokemon := r.Group("/pokemon")
	{
		pokemon.GET("", handler.List)
		pokemon.POST("", handler.Create)
		pokemon.GET(":id", handler.Get)
		pokemon.PATCH(":id", handler.UpdateLevel)
		pokemon.DELETE(":id", handler.Delete)
	}
}
