package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/nikhil00shinde/pokemon-api/internal/app"
	"github.com/nikhil00shinde/pokemon-api/internal/cache"
	"github.com/nikhil00shinde/pokemon-api/internal/handlers"
	"github.com/nikhil00shinde/pokemon-api/internal/middleware"
	"github.com/nikhil00shinde/pokemon-api/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, store cache.Store, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	svc, err := services.NewPokedexService(db, store, cfg.Cache.ListTTL)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	if cfg.Server.RateLimit.Enabled {
		rateStore := middleware.NewCacheRateStore(store)
		if rateStore == nil {
			rateStore = middleware.NewMemoryRateStore()
		}
		r.Use(middleware.RateLimit(rateStore, cfg.Server.RateLimit.MaxRequests, cfg.Server.RateLimit.Window))
	}

	registerPokemonRoutes(r, handlers.NewPokemonHandler(svc))
	registerHealthRoutes(r, handlers.NewHealthHandler(db, store, svc))

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	return r, nil
}
