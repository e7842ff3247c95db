package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nikhil00shinde/pokemon-api/internal/cache"
	"github.com/nikhil00shinde/pokemon-api/internal/services"
	"github.com/nikhil00shinde/pokemon-api/pkg/metrics"
	"github.com/nikhil00shinde/pokemon-api/pkg/response"
)

const probeTimeout = 2 * time.Second

// HealthHandler reports process and dependency health. The database probe
// decides healthy vs unhealthy; the cache probe only degrades the report,
// matching the fail-open read path.
type HealthHandler struct {
	db        *gorm.DB
	cache     cache.Store
	svc       *services.PokedexService
	startedAt time.Time
}

func NewHealthHandler(db *gorm.DB, store cache.Store, svc *services.PokedexService) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     store,
		svc:       svc,
		startedAt: time.Now(),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := timeoutContext(c, probeTimeout)
	defer cancel()

	hostname, _ := os.Hostname()

	body := gin.H{
		"timestamp":    time.Now().UTC(),
		"container_id": hostname,
		"uptime":       time.Since(h.startedAt).Seconds(),
	}

	if err := h.pingDatabase(ctx); err != nil {
		body["status"] = "unhealthy"
		body["database"] = "disconnected"
		response.JSON(c, http.StatusInternalServerError, body)
		return
	}
	body["database"] = "connected"

	switch {
	case h.cache == nil:
		body["cache"] = "disabled"
	case h.cache.Ping(ctx) != nil:
		body["cache"] = "degraded"
	default:
		body["cache"] = "connected"
	}

	body["status"] = "healthy"
	response.JSON(c, http.StatusOK, body)
}

// Stats handles GET /stats
func (h *HealthHandler) Stats(c *gin.Context) {
	count, err := h.svc.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	hostname, _ := os.Hostname()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	body := gin.H{
		"container": gin.H{
			"name":     "Pokemon API",
			"hostname": hostname,
			"platform": runtime.GOOS,
			"uptime":   time.Since(h.startedAt).Seconds(),
			"memory": gin.H{
				"alloc_bytes": mem.Alloc,
				"sys_bytes":   mem.Sys,
			},
			"cpus": runtime.NumCPU(),
		},
		"pokemon_count": count,
	}

	if sqlDB, dbErr := h.db.DB(); dbErr == nil {
		stats := sqlDB.Stats()
		metrics.DBPoolInUse.Set(float64(stats.InUse))
		body["database"] = gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
			"wait_count":       stats.WaitCount,
			"max_open":         stats.MaxOpenConnections,
		}
	}

	response.JSON(c, http.StatusOK, body)
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func timeoutContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
