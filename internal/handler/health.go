package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthCheckTimeout = 3 * time.Second

// Health reports liveness of the API and its two backing stores. Each store
// is pinged with a short deadline; if either postgres or redis stops
// answering the endpoint degrades to 503 so load balancers pull the
// instance. Credentials and driver errors never leak into the response.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		checks := gin.H{"postgres": "up", "redis": "up"}

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			checks["postgres"] = "down"
		}
		if rdb.Ping(ctx).Err() != nil {
			checks["redis"] = "down"
		}

		status, label := http.StatusOK, "ok"
		if checks["postgres"] != "up" || checks["redis"] != "up" {
			status, label = http.StatusServiceUnavailable, "degraded"
		}

		c.JSON(status, gin.H{"status": label, "checks": checks})
	}
}
