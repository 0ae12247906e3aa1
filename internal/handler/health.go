package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/fitri99main/winny-pos-sub002/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports store and queue liveness plus the depth of the alert
// pipeline, so a stalled worker is visible before its DLQ fills up.
// Credentials and connection details are never echoed back.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		healthy := true
		checks := gin.H{}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			healthy = false
			checks["postgres"] = "unreachable"
		} else {
			checks["postgres"] = "up"
		}

		if err := rdb.Ping(ctx).Err(); err != nil {
			healthy = false
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "up"
			// Depth gauges are best effort, the check stays green without them.
			if pending, err := rdb.LLen(ctx, worker.QueueAlerts).Result(); err == nil {
				checks["alert_queue_depth"] = pending
			}
			if dead, err := worker.DLQLength(ctx, rdb, worker.QueueAlerts); err == nil {
				checks["alert_dlq_depth"] = dead
			}
		}

		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"ok": healthy, "checks": checks})
	}
}
