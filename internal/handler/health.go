package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Pinger is anything with a connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns a JSON health check response.
// Checks the state store and, when a job queue is configured, Redis.
// Never exposes credentials or internals.
func Health(store Pinger, driver string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		storeStatus := "connected"
		if store.Ping(ctx) != nil {
			storeStatus = "error"
		}

		queueStatus := "disabled"
		if rdb != nil {
			queueStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				queueStatus = "error"
			}
		}

		status := http.StatusOK
		if storeStatus != "connected" || queueStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":      status == http.StatusOK,
			"storage": storeStatus,
			"driver":  driver,
			"queue":   queueStatus,
		})
	}
}
