package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports whether the API can reach its backing stores. The POS
// frontend polls this before opening the billing screen; a degraded store
// turns the whole response 503 so the poll stays a single boolean check.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{
			"postgres": pingPostgres(ctx, db),
			"redis":    pingRedis(ctx, rdb),
		}

		code := http.StatusOK
		for _, state := range checks {
			if state != "up" {
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"healthy": code == http.StatusOK,
			"checks":  checks,
		})
	}
}

func pingPostgres(ctx context.Context, db *gorm.DB) string {
	if db == nil {
		return "down"
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return "down"
	}
	return "up"
}

func pingRedis(ctx context.Context, rdb *redis.Client) string {
	if rdb == nil {
		return "down"
	}
	if rdb.Ping(ctx).Err() != nil {
		return "down"
	}
	return "up"
}
