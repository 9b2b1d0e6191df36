// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger は依存先の疎通確認です。*sql.DB や redis の Ping をラップして渡します。
type Pinger func(ctx context.Context) error

const pingTimeout = 2 * time.Second

// Health は /healthz エンドポイントのハンドラーを返します。
// checks のいずれかが失敗した場合は 503 を返します。キャッシュは常に防止します。
func Health(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		status := http.StatusOK
		result := gin.H{"status": "ok"}
		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				slog.Warn("health check failed", "dependency", name, "error", err)
				status = http.StatusServiceUnavailable
				result["status"] = "degraded"
				result[name] = "down"
				continue
			}
			result[name] = "up"
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}
		c.JSON(status, result)
	}
}
