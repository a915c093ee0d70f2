package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()

		c.Next()

		if c.Request.URL.Path == "/healthz" {
			return
		}
		slog.Info("handled request",
			"method", c.Request.Method,
			"url", c.Request.URL.String(),
			"status", c.Writer.Status(),
			"duration", time.Since(now),
		)
	}
}
