package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"harbor-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
// Handlers may set "checkinId" and "riskLevel" on the context to enrich the line.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		isGuest, _ := c.Get("isGuest")
		checkinID, _ := c.Get("checkinId")
		riskLevel, _ := c.Get("riskLevel")

		telemetry.Info("request.complete", map[string]any{
			"request_id":  reqID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"guest_id":    GuestIDFromContext(c),
			"checkin_id":  checkinID,
			"risk_level":  riskLevel,
			"is_guest":    isGuest,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
