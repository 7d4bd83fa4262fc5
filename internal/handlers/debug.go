package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"signaling-service/internal/rooms"
	"signaling-service/internal/telemetry"
	"signaling-service/internal/ws"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, registry *rooms.Registry, hub *ws.Hub, emitter *telemetry.AuditEmitter, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"connections": hub.Count(),
			"rooms":       registry.Stats(),
		})
	})

	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		emitter.Emit(c.Request.Context(), "audit_test", "debug endpoint", "")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
