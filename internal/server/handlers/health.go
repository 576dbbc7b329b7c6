package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tour-platform/api/internal/policy/engine"
)

// Pinger is the database liveness check.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports readiness: database reachable and policy engine evaluating.
func Health(db Pinger, eval engine.Evaluator) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{"database": "ok", "policy": "ok"}
		healthy := true
		if err := db.PingContext(c.Request.Context()); err != nil {
			checks["database"] = "unreachable"
			healthy = false
		}
		if err := eval.HealthCheck(c.Request.Context()); err != nil {
			checks["policy"] = "failing"
			healthy = false
		}
		status := http.StatusOK
		overall := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}
		c.JSON(status, gin.H{"status": overall, "checks": checks})
	}
}
