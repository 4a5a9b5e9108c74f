package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports process liveness.
func (h *HealthHandler) Health(c *gin.Context) {
	RespondOK(c, gin.H{"status": "ok"})
}

// Ready reports whether the database is reachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "NOT_READY", "database unreachable")
		return
	}
	RespondOK(c, gin.H{"status": "ready"})
}
