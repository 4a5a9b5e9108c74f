package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billdex/internal/service"
)

// AdminHandler exposes operational toggles and the quota snapshot.
type AdminHandler struct {
	flags *service.FlagService
	quota *service.QuotaService
}

func NewAdminHandler(flags *service.FlagService, quota *service.QuotaService) *AdminHandler {
	return &AdminHandler{flags: flags, quota: quota}
}

// GetFlags returns the effective value of every feature flag.
func (h *AdminHandler) GetFlags(c *gin.Context) {
	flags, err := h.flags.All(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, flags)
}

type setFlagRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetFlag flips one feature flag.
func (h *AdminHandler) SetFlag(c *gin.Context) {
	var req setFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "body must be {\"enabled\": true|false}")
		return
	}

	key := c.Param("key")
	if err := h.flags.Set(c.Request.Context(), key, *req.Enabled); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"key": key, "enabled": *req.Enabled})
}

// GetQuota returns the current month's usage snapshot.
func (h *AdminHandler) GetQuota(c *gin.Context) {
	snapshot, err := h.quota.Snapshot(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, snapshot)
}
