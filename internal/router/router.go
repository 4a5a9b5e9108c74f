// Package router wires the HTTP surface.
package router

import (
	"github.com/gin-gonic/gin"

	"billdex/internal/config"
	"billdex/internal/handler"
	"billdex/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health     *handler.HealthHandler
	Files      *handler.FileHandler
	Extraction *handler.ExtractionHandler
	Bills      *handler.BillHandler
	Admin      *handler.AdminHandler
}

// Setup builds the gin engine with all middleware and routes.
func Setup(cfg *config.Config, h Handlers) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)

	api := r.Group("/api/v1")
	{
		files := api.Group("/files")
		{
			files.POST("", h.Files.Upload)
			files.GET("", h.Files.List)
			files.GET("/:id", h.Files.Get)
			files.GET("/:id/download", h.Files.Download)
			files.DELETE("/:id", h.Files.Delete)
			files.POST("/:id/extract", h.Extraction.Extract)
		}

		api.GET("/extractions/:id", h.Extraction.GetJob)

		bills := api.Group("/bills")
		{
			bills.GET("", h.Bills.List)
			bills.GET("/export", h.Bills.Export)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/flags", h.Admin.GetFlags)
			admin.PUT("/flags/:key", h.Admin.SetFlag)
			admin.GET("/quota", h.Admin.GetQuota)
		}
	}

	return r
}
