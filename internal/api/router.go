package api

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"minecontrol-backend/config"
	"minecontrol-backend/internal/mw"
	"minecontrol-backend/internal/parse"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.Config) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := parse.RegisterValidators(v); err != nil {
			log.Printf("failed to register request validators: %v", err)
		}
	}

	r := gin.Default()
	r.Use(mw.RequestID())

	r.GET("/healthz", h.Health)
	r.Static(UploadsRoute, cfg.Uploads.Dir)

	// Initialize middleware
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// Responses are cached until the TTL passes or any write succeeds.
	ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/login", h.Login)

		authenticate := mw.Authenticate(h.issuer, cfg.Auth.Required)
		secured := api.Group("", authenticate, caching)

		secured.POST("/attendance/mark", h.MarkAttendance)
		secured.POST("/machinery-usage/mark", h.MarkMachineryUsage)
		secured.POST("/documents/upload", h.UploadDocument)

		h.workers().register(secured, h)
		h.machines().register(secured, h)
		h.documents().register(secured, h)
		h.attendanceRecords().register(secured, h)
		h.usageRecords().register(secured, h)

		admin := mw.RequireRole(cfg.Auth.AdminRole)
		h.roles().register(secured, h, admin)
		h.users().register(secured, h, admin)

		// Reports are rendered on every request and never cached.
		reports := api.Group("/reports", authenticate)
		reports.GET("/attendance", h.AttendanceReport)
		reports.GET("/workers", h.WorkerReport)
		reports.GET("/machinery", h.MachineReport)
		reports.GET("/machinery-usage", h.UsageReport)
		reports.GET("/statistics", h.StatisticsReport)
	}

	return r
}
