// Package app wires the record store, cache and HTTP modules into one gin
// engine.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"leadtracker/internal/analytics"
	"leadtracker/internal/config"
	"leadtracker/internal/middleware"
	analyticsmod "leadtracker/internal/modules/analytics"
	"leadtracker/internal/modules/campaigns"
	"leadtracker/internal/modules/customers"
	"leadtracker/internal/modules/leads"
	"leadtracker/internal/modules/profile"
	"leadtracker/internal/pipeline"
	"leadtracker/internal/pkg/metrics"
	"leadtracker/internal/repository"
)

// Cache is the analytics summary cache; cache.Client and cache.Noop both
// satisfy it.
type Cache interface {
	GetSummary(ctx context.Context) (analytics.Summary, bool, error)
	Generation(ctx context.Context) (int64, error)
	SetSummary(ctx context.Context, gen int64, s analytics.Summary) error
	Invalidate(ctx context.Context) error
	Ping(ctx context.Context) error
}

type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Cache   Cache
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	Engine  *pipeline.Engine
}

func NewRouter(d Deps) *gin.Engine {
	if config.IsProdLike(d.Config.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	leadRepo := repository.NewLeadRepository(d.DB)
	activityRepo := repository.NewActivityRepository(d.DB)
	campaignRepo := repository.NewCampaignRepository(d.DB)
	profileRepo := repository.NewProfileRepository(d.DB)

	leadService := leads.NewService(leads.Deps{
		Engine:      d.Engine,
		Leads:       leadRepo,
		Activities:  activityRepo,
		Profile:     profileRepo,
		Cache:       d.Cache,
		Metrics:     d.Metrics,
		Logger:      d.Logger.Named("leads"),
		PhoneRegion: d.Config.DefaultPhoneRegion,
	})
	leadHandler := leads.NewHandler(leadService)
	customerHandler := customers.NewHandler(customers.NewService(leadService, d.Config.DefaultPhoneRegion))
	campaignHandler := campaigns.NewHandler(
		campaigns.NewService(campaignRepo, leadRepo, d.Metrics, d.Logger.Named("campaigns")),
	)
	analyticsHandler := analyticsmod.NewHandler(
		analyticsmod.NewService(leadRepo, activityRepo, d.Cache, d.Metrics, d.Logger.Named("analytics")),
		d.Config.TimelineDefaultLimit,
	)
	profileHandler := profile.NewHandler(profile.NewService(profileRepo, d.Metrics, d.Logger.Named("profile")))

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(d.Logger),
		middleware.CORS(d.Config.CORSAllowedOrigins),
		d.Metrics.Middleware(),
		middleware.AccessLog(d.Logger),
	)

	r.GET("/health", healthHandler(d))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		leadHandler.RegisterRoutes(v1)
		customerHandler.RegisterRoutes(v1)
		campaignHandler.RegisterRoutes(v1)
		analyticsHandler.RegisterRoutes(v1)
		profileHandler.RegisterRoutes(v1)
	}
	return r
}

func healthHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "healthy", "database": "up", "cache": "up"}
		code := http.StatusOK

		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			d.Logger.Warn("database health check failed", zap.Error(err))
			status["status"], status["database"] = "unhealthy", "down"
			code = http.StatusServiceUnavailable
		}
		if err := d.Cache.Ping(ctx); err != nil {
			d.Logger.Warn("cache health check failed", zap.Error(err))
			status["status"], status["cache"] = "unhealthy", "down"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, status)
	}
}
