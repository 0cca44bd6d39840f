package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/greenroots/greenroots-backend/config"
	_ "github.com/greenroots/greenroots-backend/docs"
	"github.com/greenroots/greenroots-backend/internal/auditlog"
	"github.com/greenroots/greenroots-backend/internal/auth"
	"github.com/greenroots/greenroots-backend/internal/content"
	"github.com/greenroots/greenroots-backend/internal/event"
	"github.com/greenroots/greenroots-backend/internal/live"
	"github.com/greenroots/greenroots-backend/internal/pipeline"
	"github.com/greenroots/greenroots-backend/internal/submission"
	"github.com/greenroots/greenroots-backend/middleware"
)

// Deps are the services the HTTP surface is built from.
type Deps struct {
	Pipeline    *pipeline.Pipeline
	Publisher   content.Publisher
	Hub         *live.Hub
	Submissions *submission.Service
	Events      *event.Service
	AuditSvc    auditlog.Service
	AuthSvc     auth.Service
}

func Setup(r *gin.Engine, cfg *config.Config, d Deps) error {
	// Rate limits key on c.ClientIP(), so only configured proxies may set it.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.AuditMiddleware())

	contentHandler := pipeline.NewHandler(d.Pipeline, d.Publisher, d.AuditSvc)

	r.GET("/", contentHandler.Page)
	r.GET("/healthz", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{"status": "OK", "pipeline": d.Pipeline.Running()}
		if !d.Pipeline.Running() {
			status = http.StatusServiceUnavailable
			body["status"] = "STARTING"
		}
		c.JSON(status, body)
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// ========== Content ==========
	contentRoutes := api.Group("/content")
	{
		// registered before :section so the literal wins
		contentRoutes.GET("/stream", d.Hub.Stream)
		contentRoutes.GET("/:section", contentHandler.GetSection)
	}

	// ========== Events ==========
	eventHandler := event.NewHandler(d.Events)
	eventRoutes := api.Group("/events")
	{
		eventRoutes.GET("", eventHandler.ListEvents)
		eventRoutes.GET("/:id", eventHandler.GetEvent)
		eventRoutes.POST("/:id/register", middleware.SubmissionRateLimiter(), eventHandler.Register)
	}

	// ========== Submissions ==========
	submissionHandler := submission.NewHandler(d.Submissions, d.AuditSvc)
	api.POST("/submissions/:collection", middleware.SubmissionRateLimiter(), submissionHandler.Submit)

	// ========== Admin ==========
	authHandler := auth.NewHandler(d.AuthSvc, d.AuditSvc)
	api.POST("/admin/login", middleware.SubmissionRateLimiter(), authHandler.Login)

	auditHandler := auditlog.NewHandler(d.AuditSvc)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(d.AuthSvc))
	{
		admin.GET("/submissions", submissionHandler.ListSubmissions)
		admin.GET("/submissions/:collection/export", submissionHandler.ExportSubmissions)
		admin.DELETE("/submissions", submissionHandler.ClearSubmissions)

		admin.PUT("/content/:section", contentHandler.PublishSection)

		admin.GET("/auditlogs", auditHandler.GetAuditLogs)
	}
	return nil
}
