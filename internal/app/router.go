package app

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/prepx-tracker-api/api/swagger"
	"github.com/noah-isme/prepx-tracker-api/internal/handler"
	"github.com/noah-isme/prepx-tracker-api/internal/middleware"
	"github.com/noah-isme/prepx-tracker-api/pkg/config"
	"github.com/noah-isme/prepx-tracker-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/prepx-tracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/prepx-tracker-api/pkg/middleware/requestid"
)

// NewRouter mounts every endpoint on a fresh gin engine.
func NewRouter(cfg *config.Config, logr *zap.Logger, svcs *Services, checks map[string]func(ctx context.Context) error) *gin.Engine {
	r := gin.New()
	// topic, subject and module names may contain '/' sent as %2F
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(svcs.Metrics))
	r.Use(middleware.WithResponseMeta())

	readiness := make(map[string]handler.ReadinessCheck, len(checks))
	for name, check := range checks {
		readiness[name] = check
	}
	metricsHandler := handler.NewMetricsHandler(svcs.Metrics, readiness)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	practiceHandler := handler.NewPracticeHandler(svcs.Recorder)
	assessmentHandler := handler.NewAssessmentHandler(svcs.Assessments)
	analyticsHandler := handler.NewAnalyticsHandler(svcs.Analytics)
	sessionHandler := handler.NewSessionHandler(svcs.Sessions)
	syllabusHandler := handler.NewSyllabusHandler(svcs.Syllabus)

	api := r.Group(cfg.APIPrefix)

	api.POST("/assessments/next-difficulty", assessmentHandler.NextDifficulty)
	api.POST("/syllabus/topics", syllabusHandler.Topics)
	api.GET("/analytics/system", analyticsHandler.System)

	users := api.Group("/users/:userId")
	{
		users.POST("/practice/answers", practiceHandler.RecordAnswer)

		users.POST("/assessments", assessmentHandler.Complete)
		users.GET("/assessments/:topic", assessmentHandler.Get)
		users.GET("/assessments/:topic/status", assessmentHandler.Status)

		users.GET("/analytics", analyticsHandler.Stats)
		users.DELETE("/analytics", analyticsHandler.Reset)
		users.GET("/analytics/overview", analyticsHandler.Overview)
		users.GET("/analytics/subjects/:subject", analyticsHandler.Subject)
		users.GET("/analytics/subjects/:subject/modules/:module", analyticsHandler.Module)
		users.GET("/analytics/topics", analyticsHandler.Topics)
		users.GET("/analytics/export", analyticsHandler.Export)

		users.POST("/syllabus/progress", syllabusHandler.Progress)
	}

	sessions := api.Group("/sessions")
	{
		sessions.POST("", sessionHandler.Start)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.POST("/:id/question", sessionHandler.NextQuestion)
		sessions.POST("/:id/answer", sessionHandler.SubmitAnswer)
		sessions.DELETE("/:id", sessionHandler.End)
	}

	return r
}
