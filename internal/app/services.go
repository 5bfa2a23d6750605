package app

import (
	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/practiceapi"
	"github.com/noah-isme/prepx-tracker-api/internal/repository"
	"github.com/noah-isme/prepx-tracker-api/internal/service"
	"github.com/noah-isme/prepx-tracker-api/pkg/config"
)

// Services is the wired service graph shared by the HTTP server and the CLI.
type Services struct {
	Metrics     *service.MetricsService
	Cache       *service.CacheService
	Store       *service.StatsStore
	Recorder    *service.RecorderService
	Assessments *service.AssessmentService
	Analytics   *service.AnalyticsService
	Sessions    *service.SessionService
	Syllabus    *service.SyllabusService
}

// Practice groups the external question generator and grader.
type Practice interface {
	service.QuestionGenerator
	service.AnswerGrader
}

// NewServices wires every service on top of backend. A nil practice falls back to
// the HTTP client for cfg.PracticeAPI.
func NewServices(cfg *config.Config, logger *zap.Logger, backend *Backend, practice Practice) *Services {
	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	var cacheRepo service.CacheRepository
	if backend.Redis != nil {
		cacheRepo = repository.NewCacheRepository(backend.Redis, logger)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logger, cfg.Analytics.CacheEnabled)

	store := service.NewStatsStore(backend.Stats, cacheSvc, metrics, logger)
	recorder := service.NewRecorderService(store, metrics, validate, logger, cfg.Location())
	assessments := service.NewAssessmentService(store, metrics, validate, logger)

	if practice == nil {
		practice = practiceapi.NewClient(cfg.PracticeAPI.BaseURL, cfg.PracticeAPI.Timeout, logger)
	}

	return &Services{
		Metrics:     metrics,
		Cache:       cacheSvc,
		Store:       store,
		Recorder:    recorder,
		Assessments: assessments,
		Analytics:   service.NewAnalyticsService(store, cacheSvc, metrics, validate, logger),
		Sessions:    service.NewSessionService(store, assessments, recorder, practice, practice, validate, logger, cfg.Sessions.TTL),
		Syllabus:    service.NewSyllabusService(store, logger),
	}
}
