package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/internal/models"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
	"github.com/noah-isme/prepx-tracker-api/pkg/export"
)

var exportHeaders = []string{"subject", "module", "topic", "questions", "correct", "accuracy", "mastery", "classification", "assessed", "initial_mastery"}

// ExportFile is a rendered analytics export.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// AnalyticsService serves read views over a learner's statistics, caching derived views.
type AnalyticsService struct {
	store     *StatsStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(store *StatsStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		store:     store,
		cache:     cache,
		metrics:   metrics,
		validator: ensureValidator(validate),
		logger:    logger,
		now:       time.Now,
	}
}

// GetAnalytics returns the raw statistics record.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, userID string) (*models.PracticeStats, error) {
	return s.store.Load(ctx, userID)
}

// Overview returns the dashboard summary. The boolean reports a cache hit.
func (s *AnalyticsService) Overview(ctx context.Context, userID string) (*models.AnalyticsOverview, bool, error) {
	overview, hit, err := cachedView(ctx, s.cache, userID, makeAnalyticsCacheKey("overview", userID), func() (models.AnalyticsOverview, error) {
		stats, err := s.store.Load(ctx, userID)
		if err != nil {
			return models.AnalyticsOverview{}, err
		}
		return Overview(stats), nil
	})
	if err != nil {
		return nil, false, err
	}
	return &overview, hit, nil
}

// Subject returns one subject's breakdown. Unknown subjects yield an empty breakdown.
func (s *AnalyticsService) Subject(ctx context.Context, userID, subject string) (*models.SubjectBreakdown, bool, error) {
	breakdown, hit, err := cachedView(ctx, s.cache, userID, makeAnalyticsCacheKey("subject", userID, subject), func() (models.SubjectBreakdown, error) {
		stats, err := s.store.Load(ctx, userID)
		if err != nil {
			return models.SubjectBreakdown{}, err
		}
		return subjectBreakdown(stats, subject), nil
	})
	if err != nil {
		return nil, false, err
	}
	return &breakdown, hit, nil
}

// Module returns one module's breakdown.
func (s *AnalyticsService) Module(ctx context.Context, userID, subject, module string) (*models.ModuleBreakdown, bool, error) {
	breakdown, hit, err := cachedView(ctx, s.cache, userID, makeAnalyticsCacheKey("module", userID, subject, module), func() (models.ModuleBreakdown, error) {
		stats, err := s.store.Load(ctx, userID)
		if err != nil {
			return models.ModuleBreakdown{}, err
		}
		return moduleBreakdown(stats, subject, module), nil
	})
	if err != nil {
		return nil, false, err
	}
	return &breakdown, hit, nil
}

// Topics lists hierarchical topic rows, optionally restricted to a subject or module.
func (s *AnalyticsService) Topics(ctx context.Context, userID string, query dto.TopicsQuery) ([]models.TopicRow, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, validationError(err)
	}
	stats, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []models.TopicRow
	switch {
	case query.Module != "":
		rows = TopicRows(stats, query.Subject, query.Module)
	case query.Subject != "":
		for _, module := range ModulesForSubject(stats, query.Subject) {
			rows = append(rows, TopicRows(stats, query.Subject, module)...)
		}
	default:
		rows = AllTopicRows(stats)
	}

	sortKey := query.Sort
	if sortKey == "" {
		sortKey = SortByName
	}
	return SortTopics(rows, sortKey), nil
}

// Reset wipes the user's statistics.
func (s *AnalyticsService) Reset(ctx context.Context, userID string) error {
	if err := s.store.Reset(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("practice stats reset", zap.String("user_id", userID))
	return nil
}

// Export renders the user's topic table as CSV or PDF.
func (s *AnalyticsService) Export(ctx context.Context, userID, format string) (*ExportFile, error) {
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "unsupported export format")
	}
	stats, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := Overview(stats)
	title := fmt.Sprintf("Practice analytics for %s: %d questions, %d%% accuracy, %s practiced, streak %d",
		userID, overview.TotalQuestions, overview.Accuracy, overview.TimeSpentLabel, overview.CurrentStreak)
	payload, err := export.Render(parsed, export.Dataset{Headers: exportHeaders, Rows: exportRows(stats)}, title)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("prepx-analytics-%s-%s.%s", filenameSafe(userID), s.now().UTC().Format("20060102"), parsed),
		ContentType: parsed.ContentType(),
		Payload:     payload,
	}, nil
}

// SystemMetrics returns the process instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.SystemMetrics {
	return s.metrics.Snapshot()
}

// exportRows lists every hierarchical topic, followed by flat-only topics that were
// practiced without a subject and module.
func exportRows(stats *models.PracticeStats) []map[string]string {
	rows := AllTopicRows(stats)
	seen := lo.SliceToMap(rows, func(r models.TopicRow) (string, struct{}) { return r.Topic, struct{}{} })

	flatOnly := lo.Filter(lo.Keys(stats.TopicStats), func(name string, _ int) bool {
		_, ok := seen[name]
		return !ok
	})
	sort.Strings(flatOnly)
	for _, name := range flatOnly {
		flat := stats.TopicStats[name]
		row := topicRow("", "", models.TopicEntry{Name: name, Performance: &models.TopicPerformance{
			Questions: flat.Questions,
			Correct:   flat.Correct,
			Mastery:   flat.Mastery,
		}})
		if result, ok := stats.Assessments[name]; ok {
			row.Assessed = true
			row.InitialMastery = lo.ToPtr(result.InitialMastery)
		}
		rows = append(rows, row)
	}

	return lo.Map(rows, func(r models.TopicRow, _ int) map[string]string {
		out := map[string]string{
			"subject":        r.Subject,
			"module":         r.Module,
			"topic":          r.Topic,
			"questions":      strconv.Itoa(r.Questions),
			"correct":        strconv.Itoa(r.Correct),
			"accuracy":       strconv.Itoa(r.Accuracy),
			"mastery":        strconv.FormatFloat(r.Mastery, 'f', -1, 64),
			"classification": string(r.Classification),
			"assessed":       strconv.FormatBool(r.Assessed),
		}
		if r.InitialMastery != nil {
			out["initial_mastery"] = strconv.Itoa(*r.InitialMastery)
		}
		return out
	})
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func filenameSafe(value string) string {
	cleaned := strings.Trim(unsafeFilenameChars.ReplaceAllString(value, "_"), "_")
	if cleaned == "" {
		return "user"
	}
	return cleaned
}
