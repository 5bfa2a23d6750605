package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/internal/models"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

// RecorderService applies practice events to a learner's statistics.
type RecorderService struct {
	store     *StatsStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NewRecorderService constructs the recorder. Streak days are evaluated in loc.
func NewRecorderService(store *StatsStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *RecorderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &RecorderService{
		store:     store,
		metrics:   metrics,
		validator: ensureValidator(validate),
		logger:    logger,
		location:  loc,
		now:       time.Now,
	}
}

// RecordQuestion folds one answer into the user's statistics and returns the persisted snapshot.
func (s *RecorderService) RecordQuestion(ctx context.Context, userID string, req dto.RecordQuestionRequest) (*models.PracticeStats, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "topic is required")
	}
	mastery := *req.Mastery
	if math.IsNaN(mastery) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mastery must be a number")
	}
	correct := *req.IsCorrect
	subject := strings.TrimSpace(req.Subject)
	module := strings.TrimSpace(req.Module)

	stats, err := s.store.Update(ctx, userID, func(stats *models.PracticeStats) error {
		stats.TotalQuestions++
		if correct {
			stats.CorrectAnswers++
		}
		stats.TotalTimeSpent += req.TimeSpent
		applyStreak(stats, s.now(), s.location)

		flat := stats.FlatTopic(topic)
		flat.Questions++
		if correct {
			flat.Correct++
		}
		flat.Mastery = mastery

		if subject != "" && module != "" {
			perf := stats.TopicPerformance(subject, module, topic)
			perf.Questions++
			if correct {
				perf.Correct++
			}
			perf.Mastery = mastery
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAnswer(correct)
	s.logger.Debug("practice answer recorded",
		zap.String("user_id", userID),
		zap.String("topic", topic),
		zap.Bool("correct", correct),
		zap.Int("streak", stats.CurrentStreak),
	)
	return stats, nil
}
