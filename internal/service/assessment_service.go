package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/internal/models"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

// AssessmentService commits diagnostics and answers questions about them.
type AssessmentService struct {
	store     *StatsStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssessmentService constructs the service.
func NewAssessmentService(store *StatsStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		store:     store,
		metrics:   metrics,
		validator: ensureValidator(validate),
		logger:    logger,
		now:       time.Now,
	}
}

// NextDifficulty validates req and applies the progression rule.
func (s *AssessmentService) NextDifficulty(req dto.NextDifficultyRequest) (*dto.NextDifficultyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	current := models.DifficultyMedium
	if req.CurrentDifficulty != "" {
		current, _ = models.ParseDifficulty(req.CurrentDifficulty)
	}
	next := NextDifficulty(req.QuestionNumber, req.PreviousCorrect, current)
	return &dto.NextDifficultyResponse{QuestionNumber: req.QuestionNumber, Difficulty: string(next)}, nil
}

// CompleteAssessment stores the diagnostic result for a topic, replacing any earlier one,
// and seeds the topic's mastery with the initial score.
func (s *AssessmentService) CompleteAssessment(ctx context.Context, userID string, req dto.CompleteAssessmentRequest) (*models.AssessmentOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "topic is required")
	}

	questions := make([]models.AssessmentQuestion, 0, len(req.Questions))
	for _, q := range req.Questions {
		difficulty, err := models.ParseDifficulty(q.Difficulty)
		if err != nil {
			return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid difficulty")
		}
		questions = append(questions, models.AssessmentQuestion{Difficulty: difficulty, IsCorrect: *q.IsCorrect})
	}
	return s.commit(ctx, userID, topic, strings.TrimSpace(req.Subject), strings.TrimSpace(req.Module), questions)
}

func (s *AssessmentService) commit(ctx context.Context, userID, topic, subject, module string, questions []models.AssessmentQuestion) (*models.AssessmentOutcome, error) {
	if len(questions) > TotalQuestions {
		return nil, appErrors.Clone(appErrors.ErrValidation, "too many diagnostic questions")
	}

	result := &models.AssessmentResult{
		Questions:      questions,
		TotalCorrect:   countCorrect(questions),
		InitialMastery: InitialMastery(questions),
		CompletedAt:    s.now().UTC(),
	}

	_, err := s.store.Update(ctx, userID, func(stats *models.PracticeStats) error {
		stats.Assessments[topic] = result
		stats.FlatTopic(topic).Mastery = float64(result.InitialMastery)
		if subject != "" && module != "" {
			perf := stats.TopicPerformance(subject, module, topic)
			perf.Mastery = float64(result.InitialMastery)
			perf.AssessmentCompleted = true
			perf.AssessmentResult = result
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	level := ClassifyMastery(result.InitialMastery)
	s.metrics.RecordAssessment(level)
	s.logger.Info("assessment completed",
		zap.String("user_id", userID),
		zap.String("topic", topic),
		zap.Int("initial_mastery", result.InitialMastery),
		zap.String("level", string(level)),
	)
	return &models.AssessmentOutcome{
		InitialMastery: result.InitialMastery,
		Classification: level,
		TotalCorrect:   result.TotalCorrect,
		TotalQuestions: len(questions),
		Accuracy:       roundPercent(float64(result.TotalCorrect), TotalQuestions),
	}, nil
}

// IsAssessmentCompleted reports whether topic has a committed diagnostic.
func (s *AssessmentService) IsAssessmentCompleted(ctx context.Context, userID, topic string) (bool, error) {
	stats, err := s.store.Load(ctx, userID)
	if err != nil {
		return false, err
	}
	result, ok := stats.Assessments[strings.TrimSpace(topic)]
	return ok && !result.CompletedAt.IsZero(), nil
}

// GetAssessmentResult returns the committed diagnostic for topic or ErrNotFound.
func (s *AssessmentService) GetAssessmentResult(ctx context.Context, userID, topic string) (*models.AssessmentResult, error) {
	stats, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	result, ok := stats.Assessments[strings.TrimSpace(topic)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
	}
	return result, nil
}
