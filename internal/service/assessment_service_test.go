package service

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/internal/models"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

func newTestAssessments(t *testing.T) (*AssessmentService, *StatsStore) {
	t.Helper()
	store := newTestStore(newMemStatsRepo())
	svc := NewAssessmentService(store, NewMetricsService(), nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

func diagnostic(pairs ...interface{}) []dto.AssessmentQuestionInput {
	out := make([]dto.AssessmentQuestionInput, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, dto.AssessmentQuestionInput{
			Difficulty: pairs[i].(string),
			IsCorrect:  lo.ToPtr(pairs[i+1].(bool)),
		})
	}
	return out
}

func TestCompleteAssessmentArraysScenario(t *testing.T) {
	svc, store := newTestAssessments(t)
	ctx := context.Background()

	outcome, err := svc.CompleteAssessment(ctx, "u", dto.CompleteAssessmentRequest{
		Topic:     "Arrays",
		Questions: diagnostic("easy", true, "medium", true, "hard", false, "medium", true, "hard", true),
	})
	require.NoError(t, err)
	assert.Equal(t, 75, outcome.InitialMastery)
	assert.Equal(t, models.SkillLevelAdvanced, outcome.Classification)
	assert.Equal(t, 4, outcome.TotalCorrect)
	assert.Equal(t, 80, outcome.Accuracy)

	result, err := svc.GetAssessmentResult(ctx, "u", "Arrays")
	require.NoError(t, err)
	assert.Equal(t, 75, result.InitialMastery)
	assert.Equal(t, 4, result.TotalCorrect)
	assert.Len(t, result.Questions, 5)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), result.CompletedAt)

	stats, err := store.Load(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, &models.TopicStat{Questions: 0, Correct: 0, Mastery: 75}, stats.TopicStats["Arrays"])
	assert.Zero(t, stats.TotalQuestions, "a diagnostic does not count as practice")
	assert.Empty(t, stats.SubjectModuleTopicStats)

	completed, err := svc.IsAssessmentCompleted(ctx, "u", "Arrays")
	require.NoError(t, err)
	assert.True(t, completed)
}

func TestCompleteAssessmentSeedsHierarchicalLeaf(t *testing.T) {
	svc, store := newTestAssessments(t)
	ctx := context.Background()

	_, err := svc.CompleteAssessment(ctx, "u", dto.CompleteAssessmentRequest{
		Topic:     "Heaps",
		Subject:   "CS",
		Module:    "Data Structures",
		Questions: diagnostic("medium", false, "easy", true),
	})
	require.NoError(t, err)

	stats, err := store.Load(ctx, "u")
	require.NoError(t, err)
	leaf := stats.SubjectModuleTopicStats["CS"]["Data Structures"]["Heaps"]
	require.NotNil(t, leaf)
	assert.True(t, leaf.AssessmentCompleted)
	assert.Equal(t, 40.0, leaf.Mastery)
	assert.Zero(t, leaf.Questions)
	require.NotNil(t, leaf.AssessmentResult)
	assert.Equal(t, 40, leaf.AssessmentResult.InitialMastery)
}

func TestCompleteAssessmentOverwritesPreviousResult(t *testing.T) {
	svc, _ := newTestAssessments(t)
	ctx := context.Background()

	_, err := svc.CompleteAssessment(ctx, "u", dto.CompleteAssessmentRequest{Topic: "Sorting", Questions: diagnostic("hard", true)})
	require.NoError(t, err)
	outcome, err := svc.CompleteAssessment(ctx, "u", dto.CompleteAssessmentRequest{Topic: "Sorting", Questions: diagnostic("hard", false)})
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.InitialMastery)
	assert.Equal(t, models.SkillLevelBeginner, outcome.Classification)

	result, err := svc.GetAssessmentResult(ctx, "u", "Sorting")
	require.NoError(t, err)
	assert.Equal(t, 0, result.InitialMastery)
}

func TestCompleteAssessmentEmptyDiagnosticScoresZero(t *testing.T) {
	svc, _ := newTestAssessments(t)

	outcome, err := svc.CompleteAssessment(context.Background(), "u", dto.CompleteAssessmentRequest{Topic: "Tries"})
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.InitialMastery)
	assert.Equal(t, 0, outcome.TotalQuestions)
}

func TestCompleteAssessmentValidation(t *testing.T) {
	svc, _ := newTestAssessments(t)
	ctx := context.Background()

	_, err := svc.CompleteAssessment(ctx, "u", dto.CompleteAssessmentRequest{Topic: "Arrays", Questions: diagnostic("extreme", true)})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.CompleteAssessment(ctx, "u", dto.CompleteAssessmentRequest{
		Topic:     "Arrays",
		Questions: diagnostic("easy", true, "easy", true, "easy", true, "easy", true, "easy", true, "easy", true),
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.CompleteAssessment(ctx, "u", dto.CompleteAssessmentRequest{Questions: diagnostic("easy", true)})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAssessmentLookupsForUnknownTopic(t *testing.T) {
	svc, _ := newTestAssessments(t)
	ctx := context.Background()

	completed, err := svc.IsAssessmentCompleted(ctx, "u", "Graphs")
	require.NoError(t, err)
	assert.False(t, completed)

	_, err = svc.GetAssessmentResult(ctx, "u", "Graphs")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAssessmentServiceNextDifficulty(t *testing.T) {
	svc, _ := newTestAssessments(t)

	resp, err := svc.NextDifficulty(dto.NextDifficultyRequest{QuestionNumber: 1, PreviousCorrect: false, CurrentDifficulty: "hard"})
	require.NoError(t, err)
	assert.Equal(t, "medium", resp.Difficulty)

	resp, err = svc.NextDifficulty(dto.NextDifficultyRequest{QuestionNumber: 3, PreviousCorrect: true, CurrentDifficulty: "medium"})
	require.NoError(t, err)
	assert.Equal(t, "hard", resp.Difficulty)

	_, err = svc.NextDifficulty(dto.NextDifficultyRequest{QuestionNumber: 6, CurrentDifficulty: "medium"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.NextDifficulty(dto.NextDifficultyRequest{QuestionNumber: 2, CurrentDifficulty: "impossible"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
