package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/internal/models"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

type assessmentServiceMock struct {
	nextResp       *dto.NextDifficultyResponse
	outcome        *models.AssessmentOutcome
	completed      bool
	result         *models.AssessmentResult
	err            error
	lastTopic      string
	lastComplete   dto.CompleteAssessmentRequest
	completeCalled bool
}

func (m *assessmentServiceMock) NextDifficulty(req dto.NextDifficultyRequest) (*dto.NextDifficultyResponse, error) {
	return m.nextResp, m.err
}

func (m *assessmentServiceMock) CompleteAssessment(ctx context.Context, userID string, req dto.CompleteAssessmentRequest) (*models.AssessmentOutcome, error) {
	m.completeCalled = true
	m.lastComplete = req
	return m.outcome, m.err
}

func (m *assessmentServiceMock) IsAssessmentCompleted(ctx context.Context, userID, topic string) (bool, error) {
	m.lastTopic = topic
	return m.completed, m.err
}

func (m *assessmentServiceMock) GetAssessmentResult(ctx context.Context, userID, topic string) (*models.AssessmentResult, error) {
	m.lastTopic = topic
	return m.result, m.err
}

func TestAssessmentHandlerNextDifficulty(t *testing.T) {
	handler := NewAssessmentHandler(&assessmentServiceMock{
		nextResp: &dto.NextDifficultyResponse{QuestionNumber: 2, Difficulty: "hard"},
	})

	c, w := newJSONContext(http.MethodPost, "/assessments/next-difficulty",
		`{"question_number":2,"previous_correct":true,"current_difficulty":"medium"}`, nil)

	handler.NextDifficulty(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "hard", data["difficulty"])
}

func TestAssessmentHandlerComplete(t *testing.T) {
	mockSvc := &assessmentServiceMock{outcome: &models.AssessmentOutcome{InitialMastery: 75, Classification: models.SkillLevelAdvanced}}
	handler := NewAssessmentHandler(mockSvc)

	c, w := newJSONContext(http.MethodPost, "/users/u-1/assessments",
		`{"topic":"Arrays","questions":[{"difficulty":"medium","is_correct":true}]}`,
		gin.Params{{Key: "userId", Value: "u-1"}})

	handler.Complete(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.completeCalled)
	assert.Equal(t, "Arrays", mockSvc.lastComplete.Topic)
	require.Len(t, mockSvc.lastComplete.Questions, 1)
	assert.Equal(t, "medium", mockSvc.lastComplete.Questions[0].Difficulty)
}

func TestAssessmentHandlerGetNotFound(t *testing.T) {
	mockSvc := &assessmentServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "assessment not found")}
	handler := NewAssessmentHandler(mockSvc)

	c, w := newJSONContext(http.MethodGet, "/users/u-1/assessments/Linked%20Lists", "",
		gin.Params{{Key: "userId", Value: "u-1"}, {Key: "topic", Value: "Linked Lists"}})

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Linked Lists", mockSvc.lastTopic)
}

func TestAssessmentHandlerStatus(t *testing.T) {
	handler := NewAssessmentHandler(&assessmentServiceMock{completed: true})

	c, w := newJSONContext(http.MethodGet, "/users/u-1/assessments/Arrays/status", "",
		gin.Params{{Key: "userId", Value: "u-1"}, {Key: "topic", Value: "Arrays"}})

	handler.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Arrays", data["topic"])
	assert.Equal(t, true, data["completed"])
}
