package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

type sessionServiceMock struct {
	session     *dto.SessionResponse
	feedback    *dto.AnswerFeedback
	err         error
	lastID      string
	lastStart   dto.StartSessionRequest
	lastAnswer  dto.SubmitAnswerRequest
	startCalled bool
	endCalled   bool
}

func (m *sessionServiceMock) Start(ctx context.Context, req dto.StartSessionRequest) (*dto.SessionResponse, error) {
	m.startCalled = true
	m.lastStart = req
	return m.session, m.err
}

func (m *sessionServiceMock) Get(ctx context.Context, id string) (*dto.SessionResponse, error) {
	m.lastID = id
	return m.session, m.err
}

func (m *sessionServiceMock) NextQuestion(ctx context.Context, id string) (*dto.SessionResponse, error) {
	m.lastID = id
	return m.session, m.err
}

func (m *sessionServiceMock) SubmitAnswer(ctx context.Context, id string, req dto.SubmitAnswerRequest) (*dto.AnswerFeedback, error) {
	m.lastID = id
	m.lastAnswer = req
	return m.feedback, m.err
}

func (m *sessionServiceMock) End(ctx context.Context, id string) error {
	m.endCalled = true
	m.lastID = id
	return m.err
}

func TestSessionHandlerStart(t *testing.T) {
	mockSvc := &sessionServiceMock{session: &dto.SessionResponse{ID: "s-1", Mode: "assessment", TotalRounds: 5}}
	handler := NewSessionHandler(mockSvc)

	c, w := newJSONContext(http.MethodPost, "/sessions", `{"user_id":"u-1","topic":"Arrays","force_assessment":true}`, nil)

	handler.Start(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.startCalled)
	assert.Equal(t, "u-1", mockSvc.lastStart.UserID)
	assert.True(t, mockSvc.lastStart.ForceAssessment)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "assessment", data["mode"])
}

func TestSessionHandlerStartInvalidBody(t *testing.T) {
	mockSvc := &sessionServiceMock{}
	handler := NewSessionHandler(mockSvc)

	c, w := newJSONContext(http.MethodPost, "/sessions", `[`, nil)

	handler.Start(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.startCalled)
}

func TestSessionHandlerNextQuestionUpstreamFailure(t *testing.T) {
	mockSvc := &sessionServiceMock{err: appErrors.Clone(appErrors.ErrUpstream, "question generation failed")}
	handler := NewSessionHandler(mockSvc)

	c, w := newJSONContext(http.MethodPost, "/sessions/s-1/question", "", gin.Params{{Key: "id", Value: "s-1"}})

	handler.NextQuestion(c)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "s-1", mockSvc.lastID)
}

func TestSessionHandlerSubmitAnswer(t *testing.T) {
	mockSvc := &sessionServiceMock{feedback: &dto.AnswerFeedback{Correct: true, CorrectAnswer: "B", UpdatedMastery: 71}}
	handler := NewSessionHandler(mockSvc)

	c, w := newJSONContext(http.MethodPost, "/sessions/s-1/answer", `{"selected_option":"B"}`, gin.Params{{Key: "id", Value: "s-1"}})

	handler.SubmitAnswer(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "B", mockSvc.lastAnswer.SelectedOption)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["correct"])
	assert.EqualValues(t, 71, data["updated_mastery"])
}

func TestSessionHandlerSubmitAnswerWithoutPendingQuestion(t *testing.T) {
	handler := NewSessionHandler(&sessionServiceMock{err: appErrors.Clone(appErrors.ErrPreconditionFailed, "no pending question")})

	c, w := newJSONContext(http.MethodPost, "/sessions/s-1/answer", `{"selected_option":"A"}`, gin.Params{{Key: "id", Value: "s-1"}})

	handler.SubmitAnswer(c)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}

func TestSessionHandlerEnd(t *testing.T) {
	mockSvc := &sessionServiceMock{}
	handler := NewSessionHandler(mockSvc)

	c, w := newJSONContext(http.MethodDelete, "/sessions/s-1", "", gin.Params{{Key: "id", Value: "s-1"}})

	handler.End(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mockSvc.endCalled)
}

func TestSessionHandlerGetNotFound(t *testing.T) {
	handler := NewSessionHandler(&sessionServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "session not found")})

	c, w := newJSONContext(http.MethodGet, "/sessions/missing", "", gin.Params{{Key: "id", Value: "missing"}})

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
