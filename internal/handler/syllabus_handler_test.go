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
)

type syllabusServiceMock struct {
	lastRaw  []byte
	lastUser string
	err      error
}

func (m *syllabusServiceMock) Flatten(raw []byte) (*dto.SyllabusTopicsResponse, error) {
	m.lastRaw = raw
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SyllabusTopicsResponse{Subject: "CS", Topics: []models.TopicRef{{Subject: "CS", Module: "DS", Topic: "Arrays"}}}, nil
}

func (m *syllabusServiceMock) Progress(ctx context.Context, userID string, raw []byte) (*dto.SyllabusProgressResponse, error) {
	m.lastUser = userID
	m.lastRaw = raw
	return &dto.SyllabusProgressResponse{Subject: "CS"}, m.err
}

func TestSyllabusHandlerTopicsForwardsRawBody(t *testing.T) {
	mockSvc := &syllabusServiceMock{}
	handler := NewSyllabusHandler(mockSvc)
	payload := `{"subject":"CS","modules":[{"name":"DS","topics":[{"name":"Arrays"}]}]}`

	c, w := newJSONContext(http.MethodPost, "/syllabus/topics", payload, nil)

	handler.Topics(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, payload, string(mockSvc.lastRaw))
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["topics"], 1)
}

func TestSyllabusHandlerProgress(t *testing.T) {
	mockSvc := &syllabusServiceMock{}
	handler := NewSyllabusHandler(mockSvc)

	c, w := newJSONContext(http.MethodPost, "/users/u-1/syllabus/progress", `{"modules":[]}`, gin.Params{{Key: "userId", Value: "u-1"}})

	handler.Progress(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", mockSvc.lastUser)
}
