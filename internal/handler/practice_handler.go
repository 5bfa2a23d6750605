package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/internal/models"
	"github.com/noah-isme/prepx-tracker-api/pkg/response"
)

type practiceRecorder interface {
	RecordQuestion(ctx context.Context, userID string, req dto.RecordQuestionRequest) (*models.PracticeStats, error)
}

// PracticeHandler records graded practice answers.
type PracticeHandler struct {
	recorder practiceRecorder
}

// NewPracticeHandler builds a new handler.
func NewPracticeHandler(recorder practiceRecorder) *PracticeHandler {
	return &PracticeHandler{recorder: recorder}
}

// RecordAnswer godoc
// @Summary Record a graded practice answer
// @Tags Practice
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param payload body dto.RecordQuestionRequest true "Answer payload"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/practice/answers [post]
func (h *PracticeHandler) RecordAnswer(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.RecordQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	stats, err := h.recorder.RecordQuestion(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}
