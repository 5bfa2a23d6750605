package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/internal/models"
	"github.com/noah-isme/prepx-tracker-api/pkg/response"
)

type assessmentService interface {
	NextDifficulty(req dto.NextDifficultyRequest) (*dto.NextDifficultyResponse, error)
	CompleteAssessment(ctx context.Context, userID string, req dto.CompleteAssessmentRequest) (*models.AssessmentOutcome, error)
	IsAssessmentCompleted(ctx context.Context, userID, topic string) (bool, error)
	GetAssessmentResult(ctx context.Context, userID, topic string) (*models.AssessmentResult, error)
}

// AssessmentHandler exposes diagnostic endpoints.
type AssessmentHandler struct {
	service assessmentService
}

// NewAssessmentHandler builds a new handler.
func NewAssessmentHandler(service assessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

// NextDifficulty godoc
// @Summary Difficulty of the next diagnostic round
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body dto.NextDifficultyRequest true "Round state"
// @Success 200 {object} response.Envelope
// @Router /assessments/next-difficulty [post]
func (h *AssessmentHandler) NextDifficulty(c *gin.Context) {
	var req dto.NextDifficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	resp, err := h.service.NextDifficulty(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Complete godoc
// @Summary Commit a finished diagnostic
// @Tags Assessments
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param payload body dto.CompleteAssessmentRequest true "Diagnostic answers"
// @Success 201 {object} response.Envelope
// @Router /users/{userId}/assessments [post]
func (h *AssessmentHandler) Complete(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CompleteAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	outcome, err := h.service.CompleteAssessment(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, outcome)
}

// Get godoc
// @Summary Stored diagnostic result for a topic
// @Tags Assessments
// @Produce json
// @Param userId path string true "User ID"
// @Param topic path string true "Topic name, with '/' encoded as %2F"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId}/assessments/{topic} [get]
func (h *AssessmentHandler) Get(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.GetAssessmentResult(c.Request.Context(), userID, c.Param("topic"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Status godoc
// @Summary Whether a topic has a committed diagnostic
// @Tags Assessments
// @Produce json
// @Param userId path string true "User ID"
// @Param topic path string true "Topic name, with '/' encoded as %2F"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/assessments/{topic}/status [get]
func (h *AssessmentHandler) Status(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	topic := c.Param("topic")
	completed, err := h.service.IsAssessmentCompleted(c.Request.Context(), userID, topic)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.AssessmentStatusResponse{Topic: topic, Completed: completed})
}
