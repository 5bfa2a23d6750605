package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/pkg/response"
)

type syllabusService interface {
	Flatten(raw []byte) (*dto.SyllabusTopicsResponse, error)
	Progress(ctx context.Context, userID string, raw []byte) (*dto.SyllabusProgressResponse, error)
}

// SyllabusHandler accepts structured syllabus documents.
type SyllabusHandler struct {
	syllabus syllabusService
}

// NewSyllabusHandler builds a new handler.
func NewSyllabusHandler(syllabus syllabusService) *SyllabusHandler {
	return &SyllabusHandler{syllabus: syllabus}
}

// Topics godoc
// @Summary Flatten a structured syllabus into topic references
// @Tags Syllabus
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /syllabus/topics [post]
func (h *SyllabusHandler) Topics(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, bindError(err))
		return
	}
	resp, err := h.syllabus.Flatten(raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Progress godoc
// @Summary Annotate a syllabus with the learner's progress
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/syllabus/progress [post]
func (h *SyllabusHandler) Progress(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, bindError(err))
		return
	}
	resp, err := h.syllabus.Progress(c.Request.Context(), userID, raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
