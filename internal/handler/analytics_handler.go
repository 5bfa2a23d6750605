package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/prepx-tracker-api/internal/dto"
	"github.com/noah-isme/prepx-tracker-api/internal/models"
	"github.com/noah-isme/prepx-tracker-api/internal/service"
	"github.com/noah-isme/prepx-tracker-api/pkg/response"
)

type analyticsService interface {
	GetAnalytics(ctx context.Context, userID string) (*models.PracticeStats, error)
	Overview(ctx context.Context, userID string) (*models.AnalyticsOverview, bool, error)
	Subject(ctx context.Context, userID, subject string) (*models.SubjectBreakdown, bool, error)
	Module(ctx context.Context, userID, subject, module string) (*models.ModuleBreakdown, bool, error)
	Topics(ctx context.Context, userID string, query dto.TopicsQuery) ([]models.TopicRow, error)
	Reset(ctx context.Context, userID string) error
	Export(ctx context.Context, userID, format string) (*service.ExportFile, error)
	SystemMetrics() models.SystemMetrics
}

// AnalyticsHandler exposes dashboard-ready analytics endpoints.
type AnalyticsHandler struct {
	analytics analyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Stats godoc
// @Summary Raw practice statistics
// @Tags Analytics
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/analytics [get]
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	stats, err := h.analytics.GetAnalytics(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Overview godoc
// @Summary Headline accuracy, time and streak figures
// @Tags Analytics
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	overview, hit, err := h.analytics.Overview(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, viewMeta(c, hit, start))
}

// Subject godoc
// @Summary Progress and module breakdown for one subject
// @Tags Analytics
// @Produce json
// @Param userId path string true "User ID"
// @Param subject path string true "Subject name"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/analytics/subjects/{subject} [get]
func (h *AnalyticsHandler) Subject(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	breakdown, hit, err := h.analytics.Subject(c.Request.Context(), userID, c.Param("subject"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breakdown, viewMeta(c, hit, start))
}

// Module godoc
// @Summary Topic rows for one module
// @Tags Analytics
// @Produce json
// @Param userId path string true "User ID"
// @Param subject path string true "Subject name"
// @Param module path string true "Module name"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/analytics/subjects/{subject}/modules/{module} [get]
func (h *AnalyticsHandler) Module(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	breakdown, hit, err := h.analytics.Module(c.Request.Context(), userID, c.Param("subject"), c.Param("module"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breakdown, viewMeta(c, hit, start))
}

// Topics godoc
// @Summary Sortable topic table
// @Tags Analytics
// @Produce json
// @Param userId path string true "User ID"
// @Param subject query string false "Subject filter"
// @Param module query string false "Module filter, requires subject"
// @Param sort query string false "name, accuracy or mastery"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/analytics/topics [get]
func (h *AnalyticsHandler) Topics(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.TopicsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err))
		return
	}
	rows, err := h.analytics.Topics(c.Request.Context(), userID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if rows == nil {
		rows = []models.TopicRow{}
	}
	response.JSON(c, http.StatusOK, rows, map[string]interface{}{"count": len(rows)})
}

// Export godoc
// @Summary Download the topic table
// @Tags Analytics
// @Produce text/csv
// @Produce application/pdf
// @Param userId path string true "User ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /users/{userId}/analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err))
		return
	}
	file, err := h.analytics.Export(c.Request.Context(), userID, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// Reset godoc
// @Summary Wipe a user's practice statistics
// @Tags Analytics
// @Param userId path string true "User ID"
// @Success 204
// @Router /users/{userId}/analytics [delete]
func (h *AnalyticsHandler) Reset(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.analytics.Reset(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// System returns instrumentation metrics snapshots.
func (h *AnalyticsHandler) System(c *gin.Context) {
	start := time.Now()
	metrics := h.analytics.SystemMetrics()
	response.JSON(c, http.StatusOK, metrics, viewMeta(c, false, start))
}
