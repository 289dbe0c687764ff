package analytics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leadtracker/internal/analytics"
	"leadtracker/internal/domain"
	"leadtracker/internal/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service       *Service
	timelineLimit int
}

func NewHandler(service *Service, timelineLimit int) *Handler {
	return &Handler{service: service, timelineLimit: timelineLimit}
}

// GetSummary handles GET /api/v1/analytics/summary
func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// GetStages handles GET /api/v1/analytics/stages
func (h *Handler) GetStages(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary.Stages)
}

// GetSources handles GET /api/v1/analytics/sources
func (h *Handler) GetSources(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary.Sources)
}

// GetTrend handles GET /api/v1/analytics/trend?period=week&from=&to=
func (h *Handler) GetTrend(c *gin.Context) {
	points, err := h.service.Trend(c.Request.Context(), trendQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, points)
}

// GetTimeline handles GET /api/v1/analytics/timeline?limit=
func (h *Handler) GetTimeline(c *gin.Context) {
	limit := h.timelineLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.FromError(c, domain.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	acts, err := h.service.Timeline(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, acts)
}

// Export handles GET /api/v1/analytics/export and streams an xlsx workbook.
func (h *Handler) Export(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context(), trendQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := analytics.WriteReport(&buf, report); err != nil {
		response.FromError(c, err)
		return
	}

	filename := fmt.Sprintf("pipeline-report-%s.xlsx", report.GeneratedAt.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func trendQuery(c *gin.Context) TrendQuery {
	return TrendQuery{
		Period: c.Query("period"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}
}
